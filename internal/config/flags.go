package config

import (
	"flag"
	"strings"
)

// Overrides holds command-line values for the common configuration keys. Only flags
// that were set on the command line are applied.
type Overrides struct {
	fs *flag.FlagSet

	strategy   string
	mode       string
	valueRange string
	cluster    int
	radius     float64
	markers    bool
	logScore   bool
	decoder    string
	features   string
	background string
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Overrides {
	o := &Overrides{fs: fs}
	fs.StringVar(&o.strategy, "strategy", "", "Blend strategy: inverse-distance or proximity")
	fs.StringVar(&o.mode, "mode", "", "Pointer mode: preview or commit")
	fs.StringVar(&o.valueRange, "range", "", "Value range: saturate or extended")
	fs.IntVar(&o.cluster, "cluster", 0, "Cluster size in pixels")
	fs.Float64Var(&o.radius, "radius", 0, "Proximity radius in map units")
	fs.BoolVar(&o.markers, "markers", false, "Draw feature markers")
	fs.BoolVar(&o.logScore, "log-score", true, "Log the proximity score when it changes")
	fs.StringVar(&o.decoder, "decoder", "", "Background decoder: go or opencv")
	fs.StringVar(&o.features, "features", "", "Feature dataset (.gpkg or .geojson)")
	fs.StringVar(&o.background, "background", "", "Background image")
	return o
}

// Apply copies the flags that were set onto c and validates the result.
func (o *Overrides) Apply(c *Config) error {
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			c.Strategy = strings.ToLower(o.strategy)
		case "mode":
			c.Mode = Mode(strings.ToLower(o.mode))
		case "range":
			c.ValueRange = strings.ToLower(o.valueRange)
		case "cluster":
			c.ClusterSize = o.cluster
		case "radius":
			c.Radius = o.radius
		case "markers":
			c.Markers = o.markers
		case "log-score":
			c.LogScore = o.logScore
		case "decoder":
			c.BackgroundDecoder = o.decoder
		case "features":
			c.FeaturesPath = o.features
		case "background":
			c.BackgroundPath = o.background
		}
	})
	return c.Validate()
}

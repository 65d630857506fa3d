// Command heatrender renders one heat map frame for a pointer position and writes it as PNG.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"

	"tree-heat/internal/app"
	"tree-heat/internal/config"
	"tree-heat/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON config file")
	px := flag.Float64("x", -1, "Pointer X in raster pixels (default: region centre)")
	py := flag.Float64("y", -1, "Pointer Y in raster pixels (default: region centre)")
	down := flag.Bool("down", false, "Primary button held")
	out := flag.String("out", "heat.png", "Output PNG path")
	saveConfig := flag.String("save-config", "", "Write the effective config as JSON to this path")
	showVersion := flag.Bool("version", false, "Print version and exit")
	overrides := config.BindFlags(flag.CommandLine)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := overrides.Apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid command line: %v\n", err)
		os.Exit(1)
	}

	if *saveConfig != "" {
		if err := cfg.Save(*saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved config to %s\n", *saveConfig)
	}

	session, err := app.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", cfg.Title, err)
		os.Exit(1)
	}

	bbox := session.Mapper().BoundingBox()
	if *px < 0 || *py < 0 {
		cx, cy := session.Mapper().GeoToPixel(bbox.Center())
		if *px < 0 {
			*px = cx
		}
		if *py < 0 {
			*py = cy
		}
	}

	frame, err := session.Frame(app.PointerEvent{X: *px, Y: *py, PrimaryDown: *down})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	if err := png.Encode(f, frame.Raster.ToRGBA()); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Failed to write PNG: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Region %s: %s\n", cfg.Title, bbox)
	fmt.Printf("Raster: %dx%d, cluster %d, strategy %s, %s mode\n",
		cfg.Width, cfg.Height, cfg.ClusterSize, cfg.Strategy, cfg.Mode)
	fmt.Printf("Features: %d\n", session.Features().FeatureCount())
	fmt.Printf("\nPointer (%.1f, %.1f) -> candidate (%.3f, %.3f)\n",
		*px, *py, frame.Candidate.X, frame.Candidate.Y)
	fmt.Printf("Proximity score (r=%.1f): %d\n", cfg.Radius, frame.Score)
	if frame.Committed {
		fmt.Printf("Candidate committed\n")
	}
	fmt.Printf("\nField stats over %d cells:\n", frame.Stats.Cells)
	fmt.Printf("  Singular: %d\n", frame.Stats.Singular)
	fmt.Printf("  Mean: %.4f  Min: %.4f  Max: %.4f\n", frame.Stats.Mean, frame.Stats.Min, frame.Stats.Max)
	fmt.Printf("\nWrote %s\n", *out)
}

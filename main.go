// Package main provides the entry point for the tree-heat viewer.
package main

import (
	"context"
	"flag"
	"log"

	treeheat "tree-heat/internal/app"
	"tree-heat/internal/config"
	"tree-heat/internal/version"
	"tree-heat/ui/mainwindow"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const appID = "ch.liebegg.treeheat"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "Path to a JSON config file")
	overrides := config.BindFlags(flag.CommandLine)
	flag.Parse()

	log.Printf("Starting %s", version.String())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := overrides.Apply(cfg); err != nil {
		log.Fatalf("Invalid command line: %v", err)
	}

	session, err := treeheat.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", cfg.Title, err)
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.Settings().SetTheme(&treeheat.Theme{})

	win := mainwindow.New(fyneApp, session, cfg.Title)
	win.Resize(fyne.NewSize(float32(cfg.Width), float32(cfg.Height)))
	win.Run()
	win.ShowAndRun()
}

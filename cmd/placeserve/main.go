// Copyright 2025 The PlaceServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
PlaceServe is a suggestion server for place names, answering prefix queries
over a gazetteer of North American cities with ranked, scored completions.

Usage:

	placeserve [flags]

By default placeserve loads the gazetteer and serves the HTTP API on the
configured address. Pass -c for an interactive CLI session instead.

Flags:

	-version
		Print version information and exit.
	-config string
		Path to a TOML config file (default: the platform config dir).
	-data string
		Path to the gazetteer TSV file (overrides config).
	-addr string
		HTTP listen address, e.g. ":8080" (overrides config).
	-d	Enable debug logging.
	-c	Run the interactive CLI instead of the HTTP server.
	-limit int
		Suggestions shown per query in CLI mode (0 = config default).
	-geo
		CLI mode: rank suggestions by distance from -lat/-lon
		instead of by population.
	-lat float
		Origin latitude for -geo (default from config).
	-lon float
		Origin longitude for -geo (default from config).
	-no-snapshot
		Ignore any binary snapshot and parse the TSV from scratch.

# HTTP API

The server exposes a single query endpoint:

	GET /suggestions?q=<prefix>
	GET /suggestions?q=<prefix>&latitude=<lat>&longitude=<lon>

The first form ranks matches by population; the second ranks them by
proximity to the caller, weighted by population. Responses are JSON:

	{
	  "suggestions": [
	    {
	      "name": "London, ON, Canada",
	      "latitude": "42.98339",
	      "longitude": "-81.23304",
	      "score": 0.9
	    }
	  ]
	}

A missing q parameter is a 400. Malformed coordinates are a 400; coordinates
outside the valid latitude/longitude ranges are a 422. An unmatched prefix is
a 200 with an empty suggestions array.

GET /healthz reports server status and the number of loaded places.

# Configuration

Settings live in a TOML file resolved per platform (XDG config dir on Linux,
Application Support on macOS, AppData on Windows). A default file is written
on first run. Sections:

	[server]  addr
	[data]    tsv_path, snapshot, snapshot_path
	[cli]     default_limit, use_origin, origin_lat, origin_lon

Flags override the file; the file overrides built-in defaults.

# Data

The gazetteer is a GeoNames-style TSV with one place per row. On first load
the parsed directory is cached as a MessagePack snapshot next to the TSV, and
later runs load the snapshot instead of re-parsing. Delete the snapshot or
pass -no-snapshot after changing the TSV.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/placeserve/internal/cli"
	"github.com/bastiangx/placeserve/internal/utils"
	"github.com/bastiangx/placeserve/pkg/config"
	"github.com/bastiangx/placeserve/pkg/gazetteer"
	"github.com/bastiangx/placeserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "placeserve"
	ghLink  = "https://github.com/bastiangx/placeserve"
)

// sigHandler exits cleanly on SIGINT/SIGTERM, running shutdown first
// when one is given.
func sigHandler(shutdown func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		if shutdown != nil {
			shutdown()
		}
		os.Exit(0)
	}()
}

func main() {
	defaultConfig := config.DefaultConfig()

	versionFlag := flag.Bool("version", false, "Print version information and exit")
	configFlag := flag.String("config", "", "Path to a TOML config file")
	dataFlag := flag.String("data", "", "Path to the gazetteer TSV file (overrides config)")
	addrFlag := flag.String("addr", "", "HTTP listen address (overrides config)")
	debugFlag := flag.Bool("d", false, "Enable debug logging")
	cliFlag := flag.Bool("c", false, "Run the interactive CLI instead of the HTTP server")
	limitFlag := flag.Int("limit", 0, "Suggestions shown per query in CLI mode (0 = config default)")
	geoFlag := flag.Bool("geo", false, "CLI mode: rank by distance from -lat/-lon")
	latFlag := flag.Float64("lat", defaultConfig.CLI.OriginLat, "Origin latitude for -geo")
	lonFlag := flag.Float64("lon", defaultConfig.CLI.OriginLon, "Origin longitude for -geo")
	noSnapshotFlag := flag.Bool("no-snapshot", false, "Ignore any snapshot and parse the TSV from scratch")
	flag.Parse()

	if *versionFlag {
		nameStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Bold(true)
		versionStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
		linkStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

		fmt.Printf("%s %s\n%s\n",
			nameStyle.Render(AppName),
			versionStyle.Render(Version),
			linkStyle.Render(ghLink))
		return
	}

	if *debugFlag {
		log.SetLevel(log.DebugLevel)
		log.Debug("Debug mode enabled")
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}

	var appConfig *config.Config
	var configPath string
	if *configFlag != "" {
		appConfig, configPath, err = config.LoadConfigWithPriority(*configFlag)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		configPath, err = pathResolver.GetConfigPath("config.toml")
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		appConfig, err = config.InitConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to init config: %v", err)
		}
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	if *dataFlag != "" {
		appConfig.Data.TSVPath = *dataFlag
	}
	if *addrFlag != "" {
		appConfig.Server.Addr = *addrFlag
	}
	if *noSnapshotFlag {
		appConfig.Data.Snapshot = false
	}

	cliLimit := *limitFlag
	if cliLimit <= 0 {
		cliLimit = appConfig.CLI.DefaultLimit
	}
	useOrigin := *geoFlag || appConfig.CLI.UseOrigin

	dataPath, err := pathResolver.GetDataFile(appConfig.Data.TSVPath)
	if err != nil {
		log.Fatalf("Failed to resolve data file: %v", err)
	}
	log.Debugf("Using data file: (%s)", dataPath)

	directory := gazetteer.NewDirectory()
	count, err := loadGazetteer(directory, dataPath, appConfig.Data)
	if err != nil {
		log.Fatalf("Failed to load gazetteer: %v", err)
	}
	log.Debug("Gazetteer ready", "places", count)

	if *cliFlag {
		sigHandler(nil)
		handler := cli.NewInputHandler(directory, cliLimit, useOrigin, *latFlag, *lonFlag)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	srv := server.NewServer(appConfig.Server.Addr, directory)
	sigHandler(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warnf("Shutdown: %v", err)
		}
	})

	showStartupInfo(dataPath, directory.Len(), appConfig.Server.Addr)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// loadGazetteer fills the directory from the snapshot when one is usable,
// falling back to the TSV and writing a fresh snapshot afterwards.
func loadGazetteer(directory *gazetteer.Directory, tsvPath string, dataCfg config.DataConfig) (int, error) {
	snapPath := dataCfg.SnapshotFileFor(tsvPath)
	if dataCfg.Snapshot && utils.FileExists(snapPath) {
		count, err := directory.LoadSnapshot(snapPath)
		if err == nil {
			log.Debugf("Loaded %d places from snapshot (%s)", count, snapPath)
			return count, nil
		}
		log.Warnf("Snapshot unusable, falling back to TSV: %v", err)
	}

	count, err := directory.LoadTSV(tsvPath)
	if err != nil {
		return 0, err
	}
	if dataCfg.Snapshot {
		if err := directory.SaveSnapshot(snapPath); err != nil {
			log.Warnf("Could not write snapshot: %v", err)
		} else {
			log.Debugf("Snapshot written to (%s)", snapPath)
		}
	}
	return count, nil
}

func showStartupInfo(dataPath string, placeCount int, addr string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("============")
	println(" PlaceServe ")
	println("============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data: ( %s )", dataPath)
	log.Infof("places: [ %s ]", utils.FormatWithCommas(int64(placeCount)))
	log.Infof("listening on: ( %s )", addr)
	log.Info("status: ready")
	println("============")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

/*
Package main implements the completion menu server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

MenuServe ranks and navigates editor completion candidates: fuzzy filtering
with match highlighting, strong/weak bucket ordering on top of provider sort
hints, stable keyboard navigation, and resolve-on-select for expensive
candidate detail. It can operate as a MessagePack IPC server for integration
with editor hosts, or as a CLI application for testing and debugging.

# Usage

Start the server with default settings:

	menuserve

Enable debug mode:

	menuserve -d

Run in CLI mode for interactive testing against a sample dictionary:

	menuserve -c -limit 10

# Configuration

Runtime configuration is managed through a TOML file:

	[matcher]
	result_limit = 100
	strong_threshold = 0.2

	[menu]
	sort_completions = true
	show_docs = true

	[server]
	max_candidates = 5000
	max_query_len = 256

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. A menu opens over
a host-supplied candidate set and is filtered as the user types:

	{"id": "r1", "op": "open", "cands": [{"l": "CreateComponent"}]}
	{"id": "r2", "op": "filter", "q": "Creat"}
	{"id": "r3", "op": "move", "dir": "next"}

Responses carry the ranked entries with highlight positions, the selection
cursor, and microsecond timing. See the server package docs for the full
message set.

# Menu Engine

The core engine lives in the menu package and is embeddable without the
server:

	m := menu.New(id, anchor, buffer, completions, opts)
	m.Filter("Creat")
	m.SelectNext()

Filtering runs on a background dispatcher with monotonic sequence numbers,
so a stale pass can never clobber a newer one.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/menuserve/menuserve/internal/cli"
	"github.com/menuserve/menuserve/pkg/config"
	"github.com/menuserve/menuserve/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "menuserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 24, "Number of candidates to harvest in CLI mode")
	configPath := flag.String("config", "", "Path to config.toml (default: next to the executable)")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ MenuServe ] Ranks and serves editor completion menus!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	path := *configPath
	if path == "" {
		if execPath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(execPath), "config.toml")
		} else {
			path = "config.toml"
		}
	}
	log.Debugf("Using config file: (%s)", path)

	appConfig, err := config.InitConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		inputHandler := cli.NewInputHandler(appConfig, *limit)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	showStartupInfo()

	srv := server.New(appConfig)
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo() {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}

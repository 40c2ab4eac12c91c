// Package main is the entry point for the lazychanges application.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazychanges/internal/app"
	"github.com/chmouel/lazychanges/internal/app/services"
	"github.com/chmouel/lazychanges/internal/buildinfo"
	"github.com/chmouel/lazychanges/internal/config"
	"github.com/chmouel/lazychanges/internal/log"
	"github.com/chmouel/lazychanges/internal/theme"
	"github.com/chmouel/lazychanges/internal/utils"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// Populated by the linker at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	cliApp := &urfavecli.App{
		Name:                 "lazychanges",
		Usage:                "A TUI to browse the files changed by a commit or between two refs",
		ArgsUsage:            "[LEFT_REF] [RIGHT_REF]",
		Version:              buildinfo.Summary(),
		EnableBashCompletion: true,
		Flags:                globalFlags(),
		Action:               runTUI,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTUI is the default action that launches the TUI.
func runTUI(c *urfavecli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("lazychanges requires an interactive terminal")
	}

	setupDebugLog(c.String("debug-log"))

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
	if c.String("debug-log") == "" {
		if cfg.DebugLog != "" {
			setupDebugLog(cfg.DebugLog)
		} else {
			_ = log.SetFile("")
		}
	}

	if name := c.String("theme"); name != "" {
		if !theme.Known(name) {
			_ = log.Close()
			return fmt.Errorf("unknown theme %q", name)
		}
		cfg.Theme = name
	}
	if c.Bool("flat") {
		cfg.Nested = false
	}
	if c.Bool("no-icons") {
		cfg.ShowIcons = false
	}
	if c.Bool("no-watch") {
		cfg.AutoRefresh = false
	}

	cwd := c.String("directory")
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			_ = log.Close()
			return fmt.Errorf("resolving working directory: %w", err)
		}
	}

	vc := viewContextFromArgs(c, cfg)
	model := app.NewModel(cfg, cwd, vc)
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	model.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		_ = log.Close()
		return err
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
	return nil
}

// viewContextFromArgs maps positional refs to the view context. One ref
// shows that commit against its parent; two refs show the diff between
// them. No refs default to HEAD.
func viewContextFromArgs(c *urfavecli.Context, cfg *config.AppConfig) services.ViewContext {
	vc := services.ViewContext{
		RightRef:  "HEAD",
		FocusPath: c.String("focus"),
		Nested:    cfg.Nested,
	}
	switch c.NArg() {
	case 0:
	case 1:
		vc.RightRef = c.Args().Get(0)
	default:
		vc.LeftRef = c.Args().Get(0)
		vc.RightRef = c.Args().Get(1)
	}
	return vc
}

func setupDebugLog(path string) {
	if path == "" {
		return
	}
	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

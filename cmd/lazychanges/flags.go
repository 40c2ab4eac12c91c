package main

import (
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns the top-level command line flags.
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "config-file",
			Aliases: []string{"c"},
			Usage:   "Path to the configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Write debug logs to `FILE`",
		},
		&urfavecli.StringFlag{
			Name:  "theme",
			Usage: "Color theme (dracula, clean-light, nord)",
		},
		&urfavecli.StringFlag{
			Name:    "directory",
			Aliases: []string{"C"},
			Usage:   "Repository directory (defaults to the working directory)",
		},
		&urfavecli.StringFlag{
			Name:    "focus",
			Aliases: []string{"p"},
			Usage:   "Scope the view to `PATH` (a file or directory)",
		},
		&urfavecli.BoolFlag{
			Name:  "flat",
			Usage: "Start with the flat presentation instead of nested folders",
		},
		&urfavecli.BoolFlag{
			Name:  "no-icons",
			Usage: "Disable Nerd Font icons",
		},
		&urfavecli.BoolFlag{
			Name:  "no-watch",
			Usage: "Disable automatic refresh when the repository changes",
		},
	}
}

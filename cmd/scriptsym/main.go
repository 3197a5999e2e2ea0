package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/standardbeagle/scriptsym/internal/config"
	"github.com/standardbeagle/scriptsym/internal/debug"
	"github.com/standardbeagle/scriptsym/internal/version"

	"github.com/urfave/cli/v2"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	root := c.String("root")

	if root != "" {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
		}
		root = absRoot
	}

	cfg, err := config.LoadWithRoot(configPath, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if mode := c.String("mode"); mode != "" {
		cfg.Discovery.Mode = mode
	}
	if overrides := c.String("overrides"); overrides != "" {
		cfg.Overrides = overrides
	}
	if n := c.Int("parallelism"); n > 0 {
		cfg.Performance.Parallelism = n
	}
	return cfg, nil
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:                   "scriptsym",
		Usage:                  "Compute script names and metadata for C# symbols",
		Version:                version.FullInfo(),
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		// exit codes are applied by main
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: " + config.FileName + " in the project root)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Discovery mode: document, direct or all (overrides config)",
			},
			&cli.StringFlag{
				Name:  "overrides",
				Usage: "Override table in TOML (overrides config)",
			},
			&cli.IntFlag{
				Name:  "parallelism",
				Usage: "Maximum number of files processed at once (0 = auto)",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug output to a log file in the temp directory",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.Bool("debug-log") {
				return nil
			}
			path, err := debug.InitDebugLogFile()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.ErrWriter, "debug log: %s\n", path)
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			{
				Name:    "names",
				Aliases: []string{"n"},
				Usage:   "List the script name of every symbol in the table",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
					&cli.StringFlag{
						Name:  "origin",
						Usage: "Only list symbols from one tier: document, direct or indirect",
					},
				},
				ArgsUsage: "[symbol pattern...]",
				Action:    namesCommand,
			},
			{
				Name:   "check",
				Usage:  "Report diagnostics; exits non-zero when any error is found",
				Action: checkCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "warnings-as-errors",
						Usage: "Fail on warnings too",
					},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code := 1
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			code = exit.ExitCode()
		}
		stop()
		os.Exit(code)
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/benford/pkg/config"
	"github.com/mchmarny/benford/pkg/logging"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "benford"
	appConfigKey = "app-config"

	debugFlagName     = "debug"
	configDirFlagName = "config"
	formatFlagName    = "format"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Dir    string
	Config *config.Config
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Benford's Law conformance of numeric datasets",
		Metadata:              map[string]any{},
		Flags: []urfave.Flag{
			&urfave.BoolFlag{
				Name:    debugFlagName,
				Usage:   "Prints verbose logs (optional, default: false)",
				Sources: urfave.EnvVars("BENFORD_DEBUG"),
			},
			&urfave.StringFlag{
				Name:  configDirFlagName,
				Usage: fmt.Sprintf("Path to the config directory (optional, default: $HOME/.%s)", appName),
			},
			&urfave.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [json, yaml] (optional, overrides config)",
			},
		},
		Commands: []*urfave.Command{
			newScoreCmd(),
			newDistCmd(),
			newAuthCmd(),
			newServerCmd(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			if cmd.Bool(debugFlagName) {
				logging.SetDefaultCLILogger("debug")
			}

			dir := cmd.String(configDirFlagName)
			if dir == "" {
				dir = getHomeDir()
			}

			cfg, err := config.ReadOrCreate(dir)
			if err != nil {
				return ctx, fmt.Errorf("reading config: %w", err)
			}

			if f := cmd.String(formatFlagName); f != "" {
				cfg.Format = f
				if err := cfg.Validate(); err != nil {
					return ctx, err
				}
			}

			slog.Debug("config loaded", "dir", dir, "format", cfg.Format, "threshold", cfg.Threshold)
			cmd.Metadata[appConfigKey] = &appConfig{
				Dir:    dir,
				Config: cfg,
			}
			return ctx, nil
		},
	}
}

func getHomeDir() string {
	dir, _, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return filepath.Join(".", "."+appName)
	}
	return dir
}

func writer(cmd *urfave.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func encode(w io.Writer, format string, v any) error {
	if format == config.FormatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

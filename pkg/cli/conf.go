package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mchmarny/jobfraud/pkg/config"
	"github.com/urfave/cli/v3"
)

const saveConfigFlag = "save"

func configCmd(a *appConfig) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the effective configuration",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  saveConfigFlag,
				Usage: "Write the effective configuration to the config file",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if err := a.requireConfig(); err != nil {
				return err
			}

			if cmd.Bool(saveConfigFlag) {
				path := cmd.String(configFlag)
				if path == "" {
					dir, _, err := config.GetOrCreateHomeDir(appName)
					if err != nil {
						return fmt.Errorf("resolving config dir: %w", err)
					}
					path = filepath.Join(dir, config.FileName)
				}
				if err := config.Save(path, a.cfg); err != nil {
					return err
				}
				slog.Info("config saved", "path", path)
			}
			return a.encode(a.cfg)
		},
	}
}

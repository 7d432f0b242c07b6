package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/davicafu/taskforge/internal/config"
	"github.com/davicafu/taskforge/pkg/logger"
)

// version se sobrescribe en build con -ldflags "-X main.version=...".
var version = ""

// ---------------- Main ----------------
func main() {
	app := &cli.App{
		Name:  "taskforge",
		Usage: "Task tracker with change-event distribution",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a config file (yaml, json, toml)",
				EnvVars: []string{"TASKFORGE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Log level (debug, info, warn, error); overrides the config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "api",
				Usage:  "Start the task API",
				Action: withConfig(runAPI),
			},
			{
				Name:   "eventlog",
				Usage:  "Start the event log service",
				Action: withConfig(runEventLog),
			},
			{
				Name:   "consumer",
				Usage:  "Start the Kafka change-event consumer",
				Action: withConfig(runConsumer),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Logger().Error("application error", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withConfig carga la configuración e inicializa zap antes de la acción.
func withConfig(action func(c *cli.Context, cfg *config.Config, log *zap.Logger) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		if lvl := c.String("log-level"); lvl != "" {
			cfg.LogLevel = lvl
		}
		if version != "" {
			cfg.Version = version
		}

		if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		log := logger.Logger() // obtiene logger estructurado
		defer logger.Sync()    // flush buffers al salir

		log.Info("⚙️ Configuration loaded",
			zap.String("command", c.Command.Name),
			zap.String("environment", cfg.Environment),
			zap.String("version", cfg.Version),
		)
		return action(c, cfg, log)
	}
}

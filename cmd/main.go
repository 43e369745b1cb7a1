package main

import (
	"context"
	"os"

	"github.com/desertthunder/tagsync/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := ""
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loaded, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loaded
			configPath = defaultConfigPath
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	// Deployment platforms inject credentials through the environment; those
	// win over whatever the config file carries.
	config.ApplyEnv()

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "tagsync",
		Usage:    "Publish Airtable-curated tags to YouTube videos",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

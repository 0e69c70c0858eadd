package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/MichelW6667/lrcget/internal/library"
	"github.com/MichelW6667/lrcget/internal/lrclib"
	"github.com/MichelW6667/lrcget/internal/shared"
)

func main() {
	godotenv.Load()

	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	client := lrclib.NewClient(config.LRCLib.Instance, nil)
	client.SetRateLimit(config.LRCLib.RateLimit)

	// The store stays nil until setup has created the database; commands
	// that need it tell the user to run setup.
	var store *library.Store
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			store = library.NewStore(db)
		} else {
			logger.Warn("failed to open database", "path", config.Database.Path, "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Client: client,
		Store:  store,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "lrcget",
		Usage:    "Download synced lyrics for your offline music library",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

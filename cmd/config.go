package main

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"

	"github.com/MichelW6667/lrcget/internal/shared"
)

// ConfigShow prints the effective configuration after file and environment
// overrides have been applied.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") {
		return r.writeJSON(r.config, true)
	}

	data, err := toml.Marshal(r.config)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	return r.writePlain("%s", data)
}

// ConfigInit writes a fresh config file from the embedded defaults.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	return r.writePlain("Edit it, then run 'lrcget setup'\n")
}

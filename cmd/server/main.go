package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/stockroomhq/stockroom/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool `help:"Enable debug mode."`
		Version kong.VersionFlag
		Serve   commands.ServeCmd   `cmd:"" help:"Start the HTTP API server"`
		Migrate commands.MigrateCmd `cmd:"" help:"Run pending database migrations"`
		Seed    commands.SeedCmd    `cmd:"" help:"Load fixture data from a YAML file"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}

package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/nordfjell/anbud/cmd/anbud/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Orgs      commands.OrgsCmd      `cmd:"" help:"List organizations"`
		Projects  commands.ProjectsCmd  `cmd:"" help:"List projects in the current organization"`
		Duplicate commands.DuplicateCmd `cmd:"" help:"Duplicate a project with its calculators"`
		Seed      commands.SeedCmd      `cmd:"" help:"Seed demo data"`
		Token     commands.TokenCmd     `cmd:"" help:"Generate a session token"`
		Config    string                `help:"Path to the configuration file." env:"ANBUD_CONFIG"`
		Debug     bool                  `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Config: cli.Config, Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}

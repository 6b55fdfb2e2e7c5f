package commands

import (
	"context"
	"fmt"

	"github.com/nordfjell/anbud/internal/engine"
)

type DuplicateCmd struct {
	Project string `help:"ID of the project to duplicate" required:""`
	Session string `help:"Session token" env:"ANBUD_SESSION"`
}

func (d *DuplicateCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}

	if _, err := requirePrincipal(cfg, d.Session); err != nil {
		return err
	}

	e, closer, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	newID, err := e.DuplicateProject(ctx, d.Project)
	if err != nil {
		if engine.IsNotFound(err) {
			return fmt.Errorf("project %s not found", d.Project)
		}
		return fmt.Errorf("failed to duplicate project: %w", err)
	}

	g := e.Snapshot()
	proj, _ := g.ProjectByID(newID)

	fmt.Printf("Duplicated project %s as %q (%s) with %d calculators\n",
		d.Project, proj.Name, newID, len(g.CalculatorsByProject(newID)))

	return nil
}

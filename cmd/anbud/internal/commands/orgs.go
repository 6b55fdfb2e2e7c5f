package commands

import (
	"context"
	"fmt"
	"strings"
)

type OrgsCmd struct {
	Session string `help:"Session token" env:"ANBUD_SESSION"`
}

func (o *OrgsCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}

	if _, err := requirePrincipal(cfg, o.Session); err != nil {
		return err
	}

	e, closer, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	g := e.Snapshot()

	if len(g.Organizations) == 0 {
		fmt.Println("No organizations found.")
		return nil
	}

	fmt.Printf("%-36s %-25s %-30s %s\n", "ID", "Name", "Email", "Current")
	fmt.Println(strings.Repeat("─", 100))

	for _, org := range g.Organizations {
		current := ""
		if org.ID == g.CurrentOrganizationID {
			current = "*"
		}
		fmt.Printf("%-36s %-25s %-30s %s\n", org.ID, truncate(org.Name, 25), truncate(org.Email, 30), current)
	}

	fmt.Printf("\nTotal organizations: %d\n", len(g.Organizations))
	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

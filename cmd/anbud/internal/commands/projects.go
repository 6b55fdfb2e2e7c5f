package commands

import (
	"context"
	"fmt"
	"strings"
)

type ProjectsCmd struct {
	Org     string `help:"Organization to select before listing" default:""`
	Session string `help:"Session token" env:"ANBUD_SESSION"`
}

func (p *ProjectsCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}

	if _, err := requirePrincipal(cfg, p.Session); err != nil {
		return err
	}

	e, closer, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	if p.Org != "" {
		e.SetCurrentOrganization(p.Org)
	}

	g := e.Snapshot()

	org, ok := g.CurrentOrganization()
	if !ok {
		fmt.Println("No organization selected.")
		return nil
	}

	projects := g.ProjectsForCurrentOrg()

	fmt.Printf("Projects in %s:\n", org.Name)

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	fmt.Printf("%-36s %-25s %-20s %-10s %-12s %s\n",
		"ID", "Name", "Customer", "Status", "Start", "Calculators")
	fmt.Println(strings.Repeat("─", 120))

	for _, proj := range projects {
		customer := "unknown"
		if c, ok := g.CustomerByID(proj.CustomerID); ok {
			customer = c.Name
		}

		fmt.Printf("%-36s %-25s %-20s %-10s %-12s %d\n",
			proj.ID,
			truncate(proj.Name, 25),
			truncate(customer, 20),
			proj.Status,
			proj.StartDate.Format("2006-01-02"),
			len(g.CalculatorsByProject(proj.ID)))
	}

	fmt.Printf("\nTotal projects: %d\n", len(projects))
	return nil
}

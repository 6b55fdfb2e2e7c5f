package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/nordfjell/anbud/internal/models"
)

type SeedCmd struct {
	Session string `help:"Session token" env:"ANBUD_SESSION"`
}

func (s *SeedCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := loadConfig(globals)
	if err != nil {
		return err
	}

	if _, err := requirePrincipal(cfg, s.Session); err != nil {
		return err
	}

	e, closer, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer()

	if err := e.AddOrganization(ctx, models.OrganizationFields{
		Name:    "Fjellbygg AS",
		Email:   "post@fjellbygg.no",
		Phone:   "+47 912 34 567",
		Website: "https://fjellbygg.no",
	}); err != nil {
		return fmt.Errorf("failed to seed organization: %w", err)
	}

	g := e.Snapshot()
	org := g.Organizations[len(g.Organizations)-1]

	if err := e.AddCustomer(ctx, models.CustomerFields{
		OrganizationID: org.ID,
		Name:           "Kari Berg",
		Email:          "kari.berg@example.no",
		Phone:          "+47 987 65 432",
		Address:        "Storgata 12, 7030 Trondheim",
	}); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	g = e.Snapshot()
	customer := g.Customers[len(g.Customers)-1]

	budget := 450000.0
	if err := e.AddProject(ctx, models.ProjectFields{
		OrganizationID: org.ID,
		CustomerID:     customer.ID,
		Name:           "Garasje med loft",
		Description:    "Dobbel garasje med isolert loft",
		Status:         models.StatusPlanning,
		StartDate:      time.Now().UTC(),
		Budget:         &budget,
	}); err != nil {
		return fmt.Errorf("failed to seed project: %w", err)
	}

	g = e.Snapshot()
	project := g.Projects[len(g.Projects)-1]

	entries := []models.Entry{
		{ID: "e1", Kind: models.EntryMaterial, Description: "Betong B30", Quantity: 12, Unit: "m3", UnitCost: 1800, MarkupPct: 15},
		{ID: "e2", Kind: models.EntryLabor, Description: "Grunnarbeid", Quantity: 40, Unit: "t", UnitCost: 750, MarkupPct: 20},
		{ID: "e3", Kind: models.EntryEquipment, Description: "Minigraver", Quantity: 3, Unit: "dag", UnitCost: 2500, MarkupPct: 10},
	}

	if err := e.AddCalculator(ctx, models.CalculatorFields{
		OrganizationID: org.ID,
		ProjectID:      project.ID,
		Name:           "Grunnarbeid og fundament",
		Entries:        entries,
		Summary:        models.CalculateSummary(entries),
	}); err != nil {
		return fmt.Errorf("failed to seed calculator: %w", err)
	}

	fmt.Printf("Seeded organization %q with one customer, one project and one calculator\n", org.Name)
	return nil
}

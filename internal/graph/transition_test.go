package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nordfjell/anbud/internal/models"
)

func org(id, name string) models.Organization {
	return models.Organization{ID: id, Name: name}
}

func customer(id, orgID, name string) models.Customer {
	return models.Customer{ID: id, OrganizationID: orgID, Name: name}
}

func project(id, orgID, customerID, name string) models.Project {
	return models.Project{ID: id, OrganizationID: orgID, CustomerID: customerID, Name: name, Status: models.StatusActive}
}

func calculator(id, orgID, projectID, name string) models.Calculator {
	return models.Calculator{ID: id, OrganizationID: orgID, ProjectID: projectID, Name: name}
}

// fixture builds a two-organization graph with customers, projects and
// calculators hanging off both tenants.
func fixture() Graph {
	g := Apply(Graph{}, LoadGraph{
		Organizations: []models.Organization{org("o1", "Fjellbygg"), org("o2", "Kystbygg")},
		Customers: []models.Customer{
			customer("c1", "o1", "Berg"),
			customer("c2", "o1", "Strand"),
			customer("c3", "o2", "Vik"),
		},
		Projects: []models.Project{
			project("p1", "o1", "c1", "Garasje"),
			project("p2", "o1", "c2", "Tilbygg"),
			project("p3", "o2", "c3", "Naust"),
		},
		Calculators: []models.Calculator{
			calculator("k1", "o1", "p1", "Grunnarbeid"),
			calculator("k2", "o1", "p1", "Tak"),
			calculator("k3", "o2", "p3", "Kai"),
		},
	})
	return g
}

func TestLoadGraphSelectsFirstOrganization(t *testing.T) {
	t.Run("empty load leaves no selection", func(t *testing.T) {
		g := Apply(Graph{}, LoadGraph{})
		require.Empty(t, g.CurrentOrganizationID)
		require.Empty(t, g.Organizations)
	})

	t.Run("first organization in return order is selected", func(t *testing.T) {
		g := fixture()
		require.Equal(t, "o1", g.CurrentOrganizationID)
	})
}

func TestAddOrganizationAutoSelectsFirst(t *testing.T) {
	g := Apply(Graph{}, AddOrganization{Organization: org("o1", "Fjellbygg")})
	require.Equal(t, "o1", g.CurrentOrganizationID)

	g = Apply(g, AddOrganization{Organization: org("o2", "Kystbygg")})
	require.Equal(t, "o1", g.CurrentOrganizationID, "selection must not move on later adds")
	require.Len(t, g.Organizations, 2)
}

func TestUpdateOrganizationReplacesMatchingOnly(t *testing.T) {
	g := fixture()
	updated := org("o1", "Fjellbygg AS")
	next := Apply(g, UpdateOrganization{Organization: updated})

	got, ok := next.OrganizationByID("o1")
	require.True(t, ok)
	require.Equal(t, "Fjellbygg AS", got.Name)

	other, ok := next.OrganizationByID("o2")
	require.True(t, ok)
	require.Equal(t, "Kystbygg", other.Name)

	// Unknown id is a no-op.
	same := Apply(next, UpdateOrganization{Organization: org("missing", "x")})
	require.Equal(t, next.Organizations, same.Organizations)
}

func TestDeleteOrganizationCascades(t *testing.T) {
	g := fixture()
	next := Apply(g, DeleteOrganization{ID: "o1"})

	// Every entity scoped to o1 is gone, everything under o2 is untouched.
	require.Len(t, next.Organizations, 1)
	require.Equal(t, []models.Customer{customer("c3", "o2", "Vik")}, next.Customers)
	require.Equal(t, []models.Project{project("p3", "o2", "c3", "Naust")}, next.Projects)
	require.Equal(t, []models.Calculator{calculator("k3", "o2", "p3", "Kai")}, next.Calculators)

	// No surviving entity references a removed organization.
	for _, c := range next.Customers {
		_, ok := next.OrganizationByID(c.OrganizationID)
		require.True(t, ok)
	}
	for _, p := range next.Projects {
		_, ok := next.OrganizationByID(p.OrganizationID)
		require.True(t, ok)
	}
	for _, c := range next.Calculators {
		_, ok := next.OrganizationByID(c.OrganizationID)
		require.True(t, ok)
	}
}

func TestDeleteOrganizationRemovesStaleChildrenByOrgID(t *testing.T) {
	// A project whose customer reference is stale but whose organization id
	// matches must still be removed; the cascade walks organization ids, not
	// parent links.
	g := fixture()
	g = Apply(g, AddProject{Project: project("p9", "o1", "gone-customer", "Orphan")})

	next := Apply(g, DeleteOrganization{ID: "o1"})
	_, ok := next.ProjectByID("p9")
	require.False(t, ok)
}

func TestDeleteOrganizationMovesSelection(t *testing.T) {
	t.Run("selection moves to first remaining", func(t *testing.T) {
		g := fixture()
		next := Apply(g, DeleteOrganization{ID: "o1"})
		require.Equal(t, "o2", next.CurrentOrganizationID)
	})

	t.Run("selection clears when none remain", func(t *testing.T) {
		g := fixture()
		next := Apply(g, DeleteOrganization{ID: "o1"})
		next = Apply(next, DeleteOrganization{ID: "o2"})
		require.Empty(t, next.CurrentOrganizationID)
	})

	t.Run("selection stays when another organization is deleted", func(t *testing.T) {
		g := fixture()
		next := Apply(g, DeleteOrganization{ID: "o2"})
		require.Equal(t, "o1", next.CurrentOrganizationID)
	})
}

func TestDeleteCustomerCascadesToProjectsOnly(t *testing.T) {
	g := fixture()
	next := Apply(g, DeleteCustomer{ID: "c1"})

	_, ok := next.CustomerByID("c1")
	require.False(t, ok)
	_, ok = next.ProjectByID("p1")
	require.False(t, ok)

	// Calculators of the removed project survive this event; only
	// DeleteProject removes them.
	_, ok = next.CalculatorByID("k1")
	require.True(t, ok)
	_, ok = next.CalculatorByID("k2")
	require.True(t, ok)
}

func TestDeleteCustomerIsIdempotent(t *testing.T) {
	g := fixture()
	once := Apply(g, DeleteCustomer{ID: "c1"})
	twice := Apply(once, DeleteCustomer{ID: "c1"})
	require.Equal(t, once, twice)
}

func TestDeleteProjectCascadesToCalculators(t *testing.T) {
	g := fixture()
	next := Apply(g, DeleteProject{ID: "p1"})

	_, ok := next.ProjectByID("p1")
	require.False(t, ok)
	require.Empty(t, next.CalculatorsByProject("p1"))
	_, ok = next.CalculatorByID("k3")
	require.True(t, ok)
}

func TestDeleteCalculator(t *testing.T) {
	g := fixture()
	next := Apply(g, DeleteCalculator{ID: "k2"})
	_, ok := next.CalculatorByID("k2")
	require.False(t, ok)
	require.Len(t, next.Calculators, 2)
}

func TestSetCurrentOrganizationIsUnchecked(t *testing.T) {
	g := fixture()
	next := Apply(g, SetCurrentOrganization{ID: "o2"})
	require.Equal(t, "o2", next.CurrentOrganizationID)

	// Deliberately permissive: no existence check at this layer.
	next = Apply(next, SetCurrentOrganization{ID: "nope"})
	require.Equal(t, "nope", next.CurrentOrganizationID)
}

func TestDuplicateProjectAppendsCloneSet(t *testing.T) {
	g := fixture()
	clone := project("p4", "o1", "c1", "Garasje (Kopi)")
	cloneCalcs := []models.Calculator{
		calculator("k4", "o1", "p4", "Grunnarbeid (Kopi)"),
		calculator("k5", "o1", "p4", "Tak (Kopi)"),
	}

	next := Apply(g, DuplicateProject{Project: clone, Calculators: cloneCalcs})
	require.Len(t, next.Projects, len(g.Projects)+1)
	require.Len(t, next.Calculators, len(g.Calculators)+2)
	require.Equal(t, cloneCalcs, next.CalculatorsByProject("p4"))
}

func TestMoveCalculatorTouchesOnlyProjectIDAndUpdatedAt(t *testing.T) {
	g := fixture()
	movedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	before, _ := g.CalculatorByID("k1")
	next := Apply(g, MoveCalculator{ID: "k1", NewProjectID: "p2", MovedAt: movedAt})
	after, ok := next.CalculatorByID("k1")
	require.True(t, ok)

	require.Equal(t, "p2", after.ProjectID)
	require.Equal(t, movedAt, after.UpdatedAt)

	// Field-level equality on everything else.
	after.ProjectID = before.ProjectID
	after.UpdatedAt = before.UpdatedAt
	require.Equal(t, before, after)
}

func TestApplyNeverMutatesInput(t *testing.T) {
	g := fixture()
	orgsBefore := len(g.Organizations)
	customersBefore := len(g.Customers)

	_ = Apply(g, DeleteOrganization{ID: "o1"})
	_ = Apply(g, AddCustomer{Customer: customer("c9", "o1", "Ny")})
	_ = Apply(g, MoveCalculator{ID: "k1", NewProjectID: "p2", MovedAt: time.Now()})

	require.Len(t, g.Organizations, orgsBefore)
	require.Len(t, g.Customers, customersBefore)
	k1, _ := g.CalculatorByID("k1")
	require.Equal(t, "p1", k1.ProjectID)
}

func TestCascadeCompletenessOverEventSequences(t *testing.T) {
	// Property: after any DeleteOrganization, no surviving child references
	// a missing organization.
	g := Graph{}
	events := []Event{
		AddOrganization{Organization: org("o1", "A")},
		AddOrganization{Organization: org("o2", "B")},
		AddCustomer{Customer: customer("c1", "o1", "K1")},
		AddCustomer{Customer: customer("c2", "o2", "K2")},
		AddProject{Project: project("p1", "o1", "c1", "P1")},
		AddProject{Project: project("p2", "o2", "c2", "P2")},
		AddCalculator{Calculator: calculator("k1", "o1", "p1", "K")},
		AddCalculator{Calculator: calculator("k2", "o2", "p2", "K")},
		UpdateProject{Project: project("p1", "o1", "c1", "P1b")},
		DeleteOrganization{ID: "o1"},
		DeleteCustomer{ID: "c2"},
		DeleteOrganization{ID: "o2"},
	}

	for _, ev := range events {
		g = Apply(g, ev)
		if _, isDelete := ev.(DeleteOrganization); !isDelete {
			continue
		}
		for _, c := range g.Customers {
			_, ok := g.OrganizationByID(c.OrganizationID)
			require.True(t, ok, "customer %s orphaned", c.ID)
		}
		for _, p := range g.Projects {
			_, ok := g.OrganizationByID(p.OrganizationID)
			require.True(t, ok, "project %s orphaned", p.ID)
		}
		for _, c := range g.Calculators {
			_, ok := g.OrganizationByID(c.OrganizationID)
			require.True(t, ok, "calculator %s orphaned", c.ID)
		}
	}

	require.Empty(t, g.Organizations)
	require.Empty(t, g.CurrentOrganizationID)
}

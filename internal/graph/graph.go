// Package graph holds the in-memory entity graph: one immutable snapshot of
// every cached organization, customer, project and calculator, plus the
// selected-organization pointer. Snapshots are replaced wholesale by Apply,
// never mutated in place, so holding a Graph value is always safe.
package graph

import "github.com/nordfjell/anbud/internal/models"

// Graph is a snapshot of the cached entity graph. Collections preserve the
// remote store's return order for loads and append order for everything
// after that.
type Graph struct {
	Organizations []models.Organization
	Customers     []models.Customer
	Projects      []models.Project
	Calculators   []models.Calculator

	// CurrentOrganizationID scopes all derived views. Empty means no
	// organization is selected (none loaded, or all removed).
	CurrentOrganizationID string
}

// OrganizationByID returns the organization with the given id.
func (g Graph) OrganizationByID(id string) (models.Organization, bool) {
	for _, o := range g.Organizations {
		if o.ID == id {
			return o, true
		}
	}
	return models.Organization{}, false
}

// CustomerByID returns the customer with the given id.
func (g Graph) CustomerByID(id string) (models.Customer, bool) {
	for _, c := range g.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return models.Customer{}, false
}

// ProjectByID returns the project with the given id.
func (g Graph) ProjectByID(id string) (models.Project, bool) {
	for _, p := range g.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// CalculatorByID returns the calculator with the given id.
func (g Graph) CalculatorByID(id string) (models.Calculator, bool) {
	for _, c := range g.Calculators {
		if c.ID == id {
			return c, true
		}
	}
	return models.Calculator{}, false
}

// CurrentOrganization returns the selected organization, if any.
func (g Graph) CurrentOrganization() (models.Organization, bool) {
	if g.CurrentOrganizationID == "" {
		return models.Organization{}, false
	}
	return g.OrganizationByID(g.CurrentOrganizationID)
}

// CustomersForCurrentOrg returns the customers of the selected organization,
// in collection order.
func (g Graph) CustomersForCurrentOrg() []models.Customer {
	var out []models.Customer
	for _, c := range g.Customers {
		if c.OrganizationID == g.CurrentOrganizationID && g.CurrentOrganizationID != "" {
			out = append(out, c)
		}
	}
	return out
}

// ProjectsForCurrentOrg returns the projects of the selected organization.
func (g Graph) ProjectsForCurrentOrg() []models.Project {
	var out []models.Project
	for _, p := range g.Projects {
		if p.OrganizationID == g.CurrentOrganizationID && g.CurrentOrganizationID != "" {
			out = append(out, p)
		}
	}
	return out
}

// CalculatorsForCurrentOrg returns the calculators of the selected
// organization.
func (g Graph) CalculatorsForCurrentOrg() []models.Calculator {
	var out []models.Calculator
	for _, c := range g.Calculators {
		if c.OrganizationID == g.CurrentOrganizationID && g.CurrentOrganizationID != "" {
			out = append(out, c)
		}
	}
	return out
}

// ProjectsByCustomer returns the projects of one customer, in collection
// order.
func (g Graph) ProjectsByCustomer(customerID string) []models.Project {
	var out []models.Project
	for _, p := range g.Projects {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out
}

// CalculatorsByProject returns the calculators of one project, in collection
// order.
func (g Graph) CalculatorsByProject(projectID string) []models.Calculator {
	var out []models.Calculator
	for _, c := range g.Calculators {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out
}

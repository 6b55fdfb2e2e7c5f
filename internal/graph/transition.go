package graph

import "github.com/nordfjell/anbud/internal/models"

// Apply computes the next graph from the current one and a single event. It
// is pure and total: the input graph is never modified, and unknown ids in
// update/delete events are no-ops rather than errors. Callers are
// responsible for only dispatching events whose ids exist.
func Apply(g Graph, ev Event) Graph {
	switch ev := ev.(type) {
	case LoadGraph:
		next := Graph{
			Organizations: ev.Organizations,
			Customers:     ev.Customers,
			Projects:      ev.Projects,
			Calculators:   ev.Calculators,
		}
		if len(ev.Organizations) > 0 {
			next.CurrentOrganizationID = ev.Organizations[0].ID
		}
		return next

	case AddOrganization:
		g.Organizations = appended(g.Organizations, ev.Organization)
		if g.CurrentOrganizationID == "" {
			g.CurrentOrganizationID = ev.Organization.ID
		}
		return g

	case UpdateOrganization:
		g.Organizations = replaced(g.Organizations, ev.Organization, func(o models.Organization) string { return o.ID })
		return g

	case DeleteOrganization:
		g.Organizations = kept(g.Organizations, func(o models.Organization) bool { return o.ID != ev.ID })
		g.Customers = kept(g.Customers, func(c models.Customer) bool { return c.OrganizationID != ev.ID })
		g.Projects = kept(g.Projects, func(p models.Project) bool { return p.OrganizationID != ev.ID })
		g.Calculators = kept(g.Calculators, func(c models.Calculator) bool { return c.OrganizationID != ev.ID })
		if g.CurrentOrganizationID == ev.ID {
			g.CurrentOrganizationID = ""
			if len(g.Organizations) > 0 {
				g.CurrentOrganizationID = g.Organizations[0].ID
			}
		}
		return g

	case SetCurrentOrganization:
		g.CurrentOrganizationID = ev.ID
		return g

	case AddCustomer:
		g.Customers = appended(g.Customers, ev.Customer)
		return g

	case UpdateCustomer:
		g.Customers = replaced(g.Customers, ev.Customer, func(c models.Customer) string { return c.ID })
		return g

	case DeleteCustomer:
		g.Customers = kept(g.Customers, func(c models.Customer) bool { return c.ID != ev.ID })
		g.Projects = kept(g.Projects, func(p models.Project) bool { return p.CustomerID != ev.ID })
		return g

	case AddProject:
		g.Projects = appended(g.Projects, ev.Project)
		return g

	case UpdateProject:
		g.Projects = replaced(g.Projects, ev.Project, func(p models.Project) string { return p.ID })
		return g

	case DeleteProject:
		g.Projects = kept(g.Projects, func(p models.Project) bool { return p.ID != ev.ID })
		g.Calculators = kept(g.Calculators, func(c models.Calculator) bool { return c.ProjectID != ev.ID })
		return g

	case AddCalculator:
		g.Calculators = appended(g.Calculators, ev.Calculator)
		return g

	case UpdateCalculator:
		g.Calculators = replaced(g.Calculators, ev.Calculator, func(c models.Calculator) string { return c.ID })
		return g

	case DeleteCalculator:
		g.Calculators = kept(g.Calculators, func(c models.Calculator) bool { return c.ID != ev.ID })
		return g

	case DuplicateProject:
		g.Projects = appended(g.Projects, ev.Project)
		if len(ev.Calculators) > 0 {
			calcs := make([]models.Calculator, 0, len(g.Calculators)+len(ev.Calculators))
			calcs = append(calcs, g.Calculators...)
			calcs = append(calcs, ev.Calculators...)
			g.Calculators = calcs
		}
		return g

	case DuplicateCalculator:
		g.Calculators = appended(g.Calculators, ev.Calculator)
		return g

	case MoveCalculator:
		calcs := make([]models.Calculator, len(g.Calculators))
		for i, c := range g.Calculators {
			if c.ID == ev.ID {
				c.ProjectID = ev.NewProjectID
				c.UpdatedAt = ev.MovedAt
			}
			calcs[i] = c
		}
		g.Calculators = calcs
		return g
	}

	// Unreachable while Event stays sealed.
	return g
}

// appended copies the slice and appends one element, leaving the input
// intact for older snapshots.
func appended[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s...)
	return append(out, v)
}

// kept copies the elements matching the predicate.
func kept[T any](s []T, pred func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// replaced copies the slice, substituting the element whose key matches v's
// key. Non-matching entries are unchanged; a missing key is a no-op.
func replaced[T any](s []T, v T, key func(T) string) []T {
	out := make([]T, len(s))
	id := key(v)
	for i, cur := range s {
		if key(cur) == id {
			out[i] = v
		} else {
			out[i] = cur
		}
	}
	return out
}

package graph

import (
	"time"

	"github.com/nordfjell/anbud/internal/models"
)

// Event is one state transition applied to a Graph. The set of event kinds
// is closed: only the types in this file implement it.
//
// Events carry authoritative data only. Creates always carry the row the
// remote store returned, never caller-guessed fields.
type Event interface {
	isEvent()
}

// LoadGraph replaces the entire graph wholesale. The selected organization
// becomes the first organization in the loaded list, or none if the list is
// empty.
type LoadGraph struct {
	Organizations []models.Organization
	Customers     []models.Customer
	Projects      []models.Project
	Calculators   []models.Calculator
}

// AddOrganization appends an organization. The first organization added to
// an empty selection auto-selects itself.
type AddOrganization struct {
	Organization models.Organization
}

// UpdateOrganization replaces the organization with a matching id.
type UpdateOrganization struct {
	Organization models.Organization
}

// DeleteOrganization removes the organization and, by organization id, every
// customer, project and calculator it owns. If the removed organization was
// selected, selection moves to the first remaining organization.
type DeleteOrganization struct {
	ID string
}

// SetCurrentOrganization moves the selection pointer unconditionally. No
// existence check happens at this layer; callers pass a valid id.
type SetCurrentOrganization struct {
	ID string
}

// AddCustomer appends a customer.
type AddCustomer struct {
	Customer models.Customer
}

// UpdateCustomer replaces the customer with a matching id.
type UpdateCustomer struct {
	Customer models.Customer
}

// DeleteCustomer removes the customer and every project with a matching
// customer id. Calculators of those projects are left alone; they are only
// removed through DeleteProject.
type DeleteCustomer struct {
	ID string
}

// AddProject appends a project.
type AddProject struct {
	Project models.Project
}

// UpdateProject replaces the project with a matching id.
type UpdateProject struct {
	Project models.Project
}

// DeleteProject removes the project and every calculator with a matching
// project id.
type DeleteProject struct {
	ID string
}

// AddCalculator appends a calculator.
type AddCalculator struct {
	Calculator models.Calculator
}

// UpdateCalculator replaces the calculator with a matching id.
type UpdateCalculator struct {
	Calculator models.Calculator
}

// DeleteCalculator removes the calculator.
type DeleteCalculator struct {
	ID string
}

// DuplicateProject appends an already-persisted project clone and its
// calculator clones. The cloning itself happened remotely before this event
// is dispatched; no cloning logic runs here.
type DuplicateProject struct {
	Project     models.Project
	Calculators []models.Calculator
}

// DuplicateCalculator appends an already-persisted calculator clone.
type DuplicateCalculator struct {
	Calculator models.Calculator
}

// MoveCalculator reattaches a calculator to another project and refreshes
// its UpdatedAt to MovedAt. All other fields are untouched.
type MoveCalculator struct {
	ID           string
	NewProjectID string
	MovedAt      time.Time
}

func (LoadGraph) isEvent()              {}
func (AddOrganization) isEvent()        {}
func (UpdateOrganization) isEvent()     {}
func (DeleteOrganization) isEvent()     {}
func (SetCurrentOrganization) isEvent() {}
func (AddCustomer) isEvent()            {}
func (UpdateCustomer) isEvent()         {}
func (DeleteCustomer) isEvent()         {}
func (AddProject) isEvent()             {}
func (UpdateProject) isEvent()          {}
func (DeleteProject) isEvent()          {}
func (AddCalculator) isEvent()          {}
func (UpdateCalculator) isEvent()       {}
func (DeleteCalculator) isEvent()       {}
func (DuplicateProject) isEvent()       {}
func (DuplicateCalculator) isEvent()    {}
func (MoveCalculator) isEvent()         {}

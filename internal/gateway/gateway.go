// Package gateway defines the remote store boundary: one interface per
// entity type, each translating domain values to and from the remote schema
// in a single round trip. Implementations live in the memory, sqlite and
// postgres backends.
package gateway

import (
	"context"

	"github.com/nordfjell/anbud/internal/models"
)

// Organizations is the remote gateway for organization rows.
type Organizations interface {
	// List returns all organizations visible to the session, newest-created
	// first.
	List(ctx context.Context) ([]models.Organization, error)

	// Create persists a new organization and returns the full row, including
	// the server-assigned id and timestamps.
	Create(ctx context.Context, fields models.OrganizationFields) (models.Organization, error)

	// Update rewrites the mutable business fields of one row. A non-existent
	// id affects zero rows and is not an error.
	Update(ctx context.Context, id string, fields models.OrganizationFields) error

	// Delete removes one row. A non-existent id affects zero rows and is not
	// an error.
	Delete(ctx context.Context, id string) error
}

// Customers is the remote gateway for customer rows.
type Customers interface {
	List(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, fields models.CustomerFields) (models.Customer, error)
	Update(ctx context.Context, id string, fields models.CustomerFields) error
	Delete(ctx context.Context, id string) error
}

// Projects is the remote gateway for project rows.
type Projects interface {
	List(ctx context.Context) ([]models.Project, error)
	Create(ctx context.Context, fields models.ProjectFields) (models.Project, error)
	Update(ctx context.Context, id string, fields models.ProjectFields) error
	Delete(ctx context.Context, id string) error
}

// Calculators is the remote gateway for calculator rows.
type Calculators interface {
	List(ctx context.Context) ([]models.Calculator, error)
	Create(ctx context.Context, fields models.CalculatorFields) (models.Calculator, error)

	// CreateBatch persists a set of calculators in one round trip and
	// returns the full rows in input order. Used by project duplication.
	CreateBatch(ctx context.Context, fields []models.CalculatorFields) ([]models.Calculator, error)

	Update(ctx context.Context, id string, fields models.CalculatorFields) error
	Delete(ctx context.Context, id string) error

	// Move rewrites only the project reference of one calculator, leaving
	// every other column alone.
	Move(ctx context.Context, id string, newProjectID string) error
}

// Gateway bundles the four per-entity gateways for injection into the
// engine.
type Gateway struct {
	Organizations Organizations
	Customers     Customers
	Projects      Projects
	Calculators   Calculators
}

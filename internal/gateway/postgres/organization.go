package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/gateway"
	"github.com/nordfjell/anbud/internal/models"
)

// New returns a remote gateway backed by the given connection pool.
func New(pool *pgxpool.Pool) gateway.Gateway {
	return gateway.Gateway{
		Organizations: &OrganizationGateway{pool: pool},
		Customers:     &CustomerGateway{pool: pool},
		Projects:      &ProjectGateway{pool: pool},
		Calculators:   &CalculatorGateway{pool: pool},
	}
}

// OrganizationGateway implements gateway.Organizations using PostgreSQL.
type OrganizationGateway struct {
	pool *pgxpool.Pool
}

// List returns all organizations, newest-created first.
func (g *OrganizationGateway) List(ctx context.Context) ([]models.Organization, error) {
	query := `
		SELECT id, name, description, logo_url, address, phone, email, website, created_at, updated_at
		FROM organizations
		ORDER BY created_at DESC
	`

	rows, err := g.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		var o models.Organization
		err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Description,
			&o.LogoURL,
			&o.Address,
			&o.Phone,
			&o.Email,
			&o.Website,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return orgs, nil
}

// Create inserts a new organization and returns the full persisted row.
func (g *OrganizationGateway) Create(ctx context.Context, fields models.OrganizationFields) (models.Organization, error) {
	query := `
		INSERT INTO organizations (name, description, logo_url, address, phone, email, website)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	org := models.Organization{
		Name:        fields.Name,
		Description: fields.Description,
		LogoURL:     fields.LogoURL,
		Address:     fields.Address,
		Phone:       fields.Phone,
		Email:       fields.Email,
		Website:     fields.Website,
	}

	err := g.pool.QueryRow(ctx, query,
		fields.Name,
		fields.Description,
		fields.LogoURL,
		fields.Address,
		fields.Phone,
		fields.Email,
		fields.Website,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return models.Organization{}, mapError(err)
	}

	log.Debug().
		Str("org_id", org.ID).
		Str("name", org.Name).
		Msg("Created organization")

	return org, nil
}

// Update rewrites the mutable fields of one organization. A non-existent id
// affects zero rows and is not an error.
func (g *OrganizationGateway) Update(ctx context.Context, id string, fields models.OrganizationFields) error {
	query := `
		UPDATE organizations SET
			name = $2,
			description = $3,
			logo_url = $4,
			address = $5,
			phone = $6,
			email = $7,
			website = $8,
			updated_at = now()
		WHERE id = $1
	`

	_, err := g.pool.Exec(ctx, query,
		id,
		fields.Name,
		fields.Description,
		fields.LogoURL,
		fields.Address,
		fields.Phone,
		fields.Email,
		fields.Website,
	)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("org_id", id).Msg("Updated organization")
	return nil
}

// Delete removes one organization. The database cascades to customers,
// projects and calculators; a non-existent id affects zero rows and is not
// an error.
func (g *OrganizationGateway) Delete(ctx context.Context, id string) error {
	_, err := g.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("org_id", id).Msg("Deleted organization")
	return nil
}

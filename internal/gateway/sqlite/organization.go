package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/models"
)

// OrganizationGateway implements gateway.Organizations for SQLite.
type OrganizationGateway struct {
	db *DB
}

// List returns all organizations, newest-created first.
func (g *OrganizationGateway) List(ctx context.Context) ([]models.Organization, error) {
	query := `
		SELECT id, name, description, logo_url, address, phone, email, website, created_at, updated_at
		FROM organizations
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := g.db.QueryContext(ctx, query)
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

// Create inserts a new organization, assigning its id and timestamps.
func (g *OrganizationGateway) Create(ctx context.Context, fields models.OrganizationFields) (models.Organization, error) {
	now := time.Now().UTC()
	o := models.Organization{
		ID:          uuid.NewString(),
		Name:        fields.Name,
		Description: fields.Description,
		LogoURL:     fields.LogoURL,
		Address:     fields.Address,
		Phone:       fields.Phone,
		Email:       fields.Email,
		Website:     fields.Website,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query := `
		INSERT INTO organizations (id, name, description, logo_url, address, phone, email, website, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := g.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Description, o.LogoURL, o.Address, o.Phone, o.Email, o.Website, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return models.Organization{}, mapError(err)
	}

	log.Debug().Str("org_id", o.ID).Str("name", o.Name).Msg("Created organization")
	return o, nil
}

// Update rewrites the mutable fields of one organization. Zero rows affected
// is not an error.
func (g *OrganizationGateway) Update(ctx context.Context, id string, fields models.OrganizationFields) error {
	query := `
		UPDATE organizations SET
			name = ?, description = ?, logo_url = ?, address = ?,
			phone = ?, email = ?, website = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := g.db.ExecContext(ctx, query,
		fields.Name, fields.Description, fields.LogoURL, fields.Address,
		fields.Phone, fields.Email, fields.Website, time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("org_id", id).Msg("Updated organization")
	return nil
}

// Delete removes one organization; the database cascades to all child rows.
// Zero rows affected is not an error.
func (g *OrganizationGateway) Delete(ctx context.Context, id string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("org_id", id).Msg("Deleted organization")
	return nil
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/models"
)

// ProjectGateway implements gateway.Projects using PostgreSQL.
type ProjectGateway struct {
	pool *pgxpool.Pool
}

// List returns all projects visible to the session, newest-created first.
func (g *ProjectGateway) List(ctx context.Context) ([]models.Project, error) {
	query := `
		SELECT id, organization_id, customer_id, name, description, status,
		       start_date, end_date, budget, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := g.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		err := rows.Scan(
			&p.ID,
			&p.OrganizationID,
			&p.CustomerID,
			&p.Name,
			&p.Description,
			&p.Status,
			&p.StartDate,
			&p.EndDate,
			&p.Budget,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return projects, nil
}

// Create inserts a new project and returns the full persisted row.
func (g *ProjectGateway) Create(ctx context.Context, fields models.ProjectFields) (models.Project, error) {
	query := `
		INSERT INTO projects (organization_id, customer_id, name, description, status, start_date, end_date, budget)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	p := models.Project{
		OrganizationID: fields.OrganizationID,
		CustomerID:     fields.CustomerID,
		Name:           fields.Name,
		Description:    fields.Description,
		Status:         fields.Status,
		StartDate:      fields.StartDate,
		EndDate:        fields.EndDate,
		Budget:         fields.Budget,
	}

	err := g.pool.QueryRow(ctx, query,
		fields.OrganizationID,
		fields.CustomerID,
		fields.Name,
		fields.Description,
		fields.Status,
		fields.StartDate,
		fields.EndDate,
		fields.Budget,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Project{}, mapError(err)
	}

	log.Debug().
		Str("project_id", p.ID).
		Str("org_id", p.OrganizationID).
		Msg("Created project")

	return p, nil
}

// Update rewrites the mutable fields of one project. Zero rows affected is
// not an error.
func (g *ProjectGateway) Update(ctx context.Context, id string, fields models.ProjectFields) error {
	query := `
		UPDATE projects SET
			organization_id = $2,
			customer_id = $3,
			name = $4,
			description = $5,
			status = $6,
			start_date = $7,
			end_date = $8,
			budget = $9,
			updated_at = now()
		WHERE id = $1
	`

	_, err := g.pool.Exec(ctx, query,
		id,
		fields.OrganizationID,
		fields.CustomerID,
		fields.Name,
		fields.Description,
		fields.Status,
		fields.StartDate,
		fields.EndDate,
		fields.Budget,
	)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("project_id", id).Msg("Updated project")
	return nil
}

// Delete removes one project; the database cascades to its calculators.
// Zero rows affected is not an error.
func (g *ProjectGateway) Delete(ctx context.Context, id string) error {
	_, err := g.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("project_id", id).Msg("Deleted project")
	return nil
}

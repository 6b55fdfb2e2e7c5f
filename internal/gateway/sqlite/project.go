package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/models"
)

// ProjectGateway implements gateway.Projects for SQLite.
type ProjectGateway struct {
	db *DB
}

// List returns all projects, newest-created first.
func (g *ProjectGateway) List(ctx context.Context) ([]models.Project, error) {
	query := `
		SELECT id, organization_id, customer_id, name, description, status,
		       start_date, end_date, budget, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := g.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var (
			p       models.Project
			endDate sql.NullTime
			budget  sql.NullFloat64
		)
		err := rows.Scan(
			&p.ID,
			&p.OrganizationID,
			&p.CustomerID,
			&p.Name,
			&p.Description,
			&p.Status,
			&p.StartDate,
			&endDate,
			&budget,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if endDate.Valid {
			t := endDate.Time
			p.EndDate = &t
		}
		if budget.Valid {
			b := budget.Float64
			p.Budget = &b
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return projects, nil
}

// Create inserts a new project, assigning its id and timestamps.
func (g *ProjectGateway) Create(ctx context.Context, fields models.ProjectFields) (models.Project, error) {
	now := time.Now().UTC()
	p := models.Project{
		ID:             uuid.NewString(),
		OrganizationID: fields.OrganizationID,
		CustomerID:     fields.CustomerID,
		Name:           fields.Name,
		Description:    fields.Description,
		Status:         fields.Status,
		StartDate:      fields.StartDate,
		EndDate:        fields.EndDate,
		Budget:         fields.Budget,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	query := `
		INSERT INTO projects (id, organization_id, customer_id, name, description, status,
		                      start_date, end_date, budget, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := g.db.ExecContext(ctx, query,
		p.ID, p.OrganizationID, p.CustomerID, p.Name, p.Description, p.Status,
		p.StartDate, nullableTime(p.EndDate), nullableFloat(p.Budget), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Project{}, mapError(err)
	}

	log.Debug().Str("project_id", p.ID).Str("org_id", p.OrganizationID).Msg("Created project")
	return p, nil
}

// Update rewrites the mutable fields of one project. Zero rows affected is
// not an error.
func (g *ProjectGateway) Update(ctx context.Context, id string, fields models.ProjectFields) error {
	query := `
		UPDATE projects SET
			organization_id = ?, customer_id = ?, name = ?, description = ?,
			status = ?, start_date = ?, end_date = ?, budget = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := g.db.ExecContext(ctx, query,
		fields.OrganizationID, fields.CustomerID, fields.Name, fields.Description,
		fields.Status, fields.StartDate, nullableTime(fields.EndDate), nullableFloat(fields.Budget),
		time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("project_id", id).Msg("Updated project")
	return nil
}

// Delete removes one project; the database cascades to its calculators.
// Zero rows affected is not an error.
func (g *ProjectGateway) Delete(ctx context.Context, id string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("project_id", id).Msg("Deleted project")
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

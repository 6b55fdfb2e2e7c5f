package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/models"
)

// CalculatorGateway implements gateway.Calculators using PostgreSQL. The
// entries and summary documents are stored as JSONB columns.
type CalculatorGateway struct {
	pool *pgxpool.Pool
}

// List returns all calculators visible to the session, newest-created first.
func (g *CalculatorGateway) List(ctx context.Context) ([]models.Calculator, error) {
	query := `
		SELECT id, organization_id, project_id, name, description, entries, summary, created_at, updated_at
		FROM calculators
		ORDER BY created_at DESC
	`

	rows, err := g.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var calculators []models.Calculator
	for rows.Next() {
		var (
			c          models.Calculator
			entriesDoc []byte
			summaryDoc []byte
		)
		err := rows.Scan(
			&c.ID,
			&c.OrganizationID,
			&c.ProjectID,
			&c.Name,
			&c.Description,
			&entriesDoc,
			&summaryDoc,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		if err := json.Unmarshal(entriesDoc, &c.Entries); err != nil {
			return nil, mapError(fmt.Errorf("failed to decode entries for calculator %s: %w", c.ID, err))
		}
		if err := json.Unmarshal(summaryDoc, &c.Summary); err != nil {
			return nil, mapError(fmt.Errorf("failed to decode summary for calculator %s: %w", c.ID, err))
		}
		calculators = append(calculators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return calculators, nil
}

// Create inserts a new calculator and returns the full persisted row.
func (g *CalculatorGateway) Create(ctx context.Context, fields models.CalculatorFields) (models.Calculator, error) {
	entriesDoc, summaryDoc, err := encodeDocuments(fields)
	if err != nil {
		return models.Calculator{}, err
	}

	query := `
		INSERT INTO calculators (organization_id, project_id, name, description, entries, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	c := models.Calculator{
		OrganizationID: fields.OrganizationID,
		ProjectID:      fields.ProjectID,
		Name:           fields.Name,
		Description:    fields.Description,
		Entries:        models.CloneEntries(fields.Entries),
		Summary:        fields.Summary,
	}

	err = g.pool.QueryRow(ctx, query,
		fields.OrganizationID,
		fields.ProjectID,
		fields.Name,
		fields.Description,
		entriesDoc,
		summaryDoc,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Calculator{}, mapError(err)
	}

	log.Debug().
		Str("calculator_id", c.ID).
		Str("project_id", c.ProjectID).
		Msg("Created calculator")

	return c, nil
}

// CreateBatch inserts a set of calculators in a single statement and returns
// the full rows in input order. An empty batch returns nil without a round
// trip.
func (g *CalculatorGateway) CreateBatch(ctx context.Context, fields []models.CalculatorFields) ([]models.Calculator, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`INSERT INTO calculators (organization_id, project_id, name, description, entries, summary) VALUES `)
	for i, f := range fields {
		entriesDoc, summaryDoc, err := encodeDocuments(f)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, f.OrganizationID, f.ProjectID, f.Name, f.Description, entriesDoc, summaryDoc)
	}
	sb.WriteString(" RETURNING id, created_at, updated_at")

	rows, err := g.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]models.Calculator, 0, len(fields))
	i := 0
	for rows.Next() {
		f := fields[i]
		c := models.Calculator{
			OrganizationID: f.OrganizationID,
			ProjectID:      f.ProjectID,
			Name:           f.Name,
			Description:    f.Description,
			Entries:        models.CloneEntries(f.Entries),
			Summary:        f.Summary,
		}
		if err := rows.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		out = append(out, c)
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	log.Debug().Int("count", len(out)).Msg("Created calculator batch")
	return out, nil
}

// Update rewrites the mutable fields of one calculator. Zero rows affected
// is not an error.
func (g *CalculatorGateway) Update(ctx context.Context, id string, fields models.CalculatorFields) error {
	entriesDoc, summaryDoc, err := encodeDocuments(fields)
	if err != nil {
		return err
	}

	query := `
		UPDATE calculators SET
			organization_id = $2,
			project_id = $3,
			name = $4,
			description = $5,
			entries = $6,
			summary = $7,
			updated_at = now()
		WHERE id = $1
	`

	_, err = g.pool.Exec(ctx, query,
		id,
		fields.OrganizationID,
		fields.ProjectID,
		fields.Name,
		fields.Description,
		entriesDoc,
		summaryDoc,
	)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("calculator_id", id).Msg("Updated calculator")
	return nil
}

// Delete removes one calculator. Zero rows affected is not an error.
func (g *CalculatorGateway) Delete(ctx context.Context, id string) error {
	_, err := g.pool.Exec(ctx, `DELETE FROM calculators WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("calculator_id", id).Msg("Deleted calculator")
	return nil
}

// Move rewrites only the project reference of one calculator.
func (g *CalculatorGateway) Move(ctx context.Context, id string, newProjectID string) error {
	_, err := g.pool.Exec(ctx,
		`UPDATE calculators SET project_id = $2, updated_at = now() WHERE id = $1`,
		id, newProjectID)
	if err != nil {
		return mapError(err)
	}

	log.Debug().
		Str("calculator_id", id).
		Str("project_id", newProjectID).
		Msg("Moved calculator")
	return nil
}

// encodeDocuments marshals the entries and summary JSON documents. A nil
// entries slice is stored as an empty array, not null.
func encodeDocuments(fields models.CalculatorFields) ([]byte, []byte, error) {
	entries := fields.Entries
	if entries == nil {
		entries = []models.Entry{}
	}
	entriesDoc, err := json.Marshal(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode entries: %w", err)
	}
	summaryDoc, err := json.Marshal(fields.Summary)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	return entriesDoc, summaryDoc, nil
}

package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/models"
)

// CalculatorGateway implements gateway.Calculators for SQLite. The entries
// and summary documents are stored as JSON text.
type CalculatorGateway struct {
	db *DB
}

// List returns all calculators, newest-created first.
func (g *CalculatorGateway) List(ctx context.Context) ([]models.Calculator, error) {
	query := `
		SELECT id, organization_id, project_id, name, description, entries, summary, created_at, updated_at
		FROM calculators
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := g.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var calculators []models.Calculator
	for rows.Next() {
		var (
			c          models.Calculator
			entriesDoc string
			summaryDoc string
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
		if err := json.Unmarshal([]byte(entriesDoc), &c.Entries); err != nil {
			return nil, mapError(fmt.Errorf("failed to decode entries for calculator %s: %w", c.ID, err))
		}
		if err := json.Unmarshal([]byte(summaryDoc), &c.Summary); err != nil {
			return nil, mapError(fmt.Errorf("failed to decode summary for calculator %s: %w", c.ID, err))
		}
		calculators = append(calculators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return calculators, nil
}

// Create inserts a new calculator, assigning its id and timestamps.
func (g *CalculatorGateway) Create(ctx context.Context, fields models.CalculatorFields) (models.Calculator, error) {
	return g.insert(ctx, fields)
}

// CreateBatch inserts a set of calculators inside one transaction and
// returns the full rows in input order.
func (g *CalculatorGateway) CreateBatch(ctx context.Context, fields []models.CalculatorFields) ([]models.Calculator, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback()

	out := make([]models.Calculator, 0, len(fields))
	for _, f := range fields {
		c, entriesDoc, summaryDoc, err := newRow(f)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, insertQuery,
			c.ID, c.OrganizationID, c.ProjectID, c.Name, c.Description,
			entriesDoc, summaryDoc, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, mapError(err)
	}

	log.Debug().Int("count", len(out)).Msg("Created calculator batch")
	return out, nil
}

const insertQuery = `
	INSERT INTO calculators (id, organization_id, project_id, name, description, entries, summary, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (g *CalculatorGateway) insert(ctx context.Context, fields models.CalculatorFields) (models.Calculator, error) {
	c, entriesDoc, summaryDoc, err := newRow(fields)
	if err != nil {
		return models.Calculator{}, err
	}

	_, err = g.db.ExecContext(ctx, insertQuery,
		c.ID, c.OrganizationID, c.ProjectID, c.Name, c.Description,
		entriesDoc, summaryDoc, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return models.Calculator{}, mapError(err)
	}

	log.Debug().Str("calculator_id", c.ID).Str("project_id", c.ProjectID).Msg("Created calculator")
	return c, nil
}

// newRow builds the persisted row and its JSON documents.
func newRow(fields models.CalculatorFields) (models.Calculator, string, string, error) {
	now := time.Now().UTC()
	c := models.Calculator{
		ID:             uuid.NewString(),
		OrganizationID: fields.OrganizationID,
		ProjectID:      fields.ProjectID,
		Name:           fields.Name,
		Description:    fields.Description,
		Entries:        models.CloneEntries(fields.Entries),
		Summary:        fields.Summary,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	entriesDoc, summaryDoc, err := encodeDocuments(fields)
	if err != nil {
		return models.Calculator{}, "", "", err
	}
	return c, entriesDoc, summaryDoc, nil
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
			organization_id = ?, project_id = ?, name = ?, description = ?,
			entries = ?, summary = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = g.db.ExecContext(ctx, query,
		fields.OrganizationID, fields.ProjectID, fields.Name, fields.Description,
		entriesDoc, summaryDoc, time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("calculator_id", id).Msg("Updated calculator")
	return nil
}

// Delete removes one calculator. Zero rows affected is not an error.
func (g *CalculatorGateway) Delete(ctx context.Context, id string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM calculators WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("calculator_id", id).Msg("Deleted calculator")
	return nil
}

// Move rewrites only the project reference of one calculator.
func (g *CalculatorGateway) Move(ctx context.Context, id string, newProjectID string) error {
	_, err := g.db.ExecContext(ctx,
		`UPDATE calculators SET project_id = ?, updated_at = ? WHERE id = ?`,
		newProjectID, time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("calculator_id", id).Str("project_id", newProjectID).Msg("Moved calculator")
	return nil
}

// encodeDocuments marshals the JSON documents. A nil entries slice is stored
// as an empty array.
func encodeDocuments(fields models.CalculatorFields) (string, string, error) {
	entries := fields.Entries
	if entries == nil {
		entries = []models.Entry{}
	}
	entriesDoc, err := json.Marshal(entries)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode entries: %w", err)
	}
	summaryDoc, err := json.Marshal(fields.Summary)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode summary: %w", err)
	}
	return string(entriesDoc), string(summaryDoc), nil
}

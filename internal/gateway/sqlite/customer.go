package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/models"
)

// CustomerGateway implements gateway.Customers for SQLite.
type CustomerGateway struct {
	db *DB
}

// List returns all customers, newest-created first.
func (g *CustomerGateway) List(ctx context.Context) ([]models.Customer, error) {
	query := `
		SELECT id, organization_id, name, contact_name, email, phone, address, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := g.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		err := rows.Scan(
			&c.ID,
			&c.OrganizationID,
			&c.Name,
			&c.ContactName,
			&c.Email,
			&c.Phone,
			&c.Address,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, mapError(err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return customers, nil
}

// Create inserts a new customer, assigning its id and timestamps.
func (g *CustomerGateway) Create(ctx context.Context, fields models.CustomerFields) (models.Customer, error) {
	now := time.Now().UTC()
	c := models.Customer{
		ID:             uuid.NewString(),
		OrganizationID: fields.OrganizationID,
		Name:           fields.Name,
		ContactName:    fields.ContactName,
		Email:          fields.Email,
		Phone:          fields.Phone,
		Address:        fields.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	query := `
		INSERT INTO customers (id, organization_id, name, contact_name, email, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := g.db.ExecContext(ctx, query,
		c.ID, c.OrganizationID, c.Name, c.ContactName, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return models.Customer{}, mapError(err)
	}

	log.Debug().Str("customer_id", c.ID).Str("org_id", c.OrganizationID).Msg("Created customer")
	return c, nil
}

// Update rewrites the mutable fields of one customer. Zero rows affected is
// not an error.
func (g *CustomerGateway) Update(ctx context.Context, id string, fields models.CustomerFields) error {
	query := `
		UPDATE customers SET
			organization_id = ?, name = ?, contact_name = ?,
			email = ?, phone = ?, address = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := g.db.ExecContext(ctx, query,
		fields.OrganizationID, fields.Name, fields.ContactName,
		fields.Email, fields.Phone, fields.Address, time.Now().UTC(), id)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("customer_id", id).Msg("Updated customer")
	return nil
}

// Delete removes one customer; the database cascades to its projects. Zero
// rows affected is not an error.
func (g *CustomerGateway) Delete(ctx context.Context, id string) error {
	_, err := g.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("customer_id", id).Msg("Deleted customer")
	return nil
}

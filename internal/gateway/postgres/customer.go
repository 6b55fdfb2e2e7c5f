package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/nordfjell/anbud/internal/models"
)

// CustomerGateway implements gateway.Customers using PostgreSQL.
type CustomerGateway struct {
	pool *pgxpool.Pool
}

// List returns all customers visible to the session, newest-created first.
func (g *CustomerGateway) List(ctx context.Context) ([]models.Customer, error) {
	query := `
		SELECT id, organization_id, name, contact_name, email, phone, address, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
	`

	rows, err := g.pool.Query(ctx, query)
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

// Create inserts a new customer and returns the full persisted row.
func (g *CustomerGateway) Create(ctx context.Context, fields models.CustomerFields) (models.Customer, error) {
	query := `
		INSERT INTO customers (organization_id, name, contact_name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	c := models.Customer{
		OrganizationID: fields.OrganizationID,
		Name:           fields.Name,
		ContactName:    fields.ContactName,
		Email:          fields.Email,
		Phone:          fields.Phone,
		Address:        fields.Address,
	}

	err := g.pool.QueryRow(ctx, query,
		fields.OrganizationID,
		fields.Name,
		fields.ContactName,
		fields.Email,
		fields.Phone,
		fields.Address,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Customer{}, mapError(err)
	}

	log.Debug().
		Str("customer_id", c.ID).
		Str("org_id", c.OrganizationID).
		Msg("Created customer")

	return c, nil
}

// Update rewrites the mutable fields of one customer. Zero rows affected is
// not an error.
func (g *CustomerGateway) Update(ctx context.Context, id string, fields models.CustomerFields) error {
	query := `
		UPDATE customers SET
			organization_id = $2,
			name = $3,
			contact_name = $4,
			email = $5,
			phone = $6,
			address = $7,
			updated_at = now()
		WHERE id = $1
	`

	_, err := g.pool.Exec(ctx, query,
		id,
		fields.OrganizationID,
		fields.Name,
		fields.ContactName,
		fields.Email,
		fields.Phone,
		fields.Address,
	)
	if err != nil {
		return mapError(err)
	}

	log.Debug().Str("customer_id", id).Msg("Updated customer")
	return nil
}

// Delete removes one customer; the database cascades to its projects. Zero
// rows affected is not an error.
func (g *CustomerGateway) Delete(ctx context.Context, id string) error {
	_, err := g.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	log.Info().Str("customer_id", id).Msg("Deleted customer")
	return nil
}

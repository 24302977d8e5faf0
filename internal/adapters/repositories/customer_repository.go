package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-marketplace-service/internal/domain"
)

// Postgres-backed implementation of the CustomerRepository port.
type PostgresCustomerRepository struct{ DB *sql.DB }

func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{DB: db}
}

const customerColumns = `id, owner_id, name, email, phone, company, city, state, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
		&c.Company, &c.City, &c.State, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresCustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	if r.DB == nil {
		return errors.New("customer repository: DB is nil")
	}

	query := `
	INSERT INTO customers (id, owner_id, name, email, phone, company, city, state)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone, c.Company, c.City, c.State)
	if err != nil {
		return fmt.Errorf("create customer: insert: %w", err)
	}
	return nil
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if r.DB == nil {
		return nil, errors.New("customer repository: DB is nil")
	}

	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get customer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: scan: %w", err)
	}
	return c, nil
}

func (r *PostgresCustomerRepository) List(ctx context.Context, ownerID string) ([]*domain.Customer, error) {
	if r.DB == nil {
		return nil, errors.New("customer repository: DB is nil")
	}

	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	if ownerID != "" {
		query += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: query: %w", err)
	}
	defer rows.Close()

	customers := make([]*domain.Customer, 0, 16)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("list customers: scan row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customers: row iteration: %w", err)
	}
	return customers, nil
}

func (r *PostgresCustomerRepository) Update(ctx context.Context, c *domain.Customer) error {
	if r.DB == nil {
		return errors.New("customer repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, company = $4, city = $5, state = $6,
		    updated_at = now()
		WHERE id = $7;
	`, c.Name, c.Email, c.Phone, c.Company, c.City, c.State, c.ID)
	if err != nil {
		return fmt.Errorf("update customer: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update customer: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update customer %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresCustomerRepository) Delete(ctx context.Context, id string) error {
	if r.DB == nil {
		return errors.New("customer repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete customer: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete customer: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete customer %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-marketplace-service/internal/domain"
)

// Postgres-backed implementation of the IssueRepository port.
type PostgresIssueRepository struct{ DB *sql.DB }

func NewPostgresIssueRepository(db *sql.DB) *PostgresIssueRepository {
	return &PostgresIssueRepository{DB: db}
}

const issueColumns = `id, shipment_id, reporter_id, type, description, status, resolved_at, created_at`

func scanIssue(row interface{ Scan(...any) error }) (*domain.Issue, error) {
	var i domain.Issue
	err := row.Scan(&i.ID, &i.ShipmentID, &i.ReporterID, &i.Type,
		&i.Description, &i.Status, &i.ResolvedAt, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *PostgresIssueRepository) Create(ctx context.Context, i *domain.Issue) error {
	if r.DB == nil {
		return errors.New("issue repository: DB is nil")
	}

	query := `
	INSERT INTO issues (id, shipment_id, reporter_id, type, description, status)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.DB.ExecContext(ctx, query,
		i.ID, i.ShipmentID, i.ReporterID, i.Type, i.Description, i.Status)
	if err != nil {
		return fmt.Errorf("create issue: insert: %w", err)
	}
	return nil
}

func (r *PostgresIssueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	if r.DB == nil {
		return nil, errors.New("issue repository: DB is nil")
	}

	i, err := scanIssue(r.DB.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = $1;`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get issue %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: scan: %w", err)
	}
	return i, nil
}

func (r *PostgresIssueRepository) List(ctx context.Context, shipmentID, reporterID string) ([]*domain.Issue, error) {
	if r.DB == nil {
		return nil, errors.New("issue repository: DB is nil")
	}

	query := `SELECT ` + issueColumns + ` FROM issues WHERE 1=1`
	args := []any{}
	if shipmentID != "" {
		args = append(args, shipmentID)
		query += fmt.Sprintf(" AND shipment_id = $%d", len(args))
	}
	if reporterID != "" {
		args = append(args, reporterID)
		query += fmt.Sprintf(" AND reporter_id = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list issues: query: %w", err)
	}
	defer rows.Close()

	issues := make([]*domain.Issue, 0, 8)
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("list issues: scan row: %w", err)
		}
		issues = append(issues, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list issues: row iteration: %w", err)
	}
	return issues, nil
}

func (r *PostgresIssueRepository) Resolve(ctx context.Context, id string) error {
	if r.DB == nil {
		return errors.New("issue repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE issues SET status = 'resolved', resolved_at = now()
		WHERE id = $1 AND status = 'open';
	`, id)
	if err != nil {
		return fmt.Errorf("resolve issue: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve issue: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resolve issue %s: not open: %w", id, domain.ErrConflict)
	}
	return nil
}

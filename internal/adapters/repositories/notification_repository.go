package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-marketplace-service/internal/domain"
)

// Postgres-backed implementation of the NotificationRepository port.
type PostgresNotificationRepository struct{ DB *sql.DB }

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{DB: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if r.DB == nil {
		return errors.New("notification repository: DB is nil")
	}

	query := `
	INSERT INTO notifications (id, user_id, type, title, message, related_id, read)
	VALUES ($1, $2, $3, $4, $5, $6, FALSE);
	`
	_, err := r.DB.ExecContext(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.RelatedID)
	if err != nil {
		return fmt.Errorf("create notification: insert: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error) {
	if r.DB == nil {
		return nil, errors.New("notification repository: DB is nil")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
	SELECT id, user_id, type, title, message, related_id, read, created_at
	FROM notifications
	WHERE user_id = $1`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT $2;`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: query: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Notification, 0, limit)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title,
			&n.Message, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("list notifications: scan row: %w", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: row iteration: %w", err)
	}
	return out, nil
}

// MarkRead only touches the caller's own rows; a foreign id reads as not found.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	if r.DB == nil {
		return errors.New("notification repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2;
	`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark notification %s read: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if r.DB == nil {
		return 0, errors.New("notification repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE;
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: rows affected: %w", err)
	}
	return n, nil
}

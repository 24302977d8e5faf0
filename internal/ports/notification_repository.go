package ports

import (
	"context"

	"freight-marketplace-service/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// Notifier is an out-of-band delivery channel (email, SMS). Implementations
// carry no delivery guarantee; failures are logged, never propagated into the
// triggering workflow.
type Notifier interface {
	Send(ctx context.Context, userID, title, message string) error
}

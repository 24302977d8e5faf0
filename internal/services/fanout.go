package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-marketplace-service/internal/domain"
	"freight-marketplace-service/internal/ports"
)

// fanout inserts one inbox row per recipient and pings the channel stub.
// Fan-out is fire-and-forget: a failed insert is logged and never rolls back
// the transition that triggered it.
type fanout struct {
	Notifications ports.NotificationRepository
	Notifier      ports.Notifier
	Log           *zap.Logger
}

func (f *fanout) notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, relatedID string) {
	if userID == "" {
		return
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		RelatedID: relatedID,
	}
	if err := f.Notifications.Create(ctx, n); err != nil {
		f.Log.Error("notification insert failed",
			zap.String("user_id", userID),
			zap.String("type", string(typ)),
			zap.Error(err),
		)
		return
	}

	if f.Notifier != nil {
		if err := f.Notifier.Send(ctx, userID, title, message); err != nil {
			f.Log.Warn("notification channel send failed",
				zap.String("user_id", userID), zap.Error(err))
		}
	}
}

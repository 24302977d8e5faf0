package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier is the email/SMS channel stub. Delivery is out of scope for
// this service; the inbox row in the notifications table is the durable part,
// this only records that a push would have happened.
type LogNotifier struct {
	Log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{Log: log}
}

func (n *LogNotifier) Send(ctx context.Context, userID, title, message string) error {
	n.Log.Info("notification channel stub",
		zap.String("user_id", userID),
		zap.String("title", title),
		zap.String("message", message),
	)
	return nil
}

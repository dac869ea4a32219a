// Package notification delivers owner notifications. Delivery is at-most-once:
// a failed send is reported to the caller and never retried.
package notification

import (
	"context"

	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	log *zap.Logger
}

var _ interfaces.INotifier = (*LogNotifier)(nil)

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log.Named("notification")}
}

func (n *LogNotifier) Notify(_ context.Context, msg entities.Notification) error {
	names := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		names = append(names, a.Name)
	}
	n.log.Info("notification",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
		zap.Strings("attachments", names),
	)
	return nil
}

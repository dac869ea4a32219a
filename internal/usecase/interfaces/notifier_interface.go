package interfaces

import (
	"context"

	"portal_orcamentos/internal/domain/entities"
)

// INotifier dispatches a message once, with no retry. Callers log the error and move on.
type INotifier interface {
	Notify(ctx context.Context, n entities.Notification) error
}

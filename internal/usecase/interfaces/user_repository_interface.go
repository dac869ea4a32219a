package interfaces

import (
	"context"

	"portal_orcamentos/internal/domain/entities"
)

// IUserRepository is the user directory side of the persistence gateway. Same
// best-effort contract as IQuoteRepository.
type IUserRepository interface {
	LoadUsers(ctx context.Context) []entities.User
	SaveUsers(ctx context.Context, users []entities.User)
}

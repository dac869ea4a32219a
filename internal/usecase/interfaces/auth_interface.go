package interfaces

import (
	"time"

	"portal_orcamentos/internal/domain/entities"
)

type IPasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

type ITokenIssuer interface {
	Issue(actor entities.Actor) (token string, expiresAt time.Time, err error)
}

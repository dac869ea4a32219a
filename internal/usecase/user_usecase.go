package usecase

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterInput is the sign-up form of a customer.
type RegisterInput struct {
	LegalName  string
	TaxID      string
	StateTaxID string
	Address    string
	City       string
	State      string
	PostalCode string
	Phone      string
	Email      string
	Username   string
	Password   string
}

// ProfileInput updates the caller's own record. An empty Password keeps the current one.
type ProfileInput = RegisterInput

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Actor     entities.Actor
}

type IUserUseCase interface {
	Register(ctx context.Context, in RegisterInput) (entities.User, error)
	Authenticate(ctx context.Context, email, password string, role entities.Role) (Session, error)
	UpdateProfile(ctx context.Context, actor *entities.Actor, in ProfileInput) (entities.User, error)
	GetByID(ctx context.Context, id string) (entities.User, error)
	List(ctx context.Context, actor *entities.Actor) ([]entities.User, error)
}

type UserUseCase struct {
	repo          interfaces.IUserRepository
	hasher        interfaces.IPasswordHasher
	tokens        interfaces.ITokenIssuer
	clock         clock.Clock
	staffPasscode string
	log           *zap.Logger

	mu sync.Mutex
}

var _ IUserUseCase = (*UserUseCase)(nil)

func NewUserUseCase(
	repo interfaces.IUserRepository,
	hasher interfaces.IPasswordHasher,
	tokens interfaces.ITokenIssuer,
	clk clock.Clock,
	staffPasscode string,
	log *zap.Logger,
) *UserUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserUseCase{
		repo:          repo,
		hasher:        hasher,
		tokens:        tokens,
		clock:         clk,
		staffPasscode: staffPasscode,
		log:           log.Named("user.usecase"),
	}
}

func (u *UserUseCase) Register(ctx context.Context, in RegisterInput) (entities.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Password) == "" {
		return entities.User{}, ErrInvalidUser
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return entities.User{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users := u.repo.LoadUsers(ctx)
	if indexOfEmail(users, email) >= 0 {
		return entities.User{}, ErrEmailTaken
	}

	now := u.clock.Now()
	user := applyProfile(entities.User{ID: uuid.NewString(), CreatedAt: now}, in)
	user.Email = email
	user.PasswordHash = hash
	user.UpdatedAt = now

	u.repo.SaveUsers(ctx, append(users, user))
	u.log.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Authenticate checks customer credentials against the directory. Staff log in with
// the shared passcode; when none is configured any non-empty password is accepted.
func (u *UserUseCase) Authenticate(ctx context.Context, email, password string, role entities.Role) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	var actor entities.Actor
	switch role {
	case entities.RoleStaff:
		if u.staffPasscode != "" && subtle.ConstantTimeCompare([]byte(u.staffPasscode), []byte(password)) != 1 {
			return Session{}, ErrInvalidCredentials
		}
		actor = entities.Actor{
			ID:    "staff:" + email,
			Name:  entities.User{Email: email}.DisplayName(),
			Email: email,
			Role:  entities.RoleStaff,
		}
	case entities.RoleCustomer, "":
		users := u.repo.LoadUsers(ctx)
		idx := indexOfEmail(users, email)
		if idx < 0 || !u.hasher.Compare(users[idx].PasswordHash, password) {
			return Session{}, ErrInvalidCredentials
		}
		user := users[idx]
		actor = entities.Actor{
			ID:    user.ID,
			Name:  user.DisplayName(),
			Email: user.Email,
			Role:  entities.RoleCustomer,
		}
	default:
		return Session{}, ErrInvalidCredentials
	}

	token, exp, err := u.tokens.Issue(actor)
	if err != nil {
		return Session{}, err
	}
	u.log.Info("login", zap.String("actor_id", actor.ID), zap.String("role", string(actor.Role)))
	return Session{Token: token, ExpiresAt: exp, Actor: actor}, nil
}

// UpdateProfile upserts the caller's own record.
func (u *UserUseCase) UpdateProfile(ctx context.Context, actor *entities.Actor, in ProfileInput) (entities.User, error) {
	if actor == nil || actor.IsStaff() || actor.ID == "" {
		return entities.User{}, ErrForbidden
	}
	email := normalizeEmail(in.Email)
	if email == "" {
		email = normalizeEmail(actor.Email)
	}
	if email == "" {
		return entities.User{}, ErrInvalidUser
	}

	var hash string
	if strings.TrimSpace(in.Password) != "" {
		h, err := u.hasher.Hash(in.Password)
		if err != nil {
			return entities.User{}, err
		}
		hash = h
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users := u.repo.LoadUsers(ctx)
	if other := indexOfEmail(users, email); other >= 0 && users[other].ID != actor.ID {
		return entities.User{}, ErrEmailTaken
	}

	now := u.clock.Now()
	idx := indexOfUser(users, actor.ID)
	var user entities.User
	if idx >= 0 {
		user = users[idx]
	} else {
		user = entities.User{ID: actor.ID, CreatedAt: now}
	}
	user = applyProfile(user, in)
	user.Email = email
	user.UpdatedAt = now
	if hash != "" {
		user.PasswordHash = hash
	}

	next := make([]entities.User, len(users), len(users)+1)
	copy(next, users)
	if idx >= 0 {
		next[idx] = user
	} else {
		next = append(next, user)
	}
	u.repo.SaveUsers(ctx, next)
	return user, nil
}

func (u *UserUseCase) GetByID(ctx context.Context, id string) (entities.User, error) {
	users := u.repo.LoadUsers(ctx)
	idx := indexOfUser(users, strings.TrimSpace(id))
	if idx < 0 {
		return entities.User{}, ErrUserNotFound
	}
	return users[idx], nil
}

func (u *UserUseCase) List(ctx context.Context, actor *entities.Actor) ([]entities.User, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	return u.repo.LoadUsers(ctx), nil
}

func applyProfile(user entities.User, in RegisterInput) entities.User {
	user.LegalName = strings.TrimSpace(in.LegalName)
	user.TaxID = strings.TrimSpace(in.TaxID)
	user.StateTaxID = strings.TrimSpace(in.StateTaxID)
	user.Address = strings.TrimSpace(in.Address)
	user.City = strings.TrimSpace(in.City)
	user.State = strings.ToUpper(strings.TrimSpace(in.State))
	user.PostalCode = strings.TrimSpace(in.PostalCode)
	user.Phone = strings.TrimSpace(in.Phone)
	user.Username = strings.TrimSpace(in.Username)
	return user
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func indexOfEmail(users []entities.User, email string) int {
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			return i
		}
	}
	return -1
}

func indexOfUser(users []entities.User, id string) int {
	if id == "" {
		return -1
	}
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

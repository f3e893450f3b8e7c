package account

import (
	"context"
	"errors"
	"strings"

	"github.com/mpetrov/flightdesk/internal/auth"
	"github.com/mpetrov/flightdesk/internal/domain"
	"github.com/mpetrov/flightdesk/internal/repository"
	"github.com/mpetrov/flightdesk/internal/session"
)

type AccountUseCase interface {
	Register(ctx context.Context, username, password string, initialBalance int64) error
	Login(ctx context.Context, sess *session.Session, username, password string) error
	Logout(sess *session.Session)
}

type AccountService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
}

func NewAccountService(users repository.UserRepository, hasher *auth.Hasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

// Register creates an account with a fresh per-user salt and the given
// starting balance in minor units.
func (s *AccountService) Register(ctx context.Context, username, password string, initialBalance int64) error {
	if initialBalance < 0 {
		return domain.ErrNegativeBalance
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.ErrInvalidUsername
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return err
	}
	user := &domain.User{
		Username: username,
		Digest:   s.hasher.Hash(password, salt),
		Salt:     salt,
		Balance:  initialBalance,
	}
	return s.users.Create(ctx, user)
}

// Login authenticates against the stored digest and binds the identity
// to the session. A session with a user already bound rejects the
// attempt before touching the store.
func (s *AccountService) Login(ctx context.Context, sess *session.Session, username, password string) error {
	if _, ok := sess.User(); ok {
		return domain.ErrAlreadyLoggedIn
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrBadCredentials
		}
		return err
	}
	if !s.hasher.Verify(password, user.Salt, user.Digest) {
		return domain.ErrBadCredentials
	}
	return sess.Login(user.Username)
}

func (s *AccountService) Logout(sess *session.Session) {
	sess.Logout()
}

var _ AccountUseCase = (*AccountService)(nil)

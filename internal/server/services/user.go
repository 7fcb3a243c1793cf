package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/models"
	"github.com/florify/florify/internal/server/repositories/repomanager"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown email, so both failure paths cost one bcrypt comparison.
const dummyPassword = "florify-no-such-user"

// UserService handles registration and the session lifecycle:
//   - Register: create users with hashed passwords
//   - CreateSession: verify credentials and issue an opaque token
//   - ResolveSession / DestroySession: look up and revoke tokens
type UserService struct {
	store
	hasher    PasswordHasher
	newToken  TokenGenerator
	dummyHash func() string
}

// UserOption customizes a UserService.
type UserOption func(*UserService)

func WithPasswordHasher(h PasswordHasher) UserOption {
	return func(s *UserService) { s.hasher = h }
}

func WithTokenGenerator(g TokenGenerator) UserOption {
	return func(s *UserService) { s.newToken = g }
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, opts ...UserOption) *UserService {
	s := &UserService{
		store:  newStore(db, m, cfg, log),
		hasher: NewBcryptHasher(cfg.BcryptCost),
		newToken: func() (string, error) {
			return common.MakeRandHexString(common.SessionTokenBytes)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dummyHash = sync.OnceValue(func() string {
		h, _ := s.hasher.Hash(dummyPassword)
		return h
	})
	return s
}

// Register validates u, stores it with a hashed password and returns the
// public projection. A taken email yields common.ErrDuplicateEmail.
func (s *UserService) Register(ctx context.Context, u models.NewUser) (*models.User, error) {
	if err := s.validator.User(u); err != nil {
		return nil, err
	}

	// Hashing is CPU bound and stays outside the query deadline.
	hash, err := s.hasher.Hash(u.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hashing password: %w", common.ErrorInternal, err)
	}
	row := u
	row.Password = hash

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	user, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)
		id, err := repo.Create(ctx, row)
		if err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, dbx.Classify(err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// CreateSession checks the credentials and returns a new session token.
// An unknown email and a wrong password fail with the same
// common.ErrInvalidCredentials.
func (s *UserService) CreateSession(ctx context.Context, email, password string) (string, error) {
	if err := s.validator.Credentials(email, password); err != nil {
		return "", err
	}

	lookupCtx, cancel := s.opContext(ctx)
	creds, err := s.repomanager.Users(s.db).GetCredentialsByEmail(lookupCtx, email)
	cancel()
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Compare(s.dummyHash(), password)
			return "", common.ErrInvalidCredentials
		}
		return "", dbx.Classify(err)
	}

	// The comparison runs between the two storage calls, each with its own
	// deadline.
	if !s.hasher.Compare(creds.PasswordHash, password) {
		return "", common.ErrInvalidCredentials
	}

	token, err := s.newToken()
	if err != nil {
		return "", fmt.Errorf("%w: generating session token: %w", common.ErrorInternal, err)
	}

	insertCtx, cancel := s.opContext(ctx)
	defer cancel()
	if err := s.repomanager.Sessions(s.db).Create(insertCtx, token, creds.UserID); err != nil {
		return "", dbx.Classify(err)
	}

	s.log.Info(ctx, "session created", "user_id", creds.UserID)
	return token, nil
}

// ResolveSession returns the user owning token. An unknown or empty token is
// reported as (nil, false, nil).
func (s *UserService) ResolveSession(ctx context.Context, token string) (*models.User, bool, error) {
	if token == "" {
		return nil, false, nil
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	user, err := s.repomanager.Sessions(s.db).GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, nil
		}
		return nil, false, dbx.Classify(err)
	}

	return user, true, nil
}

// DestroySession revokes token. Unknown tokens are ignored.
func (s *UserService) DestroySession(ctx context.Context, token string) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.repomanager.Sessions(s.db).Delete(ctx, token); err != nil {
		return dbx.Classify(err)
	}
	return nil
}

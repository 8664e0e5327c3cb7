package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/pressroom/pressroom/internal/session"
	"github.com/pressroom/pressroom/internal/utils"
)

const opTimeout = 3 * time.Second

// Service verifies credentials and creates accounts against the users
// table. It also resolves session tokens to a full identity for the
// session middleware.
type Service struct {
	db       *gorm.DB
	sessions *session.Store
}

func NewService(gdb *gorm.DB, sessions *session.Store) *Service {
	return &Service{db: gdb, sessions: sessions}
}

// CanonicalUsername normalizes a username to NFC and lowercases it, so
// uniqueness and lookups are insensitive to case and Unicode form.
func CanonicalUsername(username string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(username)))
}

// Authenticate fetches the user by canonical username and compares the
// bcrypt hash. Unknown username and wrong password both return
// ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user User
	err := s.db.WithContext(ctx).First(&user, "username = ?", CanonicalUsername(username)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("fetching user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Register hashes the password and inserts the new user in a single
// statement. The unique constraint on username closes the check-then-insert
// race: under concurrent registration of the same name, exactly one insert
// succeeds and the rest map to ErrUsernameTaken.
func (s *Service) Register(ctx context.Context, username, password string) (User, error) {
	canonical := CanonicalUsername(username)
	if canonical == "" || password == "" {
		return User{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	user := User{Username: canonical, PasswordHash: string(hashed)}
	err = s.db.WithContext(ctx).Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return User{}, ErrUsernameTaken
	}
	if err != nil {
		return User{}, fmt.Errorf("inserting user: %w", err)
	}
	return user, nil
}

// UserByUsername returns the user row for a canonical username.
func (s *Service) UserByUsername(ctx context.Context, username string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var user User
	err := s.db.WithContext(ctx).First(&user, "username = ?", CanonicalUsername(username)).Error
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// ResolveIdentity maps a session token to the authenticated identity: the
// session store yields the username, the users table yields the ID. Used by
// the session middleware on every protected request.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (utils.Identity, error) {
	username, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return utils.Identity{}, err
	}

	user, err := s.UserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Session outlived the account; treat as logged out.
		return utils.Identity{}, session.ErrNoSession
	}
	if err != nil {
		return utils.Identity{}, fmt.Errorf("fetching session user: %w", err)
	}

	return utils.Identity{UserID: user.ID, Username: user.Username}, nil
}

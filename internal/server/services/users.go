// Package services contains server-side business logic: account
// registration and login, and the owner-scoped task operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MaxUsernameLength bounds usernames, counted in characters.
const MaxUsernameLength = 64

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
	DummyVerify(plain string)
}

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(c auth.SessionClaims) (string, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  models.PublicUser
}

// UserService provides authentication-related operations:
// - Register: validate input, hash the password and create the user
// - Login: verify credentials and mint a session token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h PasswordHasher, t TokenIssuer, l logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      h,
		tokens:      t,
		logger:      l.With("module", "user_service"),
	}
}

// Register creates a new user. Invalid input yields *common.ValidationError,
// a taken username common.ErrorAlreadyExists, anything else
// common.ErrorInternal.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	err := validation.Errors{
		"username": validation.Validate(username,
			validation.Required.Error("Username is required"),
			validation.RuneLength(1, MaxUsernameLength).Error("Username must be at most 64 characters")),
		"password": validation.Validate(password,
			validation.Required.Error("Password is required"),
			validation.Length(0, auth.MaxPasswordBytes).Error("Password must be at most 72 bytes")),
		"email": validation.Validate(email,
			is.Email.Error("Email must be a valid email address")),
	}.Filter()
	if err := firstFieldError(err, "username", "password", "email"); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, err
		}
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user := &models.User{UserName: username, PasswordHash: hash, Email: email}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies credentials and issues a token. Unknown users and wrong
// passwords both yield common.ErrorUnauthorized and cost one bcrypt
// comparison each.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.DummyVerify(password)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(auth.SessionClaims{UserID: user.ID, Username: user.UserName})
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		Token: token,
		User:  models.PublicUser{ID: user.ID, UserName: user.UserName},
	}, nil
}

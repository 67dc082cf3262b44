package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/models"
)

// ErrInvalidCredentials is returned on any authentication failure. It
// deliberately carries no detail about whether the email or the password
// was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserLookup defines the directory interface the authenticator needs.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Session is the result of a successful authentication: a signed token
// plus the authenticated user.
type Session struct {
	Token string       `json:"access_token"`
	User  *models.User `json:"user"`
}

// Authenticator verifies credentials against the user directory and
// issues session tokens.
type Authenticator struct {
	users  UserLookup
	tokens *TokenManager
	logger zerolog.Logger
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(users UserLookup, tokens *TokenManager, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("component", "authenticator").Logger(),
	}
}

// Authenticate looks up the user by exact email match, compares the
// password against the stored bcrypt hash, and issues a session token.
// Both unknown email and wrong password surface as ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		a.logger.Debug().Str("email", email).Msg("login for unknown email")
		return nil, ErrInvalidCredentials
	}

	if err := CheckPassword(user.PasswordHash, password); err != nil {
		a.logger.Debug().Str("user_id", user.ID.String()).Msg("password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, err := a.tokens.Issue(user.ID, user.Email, string(user.Role), user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	a.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user authenticated")

	return &Session{Token: token, User: user}, nil
}

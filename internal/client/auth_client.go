package client

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// AuthResult is a successful register or login.
type AuthResult struct {
	User    domain.User
	Token   string
	Message string
	Mock    bool
}

// AuthClient performs authentication against the remote API, degrading to
// the mock provider when its policy allows, and keeps the Session in step.
type AuthClient struct {
	remote    ports.AuthSource
	mock      ports.AuthSource
	policy    FallbackPolicy
	session   *Session
	validator *Validator
	log       zerolog.Logger
}

func NewAuthClient(
	remote, mock ports.AuthSource,
	policy FallbackPolicy,
	session *Session,
	validator *Validator,
	log zerolog.Logger,
) *AuthClient {
	return &AuthClient{
		remote:    remote,
		mock:      mock,
		policy:    policy,
		session:   session,
		validator: validator,
		log:       log,
	}
}

// Register creates an account and stores the resulting session.
func (c *AuthClient) Register(ctx context.Context, in domain.Registration) (*AuthResult, error) {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"email", in.Email},
		{"password", in.Password},
		{"firstName", in.FirstName},
		{"lastName", in.LastName},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	payload, _, err := degrade(ctx, c.log, "register", c.policy, c.remote, c.mock,
		func(src ports.AuthSource) (*ports.AuthPayload, error) {
			return src.Register(ctx, in)
		})
	if err != nil {
		return nil, withDefaultMessage(err, "Registration failed")
	}
	return c.establish(ctx, payload)
}

// Login authenticates with email and password and stores the resulting session.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	payload, _, err := degrade(ctx, c.log, "login", c.policy, c.remote, c.mock,
		func(src ports.AuthSource) (*ports.AuthPayload, error) {
			return src.Login(ctx, email, password)
		})
	if err != nil {
		return nil, withDefaultMessage(err, "Invalid email or password")
	}
	return c.establish(ctx, payload)
}

func (c *AuthClient) establish(ctx context.Context, p *ports.AuthPayload) (*AuthResult, error) {
	if p == nil || p.Token == "" || p.User == nil {
		return nil, &domain.ServerError{Message: "Invalid response from server"}
	}
	user, err := c.validator.Validate(p.User)
	if err != nil {
		return nil, err
	}
	if err := c.session.Save(ctx, p.Token, user); err != nil {
		return nil, err
	}
	if p.Mock {
		c.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("signed in with mock data")
	}
	return &AuthResult{User: user, Token: p.Token, Message: p.Message, Mock: p.Mock}, nil
}

// CurrentUser resolves the user behind the stored token. It returns nil with
// no error when there is no token, making no remote call. When the remote
// call fails and no fallback applies, the session is cleared.
func (c *AuthClient) CurrentUser(ctx context.Context) (*domain.User, error) {
	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	payload, mocked, err := degrade(ctx, c.log, "me", c.policy, c.remote, c.mock,
		func(src ports.AuthSource) (domain.UserPayload, error) {
			return src.Me(ctx, token)
		})
	if err == nil && payload == nil {
		return nil, nil
	}

	var user domain.User
	if err == nil {
		user, err = c.validator.Validate(payload)
		if err != nil && mocked {
			c.log.Warn().Err(err).Msg("stored user failed validation")
			return nil, nil
		}
	}
	if err != nil {
		c.clearFor(ctx, token)
		return nil, &domain.AuthError{Message: "Failed to get user data", Err: err}
	}

	if !mocked {
		if _, err := c.session.SaveUserFor(ctx, token, user); err != nil {
			c.log.Warn().Err(err).Msg("could not refresh stored user")
		}
	}
	return &user, nil
}

func (c *AuthClient) clearFor(ctx context.Context, token string) {
	cleared, err := c.session.ClearFor(ctx, token)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not clear session")
		return
	}
	if !cleared {
		c.log.Debug().Msg("session changed during refresh, keeping it")
	}
}

// Logout clears the session. It never fails.
func (c *AuthClient) Logout(ctx context.Context) {
	if err := c.session.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("could not clear session")
	}
}

// IsAuthenticated reports whether a token is stored.
func (c *AuthClient) IsAuthenticated(ctx context.Context) bool {
	token, err := c.session.Token(ctx)
	return err == nil && token != ""
}

// UserRole returns the stored user's role. ok is false when there is no
// stored user or it cannot be read.
func (c *AuthClient) UserRole(ctx context.Context) (role domain.Role, ok bool) {
	u, err := c.session.User(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not read stored user")
		return "", false
	}
	if u == nil {
		return "", false
	}
	return u.Role, true
}

// withDefaultMessage fills in fallback when the failure carries no
// server-provided message.
func withDefaultMessage(err error, fallback string) error {
	var (
		ae *domain.AuthError
		se *domain.ServerError
	)
	switch {
	case errors.As(err, &ae) && ae.Message == "":
		return &domain.AuthError{Message: fallback, Err: ae.Err}
	case errors.As(err, &se) && se.Message == "":
		return &domain.ServerError{Status: se.Status, Message: fallback}
	}
	return err
}

package client

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
)

// State is the lifecycle state of an AuthContext.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

var ErrAlreadyMounted = errors.New("auth context already mounted")

// Authenticator is the auth capability the context drives. *AuthClient
// implements it.
type Authenticator interface {
	CurrentUser(ctx context.Context) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in domain.Registration) (*AuthResult, error)
	Logout(ctx context.Context)
}

// AuthContext holds the process-wide view of who is signed in.
//
// A successful Login or Register, and every Logout, bumps a generation
// counter. A session restore started by Mount only applies its result if the
// counter has not moved, so an explicit sign-in always wins over a slow
// restore while a failed attempt leaves the restored user in place.
//
// signMu is held for the whole of a sign-in call and while a restore applies
// its result, so a failed restore cannot clear a session a concurrent
// sign-in has just written.
type AuthContext struct {
	auth   Authenticator
	drafts *ProfileDrafts
	log    zerolog.Logger

	signMu  sync.Mutex
	mu      sync.Mutex
	state   State
	user    *domain.User
	errMsg  string
	gen     uint64
	mounted bool
}

func NewAuthContext(auth Authenticator, drafts *ProfileDrafts, log zerolog.Logger) *AuthContext {
	return &AuthContext{auth: auth, drafts: drafts, log: log}
}

// Mount restores the session once. Calling it again returns ErrAlreadyMounted.
func (a *AuthContext) Mount(ctx context.Context) error {
	a.mu.Lock()
	if a.mounted {
		a.mu.Unlock()
		return ErrAlreadyMounted
	}
	a.mounted = true
	a.state = StateLoading
	gen := a.gen
	a.mu.Unlock()

	user, err := a.auth.CurrentUser(ctx)

	a.signMu.Lock()
	defer a.signMu.Unlock()
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		a.log.Debug().Msg("session restore superseded")
		a.settleLocked()
		return nil
	}
	if err != nil {
		a.errMsg = domain.UserMessage(err, "Failed to get user data")
		a.user = nil
		a.auth.Logout(ctx)
		a.state = StateAnonymous
		return nil
	}
	a.user = user
	a.settleLocked()
	return nil
}

// settleLocked derives the terminal state from the current user.
func (a *AuthContext) settleLocked() {
	if a.user != nil {
		a.state = StateAuthenticated
	} else {
		a.state = StateAnonymous
	}
}

func (a *AuthContext) begin() {
	a.mu.Lock()
	a.errMsg = ""
	a.mu.Unlock()
}

func (a *AuthContext) fail(err error, fallback string) {
	a.mu.Lock()
	a.errMsg = domain.UserMessage(err, fallback)
	if a.state == StateUninitialized {
		a.state = StateAnonymous
	}
	a.mu.Unlock()
}

func (a *AuthContext) signIn(res *AuthResult) *domain.User {
	u := res.User
	a.mu.Lock()
	a.gen++
	a.user = &u
	a.state = StateAuthenticated
	a.mu.Unlock()
	out := u
	return &out
}

// Login signs in and stashes the profile draft.
func (a *AuthContext) Login(ctx context.Context, email, password string) (*domain.User, error) {
	a.signMu.Lock()
	defer a.signMu.Unlock()
	a.begin()
	res, err := a.auth.Login(ctx, email, password)
	if err != nil {
		a.fail(err, "Login failed")
		return nil, err
	}
	if a.drafts != nil {
		if err := a.drafts.Stash(ctx, domain.DraftFromUser(res.User)); err != nil {
			a.log.Warn().Err(err).Msg("could not stash profile draft")
		}
	}
	return a.signIn(res), nil
}

// Register creates an account, signs in and stashes the submitted fields as
// the profile draft.
func (a *AuthContext) Register(ctx context.Context, in domain.Registration) (*domain.User, error) {
	a.signMu.Lock()
	defer a.signMu.Unlock()
	a.begin()
	res, err := a.auth.Register(ctx, in)
	if err != nil {
		a.fail(err, "Registration failed")
		return nil, err
	}
	if a.drafts != nil {
		draft := domain.ProfileDraft{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
			Address:   in.Address,
		}
		if err := a.drafts.Stash(ctx, draft); err != nil {
			a.log.Warn().Err(err).Msg("could not stash profile draft")
		}
	}
	return a.signIn(res), nil
}

// Logout clears the session and the in-memory user.
func (a *AuthContext) Logout(ctx context.Context) {
	a.signMu.Lock()
	defer a.signMu.Unlock()
	a.mu.Lock()
	a.gen++
	a.errMsg = ""
	a.mu.Unlock()

	a.auth.Logout(ctx)
	a.mu.Lock()
	a.user = nil
	a.state = StateAnonymous
	a.mu.Unlock()
}

// User returns a copy of the signed-in user, or nil.
func (a *AuthContext) User() *domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *AuthContext) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Loading reports whether the initial restore is still running.
func (a *AuthContext) Loading() bool {
	return a.State() == StateLoading
}

func (a *AuthContext) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil
}

// Err returns the message of the last failure, or "".
func (a *AuthContext) Err() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errMsg
}

func (a *AuthContext) HasRole(role domain.Role) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil && a.user.Role == role
}

func (a *AuthContext) HasAnyRole(roles ...domain.Role) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.user != nil && slices.Contains(roles, a.user.Role)
}

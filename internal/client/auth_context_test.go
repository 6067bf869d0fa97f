package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// stubAuthenticator lets a test decide what each call returns and when.
type stubAuthenticator struct {
	currentUser func(ctx context.Context) (*domain.User, error)
	login       func(ctx context.Context, email, password string) (*AuthResult, error)
	register    func(ctx context.Context, in domain.Registration) (*AuthResult, error)
	logouts     atomic.Int32
}

func (s *stubAuthenticator) CurrentUser(ctx context.Context) (*domain.User, error) {
	if s.currentUser == nil {
		return nil, nil
	}
	return s.currentUser(ctx)
}

func (s *stubAuthenticator) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return s.login(ctx, email, password)
}

func (s *stubAuthenticator) Register(ctx context.Context, in domain.Registration) (*AuthResult, error) {
	return s.register(ctx, in)
}

func (s *stubAuthenticator) Logout(context.Context) { s.logouts.Add(1) }

var (
	userA = domain.User{ID: "a", Email: "a@b.c", Role: domain.RoleUser, FirstName: "A", LastName: "One"}
	userB = domain.User{ID: "b", Email: "b@b.c", Role: domain.RoleAdmin, FirstName: "B", LastName: "Two"}
)

func TestAuthContext_MountAnonymous(t *testing.T) {
	a := NewAuthContext(&stubAuthenticator{}, nil, nopLog)
	assert.Equal(t, StateUninitialized, a.State())

	require.NoError(t, a.Mount(context.Background()))
	assert.Equal(t, StateAnonymous, a.State())
	assert.False(t, a.IsAuthenticated())
	assert.ErrorIs(t, a.Mount(context.Background()), ErrAlreadyMounted)
}

func TestAuthContext_MountRestoresUser(t *testing.T) {
	stub := &stubAuthenticator{currentUser: func(context.Context) (*domain.User, error) {
		u := userB
		return &u, nil
	}}
	a := NewAuthContext(stub, nil, nopLog)

	require.NoError(t, a.Mount(context.Background()))
	assert.Equal(t, StateAuthenticated, a.State())
	assert.True(t, a.HasRole(domain.RoleAdmin))
	assert.False(t, a.HasRole(domain.RoleUser))
	assert.True(t, a.HasAnyRole(domain.RoleDelivery, domain.RoleAdmin))
	assert.False(t, a.HasAnyRole())
}

func TestAuthContext_MountFailureLogsOut(t *testing.T) {
	stub := &stubAuthenticator{currentUser: func(context.Context) (*domain.User, error) {
		return nil, &domain.AuthError{Message: "Failed to get user data"}
	}}
	a := NewAuthContext(stub, nil, nopLog)

	require.NoError(t, a.Mount(context.Background()))
	assert.Equal(t, StateAnonymous, a.State())
	assert.Equal(t, "Failed to get user data", a.Err())
	assert.Equal(t, int32(1), stub.logouts.Load())
}

func TestAuthContext_LoginWinsOverSlowRestore(t *testing.T) {
	for _, restoreFails := range []bool{false, true} {
		release := make(chan struct{})
		started := make(chan struct{})
		stub := &stubAuthenticator{
			currentUser: func(context.Context) (*domain.User, error) {
				close(started)
				<-release
				if restoreFails {
					return nil, errors.New("boom")
				}
				u := userA
				return &u, nil
			},
			login: func(context.Context, string, string) (*AuthResult, error) {
				return &AuthResult{User: userB, Token: "tok-b"}, nil
			},
		}
		a := NewAuthContext(stub, nil, nopLog)
		ctx := context.Background()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.Mount(ctx))
		}()
		<-started
		assert.True(t, a.Loading())

		got, err := a.Login(ctx, "b@b.c", "pw")
		require.NoError(t, err)
		assert.Equal(t, "b", got.ID)

		close(release)
		wg.Wait()

		require.NotNil(t, a.User())
		assert.Equal(t, "b", a.User().ID, "restoreFails=%v", restoreFails)
		assert.Equal(t, StateAuthenticated, a.State())
		assert.Zero(t, stub.logouts.Load(), "a superseded restore must not log out")
		assert.Empty(t, a.Err())
	}
}

func TestAuthContext_FailedLoginKeepsRestoredUser(t *testing.T) {
	for _, creds := range [][2]string{{"x@y.z", "wrong"}, {"", ""}} {
		release := make(chan struct{})
		started := make(chan struct{})
		stub := &stubAuthenticator{
			currentUser: func(context.Context) (*domain.User, error) {
				close(started)
				<-release
				u := userA
				return &u, nil
			},
			login: func(_ context.Context, email, password string) (*AuthResult, error) {
				if email == "" || password == "" {
					return nil, domain.NewValidationError("Email and password are required")
				}
				return nil, domain.NewAuthError("Invalid email or password")
			},
		}
		a := NewAuthContext(stub, nil, nopLog)
		ctx := context.Background()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.Mount(ctx))
		}()
		<-started

		_, err := a.Login(ctx, creds[0], creds[1])
		require.Error(t, err)
		assert.NotEmpty(t, a.Err())

		close(release)
		wg.Wait()

		require.NotNil(t, a.User(), "creds=%v", creds)
		assert.Equal(t, "a", a.User().ID)
		assert.Equal(t, StateAuthenticated, a.State())
		assert.Zero(t, stub.logouts.Load())
	}
}

func TestAuthContext_FailedLoginKeepsStoredSession(t *testing.T) {
	remote := &mockAuthSource{}
	remote.On("Me", mock.Anything, "tok").Return(domain.WrappedUser{User: &domain.RawUser{
		ID: "7", Email: "a@b.c", Role: "user", FirstName: "Ana", LastName: "Hoxha",
	}}, nil)

	s := newTestSession()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "tok", userA))

	client := NewAuthClient(remote, newTestMock(s), Never(), s, NewValidator(fixedClock), nopLog)
	a := NewAuthContext(client, nil, nopLog)

	_, err := a.Login(ctx, "", "")
	require.Error(t, err)
	require.NoError(t, a.Mount(ctx))

	require.NotNil(t, a.User())
	assert.Equal(t, "7", a.User().ID)
	tok, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
	remote.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthContext_RestoreFinishingFirstIsReplacedByLogin(t *testing.T) {
	stub := &stubAuthenticator{
		currentUser: func(context.Context) (*domain.User, error) {
			u := userA
			return &u, nil
		},
		login: func(context.Context, string, string) (*AuthResult, error) {
			return &AuthResult{User: userB, Token: "tok-b"}, nil
		},
	}
	a := NewAuthContext(stub, nil, nopLog)
	ctx := context.Background()

	require.NoError(t, a.Mount(ctx))
	assert.Equal(t, "a", a.User().ID)

	_, err := a.Login(ctx, "b@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "b", a.User().ID)
}

func TestAuthContext_LoginFailureSetsError(t *testing.T) {
	stub := &stubAuthenticator{login: func(context.Context, string, string) (*AuthResult, error) {
		return nil, &domain.AuthError{Message: "Invalid email or password"}
	}}
	a := NewAuthContext(stub, nil, nopLog)

	_, err := a.Login(context.Background(), "x@y.z", "pw")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", a.Err())
	assert.False(t, a.IsAuthenticated())
}

func TestAuthContext_LogoutClearsUser(t *testing.T) {
	stub := &stubAuthenticator{login: func(context.Context, string, string) (*AuthResult, error) {
		return &AuthResult{User: userA, Token: "t"}, nil
	}}
	a := NewAuthContext(stub, nil, nopLog)
	ctx := context.Background()

	_, err := a.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	a.Logout(ctx)

	assert.Nil(t, a.User())
	assert.Equal(t, StateAnonymous, a.State())
	assert.Equal(t, int32(1), stub.logouts.Load())
}

func TestAuthContext_EndToEndWithMockFallback(t *testing.T) {
	remote := &mockAuthSource{}
	remote.On("Login", mock.Anything, "demo@example.com", "pw").Return(nil, networkErr("login"))
	remote.On("Register", mock.Anything, mock.Anything).Return(nil, networkErr("register"))

	s := newTestSession()
	client := NewAuthClient(remote, newTestMock(s), ConnectivityOnly(true), s, NewValidator(fixedClock), nopLog)
	drafts := NewProfileDrafts(s, nopLog)
	a := NewAuthContext(client, drafts, nopLog)
	ctx := context.Background()

	require.NoError(t, a.Mount(ctx))
	assert.Equal(t, StateAnonymous, a.State())

	u, err := a.Login(ctx, "demo@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", u.Name)
	assert.True(t, a.HasRole(domain.RoleUser))

	seed := drafts.Seed(ctx, *u)
	assert.Equal(t, "+1 234 567 8901", seed.Phone)

	_, err = a.Register(ctx, domain.Registration{
		Email: "new@b.c", Password: "pw", FirstName: "New", LastName: "Person", Phone: "+355 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@b.c", a.User().Email)

	raw, ok, err := s.store.Get(ctx, ports.SessionKeyProfile)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, raw, "+355 2")

	a.Logout(ctx)
	assert.False(t, client.IsAuthenticated(ctx))
	remote.AssertExpectations(t)
}

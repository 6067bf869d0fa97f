// Package client is the storefront's session core: it owns the persisted
// session, validates every user record before it reaches session state, and
// degrades from the remote API to mock data according to explicit policies.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// Session is the single owner of the persisted (token, user) pair and of the
// profile-draft hand-off buffer. It is created once and injected into the
// auth and order clients; nothing else touches the underlying store.
type Session struct {
	store ports.SessionStore
	mu    sync.Mutex
}

func NewSession(store ports.SessionStore) *Session {
	return &Session{store: store}
}

// Token returns the stored bearer token, or "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	tok, _, err := s.store.Get(ctx, ports.SessionKeyToken)
	if err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return tok, nil
}

// User decodes the stored user record. It returns nil when none is stored.
func (s *Session) User(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.store.Get(ctx, ports.SessionKeyUser)
	if err != nil {
		return nil, fmt.Errorf("session user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("session user: decode: %w", err)
	}
	return &u, nil
}

// StoredPayload returns the stored user record as an unvalidated payload so
// it can be replayed through the validator.
func (s *Session) StoredPayload(ctx context.Context) (domain.UserPayload, error) {
	raw, ok, err := s.store.Get(ctx, ports.SessionKeyUser)
	if err != nil {
		return nil, fmt.Errorf("session user: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	return domain.DecodeUserPayload([]byte(raw))
}

// Save replaces both halves of the session. When the user cannot be written
// the previous token is put back, so the store never pairs the new token
// with the old user or with none.
func (s *Session) Save(ctx context.Context, token string, u domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, hadPrev, err := s.store.Get(ctx, ports.SessionKeyToken)
	if err != nil {
		hadPrev = false
	}
	if err := s.store.Set(ctx, ports.SessionKeyToken, token); err != nil {
		return fmt.Errorf("session save token: %w", err)
	}
	if err := s.store.Set(ctx, ports.SessionKeyUser, string(data)); err != nil {
		s.restoreToken(ctx, prev, hadPrev)
		return fmt.Errorf("session save user: %w", err)
	}
	return nil
}

func (s *Session) restoreToken(ctx context.Context, prev string, ok bool) {
	if ok {
		if s.store.Set(ctx, ports.SessionKeyToken, prev) == nil {
			return
		}
	}
	_ = s.store.Delete(ctx, ports.SessionKeyToken, ports.SessionKeyUser)
}

// SaveUserFor replaces the stored user only while token is still the stored
// token, so a slow refresh cannot overwrite a newer login.
func (s *Session) SaveUserFor(ctx context.Context, token string, u domain.User) (bool, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return false, fmt.Errorf("session save user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, _, err := s.store.Get(ctx, ports.SessionKeyToken)
	if err != nil {
		return false, fmt.Errorf("session token: %w", err)
	}
	if current != token {
		return false, nil
	}
	if err := s.store.Set(ctx, ports.SessionKeyUser, string(data)); err != nil {
		return false, fmt.Errorf("session save user: %w", err)
	}
	return true, nil
}

// Clear removes the token and the user.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, ports.SessionKeyToken, ports.SessionKeyUser); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

// ClearFor removes the token and the user only while token is still the
// stored token.
func (s *Session) ClearFor(ctx context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, _, err := s.store.Get(ctx, ports.SessionKeyToken)
	if err != nil {
		return false, fmt.Errorf("session token: %w", err)
	}
	if current != token {
		return false, nil
	}
	if err := s.store.Delete(ctx, ports.SessionKeyToken, ports.SessionKeyUser); err != nil {
		return false, fmt.Errorf("session clear: %w", err)
	}
	return true, nil
}

// StashDraft writes the profile draft, replacing any previous one.
func (s *Session) StashDraft(ctx context.Context, d domain.ProfileDraft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("stash profile draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Set(ctx, ports.SessionKeyProfile, string(data)); err != nil {
		return fmt.Errorf("stash profile draft: %w", err)
	}
	return nil
}

// TakeDraft reads the profile draft and deletes it. The draft is deleted even
// when it cannot be decoded. It returns nil when no draft is stored.
func (s *Session) TakeDraft(ctx context.Context) (*domain.ProfileDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok, err := s.store.Get(ctx, ports.SessionKeyProfile)
	if err != nil {
		return nil, fmt.Errorf("take profile draft: %w", err)
	}
	if !ok {
		return nil, nil
	}
	if err := s.store.Delete(ctx, ports.SessionKeyProfile); err != nil {
		return nil, fmt.Errorf("take profile draft: %w", err)
	}
	var d domain.ProfileDraft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("take profile draft: decode: %w", err)
	}
	return &d, nil
}

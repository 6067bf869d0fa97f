package client

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
)

// ProfileDrafts hands the fields captured at login or registration over to
// the profile editor exactly once.
type ProfileDrafts struct {
	session *Session
	log     zerolog.Logger
}

func NewProfileDrafts(session *Session, log zerolog.Logger) *ProfileDrafts {
	return &ProfileDrafts{session: session, log: log}
}

// Stash replaces the pending draft.
func (d *ProfileDrafts) Stash(ctx context.Context, draft domain.ProfileDraft) error {
	return d.session.StashDraft(ctx, draft)
}

// Seed returns the editable profile for u. A pending draft is consumed and
// its non-empty fields are laid over the user's; id and email always come
// from u.
func (d *ProfileDrafts) Seed(ctx context.Context, u domain.User) domain.ProfileDraft {
	out := domain.DraftFromUser(u)
	out.ID = u.ID

	draft, err := d.session.TakeDraft(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("discarding unreadable profile draft")
		return out
	}
	if draft == nil {
		return out
	}
	overlay(&out.FirstName, draft.FirstName)
	overlay(&out.LastName, draft.LastName)
	overlay(&out.Phone, draft.Phone)
	overlay(&out.Address, draft.Address)
	return out
}

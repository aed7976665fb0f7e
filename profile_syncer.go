package goSession

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// profileSyncer maps a verified identity to and from its profile record.
// A missing record is a normal outcome, not a failure: the syncer then
// synthesizes a minimal profile from identity fields and hands it out
// without persisting it — creating the durable record is the backend's
// trigger responsibility.
type profileSyncer struct {
	store ProfileStore
	now   func() time.Time
}

func newProfileSyncer(store ProfileStore, now func() time.Time) *profileSyncer {
	if now == nil {
		now = time.Now
	}
	return &profileSyncer{
		store: store,
		now:   now,
	}
}

// Load returns the stored profile for identity, or a synthesized minimal
// one when no record exists. synthesized reports which of the two happened.
// Genuine backend failures wrap [ErrBackendUnavailable].
func (s *profileSyncer) Load(ctx context.Context, identity *Identity) (profile *Profile, synthesized bool, err error) {
	if identity == nil || identity.ID == "" {
		return nil, false, ErrNotAuthenticated
	}
	if s.store == nil {
		return s.synthesize(identity), true, nil
	}

	stored, err := s.store.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return s.synthesize(identity), true, nil
		}
		if errors.Is(err, ErrBackendUnavailable) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return stored, false, nil
}

// Update writes the patch through the profile store, refreshing UpdatedAt.
// It requires a present identity and maps a refused write to
// [ErrBackendRejected].
func (s *profileSyncer) Update(ctx context.Context, identity *Identity, patch ProfilePatch) (*Profile, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrNotAuthenticated
	}
	if s.store == nil {
		return nil, ErrControllerNotReady
	}

	patch.UpdatedAt = s.now()

	updated, err := s.store.Upsert(ctx, identity.ID, patch)
	if err != nil {
		if errors.Is(err, ErrBackendUnavailable) {
			return nil, err
		}
		if errors.Is(err, ErrBackendRejected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendRejected, err)
	}

	return updated, nil
}

func (s *profileSyncer) synthesize(identity *Identity) *Profile {
	return &Profile{
		ID:          identity.ID,
		Email:       identity.Email,
		IsActive:    true,
		DisplayName: identity.DisplayName(),
		Metadata:    identity.Metadata,
	}
}

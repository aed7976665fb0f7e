package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goSession "github.com/MrEthical07/goSession"
	"github.com/redis/go-redis/v9"
)

// Profiles is the profile-record view of a [Store].
//
// Profiles instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Profiles struct {
	store *Store
}

type profileBlob struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	IsActive    bool              `json:"is_active"`
	DisplayName string            `json:"display_name,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   int64             `json:"created_at"`
	UpdatedAt   int64             `json:"updated_at"`
}

func encodeProfile(p *goSession.Profile) ([]byte, error) {
	return json.Marshal(profileBlob{
		ID:          p.ID,
		Email:       p.Email,
		IsActive:    p.IsActive,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Metadata:    p.Metadata,
		CreatedAt:   p.CreatedAt.Unix(),
		UpdatedAt:   p.UpdatedAt.Unix(),
	})
}

func decodeProfile(data []byte) (*goSession.Profile, error) {
	var blob profileBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &goSession.Profile{
		ID:          blob.ID,
		Email:       blob.Email,
		IsActive:    blob.IsActive,
		DisplayName: blob.DisplayName,
		AvatarURL:   blob.AvatarURL,
		Metadata:    blob.Metadata,
		CreatedAt:   unixTime(blob.CreatedAt),
		UpdatedAt:   unixTime(blob.UpdatedAt),
	}, nil
}

// GetByID retrieves a profile record. Returns goSession.ErrProfileNotFound
// when no record exists for the id.
//
//	Performance: 1 Redis GET.
func (p *Profiles) GetByID(ctx context.Context, id string) (*goSession.Profile, error) {
	data, err := p.store.redis.Get(ctx, p.store.profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, goSession.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}
	return decodeProfile(data)
}

// Upsert applies a patch to the stored profile, creating the record when
// absent. Nil pointer fields in the patch leave the stored value untouched.
//
//	Performance: 1 Redis GET + 1 transactional SET/SADD pair.
func (p *Profiles) Upsert(ctx context.Context, id string, patch goSession.ProfilePatch) (*goSession.Profile, error) {
	current, err := p.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, goSession.ErrProfileNotFound) {
			return nil, err
		}
		current = &goSession.Profile{
			ID:        id,
			IsActive:  true,
			CreatedAt: p.store.now(),
		}
	}

	if patch.DisplayName != nil {
		current.DisplayName = *patch.DisplayName
	}
	if patch.AvatarURL != nil {
		current.AvatarURL = *patch.AvatarURL
	}
	if patch.Metadata != nil {
		current.Metadata = patch.Metadata
	}
	current.UpdatedAt = patch.UpdatedAt
	if current.UpdatedAt.IsZero() {
		current.UpdatedAt = p.store.now()
	}

	data, err := encodeProfile(current)
	if err != nil {
		return nil, err
	}

	_, err = p.store.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, p.store.profileKey(id), data, 0)
		pipe.SAdd(ctx, p.store.profileIndexKey(), id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}

	return current, nil
}

// List returns profiles ordered by ID, paginated by limit and offset.
// A non-positive limit returns all remaining records.
//
// This is an admin-facing O(n) operation and must not be used in request
// hot paths.
func (p *Profiles) List(ctx context.Context, limit, offset int) ([]goSession.Profile, error) {
	ids, err := p.store.redis.SMembers(ctx, p.store.profileIndexKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []goSession.Profile{}, nil
		}
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}
	sort.Strings(ids)

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []goSession.Profile{}, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	pipe := p.store.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, p.store.profileKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}

	profiles := make([]goSession.Profile, 0, len(ids))
	for _, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				// Index entry without a record; skip the stray id.
				continue
			}
			return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, cmdErr)
		}
		record, decErr := decodeProfile(data)
		if decErr != nil {
			return nil, decErr
		}
		profiles = append(profiles, *record)
	}

	return profiles, nil
}

package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/rbac"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Roles is the role-catalog and user↔role view of a [Store].
//
// Roles instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Roles struct {
	store *Store
}

type roleBlob struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

// CreateRole adds a role to the catalog under a fresh UUID and indexes it
// by name. Creating a role whose name is already taken returns the existing
// role unchanged.
func (r *Roles) CreateRole(ctx context.Context, name, description string) (*goSession.Role, error) {
	existing, err := r.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, rbac.ErrRoleNotFound) {
		return nil, err
	}

	role := &goSession.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	data, err := json.Marshal(roleBlob{ID: role.ID, Name: role.Name, Description: role.Description})
	if err != nil {
		return nil, err
	}

	_, err = r.store.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.store.roleKey(role.ID), data, 0)
		pipe.Set(ctx, r.store.roleNameKey(role.Name), role.ID, 0)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}

	return role, nil
}

// GetByID retrieves a role from the catalog. Returns rbac.ErrRoleNotFound
// when the id is unknown.
//
//	Performance: 1 Redis GET.
func (r *Roles) GetByID(ctx context.Context, roleID string) (*goSession.Role, error) {
	data, err := r.store.redis.Get(ctx, r.store.roleKey(roleID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, rbac.ErrRoleNotFound
		}
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}

	var blob roleBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("decode role: %w", err)
	}
	return &goSession.Role{ID: blob.ID, Name: blob.Name, Description: blob.Description}, nil
}

// GetByName resolves a role through the name index. Returns
// rbac.ErrRoleNotFound when the name is unknown.
//
//	Performance: 2 Redis GETs (name index + record).
func (r *Roles) GetByName(ctx context.Context, name string) (*goSession.Role, error) {
	roleID, err := r.store.redis.Get(ctx, r.store.roleNameKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, rbac.ErrRoleNotFound
		}
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}
	return r.GetByID(ctx, roleID)
}

// ListForUser returns the user's role relations with assignment times.
//
//	Performance: 1 Redis HGETALL.
func (r *Roles) ListForUser(ctx context.Context, userID string) ([]goSession.UserRole, error) {
	entries, err := r.store.redis.HGetAll(ctx, r.store.userRolesKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []goSession.UserRole{}, nil
		}
		return nil, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}

	relations := make([]goSession.UserRole, 0, len(entries))
	for roleID, assignedAt := range entries {
		sec, _ := strconv.ParseInt(assignedAt, 10, 64)
		relations = append(relations, goSession.UserRole{
			UserID:     userID,
			RoleID:     roleID,
			AssignedAt: unixTime(sec),
		})
	}
	return relations, nil
}

// Assign records a user↔role relation. Assigning an already-held role is
// idempotent and keeps the original assignment time.
//
//	Performance: 1 Redis HSETNX.
func (r *Roles) Assign(ctx context.Context, userID, roleID string) (goSession.UserRole, error) {
	assignedAt := r.store.now()
	set, err := r.store.redis.HSetNX(ctx, r.store.userRolesKey(userID), roleID, assignedAt.Unix()).Result()
	if err != nil {
		return goSession.UserRole{}, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}
	if !set {
		// Already held; report the stored assignment time.
		stored, err := r.store.redis.HGet(ctx, r.store.userRolesKey(userID), roleID).Result()
		if err == nil {
			if sec, parseErr := strconv.ParseInt(stored, 10, 64); parseErr == nil {
				assignedAt = unixTime(sec)
			}
		}
	}
	return goSession.UserRole{UserID: userID, RoleID: roleID, AssignedAt: assignedAt}, nil
}

// Remove deletes a user↔role relation. Removing an absent relation is a
// no-op.
//
//	Performance: 1 Redis HDEL.
func (r *Roles) Remove(ctx context.Context, userID, roleID string) error {
	if err := r.store.redis.HDel(ctx, r.store.userRolesKey(userID), roleID).Err(); err != nil {
		return fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}
	return nil
}

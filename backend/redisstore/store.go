package redisstore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a Redis-backed profile and role store. A single Store serves the
// profile records, the role catalog, and the user↔role relation under one
// key prefix.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewStore creates a [Store] backed by the given Redis client. prefix sets
// the Redis key namespace; an empty prefix defaults to "gs".
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "gs"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Profiles returns the profile-record view of the store. It satisfies
// goSession.ProfileStore.
func (s *Store) Profiles() *Profiles {
	return &Profiles{store: s}
}

// Roles returns the role-catalog view of the store. It satisfies both
// goSession.RoleStore and goSession.UserRoleStore.
func (s *Store) Roles() *Roles {
	return &Roles{store: s}
}

func (s *Store) profileKey(id string) string {
	return s.prefix + ":profile:" + id
}

func (s *Store) profileIndexKey() string {
	return s.prefix + ":profiles"
}

func (s *Store) roleKey(id string) string {
	return s.prefix + ":role:" + id
}

func (s *Store) roleNameKey(name string) string {
	return s.prefix + ":rolename:" + name
}

func (s *Store) userRolesKey(userID string) string {
	return s.prefix + ":userroles:" + userID
}

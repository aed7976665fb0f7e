package redisstore

import (
	"context"
	"fmt"

	goSession "github.com/MrEthical07/goSession"
	"github.com/redis/go-redis/v9"
)

const aggregateRolesScript = `
local relations = redis.call("HKEYS", KEYS[1])
local names = {}
for _, role_id in ipairs(relations) do
  local data = redis.call("GET", ARGV[1] .. role_id)
  if data then
    local ok, blob = pcall(cjson.decode, data)
    if ok and blob and blob.name then
      names[#names + 1] = blob.name
    end
  end
end
return names
`

var aggregateRolesLua = redis.NewScript(aggregateRolesScript)

// Aggregation serves the server-side role fast path: one Lua round trip
// joins the user's role relations against the role catalog and returns the
// role names. The result is always tagged resolved — when the script runs
// at all, an empty answer means the user genuinely holds no roles.
//
// Aggregation instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Aggregation struct {
	store *Store
}

// NewAggregation creates an [Aggregation] over the given store's keyspace.
func NewAggregation(store *Store) *Aggregation {
	return &Aggregation{store: store}
}

// GetRoles returns the role names held by userID in a single server-side
// join.
//
//	Performance: 1 Lua EVALSHA (HKEYS + n GETs server-side).
func (a *Aggregation) GetRoles(ctx context.Context, userID string) (goSession.AggregatedRoles, error) {
	if a == nil || a.store == nil {
		return goSession.AggregatedRoles{}, fmt.Errorf("%w: aggregation not configured", goSession.ErrBackendUnavailable)
	}

	result, err := aggregateRolesLua.Run(
		ctx,
		a.store.redis,
		[]string{a.store.userRolesKey(userID)},
		a.store.prefix+":role:",
	).Result()
	if err != nil {
		return goSession.AggregatedRoles{}, fmt.Errorf("%w: %v", goSession.ErrBackendUnavailable, err)
	}

	parts, ok := result.([]interface{})
	if !ok {
		return goSession.AggregatedRoles{}, fmt.Errorf("%w: invalid aggregation script response", goSession.ErrBackendUnavailable)
	}

	names := make([]string, 0, len(parts))
	for _, part := range parts {
		switch v := part.(type) {
		case string:
			names = append(names, v)
		case []byte:
			names = append(names, string(v))
		}
	}

	return goSession.AggregatedRoles{Names: names, Resolved: true}, nil
}

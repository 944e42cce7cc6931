package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cameronsaddress/snapchef-social/internal/common"

	"github.com/redis/go-redis/v9"
)

// InMemoryRedis is a behavioral stand-in for the redis client covering the
// commands the domains use. TTLs are honored lazily on read.
type InMemoryRedis struct {
	mutex   sync.Mutex
	strings map[string]stringEntry
	sets    map[string]map[string]bool
	zsets   map[string]map[string]float64

	// FailWith, when set, makes every call return that error.
	FailWith error
}

type stringEntry struct {
	value     string
	expiresAt time.Time
}

func NewInMemoryRedis() *InMemoryRedis {
	return &InMemoryRedis{
		strings: map[string]stringEntry{},
		sets:    map[string]map[string]bool{},
		zsets:   map[string]map[string]float64{},
	}
}

func (r *InMemoryRedis) getString(key string) (string, bool) {
	entry, ok := r.strings[key]
	if !ok {
		return "", false
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(r.strings, key)
		return "", false
	}

	return entry.value, true
}

func (r *InMemoryRedis) Exist(ctx context.Context, key string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.getString(key); ok {
		return true, nil
	}

	if len(r.sets[key]) > 0 {
		return true, nil
	}

	return len(r.zsets[key]) > 0, nil
}

func (r *InMemoryRedis) Del(ctx context.Context, keys ...string) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, key := range keys {
		delete(r.strings, key)
		delete(r.sets, key)
		delete(r.zsets, key)
	}
	return nil
}

func (r *InMemoryRedis) Get(ctx context.Context, key string) (string, error) {
	if r.FailWith != nil {
		return "", r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	value, ok := r.getString(key)
	if !ok {
		return "", redis.Nil
	}

	return value, nil
}

func (r *InMemoryRedis) Set(ctx context.Context, key, value string) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.strings[key] = stringEntry{value: value}
	return nil
}

func (r *InMemoryRedis) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry := stringEntry{value: string(b)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	r.strings[key] = entry
	return nil
}

func (r *InMemoryRedis) GetObj(ctx context.Context, key string, v any) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.mutex.Lock()
	value, ok := r.getString(key)
	r.mutex.Unlock()

	if !ok {
		return redis.Nil
	}

	return json.Unmarshal([]byte(value), v)
}

func (r *InMemoryRedis) SAdd(ctx context.Context, key string, members ...string) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.sets[key] == nil {
		r.sets[key] = map[string]bool{}
	}

	for _, m := range members {
		r.sets[key][m] = true
	}
	return nil
}

func (r *InMemoryRedis) SRem(ctx context.Context, key string, members ...string) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, m := range members {
		delete(r.sets[key], m)
	}
	return nil
}

func (r *InMemoryRedis) SIsMember(ctx context.Context, key, member string) (bool, error) {
	if r.FailWith != nil {
		return false, r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.sets[key][member], nil
}

func (r *InMemoryRedis) SMembers(ctx context.Context, key string) ([]string, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	members := common.MapKeys(r.sets[key])
	if members == nil {
		members = []string{}
	}

	sort.Strings(members)
	return members, nil
}

func (r *InMemoryRedis) ZAdd(ctx context.Context, key string, z redis.Z) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	member, ok := z.Member.(string)
	if !ok {
		return errors.New("member must be a string")
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.zsets[key] == nil {
		r.zsets[key] = map[string]float64{}
	}

	r.zsets[key][member] = z.Score
	return nil
}

func (r *InMemoryRedis) ZIncrBy(ctx context.Context, key string, incr int64, member string) error {
	if r.FailWith != nil {
		return r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.zsets[key] == nil {
		r.zsets[key] = map[string]float64{}
	}

	r.zsets[key][member] += float64(incr)
	return nil
}

func (r *InMemoryRedis) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	zs := make([]redis.Z, 0, len(r.zsets[key]))
	for member, score := range r.zsets[key] {
		zs = append(zs, redis.Z{Member: member, Score: score})
	}

	sort.Slice(zs, func(i, j int) bool {
		if zs[i].Score != zs[j].Score {
			return zs[i].Score > zs[j].Score
		}

		return zs[i].Member.(string) > zs[j].Member.(string)
	})

	if offset >= len(zs) {
		return []redis.Z{}, nil
	}

	zs = zs[offset:]
	if limit > 0 && len(zs) > limit {
		zs = zs[:limit]
	}

	return zs, nil
}

func (r *InMemoryRedis) ZRevRank(ctx context.Context, key string, member string) (uint64, error) {
	if r.FailWith != nil {
		return 0, r.FailWith
	}

	zs, err := r.ZRevRangeWithScores(ctx, key, 0, 0)
	if err != nil {
		return 0, err
	}

	for i, z := range zs {
		if z.Member.(string) == member {
			return uint64(i), nil
		}
	}

	return 0, redis.Nil
}

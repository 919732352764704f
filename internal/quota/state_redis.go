package quota

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists quota state under a single key. The key carries a TTL
// of a few windows so stale state ages out on its own.
type RedisStore struct {
	rdb       *redis.Client
	keyPrefix string
	timeout   time.Duration
}

func NewRedisStore(rdb *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "quota:day:"
	}
	return &RedisStore{rdb: rdb, keyPrefix: keyPrefix, timeout: 3 * time.Second}
}

func (r *RedisStore) key() string { return r.keyPrefix + "state" }

func (r *RedisStore) Load() (State, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	data, err := r.rdb.Get(ctx, r.key()).Bytes()
	if err == redis.Nil {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, err
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, false, err
	}
	return st, true, nil
}

func (r *RedisStore) Save(st State) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(), data, 72*time.Hour).Err()
}

// credentialstore/redisstore.go
package credentialstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisCredentialKey = "credential"
	redisRefreshKey    = "refresh_credential"
)

// RedisStore is a Store backed by Redis. It is intended for daemons or CLI tooling
// where several processes share one credential pair and a refresh performed by one
// process must be visible to the others.
//
// Keys are namespaced as "<prefix>:credential" and "<prefix>:refresh_credential".
// Credentials are stored without a TTL; lifecycle is owned entirely by the refresh
// coordinator (written on refresh success, deleted on refresh failure).
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore over an existing client. prefix must be non-empty
// so that two augmented clients pointed at the same Redis cannot clobber each other's
// credentials by accident.
func NewRedisStore(client *redis.Client, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("credentialstore: redis client is nil")
	}
	if prefix == "" {
		return nil, errors.New("credentialstore: redis key prefix is empty")
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(name string) string {
	return s.prefix + ":" + name
}

// get wraps redis GET, translating a missing key into the "no credential" convention.
func (s *RedisStore) get(ctx context.Context, name string) (string, error) {
	val, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("credentialstore: redis get %s: %w", name, err)
	}
	return val, nil
}

func (s *RedisStore) GetCredential(ctx context.Context) (string, error) {
	return s.get(ctx, redisCredentialKey)
}

func (s *RedisStore) GetRefreshCredential(ctx context.Context) (string, error) {
	return s.get(ctx, redisRefreshKey)
}

func (s *RedisStore) SetCredential(ctx context.Context, credential string) error {
	if err := s.client.Set(ctx, s.key(redisCredentialKey), credential, 0).Err(); err != nil {
		return fmt.Errorf("credentialstore: redis set %s: %w", redisCredentialKey, err)
	}
	return nil
}

func (s *RedisStore) SetRefreshCredential(ctx context.Context, credential string) error {
	if err := s.client.Set(ctx, s.key(redisRefreshKey), credential, 0).Err(); err != nil {
		return fmt.Errorf("credentialstore: redis set %s: %w", redisRefreshKey, err)
	}
	return nil
}

func (s *RedisStore) RemoveCredentials(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(redisCredentialKey), s.key(redisRefreshKey)).Err(); err != nil {
		return fmt.Errorf("credentialstore: redis del credentials: %w", err)
	}
	return nil
}

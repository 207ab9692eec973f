package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shawnadoherty9/travelogie-sub001/model"
)

// MemoryRateLimitStore keeps counters in process memory. Suitable for a
// single instance and for tests.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	records map[string]*model.RateLimit
}

func NewMemoryRateLimitStore() *MemoryRateLimitStore {
	return &MemoryRateLimitStore{
		records: make(map[string]*model.RateLimit),
	}
}

func (s *MemoryRateLimitStore) GetAndUpdate(_ context.Context, identifier, endpoint string, now time.Time, window time.Duration, maxRequests int) (*model.RateLimit, bool, error) {
	key := endpoint + "|" + identifier

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		record = &model.RateLimit{
			Identifier: identifier,
			Endpoint:   endpoint,
			CreatedAt:  now,
		}
		s.records[key] = record
	}

	allowed := record.Hit(now, window, maxRequests)
	record.UpdatedAt = now

	snapshot := *record
	return &snapshot, allowed, nil
}

// Cleanup drops counters whose window started before cutoff.
func (s *MemoryRateLimitStore) Cleanup(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, record := range s.records {
		if record.WindowStart.Before(cutoff) {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryRateLimitStore) Reset(identifier, endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, endpoint+"|"+identifier)
}

func (s *MemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// rateLimitScript runs the fixed window check atomically inside Redis.
// KEYS[1] counter key, ARGV[1] window in ms, ARGV[2] max requests.
// Returns {allowed, count, ttl_ms}.
const rateLimitScript = `
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[2])
local allowed = 0
if current < limit then
  current = redis.call('INCR', KEYS[1])
  allowed = 1
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {allowed, current, ttl}
`

// RedisRateLimitStore keeps one expiring counter key per pair. The key TTL
// is the window, so expiry is the window reset.
type RedisRateLimitStore struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{
		client:    client,
		keyPrefix: "ratelimit",
	}
}

func (s *RedisRateLimitStore) Key(identifier, endpoint string) string {
	return fmt.Sprintf("%s:%s:%s", s.keyPrefix, endpoint, identifier)
}

func (s *RedisRateLimitStore) GetAndUpdate(ctx context.Context, identifier, endpoint string, now time.Time, window time.Duration, maxRequests int) (*model.RateLimit, bool, error) {
	if s.client == nil {
		return nil, false, errors.New("redis client not initialized")
	}

	res, err := s.client.Eval(ctx, rateLimitScript, []string{s.Key(identifier, endpoint)}, window.Milliseconds(), maxRequests).Result()
	if err != nil {
		return nil, false, fmt.Errorf("rate limit script: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) != 3 {
		return nil, false, fmt.Errorf("unexpected rate limit script result: %v", res)
	}

	allowed, okAllowed := values[0].(int64)
	count, okCount := values[1].(int64)
	ttl, okTTL := values[2].(int64)
	if !okAllowed || !okCount || !okTTL {
		return nil, false, fmt.Errorf("unexpected rate limit script result: %v", res)
	}

	elapsed := window - time.Duration(ttl)*time.Millisecond
	record := &model.RateLimit{
		Identifier:   identifier,
		Endpoint:     endpoint,
		RequestCount: int(count),
		WindowStart:  now.Add(-elapsed),
		UpdatedAt:    now,
	}

	return record, allowed == 1, nil
}

func (s *RedisRateLimitStore) Reset(ctx context.Context, identifier, endpoint string) error {
	return s.client.Del(ctx, s.Key(identifier, endpoint)).Err()
}

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrNoCode is returned when no unexpired code is stored for a phone
var ErrNoCode = errors.New("no pending code")

// OTPStore keeps hashed one-time codes keyed by phone number until they expire
type OTPStore interface {
	Put(ctx context.Context, phone, hash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

type otpEntry struct {
	hash      string
	expiresAt time.Time
}

// MemoryOTPStore is a process-local OTPStore. Expired entries are dropped on
// read and by Sweep.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	now     func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: make(map[string]otpEntry), now: time.Now}
}

func (s *MemoryOTPStore) Put(_ context.Context, phone, hash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = otpEntry{hash: hash, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOTPStore) Get(_ context.Context, phone string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[phone]
	if !ok {
		return "", ErrNoCode
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, phone)
		return "", ErrNoCode
	}
	return e.hash, nil
}

func (s *MemoryOTPStore) Delete(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phone)
	return nil
}

// Sweep removes expired entries and returns how many were removed
func (s *MemoryOTPStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for phone, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, phone)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (s *MemoryOTPStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

const redisKeyPrefix = "shiftdock:otp:"

// RedisOTPStore keeps codes in redis with a server-side expiry
type RedisOTPStore struct {
	client redis.UniversalClient
}

func NewRedisOTPStore(client redis.UniversalClient) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

// NewRedisClient connects to the redis instance at url (redis://host:port/db)
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse REDIS_URL")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return client, nil
}

func (s *RedisOTPStore) Put(ctx context.Context, phone, hash string, ttl time.Duration) error {
	return errors.Wrap(s.client.Set(ctx, redisKeyPrefix+phone, hash, ttl).Err(), "store otp")
}

func (s *RedisOTPStore) Get(ctx context.Context, phone string) (string, error) {
	hash, err := s.client.Get(ctx, redisKeyPrefix+phone).Result()
	if err == redis.Nil {
		return "", ErrNoCode
	}
	return hash, errors.Wrap(err, "load otp")
}

func (s *RedisOTPStore) Delete(ctx context.Context, phone string) error {
	return errors.Wrap(s.client.Del(ctx, redisKeyPrefix+phone).Err(), "delete otp")
}

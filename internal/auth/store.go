package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned for unknown, expired or revoked sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps session ids to user ids with an expiry.
type SessionStore interface {
	Save(ctx context.Context, sid string, userID uint, ttl time.Duration) error
	Get(ctx context.Context, sid string) (uint, error)
	Delete(ctx context.Context, sid string) error
}

const redisKeyPrefix = "session:"

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, sid string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, redisKeyPrefix+sid, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sid string) (uint, error) {
	v, err := s.rdb.Get(ctx, redisKeyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	return uint(id), nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+sid).Err()
}

// MemoryStore keeps sessions in process. Used when no Redis is configured
// and in tests; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID  uint
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memorySession), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sid string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = memorySession{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return 0, ErrSessionNotFound
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, sid)
		return 0, ErrSessionNotFound
	}
	return sess.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

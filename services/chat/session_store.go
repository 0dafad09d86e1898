package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"onetracker/models"

	"github.com/go-redis/redis/v8"
)

// SessionStore abstracts the per-conversation scratch state so the backend is
// swappable between the in-process map and an external cache.
type SessionStore interface {
	// Get returns the session for the id, or nil when none exists.
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Put(ctx context.Context, sessionID string, s *models.Session) error
	Clear(ctx context.Context, sessionID string) error
}

// MemorySessionStore is a process-wide in-memory store. Access to distinct
// session ids never interferes; concurrent mutation of the same id is not
// serialized (at most one in-flight request per conversation is assumed).
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.Session)}
}

func (m *MemorySessionStore) Get(_ context.Context, sessionID string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionID], nil
}

func (m *MemorySessionStore) Put(_ context.Context, sessionID string, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = s
	return nil
}

func (m *MemorySessionStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

const sessionPrefix = "chat:sess:"

// RedisSessionStore keeps sessions in Redis with a sliding TTL, for
// deployments where chat state must survive a process restart.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (r *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := r.client.Get(ctx, sessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s models.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, sessionID string, s *models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionPrefix+sessionID, b, r.ttl).Err()
}

func (r *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionPrefix+sessionID).Err()
}

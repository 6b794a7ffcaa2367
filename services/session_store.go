package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore holds in-progress attempt sessions. Sessions are
// short-lived scratch state, not durable records; a lost session just
// means the user replays the quiz.
type SessionStore interface {
	Get(ctx context.Context, key string) (*AttemptSession, error)
	Put(ctx context.Context, key string, session *AttemptSession) error
	Delete(ctx context.Context, key string) error
}

const sessionTTL = 24 * time.Hour

type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) (*AttemptSession, error) {
	data, err := s.client.Get(ctx, "session:"+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session AttemptSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Put(ctx context.Context, key string, session *AttemptSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, "session:"+key, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, "session:"+key).Err()
}

// MemorySessionStore is an in-process store for tests and single-node
// development runs.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*AttemptSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*AttemptSession)}
}

func (s *MemorySessionStore) Get(_ context.Context, key string) (*AttemptSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[key]
	if !ok {
		return nil, nil
	}
	copied := *session
	copied.Responses = make(map[string]string, len(session.Responses))
	for k, v := range session.Responses {
		copied.Responses[k] = v
	}
	return &copied, nil
}

func (s *MemorySessionStore) Put(_ context.Context, key string, session *AttemptSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = session
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

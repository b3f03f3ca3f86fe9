package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Service wraps repository operations with session lifecycle logic and
// lets interested parties observe session-state changes: an active
// dashboard stream subscribes to revocations so it can send the browser
// back to the login screen the moment its session disappears.
type Service struct {
	repo Repository

	mu       sync.Mutex
	watchers map[int]chan string
	nextID   int
}

func NewService(r Repository) *Service {
	return &Service{repo: r, watchers: map[int]chan string{}}
}

// CreateSession stores a new session for the given account and returns
// the refresh token.
func (s *Service) CreateSession(ctx context.Context, sub, email string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	r := hex.EncodeToString(b)
	sess := &Session{
		RefreshToken: r,
		Sub:          sub,
		Email:        email,
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return r, nil
}

// ValidateRefresh returns the session if the refresh token is valid and
// not expired. Expired sessions are cleaned up on the way out.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		s.notifyRevoked(refresh)
		return nil, nil
	}
	return sess, nil
}

// DeleteRefresh removes the session and notifies watchers.
func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	if err := s.repo.DeleteByRefresh(ctx, refresh); err != nil {
		return err
	}
	s.notifyRevoked(refresh)
	return nil
}

// WatchRevocations registers a listener for session revocations. Each
// delivery carries the revoked refresh token. The cancel func releases
// the registration; no deliveries happen after it returns.
func (s *Service) WatchRevocations() (<-chan string, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan string, 4)
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if c, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(c)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Service) notifyRevoked(refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- refresh:
		default:
		}
	}
}

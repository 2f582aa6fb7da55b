// Package memory is the mock backend: an in-process store with optional
// artificial latency, used when no database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/product"
	"github.com/Heidric/shop-admin/internal/storage"
)

type Store struct {
	mu      sync.RWMutex
	latency time.Duration

	users    map[string]model.UserDB
	sessions map[string]model.Session
	products map[string]model.ProductDB
}

type Option func(*Store)

// WithLatency delays every call, the way a remote backend would.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

func New(opts ...Option) *Store {
	s := &Store{
		users:    map[string]model.UserDB{},
		sessions: map[string]model.Session{},
		products: map[string]model.ProductDB{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Users

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.UserDB, error) {
	return s.findUser(ctx, func(u model.UserDB) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.UserDB, error) {
	return s.findUser(ctx, func(u model.UserDB) bool { return u.Username == username })
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.UserDB, error) {
	return s.findUser(ctx, func(u model.UserDB) bool { return u.ID == id })
}

func (s *Store) findUser(ctx context.Context, match func(model.UserDB) bool) (*model.UserDB, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, storage.ErrEntityNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]model.UserDB, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]model.UserDB, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.UserDB) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userTaken(user) {
		return storage.ErrConflict
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user *model.UserDB) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return storage.ErrEntityNotFound
	}
	if s.userTaken(user) {
		return storage.ErrConflict
	}
	s.users[user.ID] = *user
	return nil
}

// userTaken must be called with the lock held.
func (s *Store) userTaken(user *model.UserDB) bool {
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return true
		}
	}
	return false
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return storage.ErrEntityNotFound
	}
	delete(s.users, userID)
	for sid, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, sid)
		}
	}
	return nil
}

// Sessions

func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return storage.ErrConflict
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *Store) GetSessionBySID(ctx context.Context, sID string) (*model.Session, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sID]
	if !ok {
		return nil, storage.ErrEntityNotFound
	}
	return &sess, nil
}

// GetSessionByRToken drops the session when it has expired.
func (s *Store) GetSessionByRToken(ctx context.Context, rToken string) (*model.Session, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, sess := range s.sessions {
		if sess.RefreshToken != rToken {
			continue
		}
		if sess.ExpiresAt.Before(time.Now()) {
			delete(s.sessions, sid)
			return nil, storage.ErrEntityNotFound
		}
		return &sess, nil
	}
	return nil, storage.ErrEntityNotFound
}

func (s *Store) DeleteSessionBySID(ctx context.Context, sID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sID)
	s.mu.Unlock()
	return nil
}

func (s *Store) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, sid)
		}
	}
	return nil
}

// Products

func matches(p model.ProductDB, f product.Filter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (s *Store) ListProducts(ctx context.Context, f product.Filter) ([]model.ProductDB, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	var out []model.ProductDB
	for _, p := range s.products {
		if matches(p, f) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if f.Offset >= len(out) {
		return []model.ProductDB{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) CountProducts(ctx context.Context, f product.Filter) (int, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.products {
		if matches(p, f) {
			n++
		}
	}
	return n, nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*model.ProductDB, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, storage.ErrEntityNotFound
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *model.ProductDB) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; ok {
		return storage.ErrConflict
	}
	s.products[p.ID] = *p
	return nil
}

func (s *Store) UpdateProduct(ctx context.Context, p *model.ProductDB) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return storage.ErrEntityNotFound
	}
	s.products[p.ID] = *p
	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return storage.ErrEntityNotFound
	}
	delete(s.products, id)
	return nil
}

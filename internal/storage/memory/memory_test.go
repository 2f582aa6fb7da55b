package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/product"
	"github.com/Heidric/shop-admin/internal/storage"
	"github.com/google/go-cmp/cmp"
)

var base = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func seedProducts(t *testing.T, s *Store) {
	t.Helper()
	items := []model.ProductDB{
		{ID: "p1", Name: "Macbook Pro M3", Category: "macbook", CreatedAt: base},
		{ID: "p2", Name: "iPhone 15 Pro Max", Category: "iphone", CreatedAt: base.Add(time.Hour)},
		{ID: "p3", Name: "AirPods Pro 2", Category: "airpod", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "p4", Name: "iPad Pro", Category: "ipad", CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range items {
		if err := s.CreateProduct(context.Background(), &items[i]); err != nil {
			t.Fatalf("create %s: %v", items[i].ID, err)
		}
	}
}

func ids(ps []model.ProductDB) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestListProducts(t *testing.T) {
	s := New()
	seedProducts(t, s)

	tests := []struct {
		name   string
		filter product.Filter
		want   []string
		total  int
	}{
		{"newest first", product.Filter{}, []string{"p4", "p3", "p2", "p1"}, 4},
		{"search is case-insensitive", product.Filter{Search: "PRO"}, []string{"p4", "p3", "p2", "p1"}, 4},
		{"search narrows", product.Filter{Search: "iphone"}, []string{"p2"}, 1},
		{"category", product.Filter{Category: "airpod"}, []string{"p3"}, 1},
		{"search and category", product.Filter{Search: "pad", Category: "iphone"}, []string{}, 0},
		{"page", product.Filter{Limit: 2, Offset: 2}, []string{"p2", "p1"}, 4},
		{"past the end", product.Filter{Limit: 2, Offset: 10}, []string{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListProducts(context.Background(), tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			n, err := s.CountProducts(context.Background(), tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if n != tt.total {
				t.Errorf("count: got %d, want %d", n, tt.total)
			}
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedProducts(t, s)

	if err := s.CreateProduct(ctx, &model.ProductDB{ID: "p1"}); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate id: got %v", err)
	}

	p, err := s.GetProductByID(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	p.Quantity = 42
	if err := s.UpdateProduct(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetProductByID(ctx, "p1")
	if got.Quantity != 42 {
		t.Errorf("quantity not updated: %d", got.Quantity)
	}

	if err := s.DeleteProduct(ctx, "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetProductByID(ctx, "p1"); !errors.Is(err, storage.ErrEntityNotFound) {
		t.Errorf("after delete: got %v", err)
	}
	if err := s.DeleteProduct(ctx, "p1"); !errors.Is(err, storage.ErrEntityNotFound) {
		t.Errorf("second delete: got %v", err)
	}
	if err := s.UpdateProduct(ctx, &model.ProductDB{ID: "nope"}); !errors.Is(err, storage.ErrEntityNotFound) {
		t.Errorf("update missing: got %v", err)
	}
}

func TestUsersAndSessions(t *testing.T) {
	ctx := context.Background()
	s := New()

	alice := &model.UserDB{ID: "u1", Username: "alice", Email: "alice@example.com", Role: model.User}
	if err := s.CreateUser(ctx, alice); err != nil {
		t.Fatal(err)
	}

	dupes := []*model.UserDB{
		{ID: "u2", Username: "alice", Email: "other@example.com"},
		{ID: "u3", Username: "bob", Email: "ALICE@example.com"},
	}
	for _, u := range dupes {
		if err := s.CreateUser(ctx, u); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("user %s: got %v, want conflict", u.ID, err)
		}
	}

	if _, err := s.GetUserByEmail(ctx, "Alice@Example.com"); err != nil {
		t.Errorf("email lookup: %v", err)
	}
	if _, err := s.GetUserByUsername(ctx, "carol"); !errors.Is(err, storage.ErrEntityNotFound) {
		t.Errorf("missing username: got %v", err)
	}

	live := &model.Session{ID: "s1", UserID: "u1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)}
	dead := &model.Session{ID: "s2", UserID: "u1", RefreshToken: "r2", ExpiresAt: time.Now().Add(-time.Hour)}
	for _, sess := range []*model.Session{live, dead} {
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := s.GetSessionByRToken(ctx, "r1"); err != nil {
		t.Errorf("live session: %v", err)
	}
	if _, err := s.GetSessionByRToken(ctx, "r2"); !errors.Is(err, storage.ErrEntityNotFound) {
		t.Errorf("expired session: got %v", err)
	}
	if _, err := s.GetSessionBySID(ctx, "s2"); !errors.Is(err, storage.ErrEntityNotFound) {
		t.Errorf("expired session should be dropped, got %v", err)
	}

	if err := s.DeleteUser(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetSessionBySID(ctx, "s1"); !errors.Is(err, storage.ErrEntityNotFound) {
		t.Errorf("sessions should go with the user, got %v", err)
	}
}

func TestLatencyHonorsContext(t *testing.T) {
	s := New(WithLatency(time.Minute))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.ListUsers(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("latency ignored cancellation")
	}
}

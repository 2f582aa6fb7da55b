// Package seed holds the demo data set the mock backend starts with.
package seed

import (
	"context"
	"time"

	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/product"
	"github.com/Heidric/shop-admin/internal/storage"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoUsername = "testuser"
	DemoEmail    = "test@example.com"
	DemoPassword = "test123"
)

type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*model.UserDB, error)
	CreateUser(ctx context.Context, user *model.UserDB) error
	CountProducts(ctx context.Context, f product.Filter) (int, error)
	CreateProduct(ctx context.Context, p *model.ProductDB) error
}

// Products returns fresh copies of the demo catalogue, oldest first.
func Products(now time.Time) []model.ProductDB {
	items := []model.ProductDB{
		{Name: "Macbook Pro M3", Description: "Apple M3 laptop", Price: 35000000, Quantity: 5, Category: "macbook"},
		{Name: "iPhone 15 Pro Max", Description: "Titanium, 256GB", Price: 30000000, Quantity: 10, Category: "iphone"},
		{Name: "AirPods Pro 2", Description: "Active noise cancellation", Price: 5000000, Quantity: 8, Category: "airpod"},
	}
	for i := range items {
		ts := now.Add(time.Duration(i-len(items)) * time.Minute)
		items[i].ID = uuid.NewString()
		items[i].CreatedAt = ts
		items[i].UpdatedAt = ts
	}
	return items
}

// Apply inserts the demo user and catalogue. It is safe to run repeatedly.
func Apply(ctx context.Context, s Store) error {
	now := time.Now().UTC()

	_, err := s.GetUserByEmail(ctx, DemoEmail)
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash")
		}
		user := &model.UserDB{
			ID:        uuid.NewString(),
			Username:  DemoUsername,
			Email:     DemoEmail,
			Role:      model.User,
			Password:  string(hash),
			CreatedAt: now,
		}
		if err := s.CreateUser(ctx, user); err != nil && !errors.Is(err, storage.ErrConflict) {
			return errors.Wrap(err, "create demo user")
		}
	case err != nil:
		return errors.Wrap(err, "lookup demo user")
	}

	n, err := s.CountProducts(ctx, product.Filter{})
	if err != nil {
		return errors.Wrap(err, "count products")
	}
	if n > 0 {
		return nil
	}

	items := Products(now)
	for i := range items {
		if err := s.CreateProduct(ctx, &items[i]); err != nil {
			return errors.Wrap(err, "create demo product")
		}
	}
	return nil
}

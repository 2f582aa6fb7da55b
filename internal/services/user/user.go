package user

import (
	"context"
	"strings"

	"github.com/Heidric/shop-admin/internal/logger"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/services/auth"
	"github.com/Heidric/shop-admin/internal/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var log zerolog.Logger

var ErrLastAdmin = errors.New("cannot remove the last admin")

type Storage interface {
	auth.UserLookup
	GetUserByID(ctx context.Context, id string) (*model.UserDB, error)
	ListUsers(ctx context.Context) ([]model.UserDB, error)
	UpdateUser(ctx context.Context, user *model.UserDB) error
	DeleteUser(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID string) error
}

type Service struct {
	storage Storage
}

func New(storage Storage) *Service {
	log = *logger.Log
	log = log.With().Str("name", "user-service").Logger()

	return &Service{storage: storage}
}

func (s *Service) List(ctx context.Context) ([]*model.UserResponse, error) {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	out := make([]*model.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].Response())
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.UserResponse, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Response(), nil
}

func (s *Service) get(ctx context.Context, id string) (*model.UserDB, error) {
	u, err := s.storage.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return u, nil
}

// Update expects a DTO that already passed validation. A new password or
// role signs the user out everywhere. canChangeRole is false when users
// edit themselves.
func (s *Service) Update(ctx context.Context, id string, dto model.UpdateUserDTO, canChangeRole bool) (*model.UserResponse, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(dto.Username)
	email := auth.NormalizeEmail(dto.Email)
	if err := auth.EnsureUnique(ctx, s.storage, username, email, u.ID); err != nil {
		return nil, err
	}

	revoke := false
	if dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "hash")
		}
		u.Password = string(hash)
		revoke = true
	}
	if canChangeRole && dto.Role != "" && dto.Role != u.Role {
		if u.Role == model.Admin {
			if err := s.ensureOtherAdmin(ctx, u.ID); err != nil {
				return nil, err
			}
		}
		u.Role = dto.Role
		revoke = true
	}
	u.Username = username
	u.Email = email

	if err := s.storage.UpdateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, storage.ErrEntityNotFound):
			return nil, auth.ErrUserNotFound
		case errors.Is(err, storage.ErrConflict):
			return nil, auth.ErrEmailNotUnique
		}
		return nil, errors.Wrap(err, "update user")
	}

	if revoke {
		if err := s.storage.DeleteSessionsByUserID(ctx, u.ID); err != nil {
			return nil, errors.Wrap(err, "revoke sessions")
		}
	}

	log.Info().Str("user", u.ID).Bool("revoked", revoke).Msg("user updated")
	return u.Response(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == model.Admin {
		if err := s.ensureOtherAdmin(ctx, u.ID); err != nil {
			return err
		}
	}

	if err := s.storage.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, storage.ErrEntityNotFound) {
			return auth.ErrUserNotFound
		}
		return errors.Wrap(err, "delete user")
	}
	return nil
}

func (s *Service) ensureOtherAdmin(ctx context.Context, exceptID string) error {
	users, err := s.storage.ListUsers(ctx)
	if err != nil {
		return errors.Wrap(err, "list users")
	}
	for _, u := range users {
		if u.Role == model.Admin && u.ID != exceptID {
			return nil
		}
	}
	return ErrLastAdmin
}

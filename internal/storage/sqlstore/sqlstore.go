// Package sqlstore persists users, sessions and products in PostgreSQL or
// SQLite. Queries are built per flavor with go-sqlbuilder.
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Heidric/shop-admin/internal/logger"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/storage"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var log zerolog.Logger

const (
	usersTable    = "users"
	sessionsTable = "sessions"
	productsTable = "products"

	pgUniqueViolation = "23505"
)

var (
	userCols    = []string{"id", "username", "email", "role", "password_hash", "created_at"}
	sessionCols = []string{"id", "user_id", "access_token", "refresh_token", "expires_at"}
)

type Store struct {
	db     *sqlx.DB
	flavor sqlbuilder.Flavor
}

func New(db *sqlx.DB, flavor sqlbuilder.Flavor) *Store {
	log = *logger.Log
	log = log.With().Str("name", "sqlstore").Logger()

	return &Store{db: db, flavor: flavor}
}

// conflict maps driver unique violations onto storage.ErrConflict.
func conflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

func (s *Store) exec(ctx context.Context, b sqlbuilder.Builder, op string) (sql.Result, error) {
	query, args := b.BuildWithFlavor(s.flavor)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if conflict(err) {
			return nil, storage.ErrConflict
		}
		return nil, errors.Wrap(err, op)
	}
	return res, nil
}

// mustAffect reports ErrEntityNotFound when an update or delete hit no rows.
func mustAffect(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if n == 0 {
		return storage.ErrEntityNotFound
	}
	return nil
}

func (s *Store) get(ctx context.Context, dest interface{}, b sqlbuilder.Builder, op string) error {
	query, args := b.BuildWithFlavor(s.flavor)
	if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrEntityNotFound
		}
		return errors.Wrap(err, op)
	}
	return nil
}

// Users

func (s *Store) getUserBy(ctx context.Context, col, value, op string) (*model.UserDB, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(userCols...).
		From(usersTable).
		Where(sb.Equal(col, value))

	var user model.UserDB
	if err := s.get(ctx, &user, sb, op); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.UserDB, error) {
	return s.getUserBy(ctx, "email", email, "get user by email")
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.UserDB, error) {
	return s.getUserBy(ctx, "username", username, "get user by username")
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.UserDB, error) {
	return s.getUserBy(ctx, "id", id, "get user by ID")
}

func (s *Store) ListUsers(ctx context.Context) ([]model.UserDB, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(userCols...).From(usersTable).OrderBy("username ASC")

	query, args := sb.BuildWithFlavor(s.flavor)
	out := []model.UserDB{}
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return out, nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.UserDB) error {
	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto(usersTable).
		Cols(userCols...).
		Values(user.ID, user.Username, user.Email, user.Role, user.Password, user.CreatedAt)

	_, err := s.exec(ctx, ib, "create user")
	return err
}

func (s *Store) UpdateUser(ctx context.Context, user *model.UserDB) error {
	ub := sqlbuilder.NewUpdateBuilder()
	ub.Update(usersTable).
		Set(
			ub.Assign("username", user.Username),
			ub.Assign("email", user.Email),
			ub.Assign("role", user.Role),
			ub.Assign("password_hash", user.Password),
		).
		Where(ub.Equal("id", user.ID))

	res, err := s.exec(ctx, ub, "update user")
	if err != nil {
		return err
	}
	return mustAffect(res, "update user")
}

// DeleteUser relies on ON DELETE CASCADE for the user's sessions.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom(usersTable).Where(db.Equal("id", id))

	res, err := s.exec(ctx, db, "delete user")
	if err != nil {
		return err
	}
	return mustAffect(res, "delete user")
}

// Sessions

func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	ib := sqlbuilder.NewInsertBuilder()
	ib.InsertInto(sessionsTable).
		Cols(sessionCols...).
		Values(session.ID, session.UserID, session.AccessToken, session.RefreshToken, session.ExpiresAt)

	_, err := s.exec(ctx, ib, "create session")
	return err
}

func (s *Store) GetSessionBySID(ctx context.Context, sID string) (*model.Session, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(sessionCols...).
		From(sessionsTable).
		Where(sb.Equal("id", sID))

	var session model.Session
	if err := s.get(ctx, &session, sb, "get session by sID"); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionByRToken deletes the session and reports it missing once it has
// expired.
func (s *Store) GetSessionByRToken(ctx context.Context, rToken string) (*model.Session, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(sessionCols...).
		From(sessionsTable).
		Where(sb.Equal("refresh_token", rToken))

	var session model.Session
	if err := s.get(ctx, &session, sb, "get session by refresh token"); err != nil {
		return nil, err
	}

	if session.ExpiresAt.Before(time.Now()) {
		if err := s.DeleteSessionBySID(ctx, session.ID); err != nil {
			return nil, errors.Wrap(err, "delete expired session")
		}
		return nil, storage.ErrEntityNotFound
	}

	return &session, nil
}

func (s *Store) DeleteSessionBySID(ctx context.Context, sID string) error {
	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom(sessionsTable).Where(db.Equal("id", sID))

	_, err := s.exec(ctx, db, "delete session by sID")
	return err
}

func (s *Store) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom(sessionsTable).Where(db.Equal("user_id", userID))

	_, err := s.exec(ctx, db, "delete sessions by user id")
	return err
}

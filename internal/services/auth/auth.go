package auth

import (
	"context"
	"strings"
	"time"

	"github.com/Heidric/shop-admin/internal/lib/jwt"
	"github.com/Heidric/shop-admin/internal/logger"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/storage"
	"github.com/Heidric/shop-admin/pkg/security"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var log zerolog.Logger

const (
	adminAccessTokenTTL = time.Minute * 30
	userAccessTokenTTL  = time.Hour * 6
	refreshTokenTTL     = time.Hour * 24 * 30

	generatedPasswordLength = 16
)

var (
	ErrTokenNotFound      = errors.New("token not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailNotUnique     = errors.New("email not unique")
	ErrUsernameNotUnique  = errors.New("username not unique")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotValid    = errors.New("session not valid")
)

type AuthStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*model.UserDB, error)
	GetUserByUsername(ctx context.Context, username string) (*model.UserDB, error)
	GetUserByID(ctx context.Context, ID string) (*model.UserDB, error)
	CreateUser(ctx context.Context, user *model.UserDB) error
	CreateSession(ctx context.Context, session *model.Session) error
	GetSessionBySID(ctx context.Context, sID string) (*model.Session, error)
	GetSessionByRToken(ctx context.Context, rToken string) (*model.Session, error)
	DeleteSessionBySID(ctx context.Context, sID string) error
}

type Auth struct {
	storage AuthStorage
	now     func() time.Time
}

func New(storage AuthStorage) *Auth {
	log = *logger.Log
	log = log.With().Str("name", "auth-service").Logger()

	return &Auth{storage: storage, now: time.Now}
}

// NormalizeEmail is applied before every lookup and write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSession checks that the bearer token is the live access token of
// its session.
func (a *Auth) ValidateSession(ctx context.Context) error {
	claims, ok := jwt.Claims(ctx)
	if !ok {
		return ErrSessionNotValid
	}

	session, err := a.storage.GetSessionBySID(ctx, claims.SID)
	if err != nil {
		return errors.Wrap(err, "session not found")
	}

	if session.UserID != claims.ID {
		return ErrSessionNotValid
	}

	if jwt.Token(ctx) != session.AccessToken {
		return errors.New("token not valid")
	}

	return nil
}

type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*model.UserDB, error)
	GetUserByUsername(ctx context.Context, username string) (*model.UserDB, error)
}

// EnsureUnique reports which of username and email is already taken by a
// user other than exceptID. The email must be normalized.
func EnsureUnique(ctx context.Context, s UserLookup, username, email, exceptID string) error {
	u, err := s.GetUserByUsername(ctx, username)
	switch {
	case err == nil && u.ID != exceptID:
		return ErrUsernameNotUnique
	case err != nil && !errors.Is(err, storage.ErrEntityNotFound):
		return errors.Wrap(err, "get user by username")
	}

	u, err = s.GetUserByEmail(ctx, email)
	switch {
	case err == nil && u.ID != exceptID:
		return ErrEmailNotUnique
	case err != nil && !errors.Is(err, storage.ErrEntityNotFound):
		return errors.Wrap(err, "get user by email")
	}
	return nil
}

// Register expects a DTO that already passed validation.
func (a *Auth) Register(ctx context.Context, dto model.RegisterDTO) (*model.UserResponse, error) {
	return a.createUser(ctx, strings.TrimSpace(dto.Username), dto.Email, dto.Password, model.User)
}

func (a *Auth) createUser(ctx context.Context, username, email, password, role string) (*model.UserResponse, error) {
	email = NormalizeEmail(email)
	if err := EnsureUnique(ctx, a.storage, username, email, ""); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash")
	}

	user := &model.UserDB{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Role:      role,
		Password:  string(hash),
		CreatedAt: a.now().UTC(),
	}
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrEmailNotUnique
		}
		return nil, errors.Wrap(err, "create user")
	}

	log.Info().Str("user", user.ID).Str("role", role).Msg("user registered")
	return user.Response(), nil
}

// EnsureAdmin creates the bootstrap administrator unless the email is
// already registered. An empty password is replaced by a generated one,
// which is returned so it can be shown once.
func (a *Auth) EnsureAdmin(ctx context.Context, username, email, password string) (string, error) {
	_, err := a.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case err == nil:
		return "", nil
	case !errors.Is(err, storage.ErrEntityNotFound):
		return "", errors.Wrap(err, "get admin")
	}

	generated := ""
	if password == "" {
		if password, err = security.GeneratePassword(generatedPasswordLength); err != nil {
			return "", errors.Wrap(err, "password gen")
		}
		generated = password
	}

	if _, err := a.createUser(ctx, username, email, password, model.Admin); err != nil {
		return "", errors.Wrap(err, "create admin")
	}
	return generated, nil
}

func accessTTL(role string) time.Duration {
	if role == model.Admin {
		return adminAccessTokenTTL
	}
	return userAccessTokenTTL
}

// issue signs a token pair bound to a fresh session and stores the session.
func (a *Auth) issue(ctx context.Context, user *model.UserDB) (access, refresh string, err error) {
	sID := uuid.New().String()
	dto := model.JwtDTO{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		SID:      sID,
	}

	access, err = jwt.NewToken(dto, accessTTL(user.Role))
	if err != nil {
		log.Error().Msgf("failed to generate access token: %v", err)
		return "", "", errors.Wrap(err, "generate access token")
	}
	refresh, err = jwt.NewToken(model.JwtDTO{ID: user.ID, SID: sID}, refreshTokenTTL)
	if err != nil {
		log.Error().Msgf("failed to generate refresh token: %v", err)
		return "", "", errors.Wrap(err, "generate refresh token")
	}

	if err := a.storage.CreateSession(ctx, &model.Session{
		ID:           sID,
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    a.now().Add(refreshTokenTTL),
	}); err != nil {
		return "", "", errors.Wrap(err, "create session")
	}
	return access, refresh, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := a.storage.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEntityNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, errors.Wrap(err, "login")
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := a.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		TokenType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Response(),
	}, nil
}

// RefreshToken rotates the session: the old one is dropped.
func (a *Auth) RefreshToken(ctx context.Context, refreshToken string) (*model.RefreshTokenResponse, error) {
	session, err := a.storage.GetSessionByRToken(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEntityNotFound):
			return nil, ErrTokenNotFound
		default:
			return nil, errors.Wrap(err, "refresh token")
		}
	}

	user, err := a.storage.GetUserByID(ctx, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrEntityNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, errors.Wrap(err, "refresh token")
		}
	}

	if err := a.storage.DeleteSessionBySID(ctx, session.ID); err != nil {
		return nil, errors.Wrap(err, "delete session")
	}

	accessToken, newRefreshToken, err := a.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	return &model.RefreshTokenResponse{
		TokenType:    "Bearer",
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout ends the caller's session; both of its tokens stop working.
func (a *Auth) Logout(ctx context.Context) error {
	claims, ok := jwt.Claims(ctx)
	if !ok {
		return ErrSessionNotValid
	}
	if err := a.storage.DeleteSessionBySID(ctx, claims.SID); err != nil {
		return errors.Wrap(err, "logout")
	}
	return nil
}

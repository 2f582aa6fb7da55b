package jwt

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Heidric/shop-admin/internal/logger"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type ctxKey string

const (
	CtxKeyClaims ctxKey = "claims"
	CtxKeyToken  ctxKey = "token"
)

var (
	audience string
	issuer   string
	secret   string
	log      zerolog.Logger
)

func Initialize(cfg *Config) {
	audience = cfg.Audience
	issuer = cfg.Issuer
	secret = cfg.Secret
	log = *logger.Log
	log = log.With().Str("name", "jwt").Logger()
}

// NewToken signs an HS256 token for the given identity.
func NewToken(dto model.JwtDTO, duration time.Duration) (string, error) {
	now := time.Now()
	claims := &model.UserClaim{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Audience:  jwt.ClaimStrings{audience},
		},
		ID:       dto.ID,
		Username: dto.Username,
		Role:     dto.Role,
		SID:      dto.SID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify accepts only HS256 tokens issued and addressed by this service.
func Verify(token string) (*model.UserClaim, error) {
	claims := &model.UserClaim{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	return claims, nil
}

// Claims returns the identity the Authenticator stored in ctx.
func Claims(ctx context.Context) (model.UserClaim, bool) {
	claims, ok := ctx.Value(CtxKeyClaims).(model.UserClaim)
	return claims, ok
}

// Token returns the raw bearer token the Authenticator stored in ctx.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(CtxKeyToken).(string)
	return token
}

// WithClaims stores an identity the way the Authenticator does.
func WithClaims(ctx context.Context, claims model.UserClaim, token string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyClaims, claims)
	return context.WithValue(ctx, CtxKeyToken, token)
}

type Verifier interface {
	ValidateSession(ctx context.Context) error
}

// bearer extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is case-insensitive.
func bearer(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func Authenticator(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				unauthorizedError(w, "No token provided")
				return
			}

			claims, err := Verify(token)
			if err != nil {
				unauthorizedError(w, err.Error())
				return
			}

			ctx := WithClaims(r.Context(), *claims, token)
			if err := v.ValidateSession(ctx); err != nil {
				unauthorizedError(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorizedError(w http.ResponseWriter, detail string) {
	res := struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
		Detail string `json:"detail"`
		Code   string `json:"code"`
	}{
		Title:  "Unauthorized",
		Status: http.StatusUnauthorized,
		Detail: detail,
		Code:   "UNAUTHORIZED",
	}

	log.Warn().Msg(detail)

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(res)
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Heidric/shop-admin/internal/lib/jwt"
	"github.com/Heidric/shop-admin/internal/logger"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/Heidric/shop-admin/internal/ws"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var log zerolog.Logger

type Auth interface {
	Register(ctx context.Context, dto model.RegisterDTO) (*model.UserResponse, error)
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.RefreshTokenResponse, error)
	Logout(ctx context.Context) error
	ValidateSession(ctx context.Context) error
}

type Product interface {
	List(ctx context.Context, q model.ProductListQuery) (*model.ProductListResponse, error)
	Get(ctx context.Context, id string) (*model.ProductResponse, error)
	Create(ctx context.Context, dto model.ProductDTO) (*model.ProductResponse, error)
	Update(ctx context.Context, id string, dto model.ProductDTO) (*model.ProductResponse, error)
	Delete(ctx context.Context, id string) error
}

type User interface {
	List(ctx context.Context) ([]*model.UserResponse, error)
	Get(ctx context.Context, id string) (*model.UserResponse, error)
	Update(ctx context.Context, id string, dto model.UpdateUserDTO, canChangeRole bool) (*model.UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type Server struct {
	srv     *http.Server
	rules   *validation.Engine
	auth    Auth
	product Product
	user    User
	wsHub   *ws.Hub
}

func NewServer(addr string, rules *validation.Engine, hub *ws.Hub, auth Auth, product Product, user User) *Server {
	log = *logger.Log
	log = log.With().Str("name", "http").Logger()

	r := chi.NewRouter()

	s := &Server{
		srv:     &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second},
		rules:   rules,
		auth:    auth,
		product: product,
		user:    user,
		wsHub:   hub,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Post(`/api/v1/auth/register`, s.registerHandler)
		r.Post(`/api/v1/auth/login`, s.loginHandler)
		r.Post(`/api/v1/auth/refreshToken`, s.refreshTokenHandler)

		r.Post(`/api/v1/validate/{form}`, s.validateFormHandler)
		r.Get(`/api/v1/validation/ruleset`, s.rulesetHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(jwt.Authenticator(s.auth))

		r.Post(`/api/v1/auth/logout`, s.logoutHandler)

		r.Get(`/api/v1/products`, s.productListHandler)
		r.Get(`/api/v1/products/ws`, s.productEventsWSHandler)
		r.Get(`/api/v1/products/{id}`, s.productGetHandler)
		r.With(s.requireAdmin).Post(`/api/v1/products`, s.productCreateHandler)
		r.With(s.requireAdmin).Put(`/api/v1/products/{id}`, s.productUpdateHandler)
		r.With(s.requireAdmin).Delete(`/api/v1/products/{id}`, s.productDeleteHandler)

		r.With(s.requireAdmin).Get(`/api/v1/users`, s.userListHandler)
		r.With(s.requireSelfOrAdmin).Get(`/api/v1/users/{id}`, s.userGetHandler)
		r.With(s.requireSelfOrAdmin).Put(`/api/v1/users/{id}`, s.userUpdateHandler)
		r.With(s.requireAdmin).Delete(`/api/v1/users/{id}`, s.userDeleteHandler)
	})

	r.HandleFunc(`/*`, notFoundHandler)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Run(ctx context.Context, runner *errgroup.Group) {
	logger.Log.Info().Str("addr", s.srv.Addr).Msg("Http server started.")

	runner.Go(func() error {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

// Shutdown drains HTTP requests and disconnects websocket subscribers,
// which Shutdown does not track.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Http server stopped.")

	nctx, stop := context.WithTimeout(ctx, time.Second*10)
	defer stop()

	s.wsHub.Close()
	return s.srv.Shutdown(nctx)
}

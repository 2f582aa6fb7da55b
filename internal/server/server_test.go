package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Heidric/shop-admin/internal/lib/jwt"
	"github.com/Heidric/shop-admin/internal/model"
	"github.com/Heidric/shop-admin/internal/server"
	"github.com/Heidric/shop-admin/internal/services/auth"
	"github.com/Heidric/shop-admin/internal/services/product"
	"github.com/Heidric/shop-admin/internal/services/user"
	"github.com/Heidric/shop-admin/internal/storage/memory"
	"github.com/Heidric/shop-admin/internal/validation"
	"github.com/Heidric/shop-admin/internal/ws"
	"github.com/google/go-cmp/cmp"
)

type fakeAuth struct {
	registerErr error
	loginErr    error
	loggedOut   bool
}

func (f *fakeAuth) Register(ctx context.Context, dto model.RegisterDTO) (*model.UserResponse, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &model.UserResponse{ID: "new", Username: dto.Username, Email: dto.Email, Role: model.User}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &model.LoginResponse{TokenType: "Bearer", AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuth) RefreshToken(ctx context.Context, token string) (*model.RefreshTokenResponse, error) {
	return nil, auth.ErrTokenNotFound
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.loggedOut = true
	return nil
}

func (f *fakeAuth) ValidateSession(ctx context.Context) error { return nil }

type fixture struct {
	handler http.Handler
	auth    *fakeAuth
	store   *memory.Store
	hub     *ws.Hub
}

func newFixture(t *testing.T, rules validation.Ruleset) *fixture {
	t.Helper()
	jwt.Initialize(&jwt.Config{Issuer: "test", Audience: "shop", Secret: "0123456789abcdef"})

	store := memory.New()
	for _, u := range []model.UserDB{
		{ID: "admin", Username: "admin", Email: "admin@example.com", Role: model.Admin},
		{ID: "u1", Username: "alice", Email: "alice@example.com", Role: model.User},
		{ID: "u2", Username: "bob", Email: "bob@example.com", Role: model.User},
	} {
		if err := store.CreateUser(context.Background(), &u); err != nil {
			t.Fatal(err)
		}
	}

	engine := validation.NewEngine(rules)
	hub := ws.NewHub()
	fa := &fakeAuth{}
	s := server.NewServer(":0", engine, hub, fa,
		product.New(store, engine, hub),
		user.New(store),
	)
	return &fixture{handler: s.Handler(), auth: fa, store: store, hub: hub}
}

func token(t *testing.T, id, role string) string {
	t.Helper()
	tok, err := jwt.NewToken(model.JwtDTO{ID: id, Username: id, Role: role, SID: "s-" + id}, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (f *fixture) do(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) server.Validation {
	t.Helper()
	var p server.Validation
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decode problem: %v (body=%s)", err, w.Body.String())
	}
	return p
}

func TestRegisterHandler(t *testing.T) {
	f := newFixture(t, validation.Lenient)

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", `{"username":"","email":"test@","password":"abcdef","confirmPassword":"abcdeg"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", w.Code)
	}
	want := map[string]string{
		"username":        validation.MsgUsernameRequired,
		"email":           validation.MsgEmailInvalid,
		"password":        validation.MsgPasswordComposition,
		"confirmPassword": validation.MsgConfirmMismatch,
	}
	if diff := cmp.Diff(want, decodeProblem(t, w).Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}

	valid := `{"username":"carol","email":"carol@example.com","password":"secret1","confirmPassword":"secret1"}`
	if w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", valid); w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", w.Code, w.Body.String())
	}

	f.auth.registerErr = auth.ErrEmailNotUnique
	w = f.do(t, http.MethodPost, "/api/v1/auth/register", "", valid)
	if w.Code != http.StatusConflict || decodeProblem(t, w).Code != server.ErrEmailNotUnique {
		t.Errorf("want 409 %s, got %d %s", server.ErrEmailNotUnique, w.Code, w.Body.String())
	}

	if w := f.do(t, http.MethodPost, "/api/v1/auth/register", "", `{`); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body: want 400, got %d", w.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	f := newFixture(t, validation.Lenient)

	w := f.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"","password":""}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d", w.Code)
	}

	f.auth.loginErr = auth.ErrInvalidCredentials
	w = f.do(t, http.MethodPost, "/api/v1/auth/login", "", `{"email":"test@example.com","password":"test123"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("want 401, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/v1/auth/refreshToken", "", `{"refreshToken":"stale"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh: want 401, got %d", w.Code)
	}
}

func TestLogoutRequiresAuth(t *testing.T) {
	f := newFixture(t, validation.Lenient)

	if w := f.do(t, http.MethodPost, "/api/v1/auth/logout", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("want 401, got %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/v1/auth/logout", token(t, "u1", model.User), ""); w.Code != http.StatusNoContent {
		t.Errorf("want 204, got %d", w.Code)
	}
	if !f.auth.loggedOut {
		t.Error("logout not called")
	}
}

func TestProductHandlers(t *testing.T) {
	f := newFixture(t, validation.Strict)
	admin := token(t, "admin", model.Admin)
	alice := token(t, "u1", model.User)

	body := `{"name":"Macbook Pro","description":"M3","price":"1500","quantity":3,"category":"macbook"}`

	if w := f.do(t, http.MethodPost, "/api/v1/products", alice, body); w.Code != http.StatusForbidden {
		t.Fatalf("user create: want 403, got %d", w.Code)
	}

	w := f.do(t, http.MethodPost, "/api/v1/products", admin, `{"name":"ab","price":-1,"quantity":10.5,"category":"invalid"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid create: want 422, got %d", w.Code)
	}
	want := map[string]string{
		"name":     "Product name must be at least 3 characters",
		"price":    validation.MsgPriceNegative,
		"quantity": validation.MsgQuantityNotInteger,
		"category": validation.MsgCategoryInvalid,
	}
	if diff := cmp.Diff(want, decodeProblem(t, w).Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}

	w = f.do(t, http.MethodPost, "/api/v1/products", admin, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d: %s", w.Code, w.Body.String())
	}
	var created model.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Price != 1500 || created.Quantity != 3 {
		t.Errorf("unexpected product %+v", created)
	}

	w = f.do(t, http.MethodGet, "/api/v1/products?search=MAC&category=macbook", alice, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: want 200, got %d", w.Code)
	}
	var list model.ProductListResponse
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || len(list.Items) != 1 || list.Items[0].ID != created.ID {
		t.Errorf("unexpected list %+v", list)
	}

	w = f.do(t, http.MethodPost, "/api/v1/products", admin, `{"name":"Cable","price":1,"quantity":1,"category":5}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("numeric category: want 422, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/products?page=0&pageSize=abc", alice, "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad paging: want 422, got %d", w.Code)
	}

	if w := f.do(t, http.MethodGet, "/api/v1/products/"+created.ID, alice, ""); w.Code != http.StatusOK {
		t.Errorf("get: want 200, got %d", w.Code)
	}

	update := strings.Replace(body, "Macbook Pro", "Macbook Air", 1)
	if w := f.do(t, http.MethodPut, "/api/v1/products/"+created.ID, admin, update); w.Code != http.StatusOK {
		t.Errorf("update: want 200, got %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/api/v1/products/"+created.ID, admin, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete: want 204, got %d", w.Code)
	}

	w = f.do(t, http.MethodGet, "/api/v1/products/"+created.ID, alice, "")
	if w.Code != http.StatusNotFound || decodeProblem(t, w).Code != server.ErrProductNotFound {
		t.Errorf("get deleted: want 404 %s, got %d", server.ErrProductNotFound, w.Code)
	}
}

func TestProductSavedBackUnchanged(t *testing.T) {
	f := newFixture(t, validation.Lenient)
	admin := token(t, "admin", model.Admin)

	in := model.ProductResponse{
		Name:        "Lab kit",
		Description: strings.Repeat("R&D ", 100),
		Price:       10,
		Quantity:    1,
		Category:    "imac",
	}
	body, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	w := f.do(t, http.MethodPost, "/api/v1/products", admin, string(body))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: want 201, got %d: %s", w.Code, w.Body.String())
	}
	var created model.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Description != in.Description {
		t.Fatalf("description changed on create: %d characters stored", len(created.Description))
	}

	w = f.do(t, http.MethodGet, "/api/v1/products/"+created.ID, admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: want 200, got %d", w.Code)
	}
	fetched := w.Body.String()

	for i := 0; i < 2; i++ {
		w = f.do(t, http.MethodPut, "/api/v1/products/"+created.ID, admin, fetched)
		if w.Code != http.StatusOK {
			t.Fatalf("save #%d: want 200, got %d: %s", i+1, w.Code, w.Body.String())
		}
	}
	var saved model.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&saved); err != nil {
		t.Fatal(err)
	}
	if saved.Description != in.Description {
		t.Errorf("description drifted after saving back: %q", saved.Description)
	}
}

func TestUserHandlers(t *testing.T) {
	f := newFixture(t, validation.Lenient)
	admin := token(t, "admin", model.Admin)
	alice := token(t, "u1", model.User)

	if w := f.do(t, http.MethodGet, "/api/v1/users", alice, ""); w.Code != http.StatusForbidden {
		t.Errorf("user list as user: want 403, got %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/v1/users", admin, ""); w.Code != http.StatusOK {
		t.Errorf("user list as admin: want 200, got %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/v1/users/u1", alice, ""); w.Code != http.StatusOK {
		t.Errorf("self get: want 200, got %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/v1/users/u2", alice, ""); w.Code != http.StatusForbidden {
		t.Errorf("other get: want 403, got %d", w.Code)
	}

	w := f.do(t, http.MethodPut, "/api/v1/users/u1", alice, `{"username":"bob","email":"alice@example.com"}`)
	if w.Code != http.StatusConflict || decodeProblem(t, w).Code != server.ErrUsernameNotUnique {
		t.Errorf("taken username: want 409, got %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, http.MethodPut, "/api/v1/users/u1", alice, `{"username":"alice","email":"alice@example.com","role":"Admin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("self update: want 200, got %d", w.Code)
	}
	var res model.UserResponse
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Role != model.User {
		t.Errorf("users must not promote themselves, got role %s", res.Role)
	}

	if w := f.do(t, http.MethodDelete, "/api/v1/users/u2", alice, ""); w.Code != http.StatusForbidden {
		t.Errorf("delete as user: want 403, got %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/api/v1/users/admin", admin, ""); w.Code != http.StatusBadRequest {
		t.Errorf("delete last admin: want 400, got %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/api/v1/users/u2", admin, ""); w.Code != http.StatusNoContent {
		t.Errorf("delete: want 204, got %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/v1/users/u2", admin, ""); w.Code != http.StatusNotFound {
		t.Errorf("get deleted: want 404, got %d", w.Code)
	}
}

func TestValidateFormHandler(t *testing.T) {
	f := newFixture(t, validation.Lenient)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		want   server.ValidationResult
	}{
		{
			name:   "invalid product",
			path:   "/api/v1/validate/product",
			body:   `{"name":"","price":"","quantity":"","category":""}`,
			status: http.StatusOK,
			want: server.ValidationResult{Errors: validation.Errors{
				"name":     validation.MsgProductNameRequired,
				"price":    validation.MsgPriceRequired,
				"quantity": validation.MsgQuantityRequired,
				"category": validation.MsgCategoryRequired,
			}},
		},
		{
			name:   "single field",
			path:   "/api/v1/validate/register?field=email",
			body:   `{"username":"","email":"test@"}`,
			status: http.StatusOK,
			want:   server.ValidationResult{Errors: validation.Errors{"email": validation.MsgEmailInvalid}},
		},
		{
			name:   "single valid field",
			path:   "/api/v1/validate/register?field=email",
			body:   `{"email":"test@example.com"}`,
			status: http.StatusOK,
			want:   server.ValidationResult{Valid: true},
		},
		{
			name:   "wrong token types are field errors",
			path:   "/api/v1/validate/product",
			body:   `{"name":123,"price":1,"quantity":1,"category":5}`,
			status: http.StatusOK,
			want:   server.ValidationResult{Errors: validation.Errors{"category": validation.MsgCategoryInvalid}},
		},
		{
			name:   "valid login",
			path:   "/api/v1/validate/login",
			body:   `{"email":"test@example.com","password":"test123"}`,
			status: http.StatusOK,
			want:   server.ValidationResult{Valid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, tt.path, "", tt.body)
			if w.Code != tt.status {
				t.Fatalf("want %d, got %d", tt.status, w.Code)
			}
			var got server.ValidationResult
			if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if w := f.do(t, http.MethodPost, "/api/v1/validate/checkout", "", `{}`); w.Code != http.StatusNotFound {
		t.Errorf("unknown form: want 404, got %d", w.Code)
	}

	w := f.do(t, http.MethodPost, "/api/v1/validate/login?field=username", "", `{}`)
	if w.Code != http.StatusNotFound || decodeProblem(t, w).Code != server.ErrFieldNotFound {
		t.Errorf("unknown field: want 404 %s, got %d %s", server.ErrFieldNotFound, w.Code, w.Body.String())
	}
	if w := f.do(t, http.MethodPost, "/api/v1/validate/product", "", `[]`); w.Code != http.StatusBadRequest {
		t.Errorf("non-object body: want 400, got %d", w.Code)
	}
}

func TestRulesetHandler(t *testing.T) {
	f := newFixture(t, validation.Strict)

	w := f.do(t, http.MethodGet, "/api/v1/validation/ruleset", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	var got server.RulesetResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(validation.Strict, got.Ruleset); diff != "" {
		t.Errorf("ruleset mismatch (-want +got):\n%s", diff)
	}
	if len(got.Categories) != 7 || got.MaxQuantity != validation.MaxQuantity {
		t.Errorf("unexpected response %+v", got)
	}
}

func TestUnknownEndpoint(t *testing.T) {
	f := newFixture(t, validation.Lenient)
	if w := f.do(t, http.MethodGet, "/api/v2/anything", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("want 404, got %d", w.Code)
	}
}

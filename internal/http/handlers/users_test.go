package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/softjobs/softjobs-backend/internal/domain/user"
	"github.com/softjobs/softjobs-backend/internal/http/handlers"
	"github.com/softjobs/softjobs-backend/internal/http/middlewares"
	"github.com/softjobs/softjobs-backend/internal/service"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementation of the handlers.AuthFlow interface

type fakeAuth struct {
	registerFn func(ctx context.Context, email, password, rol, lenguage string) (user.PublicUser, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
	profileFn  func(ctx context.Context, email string) (user.PublicUser, error)
}

func (f *fakeAuth) Register(ctx context.Context, email, password, rol, lenguage string) (user.PublicUser, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, email, password, rol, lenguage)
	}
	return user.PublicUser{}, nil
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return "", nil
}

func (f *fakeAuth) FetchProfile(ctx context.Context, email string) (user.PublicUser, error) {
	if f.profileFn != nil {
		return f.profileFn(ctx, email)
	}
	return user.PublicUser{}, nil
}

func newTestRouter(auth handlers.AuthFlow, profileEmail string) *gin.Engine {
	r := gin.New()
	h := handlers.NewUsersHandler(auth, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r.POST("/usuarios", h.Register)
	r.POST("/login", h.Login)
	r.GET("/usuarios", func(c *gin.Context) {
		if profileEmail != "" {
			middlewares.WithEmail(c, profileEmail)
		}
		c.Next()
	}, h.Profile)

	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_Created(t *testing.T) {
	auth := &fakeAuth{
		registerFn: func(ctx context.Context, email, password, rol, lenguage string) (user.PublicUser, error) {
			return user.PublicUser{ID: 1, Email: email, Role: rol, Language: lenguage}, nil
		},
	}
	r := newTestRouter(auth, "")

	w := doJSON(r, http.MethodPost, "/usuarios", `{"email":"a@b.com","password":"pw1","rol":"admin","lenguage":"en"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp struct {
		Usuario user.PublicUser `json:"usuario"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v body=%s", err, w.Body.String())
	}

	if resp.Usuario.Email != "a@b.com" || resp.Usuario.Role != "admin" {
		t.Fatalf("unexpected usuario: %+v", resp.Usuario)
	}

	if bytes.Contains(w.Body.Bytes(), []byte("pw1")) {
		t.Fatalf("response must not echo the password: %s", w.Body.String())
	}
}

func TestRegister_Conflict(t *testing.T) {
	auth := &fakeAuth{
		registerFn: func(ctx context.Context, email, password, rol, lenguage string) (user.PublicUser, error) {
			return user.PublicUser{}, service.ErrUserAlreadyExists
		},
	}
	r := newTestRouter(auth, "")

	w := doJSON(r, http.MethodPost, "/usuarios", `{"email":"a@b.com","password":"pw2","rol":"user","lenguage":"es"}`)

	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusConflict, w.Body.String())
	}
}

func TestRegister_StoreFailureIsOpaque(t *testing.T) {
	auth := &fakeAuth{
		registerFn: func(ctx context.Context, email, password, rol, lenguage string) (user.PublicUser, error) {
			return user.PublicUser{}, errors.New("pq: connection refused on 10.0.0.3")
		},
	}
	r := newTestRouter(auth, "")

	w := doJSON(r, http.MethodPost, "/usuarios", `{"email":"a@b.com","password":"pw1"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", w.Code)
	}

	if bytes.Contains(w.Body.Bytes(), []byte("10.0.0.3")) {
		t.Fatalf("internal error detail leaked to the client: %s", w.Body.String())
	}
}

func TestRegister_InputValidation(t *testing.T) {
	r := newTestRouter(&fakeAuth{}, "")

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{"email":`},
		{"missing password", `{"email":"a@b.com"}`},
		{"missing email", `{"password":"pw1"}`},
		{"invalid email shape", `{"email":"not-an-email","password":"pw1"}`},
		{"blank password", `{"email":"a@b.com","password":"   "}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/usuarios", tc.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
			}
		})
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	auth := &fakeAuth{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			return "signed-token", nil
		},
	}
	r := newTestRouter(auth, "")

	w := doJSON(r, http.MethodPost, "/login", `{"email":"a@b.com","password":"pw1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Token != "signed-token" {
		t.Fatalf("unexpected token: %q", resp.Token)
	}
}

func TestLogin_MergedUnauthorized(t *testing.T) {
	// unknown email and wrong password must be indistinguishable to clients
	for _, failure := range []error{service.ErrUserNotFound, service.ErrInvalidPassword} {
		auth := &fakeAuth{
			loginFn: func(ctx context.Context, email, password string) (string, error) {
				return "", failure
			},
		}
		r := newTestRouter(auth, "")

		w := doJSON(r, http.MethodPost, "/login", `{"email":"a@b.com","password":"pw1"}`)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("failure %v: got status %d, want 401", failure, w.Code)
		}

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if resp.Error.Code != "invalid_credentials" {
			t.Fatalf("failure %v: want code invalid_credentials, got %q", failure, resp.Error.Code)
		}
	}
}

func TestProfile_ReturnsSingleElementArray(t *testing.T) {
	auth := &fakeAuth{
		profileFn: func(ctx context.Context, email string) (user.PublicUser, error) {
			return user.PublicUser{ID: 1, Email: email, Role: "admin", Language: "en"}, nil
		},
	}
	r := newTestRouter(auth, "a@b.com")

	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp []user.PublicUser
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(resp) != 1 || resp[0].Email != "a@b.com" {
		t.Fatalf("unexpected profile array: %+v", resp)
	}
}

func TestProfile_UnknownUserIs404(t *testing.T) {
	auth := &fakeAuth{
		profileFn: func(ctx context.Context, email string) (user.PublicUser, error) {
			return user.PublicUser{}, service.ErrUserNotFound
		},
	}
	r := newTestRouter(auth, "x@y.com")

	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}
}

func TestProfile_MissingIdentity(t *testing.T) {
	r := newTestRouter(&fakeAuth{}, "")

	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
}

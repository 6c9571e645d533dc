package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"dailydiet/internal/session"
)

// Mock users service for testing
type mockService struct {
	registerFunc func(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error)
	listFunc     func(ctx context.Context) ([]User, error)
}

func (m *mockService) Register(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error) {
	return m.registerFunc(ctx, req, sessionID)
}

func (m *mockService) GetByID(ctx context.Context, id string) (*User, error) {
	return nil, ErrUserNotFound
}

func (m *mockService) List(ctx context.Context) ([]User, error) {
	return m.listFunc(ctx)
}

func newTestRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandler(svc, false)
	r := gin.New()
	r.POST("/users", h.Register)
	r.GET("/users", h.List)
	return r
}

const validBody = `{"firstName":"Douglas","lastName":"da Silva","email":"douglasdasilva@orkut.com.br"}`

func TestRegisterHandler_SetsCookieWhenIssued(t *testing.T) {
	var gotSession string
	svc := &mockService{
		registerFunc: func(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error) {
			gotSession = sessionID
			return &Registration{User: &User{ID: "u-1"}, SessionID: "new-token", Issued: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotSession != "" {
		t.Errorf("Expected empty incoming session, got %q", gotSession)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != session.CookieName || c.Value != "new-token" || c.Path != "/" {
		t.Errorf("Unexpected cookie: %+v", c)
	}
	if c.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("Expected 7 day max age, got %d", c.MaxAge)
	}
	if !c.HttpOnly {
		t.Error("Expected HttpOnly cookie")
	}
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

func TestRegisterHandler_NoCookieWhenCallerHasOne(t *testing.T) {
	var gotSession string
	svc := &mockService{
		registerFunc: func(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error) {
			gotSession = sessionID
			return &Registration{User: &User{ID: "u-1"}, SessionID: sessionID}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "existing-token"})
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	if gotSession != "existing-token" {
		t.Errorf("Expected existing token to reach service, got %q", gotSession)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Errorf("Expected no Set-Cookie, got %v", w.Result().Cookies())
	}
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	svc := &mockService{
		registerFunc: func(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error) {
			return nil, ErrEmailExists
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("Expected no cookie on conflict")
	}
}

func TestRegisterHandler_InvalidBody(t *testing.T) {
	called := false
	svc := &mockService{
		registerFunc: func(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error) {
			called = true
			return nil, nil
		},
	}

	bodies := []string{
		`{"firstName":"Douglas","lastName":"da Silva","email":"not-an-email"}`,
		`{"firstName":"","lastName":"da Silva","email":"d@orkut.com.br"}`,
		`{"firstName":"  ","lastName":"da Silva","email":"d@orkut.com.br"}`,
		`{"lastName":"da Silva","email":"d@orkut.com.br"}`,
		`not json`,
	}

	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		newTestRouter(svc).ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status 400, got %d", body, w.Code)
		}
	}

	if called {
		t.Error("Service must not be reached with invalid input")
	}
}

func TestRegisterHandler_InternalError(t *testing.T) {
	svc := &mockService{
		registerFunc: func(ctx context.Context, req RegisterRequest, sessionID string) (*Registration, error) {
			return nil, errors.New("db down")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Error("Internal error details must not leak")
	}
}

func TestListHandler(t *testing.T) {
	svc := &mockService{
		listFunc: func(ctx context.Context) ([]User, error) {
			return []User{{ID: "u-1", FirstName: "Douglas", LastName: "da Silva", Email: "d@orkut.com.br"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	newTestRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var users []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(users) != 1 || users[0]["first_name"] != "Douglas" || users[0]["email"] != "d@orkut.com.br" {
		t.Errorf("Unexpected users payload: %v", users)
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/db"
	"github.com/taskboard/taskboard/internal/models"
)

type mockUserLookup struct {
	users map[string]*models.User
}

func (m *mockUserLookup) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", db.ErrNotFound)
	}
	return u, nil
}

func setupLoginTestRouter(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	users := &mockUserLookup{users: map[string]*models.User{
		"owner@example.com": models.NewUser("owner@example.com", "Demo Owner", hash, "ORG-A", models.RoleOwner),
	}}

	tokens, err := auth.NewTokenManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error: %v", err)
	}

	r := gin.New()
	handler := NewAuthHandler(auth.NewAuthenticator(users, tokens, zerolog.Nop()), zerolog.Nop())
	handler.RegisterRoutes(r.Group(""))
	return r, tokens
}

func TestLogin(t *testing.T) {
	r, tokens := setupLoginTestRouter(t)

	body := []byte(`{"email": "owner@example.com", "password": "password123"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken string       `json:"access_token"`
		User        *models.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	claims, err := tokens.Verify(resp.AccessToken)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.Role != "OWNER" {
		t.Errorf("expected role claim OWNER, got %s", claims.Role)
	}
	if claims.OrganizationID != "ORG-A" {
		t.Errorf("expected org claim ORG-A, got %s", claims.OrganizationID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	r, _ := setupLoginTestRouter(t)

	body := []byte(`{"email": "owner@example.com", "password": "wrong"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	r, _ := setupLoginTestRouter(t)

	body := []byte(`{"email": "nobody@example.com", "password": "password123"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}

	// The response must not reveal whether the email exists.
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["error"] != "invalid credentials" {
		t.Errorf("expected uniform error message, got %q", resp["error"])
	}
}

func TestLogin_MissingFields(t *testing.T) {
	r, _ := setupLoginTestRouter(t)

	body := []byte(`{"email": "owner@example.com"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

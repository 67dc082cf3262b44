package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/api/middleware"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/db"
	"github.com/taskboard/taskboard/internal/models"
)

type mockOrganizationStore struct {
	orgs map[string]*models.Organization
}

func newMockOrganizationStore() *mockOrganizationStore {
	return &mockOrganizationStore{orgs: make(map[string]*models.Organization)}
}

func (m *mockOrganizationStore) CreateOrganization(_ context.Context, org *models.Organization) error {
	if _, ok := m.orgs[org.ID]; ok {
		return fmt.Errorf("create organization: %w", db.ErrDuplicate)
	}
	m.orgs[org.ID] = org
	return nil
}

func (m *mockOrganizationStore) GetOrganizationByID(_ context.Context, id string) (*models.Organization, error) {
	org, ok := m.orgs[id]
	if !ok {
		return nil, fmt.Errorf("get organization: %w", db.ErrNotFound)
	}
	return org, nil
}

func (m *mockOrganizationStore) ListOrganizations(_ context.Context) ([]*models.Organization, error) {
	var result []*models.Organization
	for _, org := range m.orgs {
		result = append(result, org)
	}
	return result, nil
}

func setupOrganizationsTestRouter(store OrganizationStore, claims *auth.Claims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(string(middleware.ClaimsContextKey), claims)
		}
		c.Next()
	})
	handler := NewOrganizationsHandler(store, zerolog.Nop())
	api := r.Group("/api/v1")
	guard := func(p auth.Permission) gin.HandlerFunc {
		return middleware.RequirePermission(p, zerolog.Nop())
	}
	handler.RegisterRoutes(api, guard)
	return r
}

func TestCreateOrganization_Owner(t *testing.T) {
	store := newMockOrganizationStore()
	r := setupOrganizationsTestRouter(store, testClaims("OWNER", "ORG-A"))

	body := []byte(`{"id": "ORG-B", "name": "Organization B"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/organizations", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var created models.Organization
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if created.ID != "ORG-B" || created.Name != "Organization B" {
		t.Errorf("unexpected organization in response: %+v", created)
	}
	if _, ok := store.orgs["ORG-B"]; !ok {
		t.Error("expected organization persisted")
	}
}

func TestCreateOrganization_DuplicateID(t *testing.T) {
	store := newMockOrganizationStore()
	store.orgs["ORG-A"] = models.NewOrganization("ORG-A", "Organization A")

	r := setupOrganizationsTestRouter(store, testClaims("OWNER", "ORG-A"))

	body := []byte(`{"id": "ORG-A", "name": "Shadow Org"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/organizations", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if store.orgs["ORG-A"].Name != "Organization A" {
		t.Error("duplicate create must not overwrite the existing record")
	}
}

func TestCreateOrganization_MissingFields(t *testing.T) {
	store := newMockOrganizationStore()
	r := setupOrganizationsTestRouter(store, testClaims("OWNER", "ORG-A"))

	body := []byte(`{"name": "No ID"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/organizations", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if len(store.orgs) != 0 {
		t.Error("expected no organization persisted")
	}
}

func TestListOrganizations(t *testing.T) {
	store := newMockOrganizationStore()
	store.orgs["ORG-A"] = models.NewOrganization("ORG-A", "Organization A")
	store.orgs["ORG-B"] = models.NewOrganization("ORG-B", "Organization B")

	r := setupOrganizationsTestRouter(store, testClaims("OWNER", "ORG-A"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Organizations []models.Organization `json:"organizations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(resp.Organizations) != 2 {
		t.Errorf("expected 2 organizations, got %d", len(resp.Organizations))
	}
}

func TestGetOrganization_NotFound(t *testing.T) {
	store := newMockOrganizationStore()
	r := setupOrganizationsTestRouter(store, testClaims("OWNER", "ORG-A"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations/ORG-X", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestOrganizations_AdminForbidden(t *testing.T) {
	store := newMockOrganizationStore()
	r := setupOrganizationsTestRouter(store, testClaims("ADMIN", "ORG-A"))

	for _, route := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/organizations"},
		{"POST", "/api/v1/organizations"},
		{"GET", "/api/v1/organizations/ORG-A"},
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(route.method, route.path, bytes.NewReader([]byte(`{}`)))
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected status 403, got %d", route.method, route.path, w.Code)
		}
	}
}

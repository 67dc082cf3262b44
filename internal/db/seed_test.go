package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/models"
)

type mockSeedUserStore struct {
	existing  map[string]*models.User
	lookupErr error
	created   []*models.User
}

func (m *mockSeedUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	u, ok := m.existing[email]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", ErrNotFound)
	}
	return u, nil
}

func (m *mockSeedUserStore) CreateUser(_ context.Context, user *models.User) error {
	m.created = append(m.created, user)
	return nil
}

func TestEnsureSeedUsers_CreatesMissingUsers(t *testing.T) {
	store := &mockSeedUserStore{existing: make(map[string]*models.User)}

	if err := ensureSeedUsers(context.Background(), store, zerolog.Nop()); err != nil {
		t.Fatalf("ensureSeedUsers() error: %v", err)
	}
	if len(store.created) != 2 {
		t.Fatalf("expected 2 demo users created, got %d", len(store.created))
	}
	for _, u := range store.created {
		if u.OrganizationID != seedOrganizationID {
			t.Errorf("expected demo user in %s, got %s", seedOrganizationID, u.OrganizationID)
		}
	}
}

func TestEnsureSeedUsers_SkipsExistingUsers(t *testing.T) {
	store := &mockSeedUserStore{
		existing: map[string]*models.User{
			"owner@example.com":  {Email: "owner@example.com"},
			"viewer@example.com": {Email: "viewer@example.com"},
		},
	}

	if err := ensureSeedUsers(context.Background(), store, zerolog.Nop()); err != nil {
		t.Fatalf("ensureSeedUsers() error: %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("expected no users created, got %d", len(store.created))
	}
}

func TestEnsureSeedUsers_PropagatesLookupFailure(t *testing.T) {
	lookupErr := errors.New("connection reset")
	store := &mockSeedUserStore{lookupErr: lookupErr}

	err := ensureSeedUsers(context.Background(), store, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error when the user lookup fails")
	}
	if !errors.Is(err, lookupErr) {
		t.Errorf("expected wrapped lookup error, got %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("a failed lookup must not fall through to create, got %d creates", len(store.created))
	}
}

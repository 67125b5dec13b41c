package store

import (
	"testing"
	"time"

	"visually/pkg/domain"
)

func TestMemoryStoreUserLifecycle(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now().UTC()
	user := domain.User{
		ID:        "user-1",
		Email:     "Alice@Example.com",
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.SaveUser(user); err != nil {
		t.Fatalf("save: %v", err)
	}

	exists, err := s.HasUserEmail("ALICE@example.com")
	if err != nil || !exists {
		t.Fatalf("email lookup: exists=%v err=%v", exists, err)
	}

	got, ok, err := s.GetUserByEmail("alice@example.com")
	if err != nil || !ok {
		t.Fatalf("get by email: ok=%v err=%v", ok, err)
	}
	if got.ID != "user-1" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	got, ok, err = s.GetUserByID("user-1")
	if err != nil || !ok {
		t.Fatalf("get by id: ok=%v err=%v", ok, err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestMemoryStoreMissingUser(t *testing.T) {
	s := NewMemoryStore()

	if exists, err := s.HasUserEmail("nobody@example.com"); err != nil || exists {
		t.Fatalf("exists=%v err=%v", exists, err)
	}
	if _, ok, err := s.GetUserByEmail("nobody@example.com"); err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if _, ok, err := s.GetUserByID("nobody"); err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

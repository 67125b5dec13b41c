package app

import (
	"errors"
	"testing"
	"time"

	"visually/pkg/auth"
	"visually/pkg/domain"
	"visually/pkg/store"
)

func newTestAccounts(t *testing.T) (*Accounts, *store.MemoryStore) {
	t.Helper()
	users := store.NewMemoryStore()
	sessions, err := store.NewJWTSessionStore("test-secret", time.Hour, store.NewMemoryTokenRevoker(), store.JWTOptions{})
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	accounts, err := NewAccounts(users, sessions)
	if err != nil {
		t.Fatalf("new accounts: %v", err)
	}
	return accounts, users
}

func TestSignUpIssuesSession(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	user, token, err := accounts.SignUp(" Alice@Example.com ", "hunter2hunter2", "Alice")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.ID == "" || token == "" {
		t.Fatalf("expected user id and token, got %q / %q", user.ID, token)
	}
	if user.Status != domain.StatusActive {
		t.Fatalf("status = %q, want active", user.Status)
	}

	got, ok, err := accounts.UserByToken(token)
	if err != nil || !ok {
		t.Fatalf("resolve token: ok=%v err=%v", ok, err)
	}
	if got.ID != user.ID {
		t.Fatalf("token resolved to wrong user: %q", got.ID)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	if _, _, err := accounts.SignUp("alice@example.com", "hunter2hunter2", ""); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	if _, _, err := accounts.SignUp("ALICE@example.com", "hunter2hunter2", ""); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got: %v", err)
	}
}

func TestSignUpWeakPassword(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	if _, _, err := accounts.SignUp("alice@example.com", "short", ""); !errors.Is(err, auth.ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got: %v", err)
	}
}

func TestSignUpMissingFields(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	if _, _, err := accounts.SignUp("", "hunter2hunter2", ""); !errors.Is(err, ErrEmailAndPasswordRequired) {
		t.Fatalf("expected ErrEmailAndPasswordRequired, got: %v", err)
	}
	if _, _, err := accounts.SignUp("alice@example.com", "", ""); !errors.Is(err, ErrEmailAndPasswordRequired) {
		t.Fatalf("expected ErrEmailAndPasswordRequired, got: %v", err)
	}
}

func TestLogin(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	if _, _, err := accounts.SignUp("alice@example.com", "hunter2hunter2", "Alice"); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	user, token, err := accounts.Login("alice@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "alice@example.com" || token == "" {
		t.Fatalf("unexpected login result: %+v", user)
	}

	if _, _, err := accounts.Login("alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
	if _, _, err := accounts.Login("nobody@example.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	accounts, users := newTestAccounts(t)
	user, _, err := accounts.SignUp("alice@example.com", "hunter2hunter2", "Alice")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	user.Status = domain.StatusDisabled
	if err := users.SaveUser(user); err != nil {
		t.Fatalf("save user: %v", err)
	}

	if _, _, err := accounts.Login("alice@example.com", "hunter2hunter2"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got: %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	_, token, err := accounts.SignUp("alice@example.com", "hunter2hunter2", "Alice")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := accounts.Logout(token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, err := accounts.UserByToken(token); err != nil || ok {
		t.Fatalf("revoked token should not resolve: ok=%v err=%v", ok, err)
	}
}

func TestUserByTokenGarbage(t *testing.T) {
	accounts, _ := newTestAccounts(t)

	if _, ok, err := accounts.UserByToken("not-a-jwt"); err != nil || ok {
		t.Fatalf("garbage token should not resolve: ok=%v err=%v", ok, err)
	}
}

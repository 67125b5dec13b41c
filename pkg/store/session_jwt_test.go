package store

import (
	"testing"
	"time"
)

func newTestSessions(t *testing.T, revoker TokenRevoker) *JWTSessionStore {
	t.Helper()
	s, err := NewJWTSessionStore("test-secret", time.Hour, revoker, JWTOptions{})
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}
	return s
}

func TestJWTSessionRoundTrip(t *testing.T) {
	s := newTestSessions(t, NewMemoryTokenRevoker())

	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	userID, ok, err := s.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if !ok || userID != "user-1" {
		t.Fatalf("got %q ok=%v, want user-1", userID, ok)
	}
}

func TestJWTSessionRejectsWrongSecret(t *testing.T) {
	s := newTestSessions(t, nil)
	other, err := NewJWTSessionStore("other-secret", time.Hour, nil, JWTOptions{})
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}

	token, err := other.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, ok, err := s.GetUserIDByToken(token); err != nil || ok {
		t.Fatalf("foreign token accepted: ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionRejectsGarbage(t *testing.T) {
	s := newTestSessions(t, nil)

	if _, ok, err := s.GetUserIDByToken("not.a.jwt"); err != nil || ok {
		t.Fatalf("garbage accepted: ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionExpiry(t *testing.T) {
	s, err := NewJWTSessionStore("test-secret", time.Millisecond, nil, JWTOptions{Leeway: time.Millisecond})
	if err != nil {
		t.Fatalf("new session store: %v", err)
	}

	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok, err := s.GetUserIDByToken(token); err != nil || ok {
		t.Fatalf("expired token accepted: ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionDelete(t *testing.T) {
	s := newTestSessions(t, NewMemoryTokenRevoker())

	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, ok, err := s.GetUserIDByToken(token); err != nil || ok {
		t.Fatalf("deleted token accepted: ok=%v err=%v", ok, err)
	}
}

func TestJWTSessionDeleteWithoutRevoker(t *testing.T) {
	s := newTestSessions(t, nil)

	token, err := s.NewSession("user-1")
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	// Without a revocation list the token stays valid until it expires.
	if err := s.DeleteSession(token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, ok, err := s.GetUserIDByToken(token); err != nil || !ok {
		t.Fatalf("token should stay valid: ok=%v err=%v", ok, err)
	}
}

func TestNewJWTSessionStoreRequiresSecret(t *testing.T) {
	if _, err := NewJWTSessionStore("   ", time.Hour, nil, JWTOptions{}); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

package app

import (
	"fmt"
	"strings"
	"time"

	"visually/internal/util"
	"visually/pkg/auth"
	"visually/pkg/domain"
	"visually/pkg/store"
)

// Accounts is the identity service backing the generation endpoints: email and
// password accounts with bearer-token sessions.
type Accounts struct {
	store    store.Store
	sessions store.SessionStore
}

// NewAccounts constructs the account service.
func NewAccounts(dataStore store.Store, sessions store.SessionStore) (*Accounts, error) {
	if dataStore == nil {
		return nil, fmt.Errorf("data store required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &Accounts{store: dataStore, sessions: sessions}, nil
}

// SignUp registers a new account and issues a session token.
func (a *Accounts) SignUp(email, password, displayName string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return domain.User{}, "", ErrEmailAndPasswordRequired
	}
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, "", err
	}
	exists, err := a.store.HasUserEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, "", ErrEmailAlreadyExists
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := domain.User{
		ID:           util.NewID(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: passwordHash,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, "", fmt.Errorf("save user: %w", err)
	}
	return a.issueSession(user)
}

// Login validates credentials and issues a session token.
func (a *Accounts) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if user.Status == domain.StatusDisabled {
		return domain.User{}, "", ErrUserDisabled
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	return a.issueSession(user)
}

// Logout revokes the session token.
func (a *Accounts) Logout(token string) error {
	if err := a.sessions.DeleteSession(token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// UserByToken resolves the session user for a bearer token.
func (a *Accounts) UserByToken(token string) (domain.User, bool, error) {
	userID, ok, err := a.sessions.GetUserIDByToken(token)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("validate session: %w", err)
	}
	if !ok {
		return domain.User{}, false, nil
	}
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("fetch user: %w", err)
	}
	if !ok || user.Status == domain.StatusDisabled {
		return domain.User{}, false, nil
	}
	return user, true, nil
}

func (a *Accounts) issueSession(user domain.User) (domain.User, string, error) {
	token, err := a.sessions.NewSession(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue session: %w", err)
	}
	return user, token, nil
}

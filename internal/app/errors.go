package app

import "errors"

var (
	// ErrNoMedia indicates the provider answered but produced no usable media.
	ErrNoMedia = errors.New("no media returned")
	// ErrStoryIncomplete indicates a story sub-generation came back without
	// one of its required pieces.
	ErrStoryIncomplete = errors.New("story generation incomplete")

	ErrEmailAndPasswordRequired = errors.New("email and password required")
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUserDisabled             = errors.New("user disabled")
)

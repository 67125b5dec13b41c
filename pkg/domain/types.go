package domain

import "time"

type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusDisabled UserStatus = "disabled"
)

type User struct {
	ID           string     `json:"uid"`
	Email        string     `json:"email"`
	DisplayName  string     `json:"displayName,omitempty"`
	PhotoURL     string     `json:"photoUrl,omitempty"`
	PasswordHash string     `json:"-"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Story is the composite result of a story generation: narrative text plus
// the cover image and narration produced from it.
type Story struct {
	Title       string `json:"title"`
	Story       string `json:"story"`
	ImagePrompt string `json:"imagePrompt"`
	ImageURL    string `json:"imageUrl"`
	AudioURL    string `json:"audioUrl"`
}

// The types below describe the gallery feature (saved generations, collections,
// comments, likes). Nothing reads or writes them yet; they are kept so the
// storage schema and API can grow into them without a migration rewrite.

type GeneratedImage struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Prompt    string    `json:"prompt"`
	URL       string    `json:"url"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

type Collection struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CollectionImage struct {
	CollectionID string    `json:"collectionId"`
	ImageID      string    `json:"imageId"`
	AddedAt      time.Time `json:"addedAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	ImageID   string    `json:"imageId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type Like struct {
	ImageID   string    `json:"imageId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

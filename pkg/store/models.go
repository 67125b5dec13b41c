package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	DisplayName  string
	PhotoURL     string
	PasswordHash string `gorm:"not null"`
	Status       string
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

// The models below back the gallery feature (saved generations, collections,
// comments, likes). They are migrated so the schema is in place, but no code
// path writes or reads them yet.

type GeneratedImageModel struct {
	ID        string `gorm:"primaryKey"`
	OwnerID   string `gorm:"not null;index"`
	Prompt    string `gorm:"type:text;not null"`
	URL       string `gorm:"type:text;not null"`
	Kind      string `gorm:"not null"`
	Metadata  datatypes.JSON
	CreatedAt time.Time `gorm:"not null;index"`
}

type CollectionModel struct {
	ID          string `gorm:"primaryKey"`
	OwnerID     string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time
}

type CollectionImageModel struct {
	CollectionID string    `gorm:"primaryKey"`
	ImageID      string    `gorm:"primaryKey"`
	AddedAt      time.Time `gorm:"not null"`
}

type CommentModel struct {
	ID        string `gorm:"primaryKey"`
	ImageID   string `gorm:"not null;index"`
	AuthorID  string `gorm:"not null;index"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

type LikeModel struct {
	ImageID   string    `gorm:"primaryKey"`
	UserID    string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

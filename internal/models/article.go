package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxTitleLength is the maximum number of characters in an article title.
const MaxTitleLength = 60

// Article is an ordered collection of sentences with a single owner. The API
// representation carries the sentence texts inline, in position order.
type Article struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"size:60;not null" json:"title"`
	OwnerID uint      `gorm:"not null;index" json:"owner"`
	Owner   User      `gorm:"foreignKey:OwnerID" json:"-"`
	// Sentences is the persisted association; the JSON surface exposes only
	// the texts via SentenceTexts.
	Sentences     []Sentence `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"-"`
	SentenceTexts []string   `gorm:"-" json:"sentences"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"modified_at"`
}

// BeforeCreate assigns a fresh UUID when none was set by the caller.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

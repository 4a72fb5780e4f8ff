package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentence is one line of an article. Within an article, positions are
// 1-based and dense: they always form the exact set {1..N}. The composite
// unique index on (article_id, position) is the database-level backstop for
// that invariant.
type Sentence struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sentences_article_position" json:"article"`
	Position  int       `gorm:"not null;uniqueIndex:idx_sentences_article_position" json:"position"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"modified_at"`
}

// BeforeCreate assigns a fresh UUID when none was set by the caller.
func (s *Sentence) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

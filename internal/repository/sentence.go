package repository

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPositionTaken reports a duplicate (article, position) pair. The unique
// index makes this the backstop for the dense-sequence invariant: hitting it
// means two mutations on the same article were not serialized.
var ErrPositionTaken = errors.New("sentence position already taken")

// SentenceRepository defines persistence operations for sentences within an
// article. Append and DeleteByPosition maintain the invariant that positions
// of an article's sentences are exactly {1..N}: both run in a transaction
// that locks the owning article row (on backends supporting row locks), so
// mutations on one article's sentence set are serialized.
type SentenceRepository interface {
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Sentence, error)
	GetByPosition(ctx context.Context, articleID uuid.UUID, position int) (*models.Sentence, error)
	Append(ctx context.Context, articleID uuid.UUID, text string, authorID uint) (*models.Sentence, error)
	Update(ctx context.Context, sentence *models.Sentence) error
	DeleteByPosition(ctx context.Context, articleID uuid.UUID, position int) error
}

type sentenceRepository struct {
	db *gorm.DB
}

// NewSentenceRepository creates a new sentence repository
func NewSentenceRepository(db *gorm.DB) SentenceRepository {
	return &sentenceRepository{db: db}
}

func (r *sentenceRepository) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]*models.Sentence, error) {
	var sentences []*models.Sentence
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("position ASC").
		Find(&sentences).Error
	if err != nil {
		return nil, err
	}
	return sentences, nil
}

func (r *sentenceRepository) GetByPosition(ctx context.Context, articleID uuid.UUID, position int) (*models.Sentence, error) {
	var sentence models.Sentence
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND position = ?", articleID, position).
		First(&sentence).Error
	if err != nil {
		return nil, err
	}
	return &sentence, nil
}

// Append inserts a new sentence at position max+1 (1 for an empty article).
func (r *sentenceRepository) Append(ctx context.Context, articleID uuid.UUID, text string, authorID uint) (*models.Sentence, error) {
	sentence := &models.Sentence{
		ArticleID: articleID,
		Text:      text,
		AuthorID:  authorID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockArticleRow(tx, articleID); err != nil {
			return err
		}

		var maxPosition int
		if err := tx.Model(&models.Sentence{}).
			Where("article_id = ?", articleID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPosition).Error; err != nil {
			return err
		}

		sentence.Position = maxPosition + 1
		return tx.Create(sentence).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPositionTaken
		}
		return nil, err
	}

	cache.InvalidateArticle(ctx, articleID)
	return sentence, nil
}

func (r *sentenceRepository) Update(ctx context.Context, sentence *models.Sentence) error {
	if err := r.db.WithContext(ctx).Save(sentence).Error; err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, sentence.ArticleID)
	return nil
}

// DeleteByPosition removes the sentence at the given position and decrements
// the position of every later sentence by one. Decrements are applied in
// ascending position order: each move fills the slot freed immediately below
// it, so the unique (article, position) index holds at every intermediate
// step. The whole operation commits or rolls back as a unit.
func (r *sentenceRepository) DeleteByPosition(ctx context.Context, articleID uuid.UUID, position int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.lockArticleRow(tx, articleID); err != nil {
			return err
		}

		res := tx.Where("article_id = ? AND position = ?", articleID, position).
			Delete(&models.Sentence{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var tail []models.Sentence
		if err := tx.Where("article_id = ? AND position > ?", articleID, position).
			Order("position ASC").
			Find(&tail).Error; err != nil {
			return err
		}

		for i := range tail {
			if err := tx.Model(&models.Sentence{}).
				Where("id = ?", tail[i].ID).
				Update("position", tail[i].Position-1).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrPositionTaken
		}
		return err
	}

	cache.InvalidateArticle(ctx, articleID)
	return nil
}

// lockArticleRow takes a FOR UPDATE lock on the article row so concurrent
// sentence mutations on the same article serialize. SQLite has no row locks
// and serializes writers itself, so the clause is skipped there.
func (r *sentenceRepository) lockArticleRow(tx *gorm.DB, articleID uuid.UUID) error {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	var article models.Article
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&article, "id = ?", articleID).Error
}

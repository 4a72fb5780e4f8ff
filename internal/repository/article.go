package repository

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleRepository defines persistence operations for articles.
// GetByID does not apply any ownership filtering; callers in the service
// layer are responsible for the ownership gate.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// cachedArticle is the cache envelope for an article. Article.Sentences is
// excluded from the API JSON, so it is carried explicitly here to survive the
// cache round-trip.
type cachedArticle struct {
	Article   models.Article    `json:"article"`
	Sentences []models.Sentence `json:"sentences"`
}

func (r *articleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var entry cachedArticle
	key := cache.ArticleKey(id)

	err := cache.Aside(ctx, key, &entry, cache.ArticleTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Sentences", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			First(&entry.Article, "id = ?", id).Error; err != nil {
			return err
		}
		entry.Sentences = entry.Article.Sentences
		return nil
	})
	if err != nil {
		return nil, err
	}
	entry.Article.Sentences = entry.Sentences
	return &entry.Article, nil
}

func (r *articleRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.db.WithContext(ctx).
		Preload("Sentences", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("owner_id = ?", ownerID).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, article.ID)
	return nil
}

// Delete removes the article and all of its sentences in one transaction.
func (r *articleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Sentence{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateArticle(ctx, id)
	return nil
}

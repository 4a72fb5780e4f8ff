// Package service contains the business logic sitting between HTTP handlers
// and repositories.
package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleService mediates every article operation through the ownership gate:
// an article that does not exist and an article owned by someone else produce
// the same NotFound error, so a requester can never learn whether a foreign
// id exists.
type ArticleService struct {
	articleRepo repository.ArticleRepository
}

// UpdateArticleInput carries the updatable article fields. An empty Title
// leaves the stored value unchanged (partial-update semantics).
type UpdateArticleInput struct {
	Title string
}

// NewArticleService creates a new article service.
func NewArticleService(articleRepo repository.ArticleRepository) *ArticleService {
	return &ArticleService{articleRepo: articleRepo}
}

// ListArticles returns all articles owned by the requester. Owning none is an
// empty list, not an error.
func (s *ArticleService) ListArticles(ctx context.Context, ownerID uint) ([]*models.Article, error) {
	articles, err := s.articleRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if articles == nil {
		articles = []*models.Article{}
	}
	for _, a := range articles {
		summarizeSentences(a)
	}
	return articles, nil
}

// CreateArticle creates an article owned by the requester.
func (s *ArticleService) CreateArticle(ctx context.Context, ownerID uint, title string) (*models.Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return nil, models.NewValidationError("Title too long (max 60 characters)")
	}

	article := &models.Article{
		Title:   title,
		OwnerID: ownerID,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, models.NewInternalError(err)
	}
	summarizeSentences(article)
	return article, nil
}

// GetArticle returns the article when the requester owns it.
func (s *ArticleService) GetArticle(ctx context.Context, ownerID uint, id uuid.UUID) (*models.Article, error) {
	article, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	summarizeSentences(article)
	return article, nil
}

// UpdateArticle applies the provided fields to an owned article and persists it.
func (s *ArticleService) UpdateArticle(ctx context.Context, ownerID uint, id uuid.UUID, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	// An omitted or empty field leaves the stored value unchanged.
	if in.Title != "" {
		title := strings.TrimSpace(in.Title)
		if utf8.RuneCountInString(title) > models.MaxTitleLength {
			return nil, models.NewValidationError("Title too long (max 60 characters)")
		}
		article.Title = title
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, models.NewInternalError(err)
	}
	summarizeSentences(article)
	return article, nil
}

// DeleteArticle deletes an owned article and all of its sentences.
func (s *ArticleService) DeleteArticle(ctx context.Context, ownerID uint, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// getOwned resolves an article and applies the ownership gate. Absence and
// non-ownership are deliberately indistinguishable in the returned error.
func (s *ArticleService) getOwned(ctx context.Context, ownerID uint, id uuid.UUID) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		return nil, models.NewInternalError(err)
	}
	if article.OwnerID != ownerID {
		return nil, models.NewNotFoundError("Article", id)
	}
	return article, nil
}

// summarizeSentences fills the read representation of sentences (their texts
// in position order).
func summarizeSentences(a *models.Article) {
	texts := make([]string, 0, len(a.Sentences))
	for _, s := range a.Sentences {
		texts = append(texts, s.Text)
	}
	a.SentenceTexts = texts
}

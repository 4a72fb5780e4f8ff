package service

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SentenceService handles sentence operations within an article. Every
// operation resolves the article through the same ownership gate as
// ArticleService before touching any sentence, so a non-owner receives the
// same NotFound whether the article is missing, foreign, or the position is
// out of range.
type SentenceService struct {
	articleRepo  repository.ArticleRepository
	sentenceRepo repository.SentenceRepository
}

// UpdateSentenceInput carries the updatable sentence fields. An empty Text
// leaves the stored value unchanged; position and article are never updatable.
type UpdateSentenceInput struct {
	Text string
}

// NewSentenceService creates a new sentence service.
func NewSentenceService(articleRepo repository.ArticleRepository, sentenceRepo repository.SentenceRepository) *SentenceService {
	return &SentenceService{
		articleRepo:  articleRepo,
		sentenceRepo: sentenceRepo,
	}
}

// ListSentences returns the article's sentences in ascending position order.
func (s *SentenceService) ListSentences(ctx context.Context, ownerID uint, articleID uuid.UUID) ([]*models.Sentence, error) {
	if err := s.resolveOwned(ctx, ownerID, articleID); err != nil {
		return nil, err
	}
	sentences, err := s.sentenceRepo.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if sentences == nil {
		sentences = []*models.Sentence{}
	}
	return sentences, nil
}

// AppendSentence adds a sentence at the next free position (1 for an empty
// article) with the requester as author.
func (s *SentenceService) AppendSentence(ctx context.Context, ownerID uint, articleID uuid.UUID, text string) (*models.Sentence, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if err := s.resolveOwned(ctx, ownerID, articleID); err != nil {
		return nil, err
	}

	sentence, err := s.sentenceRepo.Append(ctx, articleID, text, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrPositionTaken) {
			return nil, models.NewConflictError("Sentence position conflict")
		}
		return nil, models.NewInternalError(err)
	}
	return sentence, nil
}

// GetSentence returns the sentence at the given position.
func (s *SentenceService) GetSentence(ctx context.Context, ownerID uint, articleID uuid.UUID, position int) (*models.Sentence, error) {
	if err := s.resolveOwned(ctx, ownerID, articleID); err != nil {
		return nil, err
	}
	return s.getByPosition(ctx, articleID, position)
}

// UpdateSentence applies the provided fields to the sentence at the given
// position and persists it.
func (s *SentenceService) UpdateSentence(ctx context.Context, ownerID uint, articleID uuid.UUID, position int, in UpdateSentenceInput) (*models.Sentence, error) {
	if err := s.resolveOwned(ctx, ownerID, articleID); err != nil {
		return nil, err
	}
	sentence, err := s.getByPosition(ctx, articleID, position)
	if err != nil {
		return nil, err
	}

	// An omitted or empty field leaves the stored value unchanged.
	if in.Text != "" {
		sentence.Text = in.Text
	}

	if err := s.sentenceRepo.Update(ctx, sentence); err != nil {
		return nil, models.NewInternalError(err)
	}
	return sentence, nil
}

// DeleteSentence removes the sentence at the given position and renumbers the
// sentences after it, keeping positions dense.
func (s *SentenceService) DeleteSentence(ctx context.Context, ownerID uint, articleID uuid.UUID, position int) error {
	if err := s.resolveOwned(ctx, ownerID, articleID); err != nil {
		return err
	}
	if err := s.sentenceRepo.DeleteByPosition(ctx, articleID, position); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Sentence", position)
		}
		if errors.Is(err, repository.ErrPositionTaken) {
			return models.NewConflictError("Sentence position conflict")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// resolveOwned applies the article ownership gate. The returned error is the
// same NotFound whether the article is missing or owned by someone else.
func (s *SentenceService) resolveOwned(ctx context.Context, ownerID uint, articleID uuid.UUID) error {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Article", articleID)
		}
		return models.NewInternalError(err)
	}
	if article.OwnerID != ownerID {
		return models.NewNotFoundError("Article", articleID)
	}
	return nil
}

func (s *SentenceService) getByPosition(ctx context.Context, articleID uuid.UUID, position int) (*models.Sentence, error) {
	sentence, err := s.sentenceRepo.GetByPosition(ctx, articleID, position)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Sentence", position)
		}
		return nil, models.NewInternalError(err)
	}
	return sentence, nil
}

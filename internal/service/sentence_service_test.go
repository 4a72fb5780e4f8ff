package service

import (
	"context"
	"testing"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The sentence service tests run against an in-memory database so the dense
// position invariant is checked end to end, repositories included.
func setupSentenceService(t *testing.T) (*SentenceService, *ArticleService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Article{}, &models.Sentence{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	articleRepo := repository.NewArticleRepository(db)
	sentenceRepo := repository.NewSentenceRepository(db)
	return NewSentenceService(articleRepo, sentenceRepo), NewArticleService(articleRepo)
}

func TestSentenceService_AppendAndList(t *testing.T) {
	svc, articles := setupSentenceService(t)
	ctx := context.Background()

	article, err := articles.CreateArticle(ctx, 1, "Ordered thoughts")
	require.NoError(t, err)

	first, err := svc.AppendSentence(ctx, 1, article.ID, "It begins.")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, uint(1), first.AuthorID)

	second, err := svc.AppendSentence(ctx, 1, article.ID, "It continues.")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)

	sentences, err := svc.ListSentences(ctx, 1, article.ID)
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.Equal(t, "It begins.", sentences[0].Text)
	assert.Equal(t, "It continues.", sentences[1].Text)
}

func TestSentenceService_AppendValidation(t *testing.T) {
	svc, articles := setupSentenceService(t)
	ctx := context.Background()

	article, err := articles.CreateArticle(ctx, 1, "Ordered thoughts")
	require.NoError(t, err)

	_, err = svc.AppendSentence(ctx, 1, article.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrCode(t, err))
}

func TestSentenceService_OwnershipGate(t *testing.T) {
	svc, articles := setupSentenceService(t)
	ctx := context.Background()

	article, err := articles.CreateArticle(ctx, 1, "Private notes")
	require.NoError(t, err)
	_, err = svc.AppendSentence(ctx, 1, article.ID, "Mine alone.")
	require.NoError(t, err)

	// Every sentence operation is gated on article ownership; a non-owner
	// sees the same NotFound as for a missing article.
	_, err = svc.ListSentences(ctx, 2, article.ID)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	_, err = svc.GetSentence(ctx, 2, article.ID, 1)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	_, err = svc.AppendSentence(ctx, 2, article.ID, "Sneaky.")
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	_, err = svc.UpdateSentence(ctx, 2, article.ID, 1, UpdateSentenceInput{Text: "Hijack"})
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	err = svc.DeleteSentence(ctx, 2, article.ID, 1)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))

	// And the missing-article case carries the identical code.
	_, err = svc.ListSentences(ctx, 1, uuid.New())
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
}

func TestSentenceService_DeleteRenumbers(t *testing.T) {
	svc, articles := setupSentenceService(t)
	ctx := context.Background()

	article, err := articles.CreateArticle(ctx, 1, "Three lines")
	require.NoError(t, err)
	for _, text := range []string{"a", "b", "c"} {
		_, err := svc.AppendSentence(ctx, 1, article.ID, text)
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteSentence(ctx, 1, article.ID, 1))

	sentences, err := svc.ListSentences(ctx, 1, article.ID)
	require.NoError(t, err)
	require.Len(t, sentences, 2)
	assert.Equal(t, "b", sentences[0].Text)
	assert.Equal(t, 1, sentences[0].Position)
	assert.Equal(t, "c", sentences[1].Text)
	assert.Equal(t, 2, sentences[1].Position)
}

func TestSentenceService_DeleteMissingPosition(t *testing.T) {
	svc, articles := setupSentenceService(t)
	ctx := context.Background()

	article, err := articles.CreateArticle(ctx, 1, "Short")
	require.NoError(t, err)
	_, err = svc.AppendSentence(ctx, 1, article.ID, "Only one.")
	require.NoError(t, err)

	err = svc.DeleteSentence(ctx, 1, article.ID, 2)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
}

func TestSentenceService_UpdateSentence(t *testing.T) {
	svc, articles := setupSentenceService(t)
	ctx := context.Background()

	article, err := articles.CreateArticle(ctx, 1, "Editable")
	require.NoError(t, err)
	_, err = svc.AppendSentence(ctx, 1, article.ID, "Draft text.")
	require.NoError(t, err)

	t.Run("empty text keeps stored value", func(t *testing.T) {
		sentence, err := svc.UpdateSentence(ctx, 1, article.ID, 1, UpdateSentenceInput{Text: ""})
		require.NoError(t, err)
		assert.Equal(t, "Draft text.", sentence.Text)
		assert.Equal(t, 1, sentence.Position)
	})

	t.Run("new text replaces stored value", func(t *testing.T) {
		sentence, err := svc.UpdateSentence(ctx, 1, article.ID, 1, UpdateSentenceInput{Text: "Final text."})
		require.NoError(t, err)
		assert.Equal(t, "Final text.", sentence.Text)
		assert.Equal(t, 1, sentence.Position)
	})

	t.Run("missing position", func(t *testing.T) {
		_, err := svc.UpdateSentence(ctx, 1, article.ID, 7, UpdateSentenceInput{Text: "Nope"})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", appErrCode(t, err))
	})
}

func TestArticleService_GetArticle_IncludesSentenceTexts(t *testing.T) {
	svc, articles := setupSentenceService(t)
	ctx := context.Background()

	article, err := articles.CreateArticle(ctx, 1, "With body")
	require.NoError(t, err)
	_, err = svc.AppendSentence(ctx, 1, article.ID, "One.")
	require.NoError(t, err)
	_, err = svc.AppendSentence(ctx, 1, article.ID, "Two.")
	require.NoError(t, err)

	got, err := articles.GetArticle(ctx, 1, article.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"One.", "Two."}, got.SentenceTexts)
}

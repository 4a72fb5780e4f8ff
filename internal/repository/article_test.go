package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestArticleRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	articleID := uuid.New()

	t.Run("Success with sentences in position order", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "articles" WHERE id = $1 ORDER BY "articles"."id" LIMIT $2`)).
			WithArgs(articleID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id"}).
				AddRow(articleID.String(), "My article", 7))

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sentences" WHERE "sentences"."article_id" = $1 ORDER BY position ASC`)).
			WithArgs(articleID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "position", "text", "author_id"}).
				AddRow(uuid.NewString(), articleID.String(), 1, "First.", 7).
				AddRow(uuid.NewString(), articleID.String(), 2, "Second.", 7))

		article, err := repo.GetByID(ctx, articleID)
		require.NoError(t, err)
		assert.Equal(t, "My article", article.Title)
		assert.Equal(t, uint(7), article.OwnerID)
		require.Len(t, article.Sentences, 2)
		assert.Equal(t, 1, article.Sentences[0].Position)
		assert.Equal(t, 2, article.Sentences[1].Position)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		missing := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "articles" WHERE id = $1 ORDER BY "articles"."id" LIMIT $2`)).
			WithArgs(missing, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByID(ctx, missing)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestArticleRepository_ListByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	articleID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "articles" WHERE owner_id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id"}).
			AddRow(articleID.String(), "My article", 7))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "sentences" WHERE "sentences"."article_id" = $1 ORDER BY position ASC`)).
		WithArgs(articleID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "article_id", "position", "text", "author_id"}).
			AddRow(uuid.NewString(), articleID.String(), 1, "First.", 7))

	articles, err := repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "My article", articles[0].Title)
	require.Len(t, articles[0].Sentences, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	articleID := uuid.New()

	// Sentences go first, then the article, in one transaction.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "sentences" WHERE article_id = $1`)).
		WithArgs(articleID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "articles" WHERE id = $1`)).
		WithArgs(articleID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, articleID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

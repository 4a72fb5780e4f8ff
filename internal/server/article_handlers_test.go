package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quill/internal/config"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestServer wires a Server against an in-memory database with the full
// route table, so tests exercise the real auth middleware and status codes.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Article{}, &models.Sentence{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "unit-test-secret-0123456789abcdef",
		Env:       "test",
	}

	articleRepo := repository.NewArticleRepository(db)
	sentenceRepo := repository.NewSentenceRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		articleRepo:  articleRepo,
		sentenceRepo: sentenceRepo,
	}
	s.articleService = service.NewArticleService(articleRepo)
	s.sentenceService = service.NewSentenceService(articleRepo, sentenceRepo)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createTestUser persists a user and returns it with a valid bearer token.
func createTestUser(t *testing.T, s *Server, username string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("Sturdy-Passw0rd!"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, s.db.Create(user).Error)

	token, err := s.generateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

func jsonRequest(method, target string, body any, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestArticleHandlers_RequireAuth(t *testing.T) {
	_, app := setupTestServer(t)

	paths := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/articles/"},
		{http.MethodPost, "/api/articles/"},
		{http.MethodGet, "/api/articles/" + newUUIDString()},
		{http.MethodGet, "/api/articles/" + newUUIDString() + "/sentences"},
	}

	for _, p := range paths {
		req := jsonRequest(p.method, p.target, nil, "")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.target)
		_ = resp.Body.Close()
	}
}

func TestArticleHandlers_CreateAndGet(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "author")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/articles/", fiber.Map{"title": "My first article"}, token))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created models.Article
	decodeBody(t, resp, &created)
	assert.Equal(t, "My first article", created.Title)
	assert.NotNil(t, created.SentenceTexts)
	assert.Empty(t, created.SentenceTexts)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/articles/"+created.ID.String(), nil, token))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fetched models.Article
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "My first article", fetched.Title)
}

func TestArticleHandlers_CreateValidation(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "author")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/articles/", fiber.Map{"title": ""}, token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestArticleHandlers_List(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "author")
	_, otherToken := createTestUser(t, s, "rival")

	for i := 0; i < 3; i++ {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/api/articles/", fiber.Map{"title": fmt.Sprintf("Article %d", i)}, token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/articles/", nil, token))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mine []models.Article
	decodeBody(t, resp, &mine)
	assert.Len(t, mine, 3)

	// The listing is owner-scoped; another user sees an empty list.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/articles/", nil, otherToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var theirs []models.Article
	decodeBody(t, resp, &theirs)
	assert.Empty(t, theirs)
}

func TestArticleHandlers_OwnershipOpacity(t *testing.T) {
	s, app := setupTestServer(t)
	_, ownerToken := createTestUser(t, s, "owner")
	_, otherToken := createTestUser(t, s, "other")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/articles/", fiber.Map{"title": "Private"}, ownerToken))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created models.Article
	decodeBody(t, resp, &created)

	// A foreign article and a missing article are indistinguishable: both 404.
	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/articles/"+created.ID.String(), nil, otherToken))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var foreignBody models.ErrorResponse
	decodeBody(t, resp, &foreignBody)

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/articles/"+newUUIDString(), nil, otherToken))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var missingBody models.ErrorResponse
	decodeBody(t, resp, &missingBody)

	assert.Equal(t, foreignBody.Code, missingBody.Code)

	// Mutations are gated the same way.
	resp, err = app.Test(jsonRequest(http.MethodPut, "/api/articles/"+created.ID.String(), fiber.Map{"title": "Hijacked"}, otherToken))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodDelete, "/api/articles/"+created.ID.String(), nil, otherToken))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestArticleHandlers_MalformedIDIsNotFound(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "author")

	resp, err := app.Test(jsonRequest(http.MethodGet, "/api/articles/not-a-uuid", nil, token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestArticleHandlers_Update(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "author")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/articles/", fiber.Map{"title": "Original"}, token))
	require.NoError(t, err)
	var created models.Article
	decodeBody(t, resp, &created)

	t.Run("new title", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/articles/"+created.ID.String(), fiber.Map{"title": "Renamed"}, token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var updated models.Article
		decodeBody(t, resp, &updated)
		assert.Equal(t, "Renamed", updated.Title)
	})

	t.Run("empty title keeps stored value", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(http.MethodPut, "/api/articles/"+created.ID.String(), fiber.Map{}, token))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var updated models.Article
		decodeBody(t, resp, &updated)
		assert.Equal(t, "Renamed", updated.Title)
	})
}

func TestArticleHandlers_Delete(t *testing.T) {
	s, app := setupTestServer(t)
	_, token := createTestUser(t, s, "author")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/articles/", fiber.Map{"title": "Doomed"}, token))
	require.NoError(t, err)
	var created models.Article
	decodeBody(t, resp, &created)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/api/articles/"+created.ID.String()+"/sentences", fiber.Map{"text": "Goes down with the ship."}, token))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodDelete, "/api/articles/"+created.ID.String(), nil, token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = app.Test(jsonRequest(http.MethodGet, "/api/articles/"+created.ID.String(), nil, token))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	// The sentences were deleted with it.
	var count int64
	require.NoError(t, s.db.Model(&models.Sentence{}).Where("article_id = ?", created.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

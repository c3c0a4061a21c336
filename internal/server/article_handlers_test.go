package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Comment{},
		&models.FollowEdge{},
		&models.Favorite{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	return db
}

// newTestServer wires a Server against sqlite without the Prometheus
// middleware so repeated setups do not re-register collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()
	db := setupHandlerTestDB(t)

	cfg := &config.Config{
		JWTSecret: "handler-test-secret-0123456789abcdef",
		Env:       "test",
	}
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    userRepo,
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
	}
	s.articleService = service.NewArticleService(articleRepo, followRepo, userRepo)
	s.commentService = service.NewCommentService(commentRepo, articleRepo)
	s.profileService = service.NewProfileService(userRepo, followRepo)
	s.userService = service.NewUserService(userRepo)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var payload map[string]json.RawMessage
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &payload)
	}
	return resp, payload
}

func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()
	resp, payload := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "SecurePass12!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var token string
	require.NoError(t, json.Unmarshal(payload["token"], &token))
	return token
}

func TestRegisterAndLogin(t *testing.T) {
	_, app, _ := newTestServer(t)

	token := registerUser(t, app, "jake")
	assert.NotEmpty(t, token)

	t.Run("duplicate email is refused", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
			"username": "jake2",
			"email":    "jake@example.com",
			"password": "SecurePass12!",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("login with the right password", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
			"email":    "jake@example.com",
			"password": "SecurePass12!",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, payload["token"])
	})

	t.Run("login with a wrong password", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/users/login", "", fiber.Map{
			"email":    "jake@example.com",
			"password": "WrongPass12!",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("current user requires auth", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/user", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, payload := doJSON(t, app, http.MethodGet, "/api/user", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var user models.User
		require.NoError(t, json.Unmarshal(payload["user"], &user))
		assert.Equal(t, "jake", user.Username)
	})
}

func TestArticleLifecycleOverHTTP(t *testing.T) {
	_, app, _ := newTestServer(t)

	authorToken := registerUser(t, app, "author")
	readerToken := registerUser(t, app, "reader")

	resp, payload := doJSON(t, app, http.MethodPost, "/api/articles", authorToken, fiber.Map{
		"title":       "How to Train Your Dragon",
		"description": "Ever wonder how?",
		"body":        "You have to believe",
		"tagList":     []string{"dragons", "training"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var article models.Article
	require.NoError(t, json.Unmarshal(payload["article"], &article))
	require.NotEmpty(t, article.Slug)
	assert.Equal(t, models.TagList{"dragons", "training"}, article.TagList)

	t.Run("anonymous read", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodGet, "/api/articles/"+article.Slug, "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Article
		require.NoError(t, json.Unmarshal(payload["article"], &got))
		assert.Equal(t, "How to Train Your Dragon", got.Title)
		assert.False(t, got.Favorited)
	})

	t.Run("unknown slug is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/articles/nope-abc123", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("favorite and unfavorite", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPost, "/api/articles/"+article.Slug+"/favorite", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Article
		require.NoError(t, json.Unmarshal(payload["article"], &got))
		assert.Equal(t, 1, got.FavoritesCount)
		assert.True(t, got.Favorited)

		resp, payload = doJSON(t, app, http.MethodDelete, "/api/articles/"+article.Slug+"/favorite", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(payload["article"], &got))
		assert.Equal(t, 0, got.FavoritesCount)
		assert.False(t, got.Favorited)
	})

	t.Run("only the author updates", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/articles/"+article.Slug, readerToken, fiber.Map{
			"title": "Hijacked",
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, payload := doJSON(t, app, http.MethodPut, "/api/articles/"+article.Slug, authorToken, fiber.Map{
			"title":   "How to Train Your Dragon, Revised",
			"tagList": []string{"dragons", "revisions"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Article
		require.NoError(t, json.Unmarshal(payload["article"], &got))
		assert.Equal(t, "How to Train Your Dragon, Revised", got.Title)
		assert.Equal(t, models.TagList{"dragons", "revisions"}, got.TagList)
		assert.Equal(t, article.Slug, got.Slug, "slug must not change on update")
	})

	t.Run("comments", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodPost, "/api/articles/"+article.Slug+"/comments", readerToken, fiber.Map{
			"body": "Great read",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		// The mutation returns the article with its refreshed comment list.
		var got models.Article
		require.NoError(t, json.Unmarshal(payload["article"], &got))
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "reader", got.Comments[0].Author.Username)
		commentID := got.Comments[0].ID

		resp, payload = doJSON(t, app, http.MethodGet, "/api/articles/"+article.Slug+"/comments", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []*models.Comment
		require.NoError(t, json.Unmarshal(payload["comments"], &comments))
		assert.Len(t, comments, 1)

		resp, payload = doJSON(t, app, http.MethodDelete,
			fmt.Sprintf("/api/articles/%s/comments/%d", article.Slug, commentID), readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(payload["article"], &got))
		assert.Empty(t, got.Comments)
	})

	t.Run("only the author deletes", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodDelete, "/api/articles/"+article.Slug, readerToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, "/api/articles/"+article.Slug, authorToken, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodGet, "/api/articles/"+article.Slug, "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestFeedAndProfilesOverHTTP(t *testing.T) {
	_, app, _ := newTestServer(t)

	readerToken := registerUser(t, app, "reader")
	authorToken := registerUser(t, app, "writer")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/articles", authorToken, fiber.Map{
		"title": "Feed Fodder",
		"body":  "content",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("feed requires auth", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/articles/feed", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("feed fills after following", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodGet, "/api/articles/feed", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page models.ArticlesPage
		raw, _ := json.Marshal(payload)
		require.NoError(t, json.Unmarshal(raw, &page))
		assert.Empty(t, page.Articles)

		resp, _ = doJSON(t, app, http.MethodPost, "/api/profiles/writer/follow", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, payload = doJSON(t, app, http.MethodGet, "/api/articles/feed", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ = json.Marshal(payload)
		require.NoError(t, json.Unmarshal(raw, &page))
		require.Len(t, page.Articles, 1)
		assert.Equal(t, "Feed Fodder", page.Articles[0].Title)
	})

	t.Run("self-follow is rejected", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/profiles/reader/follow", readerToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("profile shows the follow state", func(t *testing.T) {
		resp, payload := doJSON(t, app, http.MethodGet, "/api/profiles/writer", readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profile models.Profile
		require.NoError(t, json.Unmarshal(payload["profile"], &profile))
		assert.True(t, profile.Following)

		resp, payload = doJSON(t, app, http.MethodGet, "/api/profiles/writer", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(payload["profile"], &profile))
		assert.False(t, profile.Following)
	})

	t.Run("unknown profile is 404", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodGet, "/api/profiles/ghost", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListArticlesOverHTTP(t *testing.T) {
	_, app, _ := newTestServer(t)

	authorToken := registerUser(t, app, "lister")
	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/articles", authorToken, fiber.Map{
			"title":   title,
			"body":    "content of " + title,
			"tagList": []string{"go"},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, payload := doJSON(t, app, http.MethodGet, "/api/articles/?limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.ArticlesPage
	raw, _ := json.Marshal(payload)
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.EqualValues(t, 3, page.ArticlesCount)
	assert.Len(t, page.Articles, 2)

	resp, payload = doJSON(t, app, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tags []string
	require.NoError(t, json.Unmarshal(payload["tags"], &tags))
	assert.Contains(t, tags, "go")
}

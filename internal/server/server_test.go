package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"voxpop/internal/auth"
	"voxpop/internal/config"
	"voxpop/internal/database"
	"voxpop/internal/repository"
	"voxpop/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:                     "8480",
		Env:                      "test",
		JWTSecret:                "server-test-secret-key-1234567890abcdef",
		JWTAlgorithm:             "HS256",
		AccessTokenExpireMinutes: 60,
		RequestTimeoutSeconds:    5,
	}
}

// newTestApp wires a full server against an in-memory SQLite database. The
// Prometheus collector is left out because it registers globally and tests
// build many servers.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := testConfig()
	tokens, err := auth.NewTokenService(cfg)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	timeout := cfg.RequestTimeout()

	s := &Server{
		config:      cfg,
		db:          db,
		tokens:      tokens,
		userRepo:    userRepo,
		postRepo:    postRepo,
		voteRepo:    voteRepo,
		userService: service.NewUserService(userRepo, timeout),
		postService: service.NewPostService(postRepo, timeout),
		voteService: service.NewVoteService(voteRepo, postRepo, timeout),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
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
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, path, token string) (*http.Response, []map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

// signup registers an account over HTTP and returns its token and user ID.
func signup(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "Sufficient1Length",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	return token, uint(user["id"].(float64))
}

func createPost(t *testing.T, app *fiber.App, token, title string, published bool) uint {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":     title,
		"content":   "content of " + title,
		"published": published,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return uint(body["id"].(float64))
}

package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/melodex/melodex-backend/internal/catalog"
	"github.com/melodex/melodex-backend/internal/favorites"
	"github.com/melodex/melodex-backend/internal/recommend"
	pkgAuth "github.com/melodex/melodex-backend/pkg/auth"
	"github.com/melodex/melodex-backend/pkg/config"
	"github.com/melodex/melodex-backend/pkg/db/models"
	"github.com/melodex/melodex-backend/pkg/enums"
	"github.com/melodex/melodex-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubFavoritesService struct{}

func (stubFavoritesService) AddFavorite(context.Context, uuid.UUID, string, enums.FavoriteType) (bool, error) {
	return true, nil
}

func (stubFavoritesService) RemoveFavorite(context.Context, uuid.UUID, string, *enums.FavoriteType) (bool, error) {
	return true, nil
}

func (stubFavoritesService) IsFavorited(context.Context, uuid.UUID, string, *enums.FavoriteType) (bool, error) {
	return false, nil
}

func (stubFavoritesService) ListFavorites(context.Context, uuid.UUID, *enums.FavoriteType, string, bool) ([]models.Favorite, error) {
	return []models.Favorite{}, nil
}

func (stubFavoritesService) ListAllFavorites(context.Context, string, bool) ([]models.Favorite, error) {
	return []models.Favorite{}, nil
}

func (stubFavoritesService) AggregateMetadata(context.Context, uuid.UUID) (favorites.AggregatedMetadata, error) {
	return favorites.AggregatedMetadata{
		Tracks:  []catalog.Track{},
		Artists: []catalog.Artist{},
		Albums:  []catalog.Album{},
	}, nil
}

type stubUserFinder struct{}

func (stubUserFinder) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return &models.User{ID: id, Username: "listener", Email: "listener@melodex.app"}, nil
}

type stubRecommendService struct{}

func (stubRecommendService) Recommend(context.Context, string, enums.FavoriteType) (recommend.Picks, error) {
	return recommend.Picks{}, nil
}

func (stubRecommendService) HomePicks(context.Context, string) (recommend.Picks, error) {
	return recommend.Picks{}, nil
}

func testRouterConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "melodex", ExpirationMinutes: 60},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(RouterParams{
		Config:           testRouterConfig(),
		Logger:           logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:               stubPinger{},
		FavoritesService: stubFavoritesService{},
		RecommendService: stubRecommendService{},
		Users:            stubUserFinder{},
	})
}

func mintRouterToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "listener",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

// Readiness must not touch Redis when no client is wired.
func TestHealthReadySkipsUnwiredRedis(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != "ready" {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
	if envelope.Data.Checks["db"] != "ok" {
		t.Fatalf("expected db check ok, got %v", envelope.Data.Checks)
	}
	if _, present := envelope.Data.Checks["redis"]; present {
		t.Fatal("redis check must be absent when no client is wired")
	}
}

func TestPublicPingNeedsNoAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestFavoritesRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/favorites"},
		{http.MethodPost, "/api/v1/favorites?spotify_id=x&type=track"},
		{http.MethodGet, "/api/v1/favorites/spotify"},
		{http.MethodGet, "/api/v1/favorites/abc"},
		{http.MethodDelete, "/api/v1/favorites/abc"},
		{http.MethodPost, "/api/v1/ai/recommend"},
		{http.MethodGet, "/api/v1/ai/home"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestFavoritesRoutesWithToken(t *testing.T) {
	cfg := testRouterConfig()
	router := NewRouter(RouterParams{
		Config:           cfg,
		Logger:           logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:               stubPinger{},
		FavoritesService: stubFavoritesService{},
		RecommendService: stubRecommendService{},
		Users:            stubUserFinder{},
	})
	token := mintRouterToken(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/favorites", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data []models.Favorite `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data == nil {
		t.Fatal("expected empty array payload")
	}

	metaReq := httptest.NewRequest(http.MethodGet, "/api/v1/favorites/spotify", nil)
	metaReq.Header.Set("Authorization", "Bearer "+token)
	metaResp := httptest.NewRecorder()
	router.ServeHTTP(metaResp, metaReq)
	if metaResp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", metaResp.Code)
	}
}

func TestMeRoute(t *testing.T) {
	cfg := testRouterConfig()
	router := NewRouter(RouterParams{
		Config:           cfg,
		Logger:           logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		DB:               stubPinger{},
		FavoritesService: stubFavoritesService{},
		RecommendService: stubRecommendService{},
		Users:            stubUserFinder{},
	})
	token := mintRouterToken(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Username != "listener" {
		t.Fatalf("unexpected username %q", envelope.Data.Username)
	}
}

func TestMetricsEndpointOnlyWithRegistry(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without registry, got %d", resp.Code)
	}
}

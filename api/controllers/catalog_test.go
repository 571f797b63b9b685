package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/melodex/melodex-backend/internal/catalog"
)

type testCatalogService struct {
	batchLimit   int
	trackFn      func(ctx context.Context, id string) (*catalog.Track, error)
	albumFn      func(ctx context.Context, id string) (*catalog.Album, error)
	tracksFn     func(ctx context.Context, ids []string) ([]catalog.Track, error)
	searchFn     func(ctx context.Context, query string) (*catalog.SearchResults, error)
	topTracksFn  func(ctx context.Context, id string) ([]catalog.Track, error)
	artistAlbums func(ctx context.Context, id string) ([]catalog.Album, error)
}

func (s *testCatalogService) BatchLimit() int {
	if s.batchLimit > 0 {
		return s.batchLimit
	}
	return 20
}

func (s *testCatalogService) GetTrack(ctx context.Context, id string) (*catalog.Track, error) {
	if s.trackFn != nil {
		return s.trackFn(ctx, id)
	}
	return &catalog.Track{ID: id}, nil
}

func (s *testCatalogService) GetArtist(ctx context.Context, id string) (*catalog.Artist, error) {
	return &catalog.Artist{ID: id}, nil
}

func (s *testCatalogService) GetAlbum(ctx context.Context, id string) (*catalog.Album, error) {
	if s.albumFn != nil {
		return s.albumFn(ctx, id)
	}
	return &catalog.Album{ID: id}, nil
}

func (s *testCatalogService) GetArtistTopTracks(ctx context.Context, id string) ([]catalog.Track, error) {
	if s.topTracksFn != nil {
		return s.topTracksFn(ctx, id)
	}
	return nil, nil
}

func (s *testCatalogService) GetArtistAlbums(ctx context.Context, id string) ([]catalog.Album, error) {
	if s.artistAlbums != nil {
		return s.artistAlbums(ctx, id)
	}
	return nil, nil
}

func (s *testCatalogService) GetTracks(ctx context.Context, ids []string) ([]catalog.Track, error) {
	if s.tracksFn != nil {
		return s.tracksFn(ctx, ids)
	}
	return nil, nil
}

func (s *testCatalogService) GetArtists(ctx context.Context, ids []string) ([]catalog.Artist, error) {
	return nil, nil
}

func (s *testCatalogService) GetAlbums(ctx context.Context, ids []string) ([]catalog.Album, error) {
	return nil, nil
}

func (s *testCatalogService) Search(ctx context.Context, query string) (*catalog.SearchResults, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query)
	}
	return &catalog.SearchResults{}, nil
}

func TestCatalogGetTrack(t *testing.T) {
	svc := &testCatalogService{
		trackFn: func(ctx context.Context, id string) (*catalog.Track, error) {
			return &catalog.Track{ID: id, Name: "Test Track"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/spotify/track/t1", nil)
	req = withURLParam(req, "id", "t1")
	resp := httptest.NewRecorder()
	CatalogGetTrack(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data catalog.Track `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Name != "Test Track" {
		t.Fatalf("unexpected payload %v", envelope.Data)
	}
}

func TestCatalogGetTrackMissingID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/spotify/track/", nil)
	req = withURLParam(req, "id", "")
	resp := httptest.NewRecorder()
	CatalogGetTrack(&testCatalogService{}, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogUpstream404MapsToNotFound(t *testing.T) {
	svc := &testCatalogService{
		albumFn: func(ctx context.Context, id string) (*catalog.Album, error) {
			return nil, &catalog.APIError{Status: http.StatusNotFound, Body: "not found"}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/spotify/album/missing", nil)
	req = withURLParam(req, "id", "missing")
	resp := httptest.NewRecorder()
	CatalogGetAlbum(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCatalogUpstreamFailureMapsToDependency(t *testing.T) {
	svc := &testCatalogService{
		albumFn: func(ctx context.Context, id string) (*catalog.Album, error) {
			return nil, &catalog.APIError{Status: http.StatusBadGateway, Body: "upstream down"}
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/spotify/album/a1", nil)
	req = withURLParam(req, "id", "a1")
	resp := httptest.NewRecorder()
	CatalogGetAlbum(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestCatalogGetTracksBatch(t *testing.T) {
	var got []string
	svc := &testCatalogService{
		tracksFn: func(ctx context.Context, ids []string) ([]catalog.Track, error) {
			got = ids
			out := make([]catalog.Track, len(ids))
			for i, id := range ids {
				out[i] = catalog.Track{ID: id}
			}
			return out, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/spotify/tracks?ids=a,b&ids=c", nil)
	resp := httptest.NewRecorder()
	CatalogGetTracks(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("unexpected ids %v", got)
	}
}

func TestCatalogGetTracksRejectsOversizedBatch(t *testing.T) {
	svc := &testCatalogService{batchLimit: 2}

	req := httptest.NewRequest(http.MethodGet, "/spotify/tracks?ids=a,b,c", nil)
	resp := httptest.NewRecorder()
	CatalogGetTracks(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogGetTracksRequiresIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/spotify/tracks", nil)
	resp := httptest.NewRecorder()
	CatalogGetTracks(&testCatalogService{}, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogSearchRequiresQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/spotify/search", nil)
	resp := httptest.NewRecorder()
	CatalogSearch(&testCatalogService{}, testControllerLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCatalogSearch(t *testing.T) {
	svc := &testCatalogService{
		searchFn: func(ctx context.Context, query string) (*catalog.SearchResults, error) {
			if query != "radiohead" {
				t.Fatalf("unexpected query %s", query)
			}
			return &catalog.SearchResults{Artists: []catalog.Artist{{ID: "a1", Name: "Radiohead"}}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/spotify/search?q=radiohead", nil)
	resp := httptest.NewRecorder()
	CatalogSearch(svc, testControllerLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

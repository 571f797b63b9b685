package genres

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/melodex/melodex-backend/pkg/config"
	"github.com/melodex/melodex-backend/pkg/logger"
)

func newTestCache(t *testing.T, handler http.HandlerFunc) (*Cache, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cache, err := NewCache(CacheParams{
		Config:     config.DeezerConfig{BaseURL: srv.URL},
		Logger:     logger.New(logger.Options{ServiceName: "genres-test", Level: zerolog.ErrorLevel, Output: io.Discard}),
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("build cache: %v", err)
	}
	return cache, &calls
}

func TestLoadAndLookup(t *testing.T) {
	cache, calls := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"id":132,"name":"Pop"},{"id":116,"name":"Rap/Hip Hop"}]}`)
	})

	ctx := context.Background()
	if err := cache.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cache.Lookup(132); got != "Pop" {
		t.Fatalf("expected Pop, got %s", got)
	}
	if got := cache.Lookup(116); got != "Rap/Hip Hop" {
		t.Fatalf("expected Rap/Hip Hop, got %s", got)
	}
	if got := cache.Lookup(999); got != UnknownGenre {
		t.Fatalf("expected %s for missing id, got %s", UnknownGenre, got)
	}

	// Second Load is a no-op while entries exist.
	if err := cache.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", *calls)
	}
}

func TestRefreshReplacesEntries(t *testing.T) {
	responses := []string{
		`{"data":[{"id":1,"name":"Old"}]}`,
		`{"data":[{"id":2,"name":"New"}]}`,
	}
	idx := 0
	cache, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, responses[idx])
		if idx < len(responses)-1 {
			idx++
		}
	})

	ctx := context.Background()
	if err := cache.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := cache.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := cache.Lookup(1); got != UnknownGenre {
		t.Fatalf("expected old entry dropped, got %s", got)
	}
	if got := cache.Lookup(2); got != "New" {
		t.Fatalf("expected New, got %s", got)
	}
}

func TestRefreshUpstreamFailure(t *testing.T) {
	cache, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	if err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if cache.Size() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Size())
	}
}

func TestLookupBeforeLoad(t *testing.T) {
	cache, calls := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {})
	if got := cache.Lookup(42); got != UnknownGenre {
		t.Fatalf("expected %s, got %s", UnknownGenre, got)
	}
	if *calls != 0 {
		t.Fatal("lookup must not trigger fetches")
	}
}

func TestAllSnapshotsEntries(t *testing.T) {
	cache, _ := newTestCache(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":132,"name":"Pop"},{"id":116,"name":"Rap/Hip Hop"}]}`)
	})

	if got := cache.All(); len(got) != 0 {
		t.Fatalf("expected empty snapshot before load, got %d", len(got))
	}

	if err := cache.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	all := cache.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 genres, got %d", len(all))
	}
	names := map[int64]string{}
	for _, g := range all {
		names[g.ID] = g.Name
	}
	if names[132] != "Pop" || names[116] != "Rap/Hip Hop" {
		t.Fatalf("unexpected snapshot contents: %v", names)
	}
}

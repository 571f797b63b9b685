package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/melodex/melodex-backend/api/responses"
	"github.com/melodex/melodex-backend/internal/catalog"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/logger"
)

// CatalogService is the catalog surface the pass-through endpoints expose.
type CatalogService interface {
	BatchLimit() int
	GetTrack(ctx context.Context, id string) (*catalog.Track, error)
	GetArtist(ctx context.Context, id string) (*catalog.Artist, error)
	GetAlbum(ctx context.Context, id string) (*catalog.Album, error)
	GetArtistTopTracks(ctx context.Context, id string) ([]catalog.Track, error)
	GetArtistAlbums(ctx context.Context, id string) ([]catalog.Album, error)
	GetTracks(ctx context.Context, ids []string) ([]catalog.Track, error)
	GetArtists(ctx context.Context, ids []string) ([]catalog.Artist, error)
	GetAlbums(ctx context.Context, ids []string) ([]catalog.Album, error)
	Search(ctx context.Context, query string) (*catalog.SearchResults, error)
}

// CatalogGetTrack proxies a single track lookup.
func CatalogGetTrack(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		singleLookup(w, r, svc, logg, func(ctx context.Context, id string) (any, error) {
			return svc.GetTrack(ctx, id)
		})
	}
}

// CatalogGetArtist proxies a single artist lookup.
func CatalogGetArtist(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		singleLookup(w, r, svc, logg, func(ctx context.Context, id string) (any, error) {
			return svc.GetArtist(ctx, id)
		})
	}
}

// CatalogGetAlbum proxies a single album lookup.
func CatalogGetAlbum(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		singleLookup(w, r, svc, logg, func(ctx context.Context, id string) (any, error) {
			return svc.GetAlbum(ctx, id)
		})
	}
}

// CatalogArtistTopTracks proxies the artist top-tracks listing.
func CatalogArtistTopTracks(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		singleLookup(w, r, svc, logg, func(ctx context.Context, id string) (any, error) {
			return svc.GetArtistTopTracks(ctx, id)
		})
	}
}

// CatalogArtistAlbums proxies the artist discography listing.
func CatalogArtistAlbums(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		singleLookup(w, r, svc, logg, func(ctx context.Context, id string) (any, error) {
			return svc.GetArtistAlbums(ctx, id)
		})
	}
}

// CatalogGetTracks proxies a batched track lookup. Requests above the batch
// limit are rejected at the boundary instead of being forwarded.
func CatalogGetTracks(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batchLookup(w, r, svc, logg, func(ctx context.Context, ids []string) (any, error) {
			return svc.GetTracks(ctx, ids)
		})
	}
}

// CatalogGetArtists proxies a batched artist lookup.
func CatalogGetArtists(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batchLookup(w, r, svc, logg, func(ctx context.Context, ids []string) (any, error) {
			return svc.GetArtists(ctx, ids)
		})
	}
}

// CatalogGetAlbums proxies a batched album lookup.
func CatalogGetAlbums(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batchLookup(w, r, svc, logg, func(ctx context.Context, ids []string) (any, error) {
			return svc.GetAlbums(ctx, ids)
		})
	}
}

// CatalogSearch proxies the multi-type search.
func CatalogSearch(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "q is required"))
			return
		}

		results, err := svc.Search(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}

func singleLookup(w http.ResponseWriter, r *http.Request, svc CatalogService, logg *logger.Logger, fetch func(context.Context, string) (any, error)) {
	ctx := r.Context()
	if svc == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
		return
	}

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "id is required"))
		return
	}

	payload, err := fetch(ctx, id)
	if err != nil {
		responses.WriteError(ctx, logg, w, mapCatalogError(err))
		return
	}
	responses.WriteSuccess(w, payload)
}

func batchLookup(w http.ResponseWriter, r *http.Request, svc CatalogService, logg *logger.Logger, fetch func(context.Context, []string) (any, error)) {
	ctx := r.Context()
	if svc == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
		return
	}

	ids := parseIDList(r.URL.Query()["ids"])
	if len(ids) == 0 {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "ids is required"))
		return
	}
	if len(ids) > svc.BatchLimit() {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "too many ids requested").
			WithDetails(map[string]any{"limit": svc.BatchLimit(), "got": len(ids)}))
		return
	}

	payload, err := fetch(ctx, ids)
	if err != nil {
		responses.WriteError(ctx, logg, w, mapCatalogError(err))
		return
	}
	responses.WriteSuccess(w, payload)
}

// parseIDList accepts repeated ids params as well as comma-separated values.
func parseIDList(raw []string) []string {
	var ids []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if id := strings.TrimSpace(part); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// mapCatalogError surfaces upstream 4xx/5xx as a dependency failure so the
// client sees a consistent envelope instead of raw Spotify statuses.
func mapCatalogError(err error) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "catalog entity not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog request failed")
}

package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/melodex/melodex-backend/api/responses"
	"github.com/melodex/melodex-backend/internal/genres"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/logger"
)

// GenresList returns the cached Deezer genre listing.
func GenresList(cache *genres.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cache == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "genre cache unavailable"))
			return
		}

		listing := cache.All()
		sort.Slice(listing, func(i, j int) bool { return listing[i].ID < listing[j].ID })
		responses.WriteSuccess(w, listing)
	}
}

// GenresLookup resolves a single Deezer genre ID to its name. Unknown IDs
// resolve to the sentinel name rather than a 404.
func GenresLookup(cache *genres.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cache == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "genre cache unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "id"))
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "genre id must be numeric"))
			return
		}

		responses.WriteSuccess(w, genres.Genre{ID: id, Name: cache.Lookup(id)})
	}
}

// GenresRefresh re-fetches the Deezer genre listing on demand.
func GenresRefresh(cache *genres.Cache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cache == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "genre cache unavailable"))
			return
		}

		if err := cache.Refresh(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refreshing genres"))
			return
		}
		responses.WriteSuccess(w, map[string]int{"count": cache.Size()})
	}
}

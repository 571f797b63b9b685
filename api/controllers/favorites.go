package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/melodex/melodex-backend/api/middleware"
	"github.com/melodex/melodex-backend/api/responses"
	"github.com/melodex/melodex-backend/internal/favorites"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/enums"
	"github.com/melodex/melodex-backend/pkg/logger"
)

// FavoritesAdd records a favorite for the authenticated user. The result flag
// is false when the favorite already existed.
func FavoritesAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		spotifyID := strings.TrimSpace(r.URL.Query().Get("spotify_id"))
		if spotifyID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "spotify_id is required"))
			return
		}

		favoriteType, err := enums.ParseFavoriteType(strings.TrimSpace(r.URL.Query().Get("type")))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid favorite type"))
			return
		}

		created, err := svc.AddFavorite(ctx, userID, spotifyID, favoriteType)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"result": created})
	}
}

// FavoritesList returns the authenticated user's favorites, optionally
// narrowed by type and re-sorted. An empty collection is a 200 with [].
func FavoritesList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		favoriteType, err := optionalFavoriteType(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sortBy := strings.TrimSpace(r.URL.Query().Get("sort_by"))
		ascending := true
		if raw := strings.TrimSpace(r.URL.Query().Get("ascending")); raw != "" {
			value, parseErr := strconv.ParseBool(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "ascending must be a boolean"))
				return
			}
			ascending = value
		}

		records, err := svc.ListFavorites(ctx, userID, favoriteType, sortBy, ascending)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, records)
	}
}

// FavoritesCheck reports whether a Spotify entity is favorited.
func FavoritesCheck(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		spotifyID := strings.TrimSpace(chi.URLParam(r, "spotifyId"))
		if spotifyID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "spotify id is required"))
			return
		}

		favoriteType, err := optionalFavoriteType(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		found, err := svc.IsFavorited(ctx, userID, spotifyID, favoriteType)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"result": found})
	}
}

// FavoritesRemove deletes a favorite; missing records map to 404.
func FavoritesRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		spotifyID := strings.TrimSpace(chi.URLParam(r, "spotifyId"))
		if spotifyID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "spotify id is required"))
			return
		}

		favoriteType, err := optionalFavoriteType(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		removed, err := svc.RemoveFavorite(ctx, userID, spotifyID, favoriteType)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !removed {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found"))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// FavoritesMetadata returns the user's favorites hydrated with catalog
// metadata, grouped by entity type.
func FavoritesMetadata(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		aggregated, err := svc.AggregateMetadata(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, aggregated)
	}
}

func requestUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing identity")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid identity")
	}
	return userID, nil
}

func optionalFavoriteType(r *http.Request) (*enums.FavoriteType, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("type"))
	if raw == "" {
		return nil, nil
	}
	favoriteType, err := enums.ParseFavoriteType(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid favorite type")
	}
	return &favoriteType, nil
}

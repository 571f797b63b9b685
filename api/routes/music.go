package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/melodex/melodex-backend/api/controllers"
	"github.com/melodex/melodex-backend/api/middleware"
	"github.com/melodex/melodex-backend/internal/genres"
	"github.com/melodex/melodex-backend/pkg/config"
	"github.com/melodex/melodex-backend/pkg/logger"
)

// MusicRouterParams carries the catalog pass-through dependencies.
type MusicRouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Catalog    controllers.CatalogService
	GenreCache *genres.Cache
}

// NewMusicRouter assembles the Spotify pass-through and Deezer genre surface.
func NewMusicRouter(params MusicRouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
	})

	r.Route("/spotify", func(r chi.Router) {
		r.Get("/track/{id}", controllers.CatalogGetTrack(params.Catalog, logg))
		r.Get("/artist/{id}", controllers.CatalogGetArtist(params.Catalog, logg))
		r.Get("/artist/{id}/top-tracks", controllers.CatalogArtistTopTracks(params.Catalog, logg))
		r.Get("/artist/{id}/albums", controllers.CatalogArtistAlbums(params.Catalog, logg))
		r.Get("/album/{id}", controllers.CatalogGetAlbum(params.Catalog, logg))
		r.Get("/tracks", controllers.CatalogGetTracks(params.Catalog, logg))
		r.Get("/artists", controllers.CatalogGetArtists(params.Catalog, logg))
		r.Get("/albums", controllers.CatalogGetAlbums(params.Catalog, logg))
		r.Get("/search", controllers.CatalogSearch(params.Catalog, logg))
	})

	r.Route("/deezer", func(r chi.Router) {
		r.Get("/genres", controllers.GenresList(params.GenreCache, logg))
		r.Get("/genres/{id}", controllers.GenresLookup(params.GenreCache, logg))
		r.Post("/genres/refresh", controllers.GenresRefresh(params.GenreCache, logg))
	})

	return r
}

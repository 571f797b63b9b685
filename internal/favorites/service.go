package favorites

import (
	"context"

	"github.com/google/uuid"

	"github.com/melodex/melodex-backend/internal/catalog"
	"github.com/melodex/melodex-backend/pkg/db/models"
	"github.com/melodex/melodex-backend/pkg/enums"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/logger"
	"github.com/melodex/melodex-backend/pkg/metrics"
)

const maxSpotifyIDLength = 50

// CatalogClient is the slice of the catalog surface the aggregator needs.
type CatalogClient interface {
	BatchLimit() int
	GetTracks(ctx context.Context, ids []string) ([]catalog.Track, error)
	GetArtists(ctx context.Context, ids []string) ([]catalog.Artist, error)
	GetAlbums(ctx context.Context, ids []string) ([]catalog.Album, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	FavoriteRepo *Repository
	Catalog      CatalogClient
	Logger       *logger.Logger
	Metrics      *metrics.AggregationMetrics
}

// Service exposes business rules for favorites management and aggregation.
type Service interface {
	AddFavorite(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType enums.FavoriteType) (bool, error)
	RemoveFavorite(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType *enums.FavoriteType) (bool, error)
	IsFavorited(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType *enums.FavoriteType) (bool, error)
	ListFavorites(ctx context.Context, userID uuid.UUID, favoriteType *enums.FavoriteType, sortBy string, ascending bool) ([]models.Favorite, error)
	ListAllFavorites(ctx context.Context, sortBy string, ascending bool) ([]models.Favorite, error)
	AggregateMetadata(ctx context.Context, userID uuid.UUID) (AggregatedMetadata, error)
}

type service struct {
	favoriteRepo *Repository
	catalog      CatalogClient
	logg         *logger.Logger
	metrics      *metrics.AggregationMetrics
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.FavoriteRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorite repo is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		favoriteRepo: params.FavoriteRepo,
		catalog:      params.Catalog,
		logg:         params.Logger,
		metrics:      params.Metrics,
	}, nil
}

// AddFavorite persists a favorite; false means it already existed.
func (s *service) AddFavorite(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType enums.FavoriteType) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validateSpotifyID(spotifyID); err != nil {
		return false, err
	}
	if !favoriteType.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "type must be one of track, album, artist")
	}

	created, err := s.favoriteRepo.Create(ctx, userID, spotifyID, favoriteType)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persisting favorite")
	}
	return created, nil
}

// RemoveFavorite drops the matching favorite; false means nothing matched.
func (s *service) RemoveFavorite(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType *enums.FavoriteType) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validateSpotifyID(spotifyID); err != nil {
		return false, err
	}

	deleted, err := s.favoriteRepo.Delete(ctx, userID, spotifyID, favoriteType)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting favorite")
	}
	return deleted, nil
}

// IsFavorited reports whether the favorite exists.
func (s *service) IsFavorited(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType *enums.FavoriteType) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := validateSpotifyID(spotifyID); err != nil {
		return false, err
	}

	record, err := s.favoriteRepo.Get(ctx, userID, spotifyID, favoriteType)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading favorite")
	}
	return record != nil, nil
}

// ListFavorites returns the user's favorites, optionally narrowed by type
// and re-sorted by a whitelisted column.
func (s *service) ListFavorites(ctx context.Context, userID uuid.UUID, favoriteType *enums.FavoriteType, sortBy string, ascending bool) ([]models.Favorite, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	records, err := s.favoriteRepo.ListForUser(ctx, userID, favoriteType, sortBy, ascending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing favorites")
	}
	if records == nil {
		records = []models.Favorite{}
	}
	return records, nil
}

// ListAllFavorites enumerates favorites across users with lenient sorting.
func (s *service) ListAllFavorites(ctx context.Context, sortBy string, ascending bool) ([]models.Favorite, error) {
	records, err := s.favoriteRepo.ListAll(ctx, sortBy, ascending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing favorites")
	}
	if records == nil {
		records = []models.Favorite{}
	}
	return records, nil
}

func validateSpotifyID(spotifyID string) error {
	if spotifyID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "spotify id is required")
	}
	if len(spotifyID) > maxSpotifyIDLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "spotify id exceeds 50 characters")
	}
	return nil
}

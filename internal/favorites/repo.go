package favorites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/melodex/melodex-backend/internal/repo"
	"github.com/melodex/melodex-backend/pkg/db"
	"github.com/melodex/melodex-backend/pkg/db/models"
	"github.com/melodex/melodex-backend/pkg/enums"
)

// Columns ListAll accepts for sorting. Anything else falls back to unsorted.
var sortableColumns = map[string]string{
	"id":         "id",
	"user_id":    "user_id",
	"spotify_id": "spotify_id",
	"type":       "type",
	"created_at": "created_at",
}

// Repository encapsulates favorite persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a favorite and reports whether a new row was written.
// A duplicate (user_id, spotify_id, type) is absorbed and returns false.
func (r *Repository) Create(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType enums.FavoriteType) (bool, error) {
	if userID == uuid.Nil {
		return false, gorm.ErrInvalidValue
	}

	record := models.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		SpotifyID: spotifyID,
		Type:      favoriteType,
		CreatedAt: time.Now().UTC(),
	}

	result := r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "spotify_id"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(&record)
	if result.Error != nil {
		// concurrent insert can still surface the constraint directly
		if db.IsUniqueViolation(result.Error, "favorites_user_spotify_type_key") {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the matching favorite if present; false means nothing matched.
// A nil favoriteType matches any type.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType *enums.FavoriteType) (bool, error) {
	query := r.DB(ctx).
		Where("user_id = ? AND spotify_id = ?", userID, spotifyID)
	if favoriteType != nil {
		query = query.Where("type = ?", *favoriteType)
	}

	result := query.Delete(&models.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Get performs a point lookup; a nil favoriteType matches any type.
// Returns (nil, nil) when no record matches.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID, spotifyID string, favoriteType *enums.FavoriteType) (*models.Favorite, error) {
	query := r.DB(ctx).
		Where("user_id = ? AND spotify_id = ?", userID, spotifyID)
	if favoriteType != nil {
		query = query.Where("type = ?", *favoriteType)
	}

	var record models.Favorite
	if err := query.First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListForUser returns a user's favorites. A nil favoriteType returns all
// types. An empty or unrecognized sortBy falls back to created_at then id,
// which keeps the ordering reproducible for aggregation.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, favoriteType *enums.FavoriteType, sortBy string, ascending bool) ([]models.Favorite, error) {
	query := r.DB(ctx).
		Where("user_id = ?", userID)
	if favoriteType != nil {
		query = query.Where("type = ?", *favoriteType)
	}

	if column, ok := sortableColumns[sortBy]; ok {
		direction := "ASC"
		if !ascending {
			direction = "DESC"
		}
		query = query.Order(column + " " + direction).Order("id ASC")
	} else {
		query = query.Order("created_at ASC").Order("id ASC")
	}

	var records []models.Favorite
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll enumerates favorites across all users. An unrecognized sortBy is
// silently ignored and the listing comes back unsorted.
func (r *Repository) ListAll(ctx context.Context, sortBy string, ascending bool) ([]models.Favorite, error) {
	query := r.DB(ctx).Model(&models.Favorite{})
	if column, ok := sortableColumns[sortBy]; ok {
		direction := "ASC"
		if !ascending {
			direction = "DESC"
		}
		query = query.Order(column + " " + direction)
	}

	var records []models.Favorite
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/melodex/melodex-backend/pkg/enums"
)

// Favorite links a user to a Spotify entity by external ID and type.
//
// Uniqueness is scoped to (user_id, spotify_id, type): the same Spotify ID may
// be favorited once as a track and once as an album. That index is also the
// concurrency control for double-favorite races.
type Favorite struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index:favorites_user_id_idx;uniqueIndex:favorites_user_spotify_type_key"`
	SpotifyID string             `gorm:"column:spotify_id;type:varchar(50);not null;uniqueIndex:favorites_user_spotify_type_key"`
	Type      enums.FavoriteType `gorm:"column:type;type:varchar(10);not null;uniqueIndex:favorites_user_spotify_type_key"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

package enums

import "fmt"

// FavoriteType describes the allowed values for the `type` column in favorites.
type FavoriteType string

const (
	FavoriteTypeTrack  FavoriteType = "track"
	FavoriteTypeAlbum  FavoriteType = "album"
	FavoriteTypeArtist FavoriteType = "artist"
)

var validFavoriteTypes = []FavoriteType{
	FavoriteTypeTrack,
	FavoriteTypeAlbum,
	FavoriteTypeArtist,
}

// IsValid reports whether the value matches the canonical favorite type enum.
func (f FavoriteType) IsValid() bool {
	for _, candidate := range validFavoriteTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFavoriteType converts the raw string to FavoriteType.
func ParseFavoriteType(value string) (FavoriteType, error) {
	for _, candidate := range validFavoriteTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid favorite type %q", value)
}

// FavoriteTypes returns the canonical enumeration order used when grouping
// aggregated metadata.
func FavoriteTypes() []FavoriteType {
	out := make([]FavoriteType, len(validFavoriteTypes))
	copy(out, validFavoriteTypes)
	return out
}

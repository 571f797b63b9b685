package favorites

import (
	"github.com/melodex/melodex-backend/internal/catalog"
)

// AggregatedMetadata groups enriched catalog objects for a user's favorites.
// It is a read-time projection, rebuilt on every request.
type AggregatedMetadata struct {
	Tracks  []catalog.Track  `json:"tracks"`
	Artists []catalog.Artist `json:"artists"`
	Albums  []catalog.Album  `json:"albums"`
}

func emptyMetadata() AggregatedMetadata {
	return AggregatedMetadata{
		Tracks:  []catalog.Track{},
		Artists: []catalog.Artist{},
		Albums:  []catalog.Album{},
	}
}

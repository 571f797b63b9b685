// Catalog response types based on https://developer.spotify.com/documentation/web-api/reference/
package catalog

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a catalog artist.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Images     []Image  `json:"images"`
	Popularity int      `json:"popularity"`
	URI        string   `json:"uri"`
}

// Album represents a catalog album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// Track represents a catalog track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Explicit   bool     `json:"explicit"`
	Popularity int      `json:"popularity"`
	PreviewURL string   `json:"preview_url"`
	URI        string   `json:"uri"`
}

// SearchResults groups the track, artist, and album hits of a multi-type search.
type SearchResults struct {
	Tracks  []Track  `json:"tracks"`
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
}

type tracksEnvelope struct {
	Tracks []Track `json:"tracks"`
}

type artistsEnvelope struct {
	Artists []Artist `json:"artists"`
}

type albumsEnvelope struct {
	Albums []Album `json:"albums"`
}

type pagedAlbums struct {
	Items []Album `json:"items"`
}

type searchEnvelope struct {
	Tracks  *pagedTracks  `json:"tracks"`
	Artists *pagedArtists `json:"artists"`
	Albums  *pagedAlbums  `json:"albums"`
}

type pagedTracks struct {
	Items []Track `json:"items"`
}

type pagedArtists struct {
	Items []Artist `json:"items"`
}

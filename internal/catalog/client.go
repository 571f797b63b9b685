package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/melodex/melodex-backend/pkg/config"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/logger"
)

const (
	maxBatchLimit = 20
	minBatchLimit = 10

	defaultRetryBackoff = 200 * time.Millisecond
)

// APIError captures a non-2xx catalog response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog responded %d: %s", e.Status, e.Body)
}

// Client exposes batched and single-entity catalog lookups over the Spotify Web API.
type Client struct {
	baseURL     string
	batchLimit  int
	searchLimit int
	maxAttempts int
	httpClient  *http.Client
	tokens      oauth2.TokenSource
	logg        *logger.Logger
}

// ClientParams configures a catalog client.
type ClientParams struct {
	Config     config.SpotifyConfig
	Logger     *logger.Logger
	HTTPClient *http.Client
}

// NewClient validates the credentials config and builds a client with a cached token source.
func NewClient(params ClientParams) (*Client, error) {
	cfg := params.Config
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("spotify client id is required")
	}
	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return nil, fmt.Errorf("spotify client secret is required")
	}
	if cfg.BaseURL == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("spotify base url and token url are required")
	}

	batchLimit := cfg.BatchLimit
	if batchLimit < minBatchLimit || batchLimit > maxBatchLimit {
		batchLimit = maxBatchLimit
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = 30
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		batchLimit:  batchLimit,
		searchLimit: searchLimit,
		maxAttempts: maxAttempts,
		httpClient:  httpClient,
		tokens:      creds.TokenSource(ctx),
		logg:        params.Logger,
	}, nil
}

// BatchLimit reports the maximum number of IDs accepted per batched lookup.
func (c *Client) BatchLimit() int {
	return c.batchLimit
}

// GetTracks resolves up to BatchLimit track IDs in one upstream call.
func (c *Client) GetTracks(ctx context.Context, ids []string) ([]Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.checkBatch(ids); err != nil {
		return nil, err
	}
	var out tracksEnvelope
	if err := c.getJSON(ctx, "/tracks", url.Values{"ids": {strings.Join(ids, ",")}}, &out); err != nil {
		return nil, err
	}
	return out.Tracks, nil
}

// GetArtists resolves up to BatchLimit artist IDs in one upstream call.
func (c *Client) GetArtists(ctx context.Context, ids []string) ([]Artist, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.checkBatch(ids); err != nil {
		return nil, err
	}
	var out artistsEnvelope
	if err := c.getJSON(ctx, "/artists", url.Values{"ids": {strings.Join(ids, ",")}}, &out); err != nil {
		return nil, err
	}
	return out.Artists, nil
}

// GetAlbums resolves up to BatchLimit album IDs in one upstream call.
func (c *Client) GetAlbums(ctx context.Context, ids []string) ([]Album, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.checkBatch(ids); err != nil {
		return nil, err
	}
	var out albumsEnvelope
	if err := c.getJSON(ctx, "/albums", url.Values{"ids": {strings.Join(ids, ",")}}, &out); err != nil {
		return nil, err
	}
	return out.Albums, nil
}

// GetTrack fetches a single track by ID.
func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	var out Track
	if err := c.getJSON(ctx, "/tracks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetArtist fetches a single artist by ID.
func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	var out Artist
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAlbum fetches a single album by ID.
func (c *Client) GetAlbum(ctx context.Context, id string) (*Album, error) {
	var out Album
	if err := c.getJSON(ctx, "/albums/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetArtistTopTracks fetches the artist's top tracks for the US market.
func (c *Client) GetArtistTopTracks(ctx context.Context, id string) ([]Track, error) {
	var out tracksEnvelope
	path := "/artists/" + url.PathEscape(id) + "/top-tracks"
	if err := c.getJSON(ctx, path, url.Values{"market": {"US"}}, &out); err != nil {
		return nil, err
	}
	return out.Tracks, nil
}

// GetArtistAlbums fetches the artist's albums, most recent first.
func (c *Client) GetArtistAlbums(ctx context.Context, id string) ([]Album, error) {
	var out pagedAlbums
	path := "/artists/" + url.PathEscape(id) + "/albums"
	query := url.Values{
		"include_groups": {"album,single"},
		"limit":          {"50"},
	}
	if err := c.getJSON(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Search runs a multi-type search across tracks, artists, and albums.
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	var out searchEnvelope
	params := url.Values{
		"q":     {query},
		"type":  {"track,artist,album"},
		"limit": {fmt.Sprint(c.searchLimit)},
	}
	if err := c.getJSON(ctx, "/search", params, &out); err != nil {
		return nil, err
	}
	results := &SearchResults{}
	if out.Tracks != nil {
		results.Tracks = out.Tracks.Items
	}
	if out.Artists != nil {
		results.Artists = out.Artists.Items
	}
	if out.Albums != nil {
		results.Albums = out.Albums.Items
	}
	return results, nil
}

// SearchByName returns the first search hit of the requested type, or nil when nothing matches.
func (c *Client) SearchByName(ctx context.Context, name, entityType string) (*SearchResults, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	var out searchEnvelope
	params := url.Values{
		"q":     {name},
		"type":  {entityType},
		"limit": {"1"},
	}
	if err := c.getJSON(ctx, "/search", params, &out); err != nil {
		return nil, err
	}
	results := &SearchResults{}
	if out.Tracks != nil {
		results.Tracks = out.Tracks.Items
	}
	if out.Artists != nil {
		results.Artists = out.Artists.Items
	}
	if out.Albums != nil {
		results.Albums = out.Albums.Items
	}
	return results, nil
}

func (c *Client) checkBatch(ids []string) error {
	if len(ids) > c.batchLimit {
		return pkgerrors.New(pkgerrors.CodeInternal,
			fmt.Sprintf("batch of %d exceeds limit %d", len(ids), c.batchLimit))
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "obtaining catalog credentials")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(defaultRetryBackoff))
	var body []byte
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return reqErr
		}
		token.SetAuthHeader(req)

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return retry.RetryableError(doErr)
		}
		defer resp.Body.Close()

		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return retry.RetryableError(readErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return retry.RetryableError(apiErr)
			}
			return apiErr
		}

		body = raw
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding catalog response: %w", err)
	}
	return nil
}

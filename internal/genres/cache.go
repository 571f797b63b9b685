package genres

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/melodex/melodex-backend/pkg/config"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/logger"
)

// UnknownGenre is returned for IDs missing from the cached listing.
const UnknownGenre = "Unknown"

// Genre is one entry of the Deezer genre listing.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type genreListing struct {
	Data []Genre `json:"data"`
}

// Cache holds the genre ID to name mapping fetched from Deezer.
type Cache struct {
	baseURL    string
	httpClient *http.Client
	logg       *logger.Logger

	mu    sync.RWMutex
	names map[int64]string
}

// CacheParams configures a genre cache.
type CacheParams struct {
	Config     config.DeezerConfig
	Logger     *logger.Logger
	HTTPClient *http.Client
}

// NewCache builds an empty cache; call Load before serving lookups.
func NewCache(params CacheParams) (*Cache, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.Config.BaseURL == "" {
		return nil, fmt.Errorf("deezer base url is required")
	}
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.Config.Timeout}
	}
	return &Cache{
		baseURL:    strings.TrimRight(params.Config.BaseURL, "/"),
		httpClient: httpClient,
		logg:       params.Logger,
		names:      map[int64]string{},
	}, nil
}

// Load fetches the genre listing if the cache is still empty.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := len(c.names) > 0
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh refetches the genre listing and replaces the cached mapping.
func (c *Cache) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/genre", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching genre listing")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("genre listing responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var listing genreListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return fmt.Errorf("decoding genre listing: %w", err)
	}

	names := make(map[int64]string, len(listing.Data))
	for _, genre := range listing.Data {
		if genre.Name == "" {
			continue
		}
		names[genre.ID] = genre.Name
	}

	c.mu.Lock()
	c.names = names
	c.mu.Unlock()

	c.logg.Info(ctx, fmt.Sprintf("genre cache refreshed with %d entries", len(names)))
	return nil
}

// Lookup resolves a genre ID to its name, falling back to UnknownGenre.
func (c *Cache) Lookup(id int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if name, ok := c.names[id]; ok {
		return name
	}
	return UnknownGenre
}

// All snapshots the cached genres in no particular order.
func (c *Cache) All() []Genre {
	c.mu.RLock()
	defer c.mu.RUnlock()
	listing := make([]Genre, 0, len(c.names))
	for id, name := range c.names {
		listing = append(listing, Genre{ID: id, Name: name})
	}
	return listing
}

// Size reports how many genres are cached.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

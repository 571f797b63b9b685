package recommend

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/melodex/melodex-backend/internal/catalog"
	"github.com/melodex/melodex-backend/pkg/enums"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
	"github.com/melodex/melodex-backend/pkg/logger"
)

const homePicksInstruction = "Return *only* a valid JSON object with exactly 3 keys: 'tracks', 'artists', and 'albums'. " +
	"Each key must map to an array of names (strings). " +
	"No explanations or extra text — only valid JSON."

// CatalogSearcher is the slice of the catalog surface enrichment needs.
type CatalogSearcher interface {
	SearchByName(ctx context.Context, name, entityType string) (*catalog.SearchResults, error)
}

// Picks groups enriched catalog objects produced from model suggestions.
type Picks struct {
	Tracks  []catalog.Track  `json:"tracks"`
	Artists []catalog.Artist `json:"artists"`
	Albums  []catalog.Album  `json:"albums"`
}

// ServiceParams groups dependencies for the recommendation service.
type ServiceParams struct {
	Generator Generator
	Catalog   CatalogSearcher
	Logger    *logger.Logger
}

// Service turns model suggestions into live catalog objects.
type Service interface {
	Recommend(ctx context.Context, prompt string, favoriteType enums.FavoriteType) (Picks, error)
	HomePicks(ctx context.Context, seed string) (Picks, error)
}

type service struct {
	generator Generator
	catalog   CatalogSearcher
	logg      *logger.Logger
}

// NewService builds a recommendation service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Generator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "generator is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog searcher is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		generator: params.Generator,
		catalog:   params.Catalog,
		logg:      params.Logger,
	}, nil
}

// Recommend asks the model for names of one type and resolves each against
// the catalog. Names the catalog cannot match are skipped.
func (s *service) Recommend(ctx context.Context, prompt string, favoriteType enums.FavoriteType) (Picks, error) {
	if strings.TrimSpace(prompt) == "" {
		return Picks{}, pkgerrors.New(pkgerrors.CodeValidation, "prompt is required")
	}
	if !favoriteType.IsValid() {
		return Picks{}, pkgerrors.New(pkgerrors.CodeValidation, "type must be one of track, album, artist")
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Picks{}, err
	}

	names := parseNameLines(text)
	picks := emptyPicks()
	s.enrichNames(ctx, &picks, names, favoriteType)
	return picks, nil
}

// HomePicks asks the model for a strict-JSON mix of all three types and
// enriches the groups concurrently.
func (s *service) HomePicks(ctx context.Context, seed string) (Picks, error) {
	if strings.TrimSpace(seed) == "" {
		return Picks{}, pkgerrors.New(pkgerrors.CodeValidation, "seed is required")
	}

	prompt := fmt.Sprintf("User asked: '%s'.\n%s", seed, homePicksInstruction)
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Picks{}, err
	}

	named, err := parsePicksJSON(text)
	if err != nil {
		return Picks{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "model returned unparseable picks")
	}

	picks := emptyPicks()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		s.enrichNames(groupCtx, &picks, named.Tracks, enums.FavoriteTypeTrack)
		return nil
	})
	group.Go(func() error {
		s.enrichNames(groupCtx, &picks, named.Artists, enums.FavoriteTypeArtist)
		return nil
	})
	group.Go(func() error {
		s.enrichNames(groupCtx, &picks, named.Albums, enums.FavoriteTypeAlbum)
		return nil
	})
	_ = group.Wait()

	return picks, nil
}

// enrichNames resolves names of a single type into the matching picks group.
// Search failures count as misses so one bad name never sinks the batch.
func (s *service) enrichNames(ctx context.Context, picks *Picks, names []string, favoriteType enums.FavoriteType) {
	for _, name := range names {
		results, err := s.catalog.SearchByName(ctx, name, string(favoriteType))
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("catalog search failed for %q (type=%s): %v", name, favoriteType, err))
			continue
		}
		switch favoriteType {
		case enums.FavoriteTypeTrack:
			if len(results.Tracks) > 0 {
				picks.Tracks = append(picks.Tracks, results.Tracks[0])
			}
		case enums.FavoriteTypeArtist:
			if len(results.Artists) > 0 {
				picks.Artists = append(picks.Artists, results.Artists[0])
			}
		case enums.FavoriteTypeAlbum:
			if len(results.Albums) > 0 {
				picks.Albums = append(picks.Albums, results.Albums[0])
			}
		}
	}
}

func emptyPicks() Picks {
	return Picks{
		Tracks:  []catalog.Track{},
		Artists: []catalog.Artist{},
		Albums:  []catalog.Album{},
	}
}

package favorites

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/melodex/melodex-backend/pkg/enums"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
)

// AggregateMetadata resolves every favorite of the user against the live
// catalog. The three type-pipelines run concurrently, each chunked at the
// catalog batch limit with chunks fetched concurrently as well. A failed
// chunk contributes an empty slice and never fails the request.
func (s *service) AggregateMetadata(ctx context.Context, userID uuid.UUID) (AggregatedMetadata, error) {
	if userID == uuid.Nil {
		return AggregatedMetadata{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	records, err := s.favoriteRepo.ListForUser(ctx, userID, nil, "", true)
	if err != nil {
		return AggregatedMetadata{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing favorites")
	}

	result := emptyMetadata()
	if len(records) == 0 {
		return result, nil
	}

	var trackIDs, artistIDs, albumIDs []string
	for _, record := range records {
		switch record.Type {
		case enums.FavoriteTypeTrack:
			trackIDs = append(trackIDs, record.SpotifyID)
		case enums.FavoriteTypeAlbum:
			albumIDs = append(albumIDs, record.SpotifyID)
		case enums.FavoriteTypeArtist:
			artistIDs = append(artistIDs, record.SpotifyID)
		default:
			// Unknown types cannot be enriched; skip them.
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	var chunkErrs error
	var errMu sync.Mutex

	collect := func(err error) {
		errMu.Lock()
		chunkErrs = multierr.Append(chunkErrs, err)
		errMu.Unlock()
	}

	group.Go(func() error {
		result.Tracks = fetchAllChunks(groupCtx, s, enums.FavoriteTypeTrack, trackIDs, s.catalog.GetTracks, collect)
		return nil
	})
	group.Go(func() error {
		result.Artists = fetchAllChunks(groupCtx, s, enums.FavoriteTypeArtist, artistIDs, s.catalog.GetArtists, collect)
		return nil
	})
	group.Go(func() error {
		result.Albums = fetchAllChunks(groupCtx, s, enums.FavoriteTypeAlbum, albumIDs, s.catalog.GetAlbums, collect)
		return nil
	})

	// Chunk failures are absorbed into empty contributions, so Wait cannot fail.
	_ = group.Wait()

	if chunkErrs != nil {
		s.logg.Warn(ctx, fmt.Sprintf("aggregation completed with partial data: %v", chunkErrs))
	}

	return result, nil
}

// fetchAllChunks splits ids at the catalog batch limit and fetches every
// chunk concurrently, reassembling results by chunk index so concatenation
// order matches submission order regardless of completion order.
func fetchAllChunks[T any](
	ctx context.Context,
	s *service,
	favoriteType enums.FavoriteType,
	ids []string,
	fetch func(context.Context, []string) ([]T, error),
	collect func(error),
) []T {
	if len(ids) == 0 {
		return []T{}
	}

	chunks := chunkIDs(ids, s.catalog.BatchLimit())
	slots := make([][]T, len(chunks))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		group.Go(func() error {
			start := time.Now()
			fetched, err := fetch(groupCtx, chunk)
			s.metrics.ObserveChunkDuration(string(favoriteType), time.Since(start))
			s.metrics.IncCatalogCall(string(favoriteType))
			if err != nil {
				s.metrics.IncChunkFailure(string(favoriteType))
				s.logChunkFailure(ctx, favoriteType, len(chunk), err)
				collect(err)
				return nil
			}
			slots[i] = fetched
			return nil
		})
	}
	_ = group.Wait()

	merged := make([]T, 0, len(ids))
	for _, slot := range slots {
		merged = append(merged, slot...)
	}
	return merged
}

// logChunkFailure separates credential failures, which point at
// misconfiguration, from transient per-chunk catalog errors.
func (s *service) logChunkFailure(ctx context.Context, favoriteType enums.FavoriteType, size int, err error) {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency {
		s.logg.Error(ctx, fmt.Sprintf("catalog credential unavailable (type=%s)", favoriteType), err)
		return
	}
	s.logg.Warn(ctx, fmt.Sprintf("catalog chunk failed (type=%s size=%d): %v", favoriteType, size, err))
}

func chunkIDs(ids []string, limit int) [][]string {
	if limit <= 0 {
		limit = 1
	}
	var chunks [][]string
	for start := 0; start < len(ids); start += limit {
		end := start + limit
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

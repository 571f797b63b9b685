package favorites

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodex/melodex-backend/internal/catalog"
	"github.com/melodex/melodex-backend/pkg/enums"
	pkgerrors "github.com/melodex/melodex-backend/pkg/errors"
)

func seedFavorites(t *testing.T, repo *Repository, userID uuid.UUID, favoriteType enums.FavoriteType, ids []string) {
	t.Helper()
	ctx := context.Background()
	for _, id := range ids {
		created, err := repo.Create(ctx, userID, id, favoriteType)
		require.NoError(t, err)
		require.True(t, created)
	}
}

func listedIDs(t *testing.T, repo *Repository, userID uuid.UUID, favoriteType enums.FavoriteType) []string {
	t.Helper()
	records, err := repo.ListForUser(context.Background(), userID, ptrType(favoriteType), "", true)
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.SpotifyID)
	}
	return ids
}

func TestAggregateEmptyFavorites(t *testing.T) {
	stub := newStubCatalog(20)
	svc, _ := newTestService(t, stub)

	result, err := svc.AggregateMetadata(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, result.Tracks)
	assert.NotNil(t, result.Artists)
	assert.NotNil(t, result.Albums)
	assert.Empty(t, result.Tracks)
	assert.Empty(t, result.Artists)
	assert.Empty(t, result.Albums)
	assert.Zero(t, stub.totalCalls(), "empty favorites must not reach the catalog")
}

func TestAggregateChunksAtBatchLimit(t *testing.T) {
	stub := newStubCatalog(20)
	svc, repo := newTestService(t, stub)
	userID := uuid.New()

	ids := make([]string, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%02d", i+1)
	}
	seedFavorites(t, repo, userID, enums.FavoriteTypeTrack, ids)
	order := listedIDs(t, repo, userID, enums.FavoriteTypeTrack)

	result, err := svc.AggregateMetadata(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, stub.trackCalls, 2, "25 ids at limit 20 means exactly 2 calls")
	sizes := []int{len(stub.trackCalls[0]), len(stub.trackCalls[1])}
	assert.ElementsMatch(t, []int{20, 5}, sizes)
	for _, call := range stub.trackCalls {
		assert.LessOrEqual(t, len(call), 20)
	}

	// Every favorite appears exactly once across the two calls.
	var requested []string
	for _, call := range stub.trackCalls {
		requested = append(requested, call...)
	}
	assert.ElementsMatch(t, ids, requested)

	// Concatenation order matches submission order.
	require.Len(t, result.Tracks, 25)
	for i, track := range result.Tracks {
		assert.Equal(t, order[i], track.ID)
	}
	assert.Empty(t, stub.artistCalls, "no artist favorites means no artist call")
	assert.Empty(t, stub.albumCalls)
}

func TestAggregateChunkFailureIsIsolated(t *testing.T) {
	stub := newStubCatalog(20)
	svc, repo := newTestService(t, stub)
	userID := uuid.New()

	ids := make([]string, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("t%02d", i+1)
	}
	seedFavorites(t, repo, userID, enums.FavoriteTypeTrack, ids)
	seedFavorites(t, repo, userID, enums.FavoriteTypeArtist, []string{"a1", "a2"})
	seedFavorites(t, repo, userID, enums.FavoriteTypeAlbum, []string{"al1"})

	// Fail only the trailing 5-id chunk.
	order := listedIDs(t, repo, userID, enums.FavoriteTypeTrack)
	stub.failOn[order[24]] = &catalog.APIError{Status: http.StatusBadGateway, Body: "upstream down"}

	result, err := svc.AggregateMetadata(context.Background(), userID)
	require.NoError(t, err, "a failed chunk must not fail the request")

	require.Len(t, stub.trackCalls, 2)
	assert.Len(t, result.Tracks, 20, "failing chunk contributes nothing")
	for i, track := range result.Tracks {
		assert.Equal(t, order[i], track.ID)
	}
	assert.Len(t, result.Artists, 2)
	assert.Len(t, result.Albums, 1)
}

func TestAggregateAllChunksFailing(t *testing.T) {
	stub := newStubCatalog(20)
	stub.failAll = &catalog.APIError{Status: http.StatusInternalServerError, Body: "down"}
	svc, repo := newTestService(t, stub)
	userID := uuid.New()

	seedFavorites(t, repo, userID, enums.FavoriteTypeTrack, []string{"t1"})
	seedFavorites(t, repo, userID, enums.FavoriteTypeArtist, []string{"a1"})

	result, err := svc.AggregateMetadata(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, result.Tracks)
	assert.Empty(t, result.Artists)
	assert.Empty(t, result.Albums)
}

func TestAggregateCredentialFailureIsIsolatedPerType(t *testing.T) {
	stub := newStubCatalog(20)
	svc, repo := newTestService(t, stub)
	userID := uuid.New()

	seedFavorites(t, repo, userID, enums.FavoriteTypeTrack, []string{"t1", "t2"})
	seedFavorites(t, repo, userID, enums.FavoriteTypeArtist, []string{"a1"})
	stub.failOn["a1"] = pkgerrors.New(pkgerrors.CodeDependency, "obtaining catalog credentials")

	result, err := svc.AggregateMetadata(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, result.Tracks, 2)
	assert.Empty(t, result.Artists)
}

func TestAggregateMixedTypesPartitioned(t *testing.T) {
	stub := newStubCatalog(20)
	svc, repo := newTestService(t, stub)
	userID := uuid.New()

	seedFavorites(t, repo, userID, enums.FavoriteTypeTrack, []string{"t1", "t2"})
	seedFavorites(t, repo, userID, enums.FavoriteTypeAlbum, []string{"al1", "al2", "al3"})
	seedFavorites(t, repo, userID, enums.FavoriteTypeArtist, []string{"ar1"})

	result, err := svc.AggregateMetadata(context.Background(), userID)
	require.NoError(t, err)

	assert.Len(t, result.Tracks, 2)
	assert.Len(t, result.Artists, 1)
	assert.Len(t, result.Albums, 3)
	require.Len(t, stub.trackCalls, 1)
	require.Len(t, stub.artistCalls, 1)
	require.Len(t, stub.albumCalls, 1)
}

func TestAggregateRequiresUser(t *testing.T) {
	svc, _ := newTestService(t, newStubCatalog(20))
	_, err := svc.AggregateMetadata(context.Background(), uuid.Nil)
	requireCode(t, err, pkgerrors.CodeValidation)
}

package predict

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dryerd/dryerd/internal/blob"
	"github.com/dryerd/dryerd/internal/features"
	"github.com/dryerd/dryerd/internal/models"
	"github.com/dryerd/dryerd/internal/storage"
)

const (
	timeModelID = "predict_drying_time.sklearn"
	distModelID = "predict_distribution.tensorflow"
)

// Constant models: remaining time 2.0, distribution [0.1, 0.2].
var (
	timeArtifact = []byte(`{"kind":"linear","weights":[0,0,0,0,0,0],"intercept":2.0}`)
	distArtifact = []byte(`{"kind":"affine","weights":[[0,0,0,0,0],[0,0,0,0,0]],"intercepts":[0.1,0.2],"outputs":["p10","p20"]}`)
)

type countingStore struct {
	inner   blob.Store
	fetches int
}

func (s *countingStore) Fetch(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	s.fetches++
	return s.inner.Fetch(ctx, bucket, key)
}

func setupTestService(t *testing.T, seed map[string][]byte) (*Service, *countingStore) {
	mountRoot := t.TempDir()
	remoteRoot := t.TempDir()

	paths, err := storage.NewPathsAt(mountRoot)
	require.NoError(t, err)
	require.NoError(t, paths.Initialize())

	for id, data := range seed {
		path := filepath.Join(remoteRoot, "dryer-data", id)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, data, 0644))
	}

	store := &countingStore{inner: blob.NewFSStore(remoteRoot)}
	resolver := models.NewResolver(paths, store, "dryer-data", "")

	return NewService(resolver, timeModelID, distModelID), store
}

func bothArtifacts() map[string][]byte {
	return map[string][]byte{
		timeModelID: timeArtifact,
		distModelID: distArtifact,
	}
}

func TestServiceLazyLoadsOnFirstPredict(t *testing.T) {
	svc, store := setupTestService(t, bothArtifacts())

	assert.False(t, svc.Loaded())

	res, err := svc.Predict(context.Background(), "[12.5,71.0,64.2,0.45,48,1.5]")
	require.NoError(t, err)
	assert.True(t, svc.Loaded())
	assert.Equal(t, 2, store.fetches)

	assert.Equal(t, 2.0, res.RemainingTime)
	require.Len(t, res.Distribution, 2)
	assert.InDelta(t, 0.1, res.Distribution[0].Value, 1e-9)
	assert.InDelta(t, 0.2, res.Distribution[1].Value, 1e-9)

	// Subsequent predictions reuse the loaded models
	_, err = svc.Predict(context.Background(), "[1,2,3,4,5,6]")
	require.NoError(t, err)
	assert.Equal(t, 2, store.fetches)
}

func TestServiceResetForcesReload(t *testing.T) {
	svc, store := setupTestService(t, bothArtifacts())

	require.NoError(t, svc.WarmUp(context.Background(), false))
	require.Equal(t, 2, store.fetches)

	svc.Reset()
	assert.False(t, svc.Loaded())

	// Reload hits the warm disk cache, not the remote store
	_, err := svc.Predict(context.Background(), "[1,2,3,4,5,6]")
	require.NoError(t, err)
	assert.Equal(t, 2, store.fetches)
}

func TestServiceWarmUpForce(t *testing.T) {
	svc, store := setupTestService(t, bothArtifacts())

	require.NoError(t, svc.WarmUp(context.Background(), false))
	require.NoError(t, svc.WarmUp(context.Background(), true))

	assert.Equal(t, 4, store.fetches)
}

func TestServicePartialWarmUpFailure(t *testing.T) {
	// Only the time model exists remotely
	svc, _ := setupTestService(t, map[string][]byte{timeModelID: timeArtifact})

	err := svc.WarmUp(context.Background(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRemoteNotFound)
	assert.False(t, svc.Loaded())
}

func TestServiceMalformedInputBeforeModelLoad(t *testing.T) {
	// No remote artifacts at all: a malformed payload must fail on
	// parsing without touching the resolver
	svc, store := setupTestService(t, nil)

	_, err := svc.Predict(context.Background(), "[1.0,nope]")
	require.Error(t, err)

	var malformed *features.MalformedInputError
	assert.ErrorAs(t, err, &malformed)
	assert.Equal(t, 0, store.fetches)
}

func TestServiceEvict(t *testing.T) {
	svc, store := setupTestService(t, bothArtifacts())

	require.NoError(t, svc.WarmUp(context.Background(), false))
	require.NoError(t, svc.Evict(timeModelID))
	assert.False(t, svc.Loaded())

	// Next predict refetches the evicted artifact only
	_, err := svc.Predict(context.Background(), "[1,2,3,4,5,6]")
	require.NoError(t, err)
	assert.Equal(t, 3, store.fetches)
}

func TestServiceModelIdentifiers(t *testing.T) {
	svc, _ := setupTestService(t, nil)
	assert.Equal(t, []string{timeModelID, distModelID}, svc.ModelIdentifiers())
}

package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/racereplay/log"
	"github.com/mpapenbr/racereplay/pkg/config"
	"github.com/mpapenbr/racereplay/pkg/playback"
	"github.com/mpapenbr/racereplay/pkg/processing"
)

func TestReloadDatasetKeepsPreviousOnError(t *testing.T) {
	ctx := context.Background()
	data, err := os.ReadFile("../../loader/testdata/race.json")
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "race.json")
	require.NoError(t, os.WriteFile(file, data, 0o600))

	cfg := &config.Config{File: file}
	datasets := newDatasetCache(cfg, log.NewNop())
	ds, err := datasets.Get(ctx, file)
	require.NoError(t, err)
	player := playback.NewPlayer(
		processing.NewProcessor(processing.WithDataset(ds)),
		playback.WithLogger(log.NewNop()))

	require.NoError(t, reloadDataset(ctx, cfg, datasets, player, log.NewNop()))
	reloaded, err := datasets.Get(ctx, file)
	require.NoError(t, err)
	assert.NotSame(t, ds, reloaded)

	require.NoError(t, os.WriteFile(file, []byte(`{"drivers":`), 0o600))
	assert.Error(t, reloadDataset(ctx, cfg, datasets, player, log.NewNop()))
	current, err := datasets.Get(ctx, file)
	require.NoError(t, err)
	assert.Same(t, reloaded, current)
}

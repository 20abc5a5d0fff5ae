package storage

import (
	"compress/zlib"
	"encoding/gob"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orrery-sim/octree-nbody/internal/body"
	"github.com/orrery-sim/octree-nbody/internal/spatial"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func readChunk(t *testing.T, path string) chunkIndex {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	zr, err := zlib.NewReader(file)
	require.NoError(t, err)
	defer zr.Close()

	var dump chunkIndex
	require.NoError(t, gob.NewDecoder(zr).Decode(&dump))
	return dump
}

func TestGobStoreDumpsEachFullBucketToItsOwnChunk(t *testing.T) {
	dir := t.TempDir()
	log := discardLogger()

	s, err := NewGobStore(dir, 3, 2, log) // frames 0..3, buckets of 2 -> two buckets
	require.NoError(t, err)

	for frame := 0; frame <= 3; frame++ {
		bodies := []*body.Body{{ID: uint64(frame), Mass: float64(frame) + 1, Radius: 1, Pos: spatial.Vec3{X: float64(frame)}}}
		require.NoError(t, s.WriteFrame(frame, bodies))
	}
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(s.runDir)
	require.NoError(t, err)
	require.Len(t, entries, 2, "one chunk file per bucket")

	first := readChunk(t, filepath.Join(s.runDir, entries[0].Name()))
	second := readChunk(t, filepath.Join(s.runDir, entries[1].Name()))

	all := map[uint32]map[uint32]snapshot{}
	for f, snaps := range first {
		all[f] = snaps
	}
	for f, snaps := range second {
		all[f] = snaps
	}
	require.Len(t, all, 4)
	for frame := uint32(0); frame <= 3; frame++ {
		snaps, ok := all[frame]
		require.True(t, ok, "frame %d present", frame)
		require.Len(t, snaps, 1)
		assert.Equal(t, float32(frame), snaps[frame].X)
		assert.Equal(t, float32(frame)+1, snaps[frame].Mass)
	}
}

func TestGobStoreRunsUnderSeparateUUIDDirectories(t *testing.T) {
	dir := t.TempDir()
	log := discardLogger()

	a, err := NewGobStore(dir, 0, 1, log)
	require.NoError(t, err)
	b, err := NewGobStore(dir, 0, 1, log)
	require.NoError(t, err)

	assert.NotEqual(t, a.runDir, b.runDir)
	for _, runDir := range []string{a.runDir, b.runDir} {
		info, err := os.Stat(runDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestGobStoreCloseWaitsForPendingDumps(t *testing.T) {
	dir := t.TempDir()
	log := discardLogger()

	s, err := NewGobStore(dir, 0, 1, log)
	require.NoError(t, err)
	require.NoError(t, s.WriteFrame(0, []*body.Body{{ID: 1, Mass: 1, Radius: 1}}))
	require.NoError(t, s.Close())

	entries, err := os.ReadDir(s.runDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the single, now-full bucket must already be on disk once Close returns")
}

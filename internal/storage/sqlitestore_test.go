package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orrery-sim/octree-nbody/internal/body"
	"github.com/orrery-sim/octree-nbody/internal/spatial"
)

func TestNewSqliteStoreRefusesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodies.sqlite")

	s, err := NewSqliteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = NewSqliteStore(path)
	assert.Error(t, err)
}

func TestSqliteStoreWriteFrameInsertsOneRowPerBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodies.sqlite")

	s, err := NewSqliteStore(path)
	require.NoError(t, err)

	bodies := []*body.Body{
		{ID: 1, Mass: 10, Radius: 1, Pos: spatial.Vec3{X: 1.6, Y: 2.4, Z: 3.2}},
		{ID: 2, Mass: 20, Radius: 2, Pos: spatial.Vec3{X: -1, Y: 0, Z: 5}},
	}
	require.NoError(t, s.WriteFrame(0, bodies))
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM bodies WHERE frame = 0").Scan(&count))
	assert.Equal(t, 2, count)

	var x, y, z float64
	require.NoError(t, db.QueryRow("SELECT x, y, z FROM bodies WHERE id = 1").Scan(&x, &y, &z))
	assert.Equal(t, 2.0, x, "positions are rounded to the nearest integer on write")
	assert.Equal(t, 2.0, y)
	assert.Equal(t, 3.0, z)
}

func TestSqliteStoreWriteFrameAcrossMultipleFramesAccumulates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodies.sqlite")

	s, err := NewSqliteStore(path)
	require.NoError(t, err)

	for frame := 0; frame < 3; frame++ {
		bodies := []*body.Body{{ID: 7, Mass: 1, Radius: 1, Pos: spatial.Vec3{X: float64(frame)}}}
		require.NoError(t, s.WriteFrame(frame, bodies))
	}
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM bodies").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestSqliteStoreCloseCreatesQueryIndices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bodies.sqlite")

	s, err := NewSqliteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteFrame(0, []*body.Body{{ID: 1, Mass: 1, Radius: 1}}))
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'index'")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"idx_frame", "idx_id"}, names)
}

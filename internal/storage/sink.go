// Package storage persists per-frame body snapshots to disk, behind a
// Sink interface so the simulation driver can pick gob-bucket or sqlite
// output without caring which.
package storage

import "github.com/orrery-sim/octree-nbody/internal/body"

// Sink accepts one frame at a time and is responsible for buffering and
// flushing it to disk however it sees fit. Close must block until every
// buffered frame has been durably written.
type Sink interface {
	WriteFrame(frame int, bodies []*body.Body) error
	Close() error
}

// snapshot is the on-disk representation of one body in one frame: just
// enough to re-render or re-inspect a run, at reduced precision to keep
// storage compact.
type snapshot struct {
	X, Y, Z      float32
	Mass, Radius float32
}

func toSnapshot(b *body.Body) snapshot {
	return snapshot{
		X:      float32(b.Pos.X),
		Y:      float32(b.Pos.Y),
		Z:      float32(b.Pos.Z),
		Mass:   float32(b.Mass),
		Radius: float32(b.Radius),
	}
}

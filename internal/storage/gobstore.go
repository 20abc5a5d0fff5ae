package storage

import (
	"compress/zlib"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/orrery-sim/octree-nbody/internal/body"
)

// chunkIndex maps a frame number to that frame's body snapshots, gob
// encoded and zlib compressed one bucket (run of frames) at a time.
type chunkIndex map[uint32]map[uint32]snapshot

// GobStore buckets frames in memory until a bucket fills, at which point
// it is handed off to a bounded pool of background dumpers that gob+zlib
// encode it to its own chunk file. Each run gets its own UUID-named
// subdirectory under dir so concurrent runs never collide on chunk
// filenames.
type GobStore struct {
	runDir          string
	bucketSize      int
	expectedBuckets []int
	buckets         []int
	pending         chunkIndex

	log      *slog.Logger
	dumperWG sync.WaitGroup
	sem      chan struct{}
	mu       sync.Mutex
}

// NewGobStore prepares a bucketed gob store under dir/<run-uuid>/, sized
// for lastFrame+1 total frames grouped into buckets of framesPerBucket.
func NewGobStore(dir string, lastFrame, framesPerBucket int, log *slog.Logger) (*GobStore, error) {
	runDir := fmt.Sprintf("%s/%s", dir, uuid.New().String())
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create run directory: %w", err)
	}

	nBuckets := lastFrame/framesPerBucket + 1
	s := &GobStore{
		runDir:          runDir,
		bucketSize:      framesPerBucket,
		expectedBuckets: make([]int, nBuckets),
		buckets:         make([]int, nBuckets),
		pending:         make(chunkIndex, lastFrame+1),
		log:             log,
		sem:             make(chan struct{}, 4),
	}
	for frame := 0; frame <= lastFrame; frame++ {
		s.expectedBuckets[frame/framesPerBucket]++
	}
	return s, nil
}

// WriteFrame stores a frame's snapshots in memory and, if this was the
// last frame its bucket was waiting on, schedules that bucket for
// background compression and disk write.
func (s *GobStore) WriteFrame(frame int, bodies []*body.Body) error {
	data := make(map[uint32]snapshot, len(bodies))
	for _, b := range bodies {
		data[uint32(b.ID)] = toSnapshot(b)
	}

	s.mu.Lock()
	bnum := frame / s.bucketSize
	s.buckets[bnum]++
	full := s.buckets[bnum] == s.expectedBuckets[bnum]
	s.pending[uint32(frame)] = data
	s.mu.Unlock()

	if full {
		s.dumperWG.Add(1)
		go func() {
			s.sem <- struct{}{}
			defer func() { <-s.sem }()
			defer s.dumperWG.Done()
			s.dumpBucket(bnum)
		}()
	}
	return nil
}

// Close waits for every scheduled bucket dump to finish.
func (s *GobStore) Close() error {
	s.dumperWG.Wait()
	return nil
}

func (s *GobStore) dumpBucket(bucket int) {
	start := time.Now()
	lo, hi := bucket*s.bucketSize, (bucket+1)*s.bucketSize-1

	dump := make(chunkIndex, s.bucketSize)
	s.mu.Lock()
	for f := lo; f <= hi; f++ {
		dump[uint32(f)] = s.pending[uint32(f)]
		delete(s.pending, uint32(f))
	}
	s.mu.Unlock()

	path := fmt.Sprintf("%s/%010d.chunk", s.runDir, hi)
	file, err := os.Create(path)
	if err != nil {
		s.log.Error("create chunk file", "path", path, "error", err)
		return
	}
	defer file.Close()

	zw, err := zlib.NewWriterLevel(file, zlib.DefaultCompression)
	if err != nil {
		s.log.Error("open zlib writer", "path", path, "error", err)
		return
	}
	if err := gob.NewEncoder(zw).Encode(dump); err != nil {
		s.log.Error("encode chunk", "path", path, "error", err)
		zw.Close()
		return
	}
	zw.Close()

	info, statErr := file.Stat()
	size := int64(0)
	if statErr == nil {
		size = info.Size()
	}
	s.log.Info("dumped bucket",
		"bucket", bucket,
		"elapsed", humanize.RelTime(start, time.Now(), "", ""),
		"size", humanize.Bytes(uint64(size)))
}

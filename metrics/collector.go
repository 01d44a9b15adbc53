// Package metrics provides per-scan metrics collection.
//
// The Collector accumulates counters during a single scan. It is a leaf
// package with no internal dependencies. Stitcher paragraph counts are
// absorbed at scan completion rather than recorded live, avoiding
// double-counting.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of scan metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Dispatch
	AssignmentsIssued int64
	StopsSent         int64

	// Transport
	FramesDecoded int64
	DecodeErrors  int64

	// Reassembly
	ChunksReleased    int64
	BytesProcessed    int64
	MaxReorderDepth   int64
	ParagraphsEmitted int64
	ParagraphsMatched int64
	ChunksWithMatch   int64

	// Dimensions, set at construction
	RunID   string
	File    string
	Workers int
}

// Collector accumulates metrics during a single scan.
// Thread-safe via sync.Mutex.
type Collector struct {
	mu sync.Mutex

	assignmentsIssued int64
	stopsSent         int64
	framesDecoded     int64
	decodeErrors      int64
	chunksReleased    int64
	bytesProcessed    int64
	maxReorderDepth   int64
	paragraphsEmitted int64
	paragraphsMatched int64
	chunksWithMatch   int64

	runID   string
	file    string
	workers int
}

// NewCollector creates a collector stamped with the scan's dimensions.
func NewCollector(runID, file string, workers int) *Collector {
	return &Collector{
		runID:   runID,
		file:    file,
		workers: workers,
	}
}

// IncAssignmentsIssued records one range assignment sent to a worker.
func (c *Collector) IncAssignmentsIssued() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assignmentsIssued++
}

// IncStopsSent records one stop assignment sent to a worker.
func (c *Collector) IncStopsSent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopsSent++
}

// IncFramesDecoded records one successfully decoded frame.
func (c *Collector) IncFramesDecoded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.framesDecoded++
}

// IncDecodeErrors records one frame decode failure.
func (c *Collector) IncDecodeErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decodeErrors++
}

// RecordChunkReleased records one chunk released in file order, with its
// effective byte count and whether any paragraph it completed matched.
func (c *Collector) RecordChunkReleased(bytes int64, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunksReleased++
	c.bytesProcessed += bytes
	if found {
		c.chunksWithMatch++
	}
}

// ObserveReorderDepth tracks the high-water mark of held-back chunks.
func (c *Collector) ObserveReorderDepth(depth int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int64(depth) > c.maxReorderDepth {
		c.maxReorderDepth = int64(depth)
	}
}

// AbsorbParagraphCounts sets the stitcher's final paragraph totals.
// Called once at scan completion.
func (c *Collector) AbsorbParagraphCounts(emitted, matched int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paragraphsEmitted = emitted
	c.paragraphsMatched = matched
}

// Snapshot returns an immutable copy of the current counters.
func (c *Collector) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &Snapshot{
		AssignmentsIssued: c.assignmentsIssued,
		StopsSent:         c.stopsSent,
		FramesDecoded:     c.framesDecoded,
		DecodeErrors:      c.decodeErrors,
		ChunksReleased:    c.chunksReleased,
		BytesProcessed:    c.bytesProcessed,
		MaxReorderDepth:   c.maxReorderDepth,
		ParagraphsEmitted: c.paragraphsEmitted,
		ParagraphsMatched: c.paragraphsMatched,
		ChunksWithMatch:   c.chunksWithMatch,
		RunID:             c.runID,
		File:              c.file,
		Workers:           c.workers,
	}
}

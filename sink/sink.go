// Package sink abstracts the per-chunk scan log.
//
// Implementations may write CSV to disk or stub for testing. Rows arrive in
// release order, which is file order; the sink must preserve it.
package sink

import (
	"sync"

	"github.com/paragrep-io/paragrep/types"
)

// RowSink receives one row per released chunk.
type RowSink interface {
	// WriteRow appends a single log row.
	// Returns error on failure; a sink failure is fatal for the run.
	WriteRow(row types.LogRow) error

	// Close releases any resources held by the sink.
	Close() error
}

// StubSink records rows without persisting, for test assertions.
type StubSink struct {
	mu sync.Mutex

	// Rows holds every written row in write order.
	Rows []types.LogRow
	// Closed indicates whether Close was called.
	Closed bool
	// ErrorOnWrite, if non-nil, is returned by WriteRow.
	ErrorOnWrite error
}

// NewStubSink creates a new stub sink for testing.
func NewStubSink() *StubSink {
	return &StubSink{Rows: make([]types.LogRow, 0)}
}

// WriteRow records the row without persisting.
func (s *StubSink) WriteRow(row types.LogRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrorOnWrite != nil {
		return s.ErrorOnWrite
	}
	s.Rows = append(s.Rows, row)
	return nil
}

// Close marks the sink closed.
func (s *StubSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Snapshot returns a copy of the rows written so far.
func (s *StubSink) Snapshot() []types.LogRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]types.LogRow, len(s.Rows))
	copy(rows, s.Rows)
	return rows
}

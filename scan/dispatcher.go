package scan

import (
	"fmt"
	"io"
	"os"

	"github.com/paragrep-io/paragrep/types"
)

// trimToLastNewline returns the index just past the last '\n' in b, or
// len(b) when b contains no newline. The zero fallback mirrors the
// assignment rule: a chunk is never shrunk to nothing.
func trimToLastNewline(b []byte) int {
	for i := len(b); i > 0; i-- {
		if b[i-1] == '\n' {
			return i
		}
	}
	return len(b)
}

// Dispatcher determines chunk lengths by probing the file ahead of the
// workers and advances the global assignment cursor. It holds its own read
// handle; the probed bytes are discarded and re-read by the worker, which
// keeps bulk bytes off the assignment pipe.
type Dispatcher struct {
	file      *os.File
	next      int64
	exhausted bool
	stopped   []bool
	buf       [types.ChunkSize]byte
}

// NewDispatcher creates a dispatcher probing file for up to workers workers.
func NewDispatcher(file *os.File, workers int) *Dispatcher {
	return &Dispatcher{
		file:    file,
		stopped: make([]bool, workers),
	}
}

// Next services one worker request. It returns the assignment to send and
// whether it should be sent at all: once a stop has been delivered to a
// worker, further requests from it produce no reply (send == false), matching
// the idempotent-stop rule.
func (d *Dispatcher) Next(workerID int32) (assignment types.AssignmentFrame, send bool, err error) {
	if workerID < 0 || int(workerID) >= len(d.stopped) {
		return types.AssignmentFrame{}, false, fmt.Errorf("dispatcher: worker id %d out of range", workerID)
	}

	if d.exhausted {
		return d.stop(workerID)
	}

	raw, err := d.probe()
	if err != nil {
		return types.AssignmentFrame{}, false, err
	}
	if raw == 0 {
		d.exhausted = true
		return d.stop(workerID)
	}

	effective := trimToLastNewline(d.buf[:raw])
	if effective == 0 {
		effective = raw
	}

	assignment = types.AssignmentFrame{
		Offset: d.next,
		Length: int64(effective),
	}
	d.next += int64(effective)
	return assignment, true, nil
}

// NextOffset is the current assignment cursor, for observability.
func (d *Dispatcher) NextOffset() int64 {
	return d.next
}

// Exhausted reports whether a probe has hit end-of-file.
func (d *Dispatcher) Exhausted() bool {
	return d.exhausted
}

// probe reads up to one chunk at the assignment cursor, returning the byte
// count. A zero count means end-of-file.
func (d *Dispatcher) probe() (int, error) {
	n, err := d.file.ReadAt(d.buf[:], d.next)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("dispatcher: probe at offset %d: %w", d.next, err)
	}
	return n, nil
}

// stop produces a stop assignment, or suppresses it if one was already
// delivered to this worker.
func (d *Dispatcher) stop(workerID int32) (types.AssignmentFrame, bool, error) {
	if d.stopped[workerID] {
		return types.AssignmentFrame{}, false, nil
	}
	d.stopped[workerID] = true
	return types.AssignmentFrame{Stop: true}, true, nil
}

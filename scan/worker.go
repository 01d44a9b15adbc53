package scan

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/paragrep-io/paragrep/ipc"
	"github.com/paragrep-io/paragrep/types"
)

// Worker pulls ranges from the coordinator over its assignment pipe, reads
// them from its own file handle, trims to the last newline, and reports the
// bytes with timing over its result pipe. Workers never see the pattern and
// never interpret content.
type Worker struct {
	id   int32
	file *os.File
	dec  *ipc.FrameDecoder
	enc  *ipc.FrameEncoder
}

// NewWorker creates a worker reading assignments from dec and reporting
// results through enc. The worker owns file for the duration of Run.
func NewWorker(id int32, file *os.File, dec *ipc.FrameDecoder, enc *ipc.FrameEncoder) *Worker {
	return &Worker{id: id, file: file, dec: dec, enc: enc}
}

// Run executes the request/read/report cycle until a stop assignment
// arrives. Any I/O or protocol error is fatal for the worker and, through
// the coordinator's error collection, for the run.
func (w *Worker) Run() error {
	buf := make([]byte, types.ChunkSize)

	for {
		if err := w.enc.WriteRequest(w.id); err != nil {
			return fmt.Errorf("worker %d: send request: %w", w.id, err)
		}

		payload, err := w.dec.ReadFrame()
		if err != nil {
			return fmt.Errorf("worker %d: read assignment: %w", w.id, err)
		}
		assignment, err := ipc.DecodeAssignment(payload)
		if err != nil {
			return fmt.Errorf("worker %d: decode assignment: %w", w.id, err)
		}
		if assignment.Stop {
			return nil
		}
		if assignment.Length <= 0 || assignment.Length > types.ChunkSize {
			return fmt.Errorf("worker %d: assignment length %d out of range", w.id, assignment.Length)
		}

		start := time.Now()
		n, err := w.file.ReadAt(buf[:assignment.Length], assignment.Offset)
		if err != nil && err != io.EOF {
			return fmt.Errorf("worker %d: read at offset %d: %w", w.id, assignment.Offset, err)
		}
		if n == 0 {
			// The dispatcher issues stop instead of assigning past
			// end-of-file, so an empty read means the file shrank.
			return fmt.Errorf("worker %d: empty read at offset %d", w.id, assignment.Offset)
		}

		usable := trimToLastNewline(buf[:n])
		if usable == 0 {
			usable = n
		}
		elapsed := time.Since(start).Seconds()

		result := &types.ResultFrame{
			WorkerID:       w.id,
			Offset:         assignment.Offset,
			BytesRead:      int64(usable),
			ElapsedSeconds: elapsed,
			Payload:        buf[:usable],
		}
		if err := w.enc.WriteResult(result); err != nil {
			return fmt.Errorf("worker %d: send result: %w", w.id, err)
		}
	}
}

package scan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/paragrep-io/paragrep/ipc"
	"github.com/paragrep-io/paragrep/iox"
	"github.com/paragrep-io/paragrep/log"
	"github.com/paragrep-io/paragrep/metrics"
	"github.com/paragrep-io/paragrep/sink"
	"github.com/paragrep-io/paragrep/types"
)

// errAborted is delivered to blocked workers when the coordinator fails.
var errAborted = errors.New("scan aborted")

// Config wires a scan run together.
type Config struct {
	// Meta identifies the run: pattern, file, worker count.
	Meta types.ScanMeta
	// Out receives matching paragraphs (stdout in production).
	Out io.Writer
	// Sink receives one row per released chunk.
	Sink sink.RowSink
	// Logger receives diagnostics. Required.
	Logger *log.Logger
	// Collector accumulates run metrics. Required.
	Collector *metrics.Collector
}

// Result summarizes a completed scan.
type Result struct {
	// Snapshot holds the final metrics.
	Snapshot *metrics.Snapshot
	// TrailingMatched reports whether the end-of-stream flush matched.
	// That match is printed but never recorded in the chunk log.
	TrailingMatched bool
	// Duration is the wall-clock time of the whole run.
	Duration time.Duration
}

// workerEvent is one demultiplexed message from a worker's result pipe.
// Exactly one terminal event (finished or err) arrives per worker.
type workerEvent struct {
	workerID int32
	msg      any
	err      error
	finished bool
}

// workerConn holds the coordinator's side of one worker's pipe pair.
type workerConn struct {
	assignEnc    *ipc.FrameEncoder
	assignWriter *io.PipeWriter
}

// Run executes a full scan: spawns the workers, multiplexes their framed
// messages, dispatches ranges on demand, reassembles chunks in file order,
// stitches paragraphs, and writes the chunk log. It returns a non-nil error
// on any I/O, protocol, or worker failure; output already printed stands.
func Run(cfg Config) (*Result, error) {
	start := time.Now()

	re, err := CompilePattern(cfg.Meta.Pattern)
	if err != nil {
		return nil, err
	}

	dispatchFile, err := os.Open(cfg.Meta.File)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer iox.DiscardClose(dispatchFile)

	n := cfg.Meta.Workers
	if n < 1 || n > types.MaxWorkers {
		return nil, fmt.Errorf("worker count %d out of range [1, %d]", n, types.MaxWorkers)
	}

	dispatcher := NewDispatcher(dispatchFile, n)
	stitcher := NewStitcher(cfg.Out, re)
	reorder := NewReorderBuffer()

	// Two buffered slots per worker (one in-flight message plus the terminal
	// event), so aborted runs cannot strand a demux sender.
	events := make(chan workerEvent, 2*n)
	conns := make([]workerConn, n)
	workerErrs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		workerFile, err := os.Open(cfg.Meta.File)
		if err != nil {
			// Abort workers already started before reporting.
			for j := 0; j < i; j++ {
				conns[j].assignWriter.CloseWithError(errAborted)
			}
			wg.Wait()
			return nil, fmt.Errorf("open input file for worker %d: %w", i, err)
		}

		assignReader, assignWriter := io.Pipe()
		resultReader, resultWriter := io.Pipe()
		conns[i] = workerConn{
			assignEnc:    ipc.NewFrameEncoder(assignWriter),
			assignWriter: assignWriter,
		}

		worker := NewWorker(int32(i), workerFile,
			ipc.NewFrameDecoder(assignReader), ipc.NewFrameEncoder(resultWriter))

		wg.Add(1)
		go func(id int, f *os.File, rw *io.PipeWriter) {
			defer wg.Done()
			workerErrs[id] = worker.Run()
			// Clean close surfaces as EOF on the demux side.
			_ = rw.Close()
			_ = f.Close()
		}(i, workerFile, resultWriter)

		go demux(int32(i), resultReader, events)
	}

	cfg.Logger.Debug("scan started", map[string]any{
		"pattern": cfg.Meta.Pattern,
		"workers": n,
	})

	var (
		nextProcess int64
		terminals   int
		fatal       error
	)

	for terminals < n {
		ev := <-events

		if ev.finished {
			terminals++
			cfg.Logger.Debug("worker finished", map[string]any{"worker_id": ev.workerID})
			continue
		}
		if ev.err != nil {
			terminals++
			if fatal == nil {
				fatal = fmt.Errorf("worker %d pipe: %w", ev.workerID, ev.err)
				cfg.Collector.IncDecodeErrors()
				abort(conns)
			}
			continue
		}
		if fatal != nil {
			// Already aborting; discard messages until all pipes drain.
			continue
		}

		cfg.Collector.IncFramesDecoded()

		switch msg := ev.msg.(type) {
		case *types.RequestFrame:
			if err := serveRequest(cfg, dispatcher, conns, msg); err != nil {
				fatal = err
				abort(conns)
			}

		case *types.ResultFrame:
			nextProcess, err = absorbResult(cfg, reorder, stitcher, msg, nextProcess)
			if err != nil {
				fatal = err
				abort(conns)
			}

		default:
			fatal = fmt.Errorf("worker %d: unexpected %T on result pipe", ev.workerID, ev.msg)
			abort(conns)
		}
	}

	// All workers have terminated; nothing else will arrive. Any chunk still
	// held with its predecessor present is released now.
	if fatal == nil {
		for {
			ready := reorder.PopExpected(nextProcess)
			if ready == nil {
				break
			}
			nextProcess, err = releaseChunk(cfg, stitcher, ready)
			if err != nil {
				fatal = err
				break
			}
		}
	}
	if fatal == nil && reorder.Len() > 0 {
		fatal = fmt.Errorf("gap in chunk cover: next offset %d, held %v",
			nextProcess, reorder.Offsets())
	}

	// Trailing fragment: printed if it matches, never logged as a chunk row.
	trailingMatched := false
	if fatal == nil {
		trailingMatched, err = stitcher.Flush()
		if err != nil {
			fatal = err
		}
	}

	for i := 0; i < n; i++ {
		conns[i].assignWriter.CloseWithError(errAborted)
	}
	wg.Wait()

	if fatal == nil {
		for i, werr := range workerErrs {
			if werr != nil {
				fatal = fmt.Errorf("worker %d failed: %w", i, werr)
				break
			}
		}
	}

	cfg.Collector.AbsorbParagraphCounts(stitcher.ParagraphsEmitted(), stitcher.ParagraphsMatched())
	snapshot := cfg.Collector.Snapshot()

	if fatal != nil {
		cfg.Logger.Error("scan failed", map[string]any{"error": fatal.Error()})
		return nil, fatal
	}

	cfg.Logger.Debug("scan complete", map[string]any{
		"chunks_released":    snapshot.ChunksReleased,
		"bytes_processed":    snapshot.BytesProcessed,
		"paragraphs_matched": snapshot.ParagraphsMatched,
		"max_reorder_depth":  snapshot.MaxReorderDepth,
	})

	return &Result{
		Snapshot:        snapshot,
		TrailingMatched: trailingMatched,
		Duration:        time.Since(start),
	}, nil
}

// demux reads framed messages off one worker's result pipe and forwards them
// to the coordinator's event channel. It sends exactly one terminal event:
// finished on clean EOF, err on any frame or decode failure.
func demux(workerID int32, r *io.PipeReader, events chan<- workerEvent) {
	dec := ipc.NewFrameDecoder(r)
	for {
		payload, err := dec.ReadFrame()
		if errors.Is(err, io.EOF) {
			events <- workerEvent{workerID: workerID, finished: true}
			return
		}
		if err != nil {
			events <- workerEvent{workerID: workerID, err: err}
			return
		}
		msg, err := ipc.DecodeFrame(payload)
		if err != nil {
			events <- workerEvent{workerID: workerID, err: err}
			return
		}
		events <- workerEvent{workerID: workerID, msg: msg}
	}
}

// serveRequest answers one pull request with a range or a stop.
func serveRequest(cfg Config, d *Dispatcher, conns []workerConn, req *types.RequestFrame) error {
	assignment, send, err := d.Next(req.WorkerID)
	if err != nil {
		return err
	}
	if !send {
		return nil
	}
	if assignment.Stop {
		cfg.Collector.IncStopsSent()
	} else {
		cfg.Collector.IncAssignmentsIssued()
	}
	if err := conns[req.WorkerID].assignEnc.WriteAssignment(&assignment); err != nil {
		return fmt.Errorf("assign worker %d: %w", req.WorkerID, err)
	}
	return nil
}

// absorbResult inserts a result chunk and releases every chunk whose
// predecessors have all been processed, in strictly ascending offset order.
func absorbResult(cfg Config, reorder *ReorderBuffer, stitcher *Stitcher, msg *types.ResultFrame, nextProcess int64) (int64, error) {
	if err := reorder.Insert(types.ChunkFromResult(msg)); err != nil {
		return nextProcess, err
	}
	cfg.Collector.ObserveReorderDepth(reorder.Len())

	for {
		ready := reorder.PopExpected(nextProcess)
		if ready == nil {
			return nextProcess, nil
		}
		var err error
		nextProcess, err = releaseChunk(cfg, stitcher, ready)
		if err != nil {
			return nextProcess, err
		}
	}
}

// releaseChunk feeds one in-order chunk to the stitcher and logs its row.
func releaseChunk(cfg Config, stitcher *Stitcher, chunk *types.Chunk) (int64, error) {
	found, err := stitcher.Append(chunk.Payload)
	if err != nil {
		return chunk.Offset, err
	}

	row := types.LogRow{
		WorkerID:  chunk.WorkerID,
		Offset:    chunk.Offset,
		BytesRead: chunk.EffectiveLength(),
		Elapsed:   chunk.Elapsed,
		Found:     found,
	}
	if err := cfg.Sink.WriteRow(row); err != nil {
		return chunk.Offset, err
	}
	cfg.Collector.RecordChunkReleased(chunk.EffectiveLength(), found)

	return chunk.Offset + chunk.EffectiveLength(), nil
}

// abort unblocks every worker waiting on its assignment pipe.
// Safe to call more than once; pipe close is idempotent.
func abort(conns []workerConn) {
	for i := range conns {
		conns[i].assignWriter.CloseWithError(errAborted)
	}
}

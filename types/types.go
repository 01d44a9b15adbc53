// Package types defines the core data model shared by the scanner components.
//
// It is a leaf package with no internal dependencies. Frame structs carry
// msgpack tags because they cross the worker pipes as framed payloads.
package types

// ChunkSize is the fixed read size for both the dispatcher probe and the
// worker read. Assignments never exceed this length.
const ChunkSize = 8192

// MaxWorkers is the upper bound on the worker pool size.
const MaxWorkers = 32

// ParagraphDelimiter separates paragraphs in the input file.
var ParagraphDelimiter = []byte("\n\n")

// ScanMeta identifies a single scan run.
// Bound into the logger, the metrics snapshot, and the completion event.
type ScanMeta struct {
	// RunID is the unique identifier for this scan run.
	RunID string
	// Pattern is the user-supplied POSIX extended regular expression,
	// before word-boundary wrapping.
	Pattern string
	// File is the path of the input file.
	File string
	// Workers is the requested worker count, in [1, MaxWorkers].
	Workers int
	// Logfile is the path of the per-chunk scan log.
	Logfile string
}

// FileRange is a contiguous byte region of the input file.
// Offset+Length never exceeds the file size at the time of the read.
type FileRange struct {
	Offset int64
	Length int64
}

// Frame type discriminants carried in the "type" field of every payload.
const (
	FrameTypeRequest    = "request"
	FrameTypeResult     = "result"
	FrameTypeAssignment = "assignment"
)

// RequestFrame is the worker's pull signal: ready for more work.
type RequestFrame struct {
	Type     string `msgpack:"type"`
	WorkerID int32  `msgpack:"worker_id"`
}

// AssignmentFrame is the coordinator's reply to a request.
// Exactly one of: Stop set, or a concrete (Offset, Length) range.
type AssignmentFrame struct {
	Type   string `msgpack:"type"`
	Stop   bool   `msgpack:"stop"`
	Offset int64  `msgpack:"offset"`
	Length int64  `msgpack:"length"`
}

// Range returns the assigned byte range. Meaningless when Stop is set.
func (a *AssignmentFrame) Range() FileRange {
	return FileRange{Offset: a.Offset, Length: a.Length}
}

// ResultFrame carries a worker's read-back bytes and metrics.
// BytesRead is the usable length after newline trimming and always equals
// len(Payload).
type ResultFrame struct {
	Type           string  `msgpack:"type"`
	WorkerID       int32   `msgpack:"worker_id"`
	Offset         int64   `msgpack:"offset"`
	BytesRead      int64   `msgpack:"bytes_read"`
	ElapsedSeconds float64 `msgpack:"elapsed_seconds"`
	Payload        []byte  `msgpack:"payload"`
}

// Chunk is a coordinator-held result awaiting in-order release.
// It exclusively owns Payload from receipt until the stitcher consumes it.
type Chunk struct {
	WorkerID int32
	Offset   int64
	Elapsed  float64
	Payload  []byte
}

// EffectiveLength is the number of usable bytes in the chunk; the processing
// cursor advances by exactly this amount on release.
func (c *Chunk) EffectiveLength() int64 {
	return int64(len(c.Payload))
}

// ChunkFromResult builds a coordinator-side Chunk from a decoded result frame.
// The frame's payload is retained, not copied; the frame must not be reused.
func ChunkFromResult(frame *ResultFrame) *Chunk {
	return &Chunk{
		WorkerID: frame.WorkerID,
		Offset:   frame.Offset,
		Elapsed:  frame.ElapsedSeconds,
		Payload:  frame.Payload,
	}
}

// LogRow is one released-chunk record in the scan log.
// The json/yaml tags mirror the CSV column names for the inspection commands.
type LogRow struct {
	WorkerID  int32   `json:"process_id" yaml:"process_id"`
	Offset    int64   `json:"file_offset" yaml:"file_offset"`
	BytesRead int64   `json:"bytes_read" yaml:"bytes_read"`
	Elapsed   float64 `json:"elapsed_time" yaml:"elapsed_time"`
	Found     bool    `json:"found" yaml:"found"`
}

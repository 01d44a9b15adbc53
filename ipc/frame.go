// Package ipc implements the framed message protocol spoken on the worker pipes.
//
// Every message is a 4-byte big-endian length prefix followed by a msgpack
// payload. The payload's "type" field discriminates request, result, and
// assignment messages. The protocol is loopback-only and never persisted.
package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/paragrep-io/paragrep/types"
)

// Frame size constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4
	// MaxPayloadSize bounds a single payload: one chunk of file bytes plus
	// header slack. Anything larger is a protocol violation.
	MaxPayloadSize = types.ChunkSize + 1024
	// MaxFrameSize is the maximum frame size including the length prefix.
	MaxFrameSize = MaxPayloadSize + LengthPrefixSize
)

// FrameErrorKind classifies frame errors.
type FrameErrorKind int

const (
	// FrameErrorPartial indicates a truncated or incomplete frame.
	FrameErrorPartial FrameErrorKind = iota
	// FrameErrorTooLarge indicates a frame exceeding MaxPayloadSize.
	FrameErrorTooLarge
	// FrameErrorDecode indicates a msgpack decoding error.
	FrameErrorDecode
	// FrameErrorUnknownType indicates an unrecognized type discriminant.
	FrameErrorUnknownType
)

// FrameError represents a framing or decoding error.
type FrameError struct {
	Kind FrameErrorKind
	Msg  string
	Err  error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if this error terminates the run.
// All frame errors on the worker pipes are fatal: there is no resync.
func (e *FrameError) IsFatal() bool {
	return true
}

// IsFrameError returns true if err is (or wraps) a FrameError.
func IsFrameError(err error) bool {
	var frameErr *FrameError
	return errors.As(err, &frameErr)
}

// FrameDecoder decodes length-prefixed msgpack frames from a byte stream.
// Partial reads are absorbed by io.ReadFull; a clean zero-byte read at a
// frame boundary surfaces as io.EOF.
type FrameDecoder struct {
	reader io.Reader
}

// NewFrameDecoder creates a decoder reading from r.
func NewFrameDecoder(r io.Reader) *FrameDecoder {
	return &FrameDecoder{reader: r}
}

// ReadFrame reads a single frame and returns the raw msgpack payload.
//
// Errors:
//   - io.EOF: stream ended cleanly between frames (peer closed its end)
//   - *FrameError with Kind=FrameErrorPartial: truncated frame
//   - *FrameError with Kind=FrameErrorTooLarge: payload exceeds limit
func (d *FrameDecoder) ReadFrame() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	_, err := io.ReadFull(d.reader, lengthBuf[:])
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read length prefix",
			Err:  err,
		}
	}

	payloadSize := binary.BigEndian.Uint32(lengthBuf[:])
	if payloadSize > MaxPayloadSize {
		return nil, &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", payloadSize, MaxPayloadSize),
		}
	}

	payload := make([]byte, payloadSize)
	if _, err := io.ReadFull(d.reader, payload); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to read payload",
			Err:  err,
		}
	}

	return payload, nil
}

// FrameEncoder writes length-prefixed msgpack frames to a byte stream.
// A single Write per frame keeps prefix and payload contiguous on the pipe.
type FrameEncoder struct {
	writer io.Writer
}

// NewFrameEncoder creates an encoder writing to w.
func NewFrameEncoder(w io.Writer) *FrameEncoder {
	return &FrameEncoder{writer: w}
}

// WriteFrame writes one frame carrying the given msgpack payload.
func (e *FrameEncoder) WriteFrame(payload []byte) error {
	if len(payload) > MaxPayloadSize {
		return &FrameError{
			Kind: FrameErrorTooLarge,
			Msg:  fmt.Sprintf("payload size %d exceeds maximum %d", len(payload), MaxPayloadSize),
		}
	}

	frame := make([]byte, LengthPrefixSize+len(payload))
	binary.BigEndian.PutUint32(frame[:LengthPrefixSize], uint32(len(payload)))
	copy(frame[LengthPrefixSize:], payload)

	if _, err := e.writer.Write(frame); err != nil {
		return &FrameError{
			Kind: FrameErrorPartial,
			Msg:  "failed to write frame",
			Err:  err,
		}
	}
	return nil
}

// WriteRequest encodes and writes a request frame.
func (e *FrameEncoder) WriteRequest(workerID int32) error {
	payload, err := msgpack.Marshal(&types.RequestFrame{
		Type:     types.FrameTypeRequest,
		WorkerID: workerID,
	})
	if err != nil {
		return &FrameError{Kind: FrameErrorDecode, Msg: "failed to encode request", Err: err}
	}
	return e.WriteFrame(payload)
}

// WriteResult encodes and writes a result frame.
func (e *FrameEncoder) WriteResult(result *types.ResultFrame) error {
	result.Type = types.FrameTypeResult
	payload, err := msgpack.Marshal(result)
	if err != nil {
		return &FrameError{Kind: FrameErrorDecode, Msg: "failed to encode result", Err: err}
	}
	return e.WriteFrame(payload)
}

// WriteAssignment encodes and writes an assignment frame.
func (e *FrameEncoder) WriteAssignment(assignment *types.AssignmentFrame) error {
	assignment.Type = types.FrameTypeAssignment
	payload, err := msgpack.Marshal(assignment)
	if err != nil {
		return &FrameError{Kind: FrameErrorDecode, Msg: "failed to encode assignment", Err: err}
	}
	return e.WriteFrame(payload)
}

// frameTypeProbe peeks at the type field without a full typed decode.
type frameTypeProbe struct {
	Type string `msgpack:"type"`
}

// DecodeFrame decodes a payload into its typed message.
// Returns *types.RequestFrame, *types.ResultFrame, or *types.AssignmentFrame.
func DecodeFrame(payload []byte) (any, error) {
	var probe frameTypeProbe
	if err := msgpack.Unmarshal(payload, &probe); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode frame type",
			Err:  err,
		}
	}

	switch probe.Type {
	case types.FrameTypeRequest:
		return DecodeRequest(payload)
	case types.FrameTypeResult:
		return DecodeResult(payload)
	case types.FrameTypeAssignment:
		return DecodeAssignment(payload)
	default:
		return nil, &FrameError{
			Kind: FrameErrorUnknownType,
			Msg:  fmt.Sprintf("unknown frame type %q", probe.Type),
		}
	}
}

// DecodeRequest decodes a payload as a request frame.
func DecodeRequest(payload []byte) (*types.RequestFrame, error) {
	var frame types.RequestFrame
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode request",
			Err:  err,
		}
	}
	return &frame, nil
}

// DecodeResult decodes a payload as a result frame.
// Enforces the BytesRead == len(Payload) invariant.
func DecodeResult(payload []byte) (*types.ResultFrame, error) {
	var frame types.ResultFrame
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode result",
			Err:  err,
		}
	}
	if frame.BytesRead != int64(len(frame.Payload)) {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg: fmt.Sprintf("result bytes_read %d does not match payload length %d",
				frame.BytesRead, len(frame.Payload)),
		}
	}
	return &frame, nil
}

// DecodeAssignment decodes a payload as an assignment frame.
func DecodeAssignment(payload []byte) (*types.AssignmentFrame, error) {
	var frame types.AssignmentFrame
	if err := msgpack.Unmarshal(payload, &frame); err != nil {
		return nil, &FrameError{
			Kind: FrameErrorDecode,
			Msg:  "failed to decode assignment",
			Err:  err,
		}
	}
	return &frame, nil
}

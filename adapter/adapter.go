// Package adapter defines the notification boundary for completed scans.
//
// Adapters publish scan completion events to downstream systems. The CLI
// owns adapter lifecycle; users provide configuration only. Publish failures
// are logged and never change the scan's exit code.
package adapter

import "context"

// ScanCompletedEvent is the payload published when a scan finishes.
type ScanCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"` // always "scan_completed"
	RunID           string `json:"run_id"`
	File            string `json:"file"`
	Pattern         string `json:"pattern"`
	Workers         int    `json:"workers"`
	Outcome         string `json:"outcome"` // success or failure
	Timestamp       string `json:"timestamp"` // ISO 8601
	ChunksReleased  int64  `json:"chunks_released"`
	BytesProcessed  int64  `json:"bytes_processed"`
	ParagraphsMatched int64 `json:"paragraphs_matched"`
	DurationMs      int64  `json:"duration_ms"`
}

// Adapter publishes scan completion events to a downstream system.
// Implementations must be safe for single-use per scan.
type Adapter interface {
	// Publish sends a scan completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *ScanCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

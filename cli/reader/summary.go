package reader

import (
	"sort"

	"github.com/paragrep-io/paragrep/types"
)

// Summary aggregates a scan log for the stats command.
type Summary struct {
	Rows          int     `json:"rows" yaml:"rows"`
	TotalBytes    int64   `json:"total_bytes" yaml:"total_bytes"`
	MatchedChunks int     `json:"matched_chunks" yaml:"matched_chunks"`
	TotalElapsed  float64 `json:"total_elapsed_seconds" yaml:"total_elapsed_seconds"`
	MeanElapsed   float64 `json:"mean_elapsed_seconds" yaml:"mean_elapsed_seconds"`
	Workers       int     `json:"workers_seen" yaml:"workers_seen"`
	Ordered       bool    `json:"offsets_ordered" yaml:"offsets_ordered"`
}

// WorkerStats aggregates per-worker chunk counts.
type WorkerStats struct {
	WorkerID int32   `json:"process_id" yaml:"process_id"`
	Chunks   int     `json:"chunks" yaml:"chunks"`
	Bytes    int64   `json:"bytes" yaml:"bytes"`
	Elapsed  float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

// Summarize computes aggregate statistics over log rows.
func Summarize(rows []types.LogRow) *Summary {
	s := &Summary{Rows: len(rows), Ordered: true}
	seen := map[int32]bool{}

	var prevEnd int64
	for i, row := range rows {
		s.TotalBytes += row.BytesRead
		s.TotalElapsed += row.Elapsed
		if row.Found {
			s.MatchedChunks++
		}
		if !seen[row.WorkerID] {
			seen[row.WorkerID] = true
			s.Workers++
		}
		if i > 0 && row.Offset != prevEnd {
			s.Ordered = false
		}
		prevEnd = row.Offset + row.BytesRead
	}

	if len(rows) > 0 {
		s.MeanElapsed = s.TotalElapsed / float64(len(rows))
	}
	return s
}

// ByWorker computes per-worker aggregates, ordered by worker id.
func ByWorker(rows []types.LogRow) []WorkerStats {
	byID := map[int32]*WorkerStats{}
	var order []int32
	for _, row := range rows {
		ws, ok := byID[row.WorkerID]
		if !ok {
			ws = &WorkerStats{WorkerID: row.WorkerID}
			byID[row.WorkerID] = ws
			order = append(order, row.WorkerID)
		}
		ws.Chunks++
		ws.Bytes += row.BytesRead
		ws.Elapsed += row.Elapsed
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	stats := make([]WorkerStats, 0, len(order))
	for _, id := range order {
		stats = append(stats, *byID[id])
	}
	return stats
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records the headline figures of one past optimization.
type HistoryEntry struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Efficiency     string         `json:"efficiency"`
	TotalBins      int            `json:"total_bins"`
	ResolvedLength ResolvedLength `json:"resolved_length"`
	TotalWaste     float64        `json:"total_waste"`
}

// NewHistoryEntry summarizes a plan computed at the given time.
func NewHistoryEntry(p Plan, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:             uuid.New().String()[:8],
		Timestamp:      at.UTC(),
		Efficiency:     p.Efficiency,
		TotalBins:      p.TotalBins,
		ResolvedLength: p.ResolvedLength,
		TotalWaste:     p.TotalWaste,
	}
}

// PushHistory puts entry in front of entries and drops the oldest ones beyond limit.
// A non-positive limit falls back to DefaultHistoryLimit.
func PushHistory(entries []HistoryEntry, entry HistoryEntry, limit int) []HistoryEntry {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	out := make([]HistoryEntry, 0, len(entries)+1)
	out = append(out, entry)
	out = append(out, entries...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

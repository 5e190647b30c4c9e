package model

import "time"

// JournalEntry records the outcome of one item of a rollout run.
type JournalEntry struct {
	RunID      string     `json:"runId"`
	Operation  string     `json:"operation"`
	Status     SyncStatus `json:"status"`
	RecordedAt time.Time  `json:"recordedAt"`
}

package cmd

import (
	"sync"

	m "livesync.dev/pkg/livesync/internal/model"
	"livesync.dev/pkg/livesync/pkg"
)

// journalRecorder writes the statuses of the current run into a fresh journal.
// The journal file is created on the first Record call after construction or Close.
type journalRecorder struct {
	path    string
	mu      sync.Mutex
	journal pkg.Journal[m.JournalEntry]
}

func newJournalRecorder(path string) *journalRecorder {
	return &journalRecorder{path: path}
}

// Record implements domain.StatusRecorder.
func (r *journalRecorder) Record(entries []m.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.journal == nil {
		journal, err := pkg.NewJournal[m.JournalEntry](r.path)
		if err != nil {
			return err
		}

		r.journal = journal
	}

	return r.journal.AppendBatch(entries)
}

// Close closes the journal if one was created.
func (r *journalRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.journal == nil {
		return nil
	}

	err := r.journal.Close()
	r.journal = nil

	return err
}

// readJournal loads every entry of the journal at path.
func readJournal(path string) ([]m.JournalEntry, error) {
	journal, err := pkg.OpenJournal[m.JournalEntry](path)
	if err != nil {
		return nil, err
	}

	entries := make([]m.JournalEntry, 0, journal.Len())

	err = journal.Range(func(_ uint64, entry m.JournalEntry) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

package ports

import "go.trai.ch/livepush/internal/core/domain"

//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks

// HistoryStore keeps a local record of saves.
type HistoryStore interface {
	// Record appends a save to the history.
	Record(entry domain.HistoryEntry) error
	// List returns the recorded saves, newest first.
	List() ([]domain.HistoryEntry, error)
}

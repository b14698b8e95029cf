package registrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lumen-meetup/backend/internal/models"
)

// Snapshot is the full current registration list at a point in time. Every
// broadcast tick re-sends a whole snapshot; there is no diffing.
type Snapshot struct {
	Registrations []models.Registration `json:"registrations"`
}

// Speakers returns the subset of the snapshot that registered as speakers.
func (s Snapshot) Speakers() []models.Registration {
	var speakers []models.Registration
	for _, reg := range s.Registrations {
		if reg.IsSpeaker {
			speakers = append(speakers, reg)
		}
	}
	return speakers
}

// SnapshotReader produces registration snapshots from the store.
type SnapshotReader struct {
	store  Store
	logger *zap.Logger
}

// NewSnapshotReader creates a snapshot reader.
func NewSnapshotReader(store Store, logger *zap.Logger) *SnapshotReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotReader{store: store, logger: logger}
}

// Snapshot reads the current registration list. On a store failure it logs,
// returns an empty snapshot and the error: page-style callers may keep the
// empty result, while a broadcast session treats the error as terminal.
func (r *SnapshotReader) Snapshot(ctx context.Context) (Snapshot, error) {
	regs, err := r.store.ListAll(ctx)
	if err != nil {
		r.logger.Warn("snapshot read failed", zap.Error(err))
		return Snapshot{Registrations: []models.Registration{}}, fmt.Errorf("snapshot: %w", err)
	}
	if regs == nil {
		regs = []models.Registration{}
	}
	return Snapshot{Registrations: regs}, nil
}

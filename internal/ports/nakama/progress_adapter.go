package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"constellation/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	progressCollection = "progress"
	progressKey        = "solved_v1"

	// markSolvedAttempts bounds retries when a concurrent write wins the version race.
	markSolvedAttempts = 3
)

// solvedEntry is one solved constellation in the stored progress record.
type solvedEntry struct {
	ConstellationID string `json:"constellation_id"`
	SolvedAt        string `json:"solved_at"`
}

type progressRecord struct {
	Solved []solvedEntry `json:"solved"`
}

func (r *progressRecord) has(constellationID string) bool {
	for _, e := range r.Solved {
		if e.ConstellationID == constellationID {
			return true
		}
	}
	return false
}

// NakamaProgressAdapter stores solved constellations in Nakama storage.
// Writes use the object version so concurrent completions never drop an entry.
type NakamaProgressAdapter struct {
	nk  runtime.NakamaModule
	now func() time.Time
}

// NewNakamaProgressAdapter creates a new progress adapter.
func NewNakamaProgressAdapter(nk runtime.NakamaModule) *NakamaProgressAdapter {
	return &NakamaProgressAdapter{nk: nk, now: time.Now}
}

// MarkSolved appends the constellation to the user's record if it is not there yet.
func (a *NakamaProgressAdapter) MarkSolved(ctx context.Context, userID, constellationID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}

	for attempt := 0; attempt < markSolvedAttempts; attempt++ {
		record, version, err := a.read(ctx, userID)
		if err != nil {
			return false, err
		}
		if record.has(constellationID) {
			return false, nil
		}

		record.Solved = append(record.Solved, solvedEntry{
			ConstellationID: constellationID,
			SolvedAt:        a.now().UTC().Format(time.RFC3339),
		})
		err = a.write(ctx, userID, record, version)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, err
		}
	}
	return false, fmt.Errorf("failed to record progress for %s: too many concurrent writes", userID)
}

// Solved lists the user's solved constellation ids in solve order.
func (a *NakamaProgressAdapter) Solved(ctx context.Context, userID string) ([]string, error) {
	record, _, err := a.read(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(record.Solved))
	for _, e := range record.Solved {
		ids = append(ids, e.ConstellationID)
	}
	return ids, nil
}

// Init writes an empty record unless one already exists.
func (a *NakamaProgressAdapter) Init(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID is required")
	}
	err := a.write(ctx, userID, &progressRecord{Solved: []solvedEntry{}}, "")
	if err != nil && !errors.Is(err, runtime.ErrStorageRejectedVersion) {
		return err
	}
	return nil
}

// read returns the stored record and its version. A missing record yields an
// empty record and an empty version.
func (a *NakamaProgressAdapter) read(ctx context.Context, userID string) (*progressRecord, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: progressCollection,
			Key:        progressKey,
			UserID:     userID,
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read progress: %w", err)
	}

	record := &progressRecord{}
	if len(objects) == 0 {
		return record, "", nil
	}
	if err := json.Unmarshal([]byte(objects[0].Value), record); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal progress: %w", err)
	}
	return record, objects[0].Version, nil
}

// write stores the record. An empty version only succeeds if no record exists yet.
func (a *NakamaProgressAdapter) write(ctx context.Context, userID string, record *progressRecord, version string) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	if version == "" {
		version = "*"
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      progressCollection,
			Key:             progressKey,
			UserID:          userID,
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return err
		}
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}

var _ ports.ProgressPort = (*NakamaProgressAdapter)(nil)

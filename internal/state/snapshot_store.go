package state

import (
	"encoding/json"
	"fmt"

	"github.com/crestdex/crest/internal/types"
)

// EngineSnapshot pairs the two engine summaries taken at the same instant.
type EngineSnapshot struct {
	SnapshotID int64             `json:"snapshot_id"`
	Pool       types.PoolSummary `json:"pool"`
	Farm       types.FarmSummary `json:"farm"`
}

// SaveEngineSnapshot persists a point-in-time view of both engines and
// returns the snapshot ID.
func SaveEngineSnapshot(pool types.PoolSummary, farm types.FarmSummary) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	poolJSON, err := json.Marshal(pool)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal pool summary: %w", err)
	}
	farmJSON, err := json.Marshal(farm)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal farm summary: %w", err)
	}

	const insertSQL = `
		INSERT INTO engine_snapshots (pool_summary, farm_summary)
		VALUES ($1, $2)
		RETURNING snapshot_id
	`
	var snapshotID int64
	if err := DB.QueryRow(insertSQL, poolJSON, farmJSON).Scan(&snapshotID); err != nil {
		return 0, fmt.Errorf("failed to insert engine snapshot: %w", err)
	}
	return snapshotID, nil
}

// GetLatestSnapshot returns the most recent engine snapshot, or an error if
// none has been taken yet.
func GetLatestSnapshot() (*EngineSnapshot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	const querySQL = `
		SELECT snapshot_id, pool_summary, farm_summary
		FROM engine_snapshots
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		snap               EngineSnapshot
		poolJSON, farmJSON []byte
	)
	if err := DB.QueryRow(querySQL).Scan(&snap.SnapshotID, &poolJSON, &farmJSON); err != nil {
		return nil, fmt.Errorf("failed to load latest engine snapshot: %w", err)
	}
	if err := json.Unmarshal(poolJSON, &snap.Pool); err != nil {
		return nil, fmt.Errorf("corrupt pool summary in snapshot %d: %w", snap.SnapshotID, err)
	}
	if err := json.Unmarshal(farmJSON, &snap.Farm); err != nil {
		return nil, fmt.Errorf("corrupt farm summary in snapshot %d: %w", snap.SnapshotID, err)
	}
	return &snap, nil
}

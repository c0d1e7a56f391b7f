package table

import (
	"context"
	"database/sql"

	"github.com/sonnh58/lieng.wtf/pkg/db"
)

// SaveSnapshot stores the serialized live state for the room
// An existing snapshot for the room is replaced.
func (r *Room) SaveSnapshot(ctx context.Context, data []byte) error {
	const query = `
INSERT INTO room_snapshots (room_uuid, data)
VALUES ($1, $2)
ON CONFLICT (room_uuid) DO UPDATE
SET data = EXCLUDED.data, updated = (NOW() AT TIME ZONE 'UTC')`

	_, err := db.Instance().ExecContext(ctx, query, r.UUID, data)
	return err
}

// LoadSnapshot returns the stored live state for the room, or nil if none exists
func (r *Room) LoadSnapshot(ctx context.Context) ([]byte, error) {
	const query = `
SELECT data
FROM room_snapshots
WHERE room_uuid = $1`

	var data []byte
	if err := db.Instance().QueryRowContext(ctx, query, r.UUID).Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return data, nil
}

// DeleteSnapshot removes the stored live state for the room
func (r *Room) DeleteSnapshot(ctx context.Context) error {
	const query = `
DELETE FROM room_snapshots
WHERE room_uuid = $1`

	_, err := db.Instance().ExecContext(ctx, query, r.UUID)
	return err
}

// ActiveSnapshots returns every room that has a stored live state
// Used on boot to resume rounds that were in flight when the server stopped.
func ActiveSnapshots(ctx context.Context) (map[string][]byte, error) {
	const query = `
SELECT room_uuid, data
FROM room_snapshots`

	rows, err := db.Instance().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make(map[string][]byte)
	for rows.Next() {
		var roomUUID string
		var data []byte
		if err := rows.Scan(&roomUUID, &data); err != nil {
			return nil, err
		}

		snapshots[roomUUID] = data
	}

	return snapshots, nil
}

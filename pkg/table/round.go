package table

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/pkg/db"
)

// Round is a record in the `rounds` table
type Round struct {
	ID          int64
	RoomUUID    string
	RoundNumber int
	data        interface{}
	Created     time.Time
	Ended       time.Time
}

const roundColumns = `id, room_uuid, round_number, data, created, ended`

// RoundByID returns a round object by its ID
func RoundByID(ctx context.Context, id int64) (*Round, error) {
	const query = `
SELECT ` + roundColumns + `
FROM rounds
WHERE id = $1`
	row := db.Instance().QueryRowContext(ctx, query, id)
	return roundByRow(row)
}

// OpenRound returns the room's round still in flight, or nil if the
// last round already ended
func (r *Room) OpenRound(ctx context.Context) (*Round, error) {
	const query = `
SELECT ` + roundColumns + `
FROM rounds
WHERE room_uuid = $1
  AND ended IS NULL
ORDER BY id DESC
LIMIT 1`

	round, err := roundByRow(db.Instance().QueryRowContext(ctx, query, r.UUID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return round, nil
}

func roundByRow(row db.Scanner) (*Round, error) {
	var r Round
	var data []byte
	var ended sql.NullTime

	if err := row.Scan(&r.ID, &r.RoomUUID, &r.RoundNumber, &data, &r.Created, &ended); err != nil {
		return nil, err
	}

	if data != nil {
		if err := json.Unmarshal(data, &r.data); err != nil {
			return nil, err
		}
	}

	r.Ended = ended.Time

	return &r, nil
}

// End will end the round, store the result data, and settle the table
// Each payout is applied to the player's chip balance through the chips_log
// ledger, and the win/loss tally is updated for everyone who was dealt in.
func (r *Round) End(ctx context.Context, data interface{}, payouts map[int64]int, winners map[int64]bool) error {
	room, err := GetRoomByUUID(ctx, r.RoomUUID)
	if err != nil {
		return err
	}

	players, err := room.GetPlayers(ctx)
	if err != nil {
		return err
	}

	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	commit := false
	defer func() {
		if !commit {
			if err := tx.Rollback(); err != nil {
				logrus.WithError(err).Error("could not rollback transaction")
			}
			return
		}

		if err := tx.Commit(); err != nil {
			logrus.WithError(err).Error("could not commit transaction")
		}
	}()

	r.data = data
	const query = `
UPDATE rounds
SET data = $1, ended = NOW() AT TIME ZONE 'UTC'
WHERE id = $2
RETURNING ended`

	b, err := json.Marshal(data)
	if err != nil {
		return err
	}

	row := tx.QueryRowContext(ctx, query, b, r.ID)
	var ended time.Time
	if err := row.Scan(&ended); err != nil {
		return err
	}

	chipsStmt, err := tx.PrepareContext(ctx, "SELECT adjust_chips($1, $2, $3, $4, $5)")
	if err != nil {
		return err
	}

	const tallyQuery = `
UPDATE players_rooms
SET wins = wins + $1, losses = losses + $2, pnl = pnl + $3, updated = (NOW() AT TIME ZONE 'UTC')
WHERE id = $4`
	tallyStmt, err := tx.PrepareContext(ctx, tallyQuery)
	if err != nil {
		return err
	}

	for _, player := range players {
		change, found := payouts[player.PlayerID]
		if !found {
			// the player sat this round out
			continue
		}

		if _, err := chipsStmt.ExecContext(ctx, player.ID, player.Chips, change, r.ID, "round ended"); err != nil {
			return err
		}

		wins, losses := 0, 1
		if winners[player.PlayerID] {
			wins, losses = 1, 0
		}

		if _, err := tallyStmt.ExecContext(ctx, wins, losses, change, player.ID); err != nil {
			return err
		}
	}

	commit = true
	r.Ended = ended
	return nil
}

package table

import (
	"context"
	"time"

	"github.com/sonnh58/lieng.wtf/pkg/db"
)

const playerRoomColumns = `
players_rooms.id,
players_rooms.player_id,
players_rooms.room_uuid,
players_rooms.is_room_admin,
players_rooms.chips,
players_rooms.wins,
players_rooms.losses,
players_rooms.pnl,
players_rooms.active,
players_rooms.created,
players_rooms.updated`

// PlayerRoom represents a row in the players_rooms table
type PlayerRoom struct {
	Player      *Player   `json:"player"`
	PlayerID    int64     `json:"playerId"`
	RoomUUID    string    `json:"roomUuid"`
	ID          int64     `json:"id"`
	IsRoomAdmin bool      `json:"isRoomAdmin"`
	Chips       int       `json:"chips"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	PnL         int       `json:"pnl"`
	Active      bool      `json:"active"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
}

func getPlayerRoomByRow(row db.Scanner) (*PlayerRoom, error) {
	var p Player
	var pr PlayerRoom

	if err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.IsSiteAdmin, &p.Verified, &p.passwordHash, &p.Created, &p.Updated,
		&pr.ID, &pr.PlayerID, &pr.RoomUUID, &pr.IsRoomAdmin, &pr.Chips, &pr.Wins, &pr.Losses, &pr.PnL,
		&pr.Active, &pr.Created, &pr.Updated); err != nil {
		return nil, err
	}

	pr.Player = &p

	return &pr, nil
}

// AdjustChips will adjust the player's chip balance in the room
// The change is recorded in the chips_log ledger with an optional round reference
func (p *PlayerRoom) AdjustChips(ctx context.Context, byAmount int, reason string, round *Round) error {
	const query = `SELECT adjust_chips($1, $2, $3, $4, $5)`
	var roundID *int64
	if round != nil {
		roundID = &round.ID
	}

	_, err := db.Instance().ExecContext(ctx, query, p.ID, p.Chips, byAmount, roundID, reason)
	if err != nil {
		return err
	}

	p.Chips += byAmount

	return nil
}

// SetActive sets the active state for the player room record in the database
func (p *PlayerRoom) SetActive(ctx context.Context, active bool) error {
	const query = `
UPDATE players_rooms
SET active = $1, updated = (NOW() AT TIME ZONE 'UTC')
WHERE id = $2`
	execContext, err := db.Instance().ExecContext(ctx, query, active, p.ID)
	if err != nil {
		return err
	}

	if ra, _ := execContext.RowsAffected(); ra > 0 {
		p.Active = active
	}

	return nil
}

// Save will save non-chip values
func (p *PlayerRoom) Save(ctx context.Context) error {
	const query = `
UPDATE players_rooms
SET is_room_admin = $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $2`

	_, err := db.Instance().ExecContext(ctx, query, p.IsRoomAdmin, p.ID)
	return err
}

package table

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/pkg/db"
	"github.com/sonnh58/lieng.wtf/pkg/lieng"
	"github.com/sonnh58/lieng.wtf/pkg/token"
)

// roomCreationCoolDown is how long non-admins must wait before creating another room
const roomCreationCoolDown = time.Minute

// joinCodeLength is the length of the shareable room join code
const joinCodeLength = 8

const roomColumns = `
rooms.uuid,
rooms.name,
rooms.join_code,
rooms.player_id,
rooms.options,
rooms.created`

// ErrPlayerNotInRoom happens when the player is not a member of the room
var ErrPlayerNotInRoom = errors.New("player is not a member of the room")

// Room represents a Liêng room
// A room has many players and plays many rounds with one rule set
type Room struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	JoinCode string `json:"joinCode"`
	// PlayerID is who created the room
	PlayerID int64         `json:"playerId"`
	Options  lieng.Options `json:"options"`
	Created  time.Time     `json:"created"`
}

// WithChips extends the Room object to include the player's chip balance
type WithChips struct {
	*Room
	Chips int `json:"chips"`
}

// CreateRoom creates a new room and seats the creator as its admin
func (p *Player) CreateRoom(ctx context.Context, name string, opts lieng.Options) (*Room, error) {
	if err := p.canCreateRoom(ctx); err != nil {
		return nil, err
	}

	optionsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, err
	}

	joinCode, err := token.Generate(joinCodeLength)
	if err != nil {
		return nil, err
	}

	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	u := uuid.New().String()
	const query = `
INSERT INTO rooms (uuid, name, join_code, player_id, options)
VALUES ($1, $2, $3, $4, $5)
RETURNING created
`
	var created time.Time
	row := tx.QueryRowContext(ctx, query, u, name, joinCode, p.ID, optionsJSON)
	if err := row.Scan(&created); err != nil {
		rollback(tx)
		return nil, err
	}

	const query2 = `
INSERT INTO players_rooms (player_id, room_uuid, chips, is_room_admin)
VALUES ($1, $2, $3, true)`
	if _, err = tx.ExecContext(ctx, query2, p.ID, u, opts.StartingChips); err != nil {
		rollback(tx)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Room{
		UUID:     u,
		Name:     name,
		JoinCode: joinCode,
		PlayerID: p.ID,
		Options:  opts,
		Created:  created,
	}, nil
}

// canCreateRoom will see if the player is allowed to create a room
// returns nil if the player can create a room
func (p *Player) canCreateRoom(ctx context.Context) error {
	// site admins can always create a room
	if p.IsSiteAdmin {
		return nil
	}

	const query = `
SELECT COUNT(*)
FROM rooms
WHERE player_id = $1
  AND created >= $2 AT TIME ZONE 'UTC'`

	row := db.Instance().QueryRowContext(ctx, query, p.ID, time.Now().In(time.UTC).Add(roomCreationCoolDown*-1))
	var count int
	if err := row.Scan(&count); err != nil {
		return err
	}

	if count > 0 {
		return UserError("you must wait before you create another room")
	}

	return nil
}

func getRoomByRow(row db.Scanner, additionalColumns ...interface{}) (*Room, error) {
	var r Room
	var optionsJSON []byte
	columns := []interface{}{
		&r.UUID,
		&r.Name,
		&r.JoinCode,
		&r.PlayerID,
		&optionsJSON,
		&r.Created,
	}

	if len(additionalColumns) > 0 {
		columns = append(columns, additionalColumns...)
	}

	if err := row.Scan(columns...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(optionsJSON, &r.Options); err != nil {
		return nil, err
	}

	return &r, nil
}

// GetRoomByUUID returns a room by its UUID
func GetRoomByUUID(ctx context.Context, uuid string) (*Room, error) {
	const query = `
SELECT ` + roomColumns + `
FROM rooms
WHERE uuid = $1`

	row := db.Instance().QueryRowContext(ctx, query, uuid)
	return getRoomByRow(row)
}

// GetRoomByJoinCode returns a room by its shareable join code
func GetRoomByJoinCode(ctx context.Context, joinCode string) (*Room, error) {
	const query = `
SELECT ` + roomColumns + `
FROM rooms
WHERE join_code = $1`

	row := db.Instance().QueryRowContext(ctx, query, joinCode)
	return getRoomByRow(row)
}

// GetPlayers returns all players in the room in seating order
func (r *Room) GetPlayers(ctx context.Context) ([]*PlayerRoom, error) {
	const query = `
SELECT ` + playerColumns + `, ` + playerRoomColumns + `
FROM players_rooms
INNER JOIN players ON players_rooms.player_id = players.id
WHERE players_rooms.room_uuid = $1
ORDER BY players_rooms.id`

	rows, err := db.Instance().QueryContext(ctx, query, r.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*PlayerRoom, 0)
	for rows.Next() {
		p, err := getPlayerRoomByRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, p)
	}

	return records, nil
}

// CreateRound records the start of a new round for the room
func (r *Room) CreateRound(ctx context.Context, roundNumber int) (*Round, error) {
	const query = `
INSERT INTO rounds (room_uuid, round_number)
VALUES ($1, $2)
RETURNING ` + roundColumns

	row := db.Instance().QueryRowContext(ctx, query, r.UUID, roundNumber)
	return roundByRow(row)
}

// GetRoundsCount returns the number of rounds played in the room
func (r *Room) GetRoundsCount(ctx context.Context) (int64, error) {
	const query = `
SELECT COUNT(id)
FROM rounds
WHERE room_uuid = $1`

	var count int64
	if err := db.Instance().QueryRowContext(ctx, query, r.UUID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		logrus.WithError(err).Error("could not rollback transaction")
	}
}

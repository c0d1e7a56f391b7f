package table

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sonnh58/lieng.wtf/pkg/db"
	"github.com/synacor/argon2id"
)

const playerColumns = `
players.id,
players.email,
players.display_name,
players.is_site_admin,
players.verified,
players.password_hash,
players.created,
players.updated`

const pqDuplicateKeyErrorCode pq.ErrorCode = "23505"

// ErrInvalidEmailOrPassword is an error for an invalid email or password
var ErrInvalidEmailOrPassword = errors.New("invalid email address and/or password")

// ErrDuplicateKey happens if a user tries to create a player with a taken email
var ErrDuplicateKey = errors.New("duplicate key constraint violation")

// ErrAccountNotVerified is an error if the user tries to log in without being verified
var ErrAccountNotVerified = UserError("account not verified")

// Player is a record in the `players` table
type Player struct {
	ID           int64  `json:"id"`
	Email        string `json:"-"`
	DisplayName  string `json:"displayName"`
	IsSiteAdmin  bool   `json:"isSiteAdmin"`
	Verified     bool   `json:"verified"`
	passwordHash string
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}

func getPlayerByRow(row db.Scanner) (*Player, error) {
	var player Player
	if err := row.Scan(&player.ID, &player.Email, &player.DisplayName, &player.IsSiteAdmin, &player.Verified, &player.passwordHash, &player.Created, &player.Updated); err != nil {
		return nil, err
	}

	return &player, nil
}

// GetPlayerByID returns player based on the ID
func GetPlayerByID(ctx context.Context, id int64) (*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE id = $1`

	row := db.Instance().QueryRowContext(ctx, query, id)
	return getPlayerByRow(row)
}

// GetPlayerByEmail will return a player by the email address
func GetPlayerByEmail(ctx context.Context, email string) (*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
WHERE lower(email) = lower($1)`

	row := db.Instance().QueryRowContext(ctx, query, email)
	return getPlayerByRow(row)
}

// GetPlayerByEmailAndPassword will return a player if the email and password are valid
func GetPlayerByEmailAndPassword(ctx context.Context, email, password string) (*Player, error) {
	player, err := GetPlayerByEmail(ctx, email)
	if err != nil {
		if err == sql.ErrNoRows {
			// prevent timing attacks
			_ = argon2id.Compare("", "")
			return nil, ErrInvalidEmailOrPassword
		}

		return nil, err
	}

	if err := argon2id.Compare(player.passwordHash, password); err != nil {
		return nil, ErrInvalidEmailOrPassword
	}

	if !player.Verified {
		return nil, ErrAccountNotVerified
	}

	return player, nil
}

// LastPlayerCreatedAt returns the last time a player was created by the remote address
// If a player hasn't been created yet, this will return a nil error and a time.Time{} object (i.e., zero)
func LastPlayerCreatedAt(ctx context.Context, remoteAddr string) (time.Time, error) {
	const query = `
SELECT MAX(created)
FROM players
WHERE remote_addr = $1`

	var created sql.NullTime
	if err := db.Instance().QueryRowContext(ctx, query, remoteAddr).Scan(&created); err != nil {
		return time.Time{}, err
	}

	return created.Time, nil
}

// CreatePlayer creates a new player
func CreatePlayer(ctx context.Context, email, displayName, password, remoteAddr string) (*Player, error) {
	hashPassword, err := argon2id.DefaultHashPassword(password)
	if err != nil {
		return nil, err
	}

	const query = `
INSERT INTO players (email, display_name, password_hash, remote_addr)
VALUES ($1, $2, $3, $4)
RETURNING ` + playerColumns

	row := db.Instance().QueryRowContext(ctx, query, email, displayName, hashPassword, remoteAddr)
	player, err := getPlayerByRow(row)
	if err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == pqDuplicateKeyErrorCode {
			return nil, ErrDuplicateKey
		}

		return nil, err
	}

	return player, nil
}

// Save will persist any changes made to the player to the database
func (p *Player) Save(ctx context.Context) error {
	const query = `
UPDATE players
SET email = $1,
    display_name = $2,
    is_site_admin = $3,
    verified = $4,
    updated = (NOW() AT TIME ZONE 'utc')
WHERE id = $5`

	_, err := db.Instance().ExecContext(ctx, query, p.Email, p.DisplayName, p.IsSiteAdmin, p.Verified, p.ID)
	return err
}

// SetPassword will set a new password
func (p *Player) SetPassword(password string) error {
	newHash, err := argon2id.DefaultHashPassword(password)
	if err != nil {
		return err
	}

	const query = `
UPDATE players
SET password_hash = $1, updated = (NOW() AT TIME ZONE 'UTC')
WHERE id = $2`

	_, err = db.Instance().Exec(query, newHash, p.ID)
	return err
}

// SetIsSiteAdmin sets whether the player is a site admin
func (p *Player) SetIsSiteAdmin(ctx context.Context, isSiteAdmin bool) error {
	if p.IsSiteAdmin == isSiteAdmin {
		return nil
	}

	const query = `
UPDATE players
SET is_site_admin = $1, updated = (NOW() AT TIME ZONE 'UTC')
WHERE id = $2
RETURNING updated`

	var updated sql.NullTime
	if err := db.Instance().QueryRowContext(ctx, query, isSiteAdmin, p.ID).Scan(&updated); err != nil {
		return err
	}

	p.IsSiteAdmin = isSiteAdmin
	p.Updated = updated.Time
	return nil
}

func getPlayers(rows *sql.Rows, err error) ([]*Player, error) {
	if err != nil {
		return nil, err
	}

	players := make([]*Player, 0)
	for rows.Next() {
		player, err := getPlayerByRow(rows)
		if err != nil {
			return nil, err
		}

		players = append(players, player)
	}

	return players, nil
}

// GetPlayers returns a list of players
func GetPlayers(ctx context.Context, offset int64, limit int) ([]*Player, error) {
	const query = `
SELECT ` + playerColumns + `
FROM players
ORDER BY id ASC
OFFSET $1
LIMIT $2`

	return getPlayers(db.Instance().QueryContext(ctx, query, offset, limit))
}

// GetPlayerRoom gets the PlayerRoom record for the associated room
func (p *Player) GetPlayerRoom(ctx context.Context, room *Room) (*PlayerRoom, error) {
	const query = `
SELECT ` + playerColumns + `, ` + playerRoomColumns + `
FROM players_rooms
INNER JOIN players ON players_rooms.player_id = players.id
WHERE players_rooms.player_id = $1 AND players_rooms.room_uuid = $2`

	row := db.Instance().QueryRowContext(ctx, query, p.ID, room.UUID)
	pr, err := getPlayerRoomByRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlayerNotInRoom
		}
		return nil, err
	}

	return pr, nil
}

// Join joins the room with the room's starting chips
func (p *Player) Join(ctx context.Context, room *Room) (*PlayerRoom, error) {
	const query = `
WITH pr AS (
	INSERT INTO players_rooms (player_id, room_uuid, chips)
	VALUES ($1, $2, $3)
	RETURNING *
)
SELECT ` + playerColumns + `, ` + playerRoomColumns + `
FROM pr AS players_rooms
INNER JOIN players ON players_rooms.player_id = players.id
`
	row := db.Instance().QueryRowContext(ctx, query, p.ID, room.UUID, room.Options.StartingChips)

	pr, err := getPlayerRoomByRow(row)
	if err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == pqDuplicateKeyErrorCode {
			return nil, ErrDuplicateKey
		}

		return nil, err
	}

	return pr, nil
}

// GetRooms returns a list of rooms the player belongs to
func (p *Player) GetRooms(ctx context.Context, offset int64, limit int) ([]*WithChips, error) {
	const query = `
SELECT ` + roomColumns + `, players_rooms.chips
FROM rooms
INNER JOIN players_rooms ON rooms.uuid = players_rooms.room_uuid
WHERE players_rooms.player_id = $1
ORDER BY players_rooms.id DESC
OFFSET $2
LIMIT $3`

	rows, err := db.Instance().QueryContext(ctx, query, p.ID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*WithChips, 0)
	for rows.Next() {
		var chips int
		room, err := getRoomByRow(rows, &chips)
		if err != nil {
			return nil, err
		}

		records = append(records, &WithChips{
			Room:  room,
			Chips: chips,
		})
	}

	return records, nil
}

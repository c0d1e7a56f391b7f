package room

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/internal/config"
	"github.com/sonnh58/lieng.wtf/pkg/lieng"
	"github.com/sonnh58/lieng.wtf/pkg/table"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
)

// Host is responsible for running a single room: it owns the Liêng
// engine, fans engine events out to the connected clients, and settles
// each finished round against the database.
type Host struct {
	lobby   *Lobby
	room    *table.Room
	clients map[*Client]bool
	lock    sync.RWMutex

	game  *lieng.Game
	round *table.Round
	clock quartz.Clock

	// lastWinner gets the dealer seat next round
	lastWinner int64

	// activeRound mirrors the engine's round state for readers
	// outside the run loop
	activeRound atomic.Bool

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

// NewHost creates a new host for the room
// This is called from a blocking state, so it needs to return quickly
func NewHost(lobby *Lobby, room *table.Room) (*Host, error) {
	game, err := lieng.NewGame(logrus.WithField("room", room.UUID), room.Options)
	if err != nil {
		return nil, err
	}

	h := newHost(lobby, room, game)
	return h, nil
}

// NewHostFromSnapshot recreates a host whose round was in flight when
// the server last stopped. The open round record is reattached so the
// settlement still lands in the right row.
func NewHostFromSnapshot(ctx context.Context, lobby *Lobby, room *table.Room, snapshot *lieng.Snapshot) (*Host, error) {
	game, err := lieng.RestoreFromSnapshot(logrus.WithField("room", room.UUID), snapshot, room.Options)
	if err != nil {
		return nil, err
	}

	h := newHost(lobby, room, game)

	if game.InActiveRound() {
		round, err := room.OpenRound(ctx)
		if err != nil {
			return nil, err
		}

		h.round = round
		h.activeRound.Store(true)
	}

	return h, nil
}

func newHost(lobby *Lobby, room *table.Room, game *lieng.Game) *Host {
	h := &Host{
		lobby:         lobby,
		room:          room,
		clients:       make(map[*Client]bool),
		game:          game,
		clock:         quartz.NewReal(),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}

	game.SetDispatch(func(fn func()) {
		h.execInRunLoop <- func() {
			fn()
			h.saveSnapshot()
		}
	})

	return h
}

// Clients will return a slice of connected (at the time) clients
func (h *Host) Clients() []*Client {
	h.lock.RLock()
	defer h.lock.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}

	return clients
}

// InActiveRound reports whether the room has a round in flight.
// Safe to call from outside the run loop.
func (h *Host) InActiveRound() bool {
	return h.activeRound.Load()
}

// StartShift starts the run loop
func (h *Host) StartShift() {
	go h.runLoop()
}

// ResumeRound re-arms the turn timer of a restored round
func (h *Host) ResumeRound() {
	h.execInRunLoop <- func() {
		h.game.ResumeTimers()
	}
}

func (h *Host) runLoop() {
	log := logrus.WithFields(logrus.Fields{
		"uuid": h.room.UUID,
		"name": h.room.Name,
	})

	log.Debug("creating host run loop")
	for {
		select {
		case event := <-h.game.Events():
			h.handleGameEvent(event)
		case s := <-h.stateChanged:
			switch s {
			case stateClientEvent:
				h.sendPlayerData()
			case stateGameEvent:
				h.sendGameData()
			}
		case fn := <-h.execInRunLoop:
			fn()
		case <-h.close:
			log.Debug("terminating host run loop")
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (h *Host) AddClient(client *Client) {
	h.lock.Lock()
	client.host = h
	h.clients[client] = true
	h.lock.Unlock()

	h.stateChanged <- stateClientEvent
	h.execInRunLoop <- func() {
		client.Send(&Response{
			Key:  "game",
			Data: h.game.GetStateForPlayer(client.player.ID),
		})
	}
}

// RemoveClient removes a client
// This method must return quickly
func (h *Host) RemoveClient(client *Client) (lastClient bool) {
	h.lock.Lock()
	delete(h.clients, client)
	nClients := len(h.clients)
	h.lock.Unlock()

	if nClients > 0 {
		h.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// EndShift is called when the host is no longer needed
func (h *Host) EndShift() {
	close(h.close)
}

// NOTE: must only be called from the run loop
func (h *Host) handleGameEvent(event lieng.Event) {
	h.broadcast(&Response{
		Key:  event.Key(),
		Data: event,
	})

	if ev, ok := event.(lieng.RoundEndedEvent); ok {
		h.finishRound(ev.Result)
	}

	h.sendGameData()
}

// finishRound settles the finished round: the result is written to the
// round record, each payout lands in the wallet ledger, and the crash
// recovery snapshot is discarded.
// NOTE: must only be called from the run loop
func (h *Host) finishRound(result *lieng.RoundResult) {
	h.activeRound.Store(false)

	if len(result.Winners) > 0 {
		h.lastWinner = result.Winners[0]
	}

	round := h.round
	h.round = nil

	ctx := context.Background()
	if err := h.room.DeleteSnapshot(ctx); err != nil {
		logrus.WithField("uuid", h.room.UUID).WithError(err).Error("could not delete snapshot")
	}

	if round == nil {
		logrus.WithField("uuid", h.room.UUID).Warn("round ended without a round record")
		return
	}

	winners := make(map[int64]bool, len(result.Winners))
	for _, id := range result.Winners {
		winners[id] = true
	}

	if err := round.End(ctx, result, result.Payouts, winners); err != nil {
		logrus.WithField("uuid", h.room.UUID).WithError(err).Error("could not settle round")
	}
}

// NOTE: must only be called from the run loop
func (h *Host) sendGameData() {
	for _, client := range h.Clients() {
		client.Send(&Response{
			Key:  "game",
			Data: h.game.GetStateForPlayer(client.player.ID),
		})
	}
}

func (h *Host) sendPlayerData() {
	players, err := h.room.GetPlayers(context.Background())
	if err != nil {
		logrus.WithField("uuid", h.room.UUID).WithError(err).Error("could not get players")
		return
	}

	connectedClients := make(map[int64]*table.Player)
	for _, client := range h.Clients() {
		connectedClients[client.player.ID] = client.player
	}

	csPlayers := make(map[int64]*clientStatePlayers)
	for _, player := range players {
		_, isConnected := connectedClients[player.PlayerID]
		delete(connectedClients, player.PlayerID)
		csPlayers[player.PlayerID] = &clientStatePlayers{
			PlayerRoom:  player,
			IsConnected: isConnected,
			IsSeated:    true,
		}
	}

	for _, player := range connectedClients {
		csPlayers[player.ID] = &clientStatePlayers{
			PlayerRoom: &table.PlayerRoom{
				Player:   player,
				PlayerID: player.ID,
				RoomUUID: h.room.UUID,
			},
			IsConnected: true,
			IsSeated:    false,
		}
	}

	for _, client := range h.Clients() {
		client.Send(&Response{
			Key:  "clientState",
			Data: csPlayers,
		})
	}
}

// canAdminRoom will send an error message to the client if they are not a room admin or site admin
// If they are an appropriate admin, true is returned, otherwise false is returned
func canAdminRoom(ctx string, c *Client) bool {
	if c.player.IsSiteAdmin {
		return true
	}

	playerRoom, err := c.player.GetPlayerRoom(context.Background(), c.room)
	if err != nil {
		c.Send(newErrorResponse(ctx, err))
		return false
	}

	if !playerRoom.IsRoomAdmin {
		c.Send(newErrorResponse(ctx, errors.New("you do not have the appropriate permission")))
		return false
	}

	return true
}

// ReceivedMessage is called when a client sends a message to the server
func (h *Host) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "startRound":
		if !canAdminRoom(msg.Context, c) {
			return
		}

		h.execInRunLoop <- func() {
			h.startRound(c, msg.Context)
		}
	case "roomAdmin":
		if !canAdminRoom(msg.Context, c) {
			return
		}

		h.execInRunLoop <- func() {
			isRoomAdmin, ok := msg.AdditionalData.GetBool("isRoomAdmin")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("isRoomAdmin is not boolean")))
				return
			}

			playerID, ok := msg.AdditionalData.GetInt("playerId")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("could not obtain playerId")))
				return
			}

			player, err := table.GetPlayerByID(context.Background(), int64(playerID))
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			playerRoom, err := player.GetPlayerRoom(context.Background(), c.room)
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			playerRoom.IsRoomAdmin = isRoomAdmin
			if err := playerRoom.Save(context.Background()); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			h.stateChanged <- stateClientEvent
		}
	case "playerStatus":
		h.execInRunLoop <- func() {
			var pr *table.PlayerRoom
			var err error

			// set status for other player, requires room admin
			playerID, ok := msg.AdditionalData.GetInt("playerId")
			if ok {
				if !canAdminRoom(msg.Context, c) {
					return
				}

				var player *table.Player
				player, err = table.GetPlayerByID(context.Background(), int64(playerID))
				if err != nil {
					c.Send(newErrorResponse(msg.Context, err))
					return
				}

				pr, err = player.GetPlayerRoom(context.Background(), c.room)
			} else {
				// set status for self
				pr, err = c.player.GetPlayerRoom(context.Background(), c.room)
			}

			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			isActive, ok := msg.AdditionalData.GetBool("active")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errors.New("active is not boolean")))
				return
			}

			if err := pr.SetActive(context.Background(), isActive); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			// sitting out mid-round folds the seat
			if !isActive && h.game.InActiveRound() {
				h.game.RemovePlayer(pr.PlayerID)
				h.saveSnapshot()
			}

			c.Send(OK(msg.Context))
			h.stateChanged <- stateClientEvent
		}
	default:
		action, err := lieng.ActionFromString(msg.Action)
		if err != nil {
			logrus.WithField("msg", msg).Warn("unknown message")
			return
		}

		h.execInRunLoop <- func() {
			result := h.game.HandleAction(c.player.ID, action, msg.Amount)
			if !result.Success {
				c.Send(newErrorResponse(msg.Context, lieng.UserError(result.Reason)))
				return
			}

			c.Send(OK(msg.Context))
			h.saveSnapshot()
		}
	}
}

// NOTE: must only be called from the run loop
func (h *Host) startRound(c *Client, ctx string) {
	if h.game.InActiveRound() {
		c.Send(newErrorResponse(ctx, lieng.ErrRoundInProgress))
		return
	}

	if err := h.seatRoster(); err != nil {
		c.Send(newErrorResponse(ctx, err))
		return
	}

	if !h.game.StartRound() {
		c.Send(newErrorResponse(ctx, lieng.ErrNotEnoughPlayers))
		return
	}

	h.activeRound.Store(true)

	round, err := h.room.CreateRound(context.Background(), h.game.RoundNumber())
	if err != nil {
		logrus.WithField("uuid", h.room.UUID).WithError(err).Error("could not create round record")
	} else {
		h.round = round
	}

	h.saveSnapshot()
	h.scheduleStartBetting()
	c.Send(OK(ctx))
}

// seatRoster reseats the engine from the room roster. Chip counts are
// re-read from the wallet, and the seats are rotated so the previous
// round's winner holds the dealer seat.
// NOTE: must only be called from the run loop
func (h *Host) seatRoster() error {
	players, err := h.room.GetPlayers(context.Background())
	if err != nil {
		return err
	}

	active := make([]*table.PlayerRoom, 0, len(players))
	for _, pr := range players {
		if pr.Active {
			active = append(active, pr)
		}
	}

	if len(active) > 0 && h.lastWinner > 0 {
		dealer := h.game.DealerIndex() % len(active)
		for i, pr := range active {
			if pr.PlayerID == h.lastWinner {
				offset := ((i-dealer)%len(active) + len(active)) % len(active)
				active = append(active[offset:], active[:offset]...)
				break
			}
		}
	}

	h.game.ClearPlayers()
	for _, pr := range active {
		if err := h.game.AddPlayer(lieng.NewPlayer(pr.PlayerID, pr.Player.DisplayName, pr.Chips)); err != nil {
			return err
		}
	}

	return nil
}

// scheduleStartBetting moves the round from the deal reveal into
// betting once the configured delay elapses
// NOTE: must only be called from the run loop
func (h *Host) scheduleStartBetting() {
	delay := time.Duration(config.Instance().StartBettingDelay) * time.Second
	round := h.game.RoundNumber()

	h.clock.AfterFunc(delay, func() {
		h.execInRunLoop <- func() {
			if h.game.RoundNumber() != round || h.game.Phase() != lieng.PhaseDealing {
				return
			}

			h.game.StartBetting()
			h.saveSnapshot()
		}
	})
}

// saveSnapshot persists the live round state for crash recovery
// NOTE: must only be called from the run loop
func (h *Host) saveSnapshot() {
	if !h.game.InActiveRound() {
		return
	}

	data, err := json.Marshal(h.game.Serialize())
	if err != nil {
		logrus.WithField("uuid", h.room.UUID).WithError(err).Error("could not serialize snapshot")
		return
	}

	if err := h.room.SaveSnapshot(context.Background(), data); err != nil {
		logrus.WithField("uuid", h.room.UUID).WithError(err).Error("could not save snapshot")
	}
}

// NOTE: must only be called from the run loop
func (h *Host) broadcast(msg interface{}) {
	for _, client := range h.Clients() {
		client.Send(msg)
	}
}

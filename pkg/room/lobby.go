package room

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/pkg/lieng"
	"github.com/sonnh58/lieng.wtf/pkg/table"
)

// Lobby is responsible for dispatching players to rooms
type Lobby struct {
	hosts      map[string]*Host
	connect    chan *Client
	disconnect chan *Client
}

// NewLobby returns a new dispatch object
func NewLobby() *Lobby {
	return &Lobby{
		hosts:      make(map[string]*Host),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
	}
}

// Restore brings back every room whose round was in flight when the
// server last stopped. Snapshots that no longer match a room, or that
// cannot be decoded or validated, are discarded; those rooms come back
// in the waiting phase instead.
// Restore must be called before StartShift.
func (l *Lobby) Restore(ctx context.Context) error {
	snapshots, err := table.ActiveSnapshots(ctx)
	if err != nil {
		return err
	}

	for roomUUID, data := range snapshots {
		log := logrus.WithField("uuid", roomUUID)

		rm, err := table.GetRoomByUUID(ctx, roomUUID)
		if err != nil {
			if err == sql.ErrNoRows {
				log.Warn("snapshot for unknown room, discarding")
				continue
			}

			return err
		}

		var snapshot lieng.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			log.WithError(err).Warn("could not decode snapshot, discarding")
			if err := rm.DeleteSnapshot(ctx); err != nil {
				log.WithError(err).Error("could not delete snapshot")
			}
			continue
		}

		host, err := NewHostFromSnapshot(ctx, l, rm, &snapshot)
		if err != nil {
			log.WithError(err).Warn("could not restore room, discarding snapshot")
			if err := rm.DeleteSnapshot(ctx); err != nil {
				log.WithError(err).Error("could not delete snapshot")
			}
			continue
		}

		host.StartShift()
		host.ResumeRound()
		l.hosts[roomUUID] = host

		log.Info("restored room from snapshot")
	}

	return nil
}

// StartShift starts the Lobby run loop
func (l *Lobby) StartShift() {
	go l.runLoop()
}

func (l *Lobby) runLoop() {
	for {
		select {
		case client := <-l.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			host, found := l.hosts[client.room.UUID]
			if !found {
				var err error
				host, err = l.hostForRoom(client.room)
				if err != nil {
					logrus.WithField("uuid", client.room.UUID).WithError(err).Error("could not create host")
					continue
				}

				l.hosts[client.room.UUID] = host
			}

			host.AddClient(client)
		case client := <-l.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			host, found := l.hosts[client.room.UUID]
			if !found {
				logrus.WithField("uuid", client.room.UUID).WithField("type", "exception").Error("room not found")
				continue
			}

			if host.RemoveClient(client) && !host.InActiveRound() {
				host.EndShift()
				delete(l.hosts, client.room.UUID)
			}
		}
	}
}

// hostForRoom creates and starts a host for the room
// If a snapshot survived since the room's host last ran, the round is
// resumed from it; a snapshot that cannot be used is discarded.
func (l *Lobby) hostForRoom(rm *table.Room) (*Host, error) {
	ctx := context.Background()

	data, err := rm.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if data != nil {
		log := logrus.WithField("uuid", rm.UUID)

		var snapshot lieng.Snapshot
		if err := json.Unmarshal(data, &snapshot); err == nil {
			host, err := NewHostFromSnapshot(ctx, l, rm, &snapshot)
			if err == nil {
				host.StartShift()
				host.ResumeRound()
				return host, nil
			}

			log.WithError(err).Warn("could not restore room, discarding snapshot")
		} else {
			log.WithError(err).Warn("could not decode snapshot, discarding")
		}

		if err := rm.DeleteSnapshot(ctx); err != nil {
			log.WithError(err).Error("could not delete snapshot")
		}
	}

	host, err := NewHost(l, rm)
	if err != nil {
		return nil, err
	}

	host.StartShift()
	return host, nil
}

// ClientConnected is called when a client connects to the server
func (l *Lobby) ClientConnected(client *Client) {
	l.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (l *Lobby) ClientDisconnected(client *Client) {
	l.disconnect <- client
}

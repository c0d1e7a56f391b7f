package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/pkg/table"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	host *Host

	player *table.Player
	room   *table.Room
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, player *table.Player, room *table.Room) *Client {
	return &Client{
		send:   make(chan interface{}, 256),
		Close:  make(chan string),
		Conn:   conn,
		player: player,
		room:   room,
	}
}

// Send sends a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and room
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.player.Email, c.room.UUID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.host == nil {
		logrus.WithField("msg", msg).Warn("received message, but host not found")
		return
	}

	c.host.ReceivedMessage(c, msg)
}

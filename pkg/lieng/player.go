package lieng

import (
	"encoding/json"

	"github.com/sonnh58/lieng.wtf/pkg/deck"
)

// PlayerState represents the state of an individual player within a round
type PlayerState int

// constants for PlayerState
const (
	PlayerStateWaiting PlayerState = iota
	PlayerStatePlaying
	PlayerStateFolded
	PlayerStateAllIn
)

func (s PlayerState) String() string {
	switch s {
	case PlayerStateWaiting:
		return "waiting"
	case PlayerStatePlaying:
		return "playing"
	case PlayerStateFolded:
		return "folded"
	case PlayerStateAllIn:
		return "all-in"
	}

	return ""
}

// MarshalJSON encodes JSON
func (s PlayerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(s),
		Name: s.String(),
	})
}

// Player is a seat in the round. The engine owns the player for the
// lifetime of one round; chips are the durable quantity that must
// reconcile with the wallet ledger after each round.
type Player struct {
	ID          int64
	DisplayName string

	chips     int
	hand      deck.Hand
	bet       int
	state     PlayerState
	seatIndex int
}

// NewPlayer returns a player ready to be seated
func NewPlayer(id int64, displayName string, chips int) *Player {
	return &Player{
		ID:          id,
		DisplayName: displayName,
		chips:       chips,
		state:       PlayerStateWaiting,
	}
}

// Chips returns the player's current chip count.
// Chips may be negative after a bonus penalty.
func (p *Player) Chips() int {
	return p.chips
}

// Bet returns the total the player has wagered this round, ante included
func (p *Player) Bet() int {
	return p.bet
}

// State returns the player's round state
func (p *Player) State() PlayerState {
	return p.state
}

// Hand returns the player's cards
func (p *Player) Hand() deck.Hand {
	return p.hand
}

// SeatIndex returns the player's seat
func (p *Player) SeatIndex() int {
	return p.seatIndex
}

// newRound clears the per-round state
func (p *Player) newRound() {
	p.hand = nil
	p.bet = 0
	p.state = PlayerStateWaiting
}

// playerJSON is the masked view of a player sent to clients
type playerJSON struct {
	ID          int64       `json:"id"`
	DisplayName string      `json:"displayName"`
	Chips       int         `json:"chips"`
	Bet         int         `json:"bet"`
	State       PlayerState `json:"state"`
	SeatIndex   int         `json:"seatIndex"`
	CardsInHand int         `json:"cardsInHand"`
	// Hand is only present for the player's own seat, or for every
	// seat during the showdown
	Hand deck.Hand `json:"hand,omitempty"`
}

func (p *Player) playerJSON(reveal bool) *playerJSON {
	pj := &playerJSON{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Chips:       p.chips,
		Bet:         p.bet,
		State:       p.state,
		SeatIndex:   p.seatIndex,
		CardsInHand: len(p.hand),
	}

	if reveal {
		pj.Hand = p.hand
	}

	return pj
}

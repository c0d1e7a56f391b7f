package lieng

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/pkg/deck"
)

// PlayerSnapshot is the serializable projection of one seat
type PlayerSnapshot struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"displayName"`
	Chips       int       `json:"chips"`
	Bet         int       `json:"bet"`
	State       int       `json:"state"`
	SeatIndex   int       `json:"seatIndex"`
	Cards       deck.Hand `json:"cards"`
}

// Snapshot is a point-in-time projection of a round, used only for
// crash recovery. It is produced after every phase transition and
// every accepted action, and a restored engine is reconstructed
// exclusively from it.
type Snapshot struct {
	Phase       int               `json:"phase"`
	DealerIndex int               `json:"dealerIndex"`
	RoundNumber int               `json:"roundNumber"`
	Players     []*PlayerSnapshot `json:"players"`
	Pot         *PotSnapshot      `json:"pot,omitempty"`
	Betting     *BettingSnapshot  `json:"betting,omitempty"`
	Turns       *TurnSnapshot     `json:"turns,omitempty"`
}

// Serialize returns a snapshot of the current round state
func (g *Game) Serialize() *Snapshot {
	players := make([]*PlayerSnapshot, len(g.seatOrder))
	for i, id := range g.seatOrder {
		p := g.players[id]
		players[i] = &PlayerSnapshot{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Chips:       p.chips,
			Bet:         p.bet,
			State:       int(p.state),
			SeatIndex:   p.seatIndex,
			Cards:       p.hand.Clone(),
		}
	}

	snapshot := &Snapshot{
		Phase:       int(g.phase),
		DealerIndex: g.dealerIndex,
		RoundNumber: g.roundNumber,
		Players:     players,
		Pot:         g.pot.serialize(),
	}

	if g.betting != nil {
		snapshot.Betting = g.betting.serialize()
	}

	if g.turns != nil {
		snapshot.Turns = g.turns.serialize()
	}

	return snapshot
}

// RestoreFromSnapshot reconstructs an engine from a snapshot and the
// room's configuration. A snapshot that fails validation returns an
// error; the caller is expected to log it, discard the snapshot, and
// start the room from the waiting phase instead.
//
// Remaining turn time is not persisted: a round restored mid-betting
// restarts the current turn's timeout at full duration.
func RestoreFromSnapshot(logger logrus.FieldLogger, snapshot *Snapshot, opts Options) (*Game, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}

	g, err := NewGame(logger, opts)
	if err != nil {
		return nil, err
	}

	g.phase = Phase(snapshot.Phase)
	g.dealerIndex = snapshot.DealerIndex
	g.roundNumber = snapshot.RoundNumber

	for _, ps := range snapshot.Players {
		p := NewPlayer(ps.ID, ps.DisplayName, ps.Chips)
		p.bet = ps.Bet
		p.state = PlayerState(ps.State)
		p.seatIndex = ps.SeatIndex
		p.hand = ps.Cards.Clone()

		g.players[p.ID] = p
		g.seatOrder = append(g.seatOrder, p.ID)
	}

	if snapshot.Pot != nil {
		g.pot = restorePotManager(snapshot.Pot)
	}

	if snapshot.Betting != nil {
		g.betting = restoreBettingManager(snapshot.Betting, opts)
	}

	if snapshot.Turns != nil {
		g.turns = restoreTurnManager(snapshot.Turns, opts.TurnTimer, g.clock)
	}

	return g, nil
}

// ResumeTimers re-arms the current turn's timeout after a restore.
// Call it once the owner's dispatch and clock are in place.
func (g *Game) ResumeTimers() {
	if g.phase != PhaseBetting || g.turns == nil {
		return
	}

	// reattach the restored turn manager to the (possibly replaced)
	// clock before arming it
	g.turns.clock = g.clock
	g.startTurnTimer()
	g.emit(TurnChangedEvent{PlayerID: g.turns.current(), TimeLeft: g.options.TurnTimer})
}

func validateSnapshot(snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is nil")
	}

	if snapshot.Phase < int(PhaseWaiting) || snapshot.Phase > int(PhaseEnded) {
		return fmt.Errorf("unknown phase %d", snapshot.Phase)
	}

	seen := make(map[int64]bool, len(snapshot.Players))
	for _, ps := range snapshot.Players {
		if ps == nil {
			return fmt.Errorf("player entry is nil")
		}

		if seen[ps.ID] {
			return fmt.Errorf("duplicate player %d", ps.ID)
		}
		seen[ps.ID] = true

		if ps.State < int(PlayerStateWaiting) || ps.State > int(PlayerStateAllIn) {
			return fmt.Errorf("player %d: unknown state %d", ps.ID, ps.State)
		}

		if n := len(ps.Cards); n != 0 && n != cardsPerHand {
			return fmt.Errorf("player %d: expected 0 or %d cards, got %d", ps.ID, cardsPerHand, n)
		}

		for _, c := range ps.Cards {
			if c == nil || c.Rank < deck.Ace || c.Rank > deck.King {
				return fmt.Errorf("player %d: invalid card", ps.ID)
			}

			switch c.Suit {
			case deck.Spades, deck.Clubs, deck.Hearts, deck.Diamonds:
			default:
				return fmt.Errorf("player %d: invalid suit %q", ps.ID, c.Suit)
			}
		}
	}

	phase := Phase(snapshot.Phase)
	if phase == PhaseDealing || phase == PhaseBetting {
		if snapshot.Betting == nil || snapshot.Turns == nil {
			return fmt.Errorf("mid-round snapshot is missing betting or turn state")
		}

		if len(snapshot.Turns.PlayerIDs) == 0 {
			return fmt.Errorf("turn state has no players")
		}

		if i := snapshot.Turns.CurrentIndex; i < 0 || i >= len(snapshot.Turns.PlayerIDs) {
			return fmt.Errorf("turn index %d out of range", i)
		}

		for _, id := range snapshot.Turns.PlayerIDs {
			if !seen[id] {
				return fmt.Errorf("turn state references unknown player %d", id)
			}
		}
	}

	return nil
}

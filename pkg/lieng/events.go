package lieng

import "github.com/sonnh58/lieng.wtf/pkg/deck"

// Event is something that happened inside the engine that the owning
// layer may want to broadcast. The engine knows nothing about the
// transport; it only publishes to its event channel.
type Event interface {
	// Key identifies the event type on the wire
	Key() string
}

// PhaseChangedEvent is published on every phase transition
type PhaseChangedEvent struct {
	Phase Phase `json:"phase"`
}

// Key implements Event
func (PhaseChangedEvent) Key() string { return "phaseChanged" }

// TurnChangedEvent is published when a new seat is on the clock
type TurnChangedEvent struct {
	PlayerID int64 `json:"playerId"`
	// TimeLeft is the turn's full time budget in seconds
	TimeLeft int `json:"timeLeft"`
}

// Key implements Event
func (TurnChangedEvent) Key() string { return "turnChanged" }

// ActionAppliedEvent is published after an accepted action
type ActionAppliedEvent struct {
	PlayerID   int64  `json:"playerId"`
	Action     Action `json:"action"`
	ChipsDelta int    `json:"chipsDelta"`
}

// Key implements Event
func (ActionAppliedEvent) Key() string { return "playerAction" }

// AutoFoldedEvent is published when a turn timeout folded the player
type AutoFoldedEvent struct {
	PlayerID int64 `json:"playerId"`
}

// Key implements Event
func (AutoFoldedEvent) Key() string { return "autoFold" }

// HandSummary is a player's revealed hand at the end of a round
type HandSummary struct {
	Result *HandResult `json:"result"`
	Cards  deck.Hand   `json:"cards"`
}

// RoundResult describes how a round ended
type RoundResult struct {
	Round   int                    `json:"round"`
	Winners []int64                `json:"winners"`
	Hands   map[int64]*HandSummary `json:"hands"`
	// Payouts is the net chip delta per player for the whole round:
	// pot winnings and refunds minus wagers, plus bonus collections
	// and penalties
	Payouts map[int64]int `json:"payouts"`
}

// RoundEndedEvent is published once per completed round
type RoundEndedEvent struct {
	Result *RoundResult `json:"result"`
}

// Key implements Event
func (RoundEndedEvent) Key() string { return "roundEnded" }

func (g *Game) emit(event Event) {
	select {
	case g.events <- event:
	default:
		g.logger.WithField("event", event.Key()).Warn("event channel full, dropping event")
	}
}

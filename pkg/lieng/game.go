// Package lieng implements the authoritative round engine for Liêng
// (Ba Cây), a three-card Vietnamese betting card game: the phase state
// machine, turn sequencer, bet validator, pot settlement, hand
// evaluator, and the snapshot contract that makes a round resumable
// after a crash.
//
// A Game instance is logically single-threaded: the owner must process
// one action at a time. The per-turn timeout is the only source of
// asynchronous mutation and is routed back through the owner-supplied
// dispatch function.
//
// Known limitation, preserved from the table rules this engine was
// built against: when tied winners have unequal all-in stakes the pot
// is still split evenly, without per-winner side-pot caps.
package lieng

import (
	"sort"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/sonnh58/lieng.wtf/pkg/deck"
)

// bonus multiples collected from every other player in the round
const (
	sapBonusMultiplier         = 4
	suitedLiengBonusMultiplier = 3
)

// cardsPerHand is fixed; Liêng is always a 3-card game
const cardsPerHand = 3

// endedCooldown is how long a finished round lingers in the ended
// phase before the table returns to waiting
const endedCooldown = 3 * time.Second

// ActionResult reports whether an action was accepted
type ActionResult struct {
	Success    bool   `json:"success"`
	Reason     string `json:"reason,omitempty"`
	ChipsDelta int    `json:"chipsDelta"`
}

// Game is the round engine for one Liêng table. It lives for the
// lifetime of its room and runs many rounds.
type Game struct {
	options Options
	logger  logrus.FieldLogger
	clock   quartz.Clock

	players   map[int64]*Player
	seatOrder []int64

	phase       Phase
	dealerIndex int
	roundNumber int

	deck    *deck.Deck
	pot     *potManager
	betting *bettingManager
	turns   *turnManager

	events chan Event

	// dispatch funnels timer callbacks back into the owner's run
	// loop so exactly one action is processed at a time
	dispatch func(func())
}

// NewGame returns a new Liêng table engine
func NewGame(logger logrus.FieldLogger, opts Options) (*Game, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	g := &Game{
		options: opts,
		logger:  logger,
		clock:   quartz.NewReal(),
		players: make(map[int64]*Player),
		phase:   PhaseWaiting,
		pot:     newPotManager(),
		events:  make(chan Event, 256),
	}
	g.dispatch = func(fn func()) { fn() }

	return g, nil
}

// SetClock overrides the wall clock. Tests use a mock clock to fire
// turn timeouts deterministically.
func (g *Game) SetClock(clock quartz.Clock) {
	g.clock = clock
}

// SetDispatch routes timer callbacks through the owner's run loop.
// The default runs them inline.
func (g *Game) SetDispatch(dispatch func(func())) {
	g.dispatch = dispatch
}

// Events returns the channel the engine publishes events on
func (g *Game) Events() <-chan Event {
	return g.events
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// Options returns the table configuration
func (g *Game) Options() Options {
	return g.options
}

// RoundNumber returns the number of the current (or last) round
func (g *Game) RoundNumber() int {
	return g.roundNumber
}

// DealerIndex returns the dealer's seat index
func (g *Game) DealerIndex() int {
	return g.dealerIndex
}

// Player returns the player by ID, or nil
func (g *Game) Player(id int64) *Player {
	return g.players[id]
}

// InActiveRound returns true while a round is being dealt or bet
func (g *Game) InActiveRound() bool {
	return g.phase == PhaseDealing || g.phase == PhaseBetting
}

// AddPlayer seats a player at the table. New players join the next
// round; an active round is unaffected.
func (g *Game) AddPlayer(p *Player) error {
	if len(g.seatOrder) >= g.options.MaxPlayers {
		return newUserError("table is full (%d seats)", g.options.MaxPlayers)
	}

	if _, ok := g.players[p.ID]; ok {
		return newUserError("player %d is already seated", p.ID)
	}

	p.seatIndex = len(g.seatOrder)
	g.players[p.ID] = p
	g.seatOrder = append(g.seatOrder, p.ID)
	return nil
}

// ClearPlayers removes every seat. It must not be called mid-round.
func (g *Game) ClearPlayers() {
	g.players = make(map[int64]*Player)
	g.seatOrder = nil
}

// RemovePlayer takes a player off the table. Mid-round the player is
// force-folded instead so the settlement still accounts for their
// contribution; the caller removes the seat again once the round ends.
func (g *Game) RemovePlayer(id int64) {
	p, ok := g.players[id]
	if !ok {
		return
	}

	if g.InActiveRound() && g.turns != nil && g.turns.isSeated(id) {
		if p.state == PlayerStateFolded {
			return
		}

		g.logger.WithField("playerId", id).Info("force-folding removed player")
		p.state = PlayerStateFolded
		wasTheirTurn := g.turns.current() == id
		g.turns.fold(id)

		if wasTheirTurn {
			g.advanceTurn()
		} else if g.turns.isRoundComplete() {
			g.resolveRound()
		}

		return
	}

	delete(g.players, id)
	for i, pid := range g.seatOrder {
		if pid == id {
			g.seatOrder = append(g.seatOrder[:i], g.seatOrder[i+1:]...)
			break
		}
	}

	for i, pid := range g.seatOrder {
		g.players[pid].seatIndex = i
	}

	if g.dealerIndex >= len(g.seatOrder) {
		g.dealerIndex = 0
	}
}

// StartRound begins a new round: collects antes, shuffles and deals,
// and seats the turn rotation at the dealer. Returns false without
// mutating state if fewer than two players have chips.
func (g *Game) StartRound() bool {
	if g.InActiveRound() {
		return false
	}

	active := make([]*Player, 0, len(g.seatOrder))
	for _, id := range g.seatOrder {
		if g.players[id].chips > 0 {
			active = append(active, g.players[id])
		}
	}

	if len(active) < 2 {
		return false
	}

	g.roundNumber++
	g.setPhase(PhaseDealing)

	g.pot.reset()
	g.betting = newBettingManager(g.options)

	for id, paid := range g.betting.collectAntes(active) {
		p := g.players[id]
		p.chips -= paid
		p.bet = paid
		p.state = PlayerStatePlaying
		g.pot.add(id, paid)
	}

	g.deck = deck.New()
	g.deck.Shuffle()

	activeIDs := make([]int64, len(active))
	for i, p := range active {
		activeIDs[i] = p.ID

		cards, err := g.deck.Deal(cardsPerHand)
		if err != nil {
			// 12 seats * 3 cards fit in a 52-card deck
			panic(err)
		}

		p.hand = cards
	}

	g.turns = newTurnManager(activeIDs, g.turnStartIndex(activeIDs), g.options.TurnTimer, g.clock)

	g.logger.WithFields(logrus.Fields{
		"round":   g.roundNumber,
		"players": len(active),
		"pot":     g.pot.total(),
	}).Info("round started")

	return true
}

// turnStartIndex finds the dealer's position within the ante-paying
// seats; the first active seat at or after the dealer acts first
func (g *Game) turnStartIndex(activeIDs []int64) int {
	if len(g.seatOrder) == 0 {
		return 0
	}

	for offset := 0; offset < len(g.seatOrder); offset++ {
		seat := g.seatOrder[(g.dealerIndex+offset)%len(g.seatOrder)]
		for i, id := range activeIDs {
			if id == seat {
				return i
			}
		}
	}

	return 0
}

// StartBetting transitions from dealing to betting and puts the first
// seat on the clock. The caller is expected to invoke this after the
// deal reveal delay; it is a no-op in any other phase.
func (g *Game) StartBetting() {
	if g.phase != PhaseDealing || g.turns == nil {
		return
	}

	g.setPhase(PhaseBetting)
	g.startTurnTimer()
	g.emit(TurnChangedEvent{PlayerID: g.turns.current(), TimeLeft: g.options.TurnTimer})
}

// HandleAction validates and applies a betting action for the seat
// currently on the clock. Invalid actions are reported in the result,
// never as a panic or a fatal error.
func (g *Game) HandleAction(playerID int64, a Action, amount int) ActionResult {
	if g.phase != PhaseBetting || g.turns == nil || g.betting == nil {
		return failure(ErrNotBettingPhase)
	}

	p, ok := g.players[playerID]
	if !ok {
		return failure(ErrPlayerNotFound)
	}

	if !a.IsValid() {
		return failure(ErrUnknownAction)
	}

	if g.turns.current() != playerID {
		return failure(ErrNotYourTurn)
	}

	if err := g.betting.validate(p, a, amount); err != nil {
		return failure(err)
	}

	delta, isRaise := g.betting.process(p, a, amount)
	p.chips -= delta
	p.bet += delta
	g.pot.add(playerID, delta)

	switch a {
	case ActionFold:
		p.state = PlayerStateFolded
		g.turns.fold(playerID)
	case ActionAllIn:
		p.state = PlayerStateAllIn
		g.turns.markAllIn(playerID)
	}

	if isRaise {
		g.turns.resetActedOnRaise(playerID)
	}

	g.logger.WithFields(logrus.Fields{
		"playerId": playerID,
		"round":    g.roundNumber,
	}).Debugf("player %s", a.LogMessage(g.betting.playerBet(playerID)))

	g.emit(ActionAppliedEvent{PlayerID: playerID, Action: a, ChipsDelta: delta})
	g.advanceTurn()

	return ActionResult{Success: true, ChipsDelta: delta}
}

func failure(err error) ActionResult {
	return ActionResult{Success: false, Reason: err.Error()}
}

// advanceTurn moves the rotation forward, resolving the round if no
// seat can act, otherwise arming the next turn's timeout
func (g *Game) advanceTurn() {
	next, ok := g.turns.advance()
	if !ok || g.turns.isRoundComplete() {
		g.resolveRound()
		return
	}

	g.startTurnTimer()
	g.emit(TurnChangedEvent{PlayerID: next, TimeLeft: g.options.TurnTimer})
}

// startTurnTimer arms the auto-fold timeout for the current seat. A
// fired timeout goes through the exact same validation and apply path
// as a player-submitted fold; if the turn already advanced the fold is
// rejected there and the timeout becomes a no-op.
func (g *Game) startTurnTimer() {
	round := g.roundNumber
	g.turns.startTimer(func(playerID int64) {
		g.dispatch(func() {
			g.handleTimeout(playerID, round)
		})
	})
}

func (g *Game) handleTimeout(playerID int64, round int) {
	// a stale timer may fire after the round it belonged to resolved
	if g.phase != PhaseBetting || g.roundNumber != round || g.turns == nil || g.turns.current() != playerID {
		return
	}

	g.logger.WithField("playerId", playerID).Info("turn timed out, auto-folding")
	g.emit(AutoFoldedEvent{PlayerID: playerID})
	g.HandleAction(playerID, ActionFold, 0)
}

// resolveRound runs the showdown: evaluates every non-folded hand,
// settles the pot, applies the sáp / suited-liêng bonuses, publishes
// the result, and resets the table for the next round
func (g *Game) resolveRound() {
	g.setPhase(PhaseShowdown)

	active := g.turns.activePlayers()

	hands := make(map[int64]*HandResult, len(active))
	summaries := make(map[int64]*HandSummary, len(active))
	for _, id := range active {
		p := g.players[id]
		result, err := Evaluate(p.hand)
		if err != nil {
			// every non-folded player holds exactly 3 cards
			panic(err)
		}

		hands[id] = result
		summaries[id] = &HandSummary{Result: result, Cards: p.hand.Clone()}
	}

	winners := determineWinners(active, hands)
	payouts := g.pot.distribute(winners)

	// net chip delta per player: start from the wagers already taken
	deltas := make(map[int64]int, len(g.players))
	for id, p := range g.players {
		if p.bet > 0 || p.state != PlayerStateWaiting {
			deltas[id] = -p.bet
		}
	}

	for id, amount := range payouts {
		g.players[id].chips += amount
		deltas[id] += amount
	}

	g.applyHandBonuses(active, hands, deltas)

	result := &RoundResult{
		Round:   g.roundNumber,
		Winners: winners,
		Hands:   summaries,
		Payouts: deltas,
	}

	for _, id := range winners {
		g.logger.WithFields(logrus.Fields{
			"playerId": id,
			"round":    g.roundNumber,
			"hand":     hands[id].String(),
		}).Info("round won")
	}

	g.emit(RoundEndedEvent{Result: result})
	g.endRound()
}

// applyHandBonuses applies the fixed side payments: every other player
// in the round (folded included) pays ante×4 to each sáp holder and
// ante×3 to each suited-liêng holder. Multiple holders collect
// independently and in full. This may drive chips negative; that is
// expected and preserved.
func (g *Game) applyHandBonuses(active []int64, hands map[int64]*HandResult, deltas map[int64]int) {
	for _, holderID := range active {
		hand := hands[holderID]

		multiplier := 0
		if hand.Type == HandTypeSap {
			multiplier = sapBonusMultiplier
		} else if hand.Type == HandTypeLieng && hand.IsSuited {
			multiplier = suitedLiengBonusMultiplier
		}

		if multiplier == 0 {
			continue
		}

		bonus := g.options.Ante * multiplier
		holder := g.players[holderID]

		for _, seat := range g.turns.playerIDs {
			if seat == holderID {
				continue
			}

			opponent := g.players[seat]
			opponent.chips -= bonus
			deltas[seat] -= bonus

			holder.chips += bonus
			deltas[holderID] += bonus
		}

		g.logger.WithFields(logrus.Fields{
			"playerId": holderID,
			"hand":     hand.String(),
			"bonus":    bonus,
		}).Info("bonus collected")
	}
}

// determineWinners returns every player tied for the best hand,
// ordered best-first by seat
func determineWinners(playerIDs []int64, hands map[int64]*HandResult) []int64 {
	if len(playerIDs) <= 1 {
		return append([]int64{}, playerIDs...)
	}

	sorted := append([]int64{}, playerIDs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(hands[sorted[i]], hands[sorted[j]]) < 0
	})

	winners := []int64{sorted[0]}
	for _, id := range sorted[1:] {
		if Compare(hands[sorted[0]], hands[id]) != 0 {
			break
		}

		winners = append(winners, id)
	}

	return winners
}

// endRound resets every seat, rotates the dealer one seat, and after a
// cooldown returns the table to waiting
func (g *Game) endRound() {
	for _, p := range g.players {
		p.newRound()
	}

	if len(g.seatOrder) > 0 {
		g.dealerIndex = (g.dealerIndex + 1) % len(g.seatOrder)
	}

	g.turns.clearTimer()
	g.turns = nil
	g.betting = nil

	g.setPhase(PhaseEnded)

	round := g.roundNumber
	g.clock.AfterFunc(endedCooldown, func() {
		g.dispatch(func() {
			if g.phase == PhaseEnded && g.roundNumber == round {
				g.setPhase(PhaseWaiting)
			}
		})
	})
}

func (g *Game) setPhase(phase Phase) {
	g.phase = phase
	g.emit(PhaseChangedEvent{Phase: phase})
}

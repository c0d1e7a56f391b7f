package lieng

// State is the game state filtered for one player. Each player sees
// their own hand only; every hand is visible during the showdown.
type State struct {
	Phase        Phase         `json:"phase"`
	Pot          int           `json:"pot"`
	CurrentBet   int           `json:"currentBet"`
	MinRaiseTo   int           `json:"minRaiseTo"`
	CurrentTurn  int64         `json:"currentTurn"`
	DealerIndex  int           `json:"dealerIndex"`
	Round        int           `json:"round"`
	Players      []*playerJSON `json:"players"`
	// Actions are the actions available to the requesting player,
	// empty unless they are on the clock
	Actions []Action `json:"actions,omitempty"`
}

// GetStateForPlayer returns the current state of the table as the given
// player is allowed to see it
func (g *Game) GetStateForPlayer(playerID int64) *State {
	players := make([]*playerJSON, len(g.seatOrder))
	for i, id := range g.seatOrder {
		p := g.players[id]
		reveal := id == playerID || g.phase == PhaseShowdown
		players[i] = p.playerJSON(reveal)
	}

	state := &State{
		Phase:       g.phase,
		Pot:         g.pot.total(),
		DealerIndex: g.dealerIndex,
		Round:       g.roundNumber,
		Players:     players,
	}

	if g.betting != nil {
		state.CurrentBet = g.betting.currentBet
		state.MinRaiseTo = g.betting.currentBet + g.betting.minRaise
	}

	if g.phase == PhaseBetting && g.turns != nil {
		state.CurrentTurn = g.turns.current()
		state.Actions = g.actionsForPlayer(playerID)
	}

	return state
}

// actionsForPlayer returns the actions the player could legally take
// right now, or nil if it is not their turn
func (g *Game) actionsForPlayer(playerID int64) []Action {
	if g.turns.current() != playerID {
		return nil
	}

	p, ok := g.players[playerID]
	if !ok {
		return nil
	}

	actions := make([]Action, 0, 4)
	for _, a := range []Action{ActionCall, ActionRaise, ActionAllIn} {
		if g.betting.validate(p, a, g.betting.currentBet+g.betting.minRaise) == nil {
			actions = append(actions, a)
		}
	}

	return append(actions, ActionFold)
}

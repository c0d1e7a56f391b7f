package lieng

import "fmt"

func newUserError(format string, a ...interface{}) UserError {
	return UserError(fmt.Sprintf(format, a...))
}

// bettingManager is the per-round wager ledger. It validates and applies
// fold/call/raise/all-in against the single live bet amount.
type bettingManager struct {
	ante       int
	minBet     int
	maxBet     int
	allowAllIn bool
	raiseSteps bool

	currentBet int
	minRaise   int
	bets       map[int64]int
}

func newBettingManager(opts Options) *bettingManager {
	return &bettingManager{
		ante:       opts.Ante,
		minBet:     opts.MinBet,
		maxBet:     opts.MaxBet,
		allowAllIn: opts.AllowAllIn,
		raiseSteps: opts.RaiseInMinBetSteps,
		minRaise:   opts.MinBet,
		bets:       make(map[int64]int),
	}
}

// collectAntes takes min(ante, chips) from every player and seeds the
// live bet at the ante. Short-stacked antes are allowed.
func (b *bettingManager) collectAntes(players []*Player) map[int64]int {
	collected := make(map[int64]int, len(players))
	for _, p := range players {
		paid := b.ante
		if p.chips < paid {
			paid = p.chips
		}

		b.bets[p.ID] = paid
		collected[p.ID] = paid
	}

	b.currentBet = b.ante
	return collected
}

// playerBet returns the total the player has committed this round
func (b *bettingManager) playerBet(id int64) int {
	return b.bets[id]
}

// validate returns nil if the action is legal for the player
func (b *bettingManager) validate(p *Player, a Action, amount int) error {
	toCall := b.currentBet - b.bets[p.ID]

	switch a {
	case ActionFold:
		return nil
	case ActionCall:
		if p.chips < toCall {
			return ErrNotEnoughToCall
		}

		return nil
	case ActionRaise:
		minTotal := b.currentBet + b.minRaise
		if amount < minTotal {
			return newUserError("raise must be to at least ${%d}", minTotal)
		}

		if b.raiseSteps && amount%b.minBet != 0 {
			return newUserError("raise must be a multiple of ${%d}", b.minBet)
		}

		if b.maxBet > 0 && amount > b.maxBet {
			return newUserError("raise must not exceed the table maximum of ${%d}", b.maxBet)
		}

		if p.chips < amount-b.bets[p.ID] {
			return ErrNotEnoughToRaise
		}

		return nil
	case ActionAllIn:
		if !b.allowAllIn {
			return ErrAllInNotAllowed
		}

		return nil
	}

	return ErrUnknownAction
}

// process applies a validated action to the ledger. It returns the chip
// delta to take from the player and whether the action re-opened the
// betting (a raise). An all-in only counts as a raise if the resulting
// total exceeds the live bet.
func (b *bettingManager) process(p *Player, a Action, amount int) (delta int, isRaise bool) {
	committed := b.bets[p.ID]

	switch a {
	case ActionFold:
		return 0, false
	case ActionCall:
		toCall := b.currentBet - committed
		if toCall > p.chips {
			toCall = p.chips
		}

		b.bets[p.ID] = committed + toCall
		return toCall, false
	case ActionRaise:
		delta = amount - committed
		b.bets[p.ID] = amount
		prevBet := b.currentBet
		b.currentBet = amount

		// each raise escalates the minimum for the next one
		b.minRaise += amount - prevBet
		return delta, true
	case ActionAllIn:
		delta = p.chips
		newTotal := committed + delta
		b.bets[p.ID] = newTotal

		if newTotal > b.currentBet {
			b.currentBet = newTotal
			return delta, true
		}

		return delta, false
	}

	return 0, false
}

// BettingSnapshot is the serializable projection of the wager ledger
type BettingSnapshot struct {
	CurrentBet int           `json:"currentBet"`
	MinRaise   int           `json:"minRaise"`
	Bets       map[int64]int `json:"bets"`
}

func (b *bettingManager) serialize() *BettingSnapshot {
	bets := make(map[int64]int, len(b.bets))
	for id, amount := range b.bets {
		bets[id] = amount
	}

	return &BettingSnapshot{
		CurrentBet: b.currentBet,
		MinRaise:   b.minRaise,
		Bets:       bets,
	}
}

func restoreBettingManager(snapshot *BettingSnapshot, opts Options) *bettingManager {
	b := newBettingManager(opts)
	b.currentBet = snapshot.CurrentBet
	b.minRaise = snapshot.MinRaise
	for id, amount := range snapshot.Bets {
		b.bets[id] = amount
	}

	return b
}

package lieng

// potManager is the contribution ledger for a round. It tracks every
// seat's cumulative contribution (ante plus all betting) and settles
// the pot at showdown.
type potManager struct {
	// seat order of first contribution; keeps settlement deterministic
	order         []int64
	contributions map[int64]int
}

func newPotManager() *potManager {
	return &potManager{
		contributions: make(map[int64]int),
	}
}

// add records a contribution from the player
func (p *potManager) add(playerID int64, amount int) {
	if amount == 0 {
		return
	}

	if _, ok := p.contributions[playerID]; !ok {
		p.order = append(p.order, playerID)
	}

	p.contributions[playerID] += amount
}

// total returns the displayed pot, which always equals the sum of the
// recorded contributions
func (p *potManager) total() int {
	total := 0
	for _, amount := range p.contributions {
		total += amount
	}

	return total
}

// contribution returns the player's cumulative contribution
func (p *potManager) contribution(playerID int64) int {
	return p.contributions[playerID]
}

// distribute settles the pot and returns the payout per player.
//
// A single winner collects, from each contributing seat, at most what
// the winner risked themselves; any excess is refunded to its original
// payer. This caps an all-in winner's take.
//
// Tied winners split the whole pot evenly with the first winner in
// iteration order absorbing the integer remainder. Per-winner all-in
// caps are not modeled in the split; see the package documentation.
func (p *potManager) distribute(winners []int64) map[int64]int {
	payouts := make(map[int64]int)
	if len(winners) == 0 {
		return payouts
	}

	if len(winners) == 1 {
		winnerID := winners[0]
		winnerContrib := p.contributions[winnerID]

		winnings := 0
		for _, id := range p.order {
			contrib := p.contributions[id]
			if contrib > winnerContrib {
				// refund the excess to the original payer
				if id != winnerID {
					payouts[id] += contrib - winnerContrib
				}

				contrib = winnerContrib
			}

			winnings += contrib
		}

		payouts[winnerID] += winnings
		return payouts
	}

	total := p.total()
	share := total / len(winners)
	remainder := total - share*len(winners)

	for i, id := range winners {
		payout := share
		if i == 0 {
			payout += remainder
		}

		payouts[id] = payout
	}

	return payouts
}

func (p *potManager) reset() {
	p.order = nil
	p.contributions = make(map[int64]int)
}

// PotSnapshot is the serializable projection of the contribution ledger
type PotSnapshot struct {
	Order         []int64       `json:"order"`
	Contributions map[int64]int `json:"contributions"`
}

func (p *potManager) serialize() *PotSnapshot {
	contributions := make(map[int64]int, len(p.contributions))
	for id, amount := range p.contributions {
		contributions[id] = amount
	}

	return &PotSnapshot{
		Order:         append([]int64{}, p.order...),
		Contributions: contributions,
	}
}

func restorePotManager(snapshot *PotSnapshot) *potManager {
	p := newPotManager()
	p.order = append([]int64{}, snapshot.Order...)
	for id, amount := range snapshot.Contributions {
		p.contributions[id] = amount
	}

	return p
}

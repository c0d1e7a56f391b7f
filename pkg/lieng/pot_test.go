package lieng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPotManager_add(t *testing.T) {
	a := assert.New(t)

	p := newPotManager()
	p.add(1, 10)
	p.add(2, 10)
	p.add(1, 30)
	p.add(3, 0)

	a.Equal(50, p.total())
	a.Equal(40, p.contribution(1))
	a.Equal(10, p.contribution(2))
	a.Equal(0, p.contribution(3))
	a.Equal([]int64{1, 2}, p.order)
}

func TestPotManager_distributeSingleWinner(t *testing.T) {
	a := assert.New(t)

	p := newPotManager()
	p.add(1, 100)
	p.add(2, 100)
	p.add(3, 40)

	payouts := p.distribute([]int64{2})
	a.Equal(240, payouts[2])
	a.Len(payouts, 1)
}

func TestPotManager_distributeAllInWinnerCapped(t *testing.T) {
	a := assert.New(t)

	p := newPotManager()
	p.add(1, 100)
	p.add(2, 100)
	p.add(3, 40)

	// the short-stacked winner collects at most 40 from each seat;
	// the excess goes back to its payers
	payouts := p.distribute([]int64{3})
	a.Equal(120, payouts[3])
	a.Equal(60, payouts[1])
	a.Equal(60, payouts[2])

	// chips are conserved
	sum := 0
	for _, amount := range payouts {
		sum += amount
	}
	a.Equal(p.total(), sum)
}

func TestPotManager_distributeSplit(t *testing.T) {
	a := assert.New(t)

	p := newPotManager()
	p.add(1, 35)
	p.add(2, 35)
	p.add(3, 35)

	payouts := p.distribute([]int64{1, 3})
	a.Equal(53, payouts[1]) // first winner takes the odd chip
	a.Equal(52, payouts[3])
}

func TestPotManager_distributeNoWinners(t *testing.T) {
	p := newPotManager()
	p.add(1, 10)
	assert.Empty(t, p.distribute(nil))
}

func TestPotManager_reset(t *testing.T) {
	a := assert.New(t)

	p := newPotManager()
	p.add(1, 10)
	p.reset()
	a.Equal(0, p.total())
	a.Empty(p.order)
}

func TestPotManager_serializeRoundTrip(t *testing.T) {
	a := assert.New(t)

	p := newPotManager()
	p.add(2, 25)
	p.add(1, 10)

	restored := restorePotManager(p.serialize())
	a.Equal([]int64{2, 1}, restored.order)
	a.Equal(p.contributions, restored.contributions)
}

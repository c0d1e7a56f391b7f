package lieng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sonnh58/lieng.wtf/pkg/deck"
)

func evaluate(t *testing.T, cards string) *HandResult {
	t.Helper()
	result, err := Evaluate(deck.CardsFromString(cards))
	assert.NoError(t, err)
	return result
}

func TestEvaluate_categories(t *testing.T) {
	a := assert.New(t)

	// sáp: three of a kind
	a.Equal(HandTypeSap, evaluate(t, "7h,7s,7c").Type)

	// liêng: consecutive, including the A-2-3 and Q-K-A wraps
	a.Equal(HandTypeLieng, evaluate(t, "1h,2s,3c").Type)
	a.Equal(HandTypeLieng, evaluate(t, "12h,13s,1c").Type)
	a.Equal(HandTypeLieng, evaluate(t, "5h,6s,7c").Type)

	// K-A-2 does not wrap
	a.Equal(HandTypeNormal, evaluate(t, "13h,1s,2c").Type)

	// đĩ: non-consecutive face cards
	a.Equal(HandTypeDi, evaluate(t, "11h,11s,13c").Type)

	// consecutive face cards are liêng, not đĩ
	a.Equal(HandTypeLieng, evaluate(t, "11h,12s,13c").Type)

	// normal
	result := evaluate(t, "2h,5s,13c")
	a.Equal(HandTypeNormal, result.Type)
	a.Equal(7, result.Points)
}

func TestEvaluate_points(t *testing.T) {
	a := assert.New(t)

	// (8+9+0) mod 10
	a.Equal(7, evaluate(t, "8h,9s,10c").Points)

	// (9+0+0) mod 10
	a.Equal(9, evaluate(t, "9h,13s,12c").Points)

	// (1+2+3) would be liêng; use non-consecutive
	a.Equal(0, evaluate(t, "10h,13s,12c").Points)
	a.Equal(1, evaluate(t, "1h,5s,5c").Points)
}

func TestEvaluate_highCardAndSuited(t *testing.T) {
	a := assert.New(t)

	result := evaluate(t, "2h,1s,13c")
	a.Equal("A♠", result.HighCard.String())
	a.False(result.IsSuited)

	// equal ranks pick the stronger suit
	result = evaluate(t, "13s,13d,2c")
	a.Equal("K♢", result.HighCard.String())

	result = evaluate(t, "4h,5h,9h")
	a.True(result.IsSuited)
}

func TestEvaluate_badHandSize(t *testing.T) {
	_, err := Evaluate(deck.CardsFromString("1s,2s"))
	assert.EqualError(t, err, "a Liêng hand must have exactly 3 cards, got 2")
}

func TestCompare_categoryPrecedence(t *testing.T) {
	a := assert.New(t)

	sap := evaluate(t, "2h,2s,2c")
	lieng := evaluate(t, "11h,12s,13c")
	di := evaluate(t, "11h,11s,13c")
	normal := evaluate(t, "9h,13s,12c") // 9 points

	a.Less(Compare(sap, lieng), 0)
	a.Less(Compare(lieng, di), 0)
	a.Less(Compare(di, normal), 0)
	a.Greater(Compare(normal, sap), 0)
}

func TestCompare_withinCategory(t *testing.T) {
	a := assert.New(t)

	// sáp of aces beats sáp of kings
	a.Less(Compare(evaluate(t, "1h,1s,1c"), evaluate(t, "13h,13s,13c")), 0)

	// liêng ties broken by high card, then suit
	a.Less(Compare(evaluate(t, "12h,13s,1c"), evaluate(t, "11h,12s,13c")), 0)
	a.Less(Compare(evaluate(t, "5h,6s,7d"), evaluate(t, "5d,6c,7s")), 0)

	// đĩ by high card
	a.Less(Compare(evaluate(t, "11h,11s,13c"), evaluate(t, "11h,11c,12s")), 0)

	// normal by points
	a.Less(Compare(evaluate(t, "9h,13s,12c"), evaluate(t, "8h,13s,12c")), 0)

	// same points and same high-card rank: diamond beats spade
	left := evaluate(t, "4h,5c,13d")  // 9 points, high card K♢
	right := evaluate(t, "4d,5h,13s") // 9 points, high card K♠
	a.Less(Compare(left, right), 0)
	a.Greater(Compare(right, left), 0)
}

func TestCompare_trueTie(t *testing.T) {
	// same points, high cards share rank and suit hierarchy cannot
	// differ only when the high cards are the same rank and suit; a
	// true tie requires equal points and an equal-strength high card
	left := evaluate(t, "4h,5c,13d")
	right := evaluate(t, "2h,7c,13d")
	assert.Equal(t, 0, Compare(left, right))
}

func TestCompare_totalOrder(t *testing.T) {
	a := assert.New(t)

	hands := []*HandResult{
		evaluate(t, "1h,1s,1c"),
		evaluate(t, "2h,2s,2c"),
		evaluate(t, "12h,13s,1c"),
		evaluate(t, "1h,2s,3c"),
		evaluate(t, "11h,11s,13c"),
		evaluate(t, "9h,13s,12c"),
		evaluate(t, "4h,5c,13d"),
		evaluate(t, "4d,5h,13s"),
		evaluate(t, "10h,13s,12c"),
	}

	// antisymmetry
	for _, x := range hands {
		for _, y := range hands {
			a.Equal(Compare(x, y), -Compare(y, x))
		}
	}

	// transitivity over every triple
	sign := func(n int) int {
		switch {
		case n < 0:
			return -1
		case n > 0:
			return 1
		}
		return 0
	}

	for _, x := range hands {
		for _, y := range hands {
			for _, z := range hands {
				if sign(Compare(x, y)) <= 0 && sign(Compare(y, z)) <= 0 {
					a.LessOrEqual(sign(Compare(x, z)), 0)
				}
			}
		}
	}
}

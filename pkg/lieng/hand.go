package lieng

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sonnh58/lieng.wtf/pkg/deck"
)

// HandType represents the category of a 3-card Liêng hand
type HandType int

// hand type constants, weakest to strongest
const (
	// HandTypeNormal is any hand ranked by its point total
	HandTypeNormal HandType = iota
	// HandTypeDi is three face cards (J/Q/K) that are not consecutive
	HandTypeDi
	// HandTypeLieng is three consecutive ranks
	HandTypeLieng
	// HandTypeSap is three of a kind, the strongest hand
	HandTypeSap
)

func (h HandType) String() string {
	switch h {
	case HandTypeNormal:
		return "normal"
	case HandTypeDi:
		return "đĩ"
	case HandTypeLieng:
		return "liêng"
	case HandTypeSap:
		return "sáp"
	}

	return ""
}

// MarshalJSON encodes JSON
func (h HandType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(h),
		Name: h.String(),
	})
}

// HandResult is the evaluation of a 3-card hand.
// Points is only meaningful for normal hands.
type HandResult struct {
	Type     HandType   `json:"type"`
	Points   int        `json:"points"`
	HighCard *deck.Card `json:"highCard"`
	IsSuited bool       `json:"isSuited"`
}

func (h *HandResult) String() string {
	switch h.Type {
	case HandTypeSap:
		return fmt.Sprintf("sáp %ss", h.HighCard)
	case HandTypeLieng:
		if h.IsSuited {
			return fmt.Sprintf("suited liêng to %s", h.HighCard)
		}

		return fmt.Sprintf("liêng to %s", h.HighCard)
	case HandTypeDi:
		return fmt.Sprintf("đĩ to %s", h.HighCard)
	}

	return fmt.Sprintf("%d points", h.Points)
}

// Evaluate classifies a 3-card hand into exactly one category and
// returns the fully ordered ranking key
func Evaluate(cards []*deck.Card) (*HandResult, error) {
	if len(cards) != 3 {
		return nil, fmt.Errorf("a Liêng hand must have exactly 3 cards, got %d", len(cards))
	}

	result := &HandResult{
		HighCard: highCard(cards),
		IsSuited: isSuited(cards),
	}

	switch {
	case isSap(cards):
		result.Type = HandTypeSap
	case isLieng(cards):
		result.Type = HandTypeLieng
	case isDi(cards):
		result.Type = HandTypeDi
	default:
		result.Type = HandTypeNormal
		result.Points = calculatePoints(cards)
	}

	return result, nil
}

// Compare defines a total order over evaluated hands.
// Returns a negative value if a wins, positive if b wins, and zero on a
// true tie (the pot is split).
func Compare(a, b *HandResult) int {
	if a.Type != b.Type {
		return int(b.Type) - int(a.Type)
	}

	switch a.Type {
	case HandTypeSap:
		// trip rank first (aces high), then suit of the high card.
		// Equal trip ranks cannot happen with a single deck, but the
		// order is still defined.
		if ra, rb := a.HighCard.AceHighRank(), b.HighCard.AceHighRank(); ra != rb {
			return rb - ra
		}

		return b.HighCard.Suit.Strength() - a.HighCard.Suit.Strength()
	case HandTypeLieng, HandTypeDi:
		return a.HighCard.Compare(b.HighCard)
	}

	// normal hands: higher points win, suit of the high card breaks ties
	if a.Points != b.Points {
		return b.Points - a.Points
	}

	return b.HighCard.Suit.Strength() - a.HighCard.Suit.Strength()
}

// isSap returns true for three of a kind
func isSap(cards []*deck.Card) bool {
	return cards[0].Rank == cards[1].Rank && cards[1].Rank == cards[2].Rank
}

// isLieng returns true for three consecutive ranks.
// The only valid wraparounds are A-2-3 and Q-K-A; K-A-2 does not count.
func isLieng(cards []*deck.Card) bool {
	ranks := []int{cards[0].Rank, cards[1].Rank, cards[2].Rank}
	sort.Ints(ranks)

	// A-2-3 sorts to 1-2-3 and is caught here too
	if ranks[2]-ranks[1] == 1 && ranks[1]-ranks[0] == 1 {
		return true
	}

	// Q-K-A sorts to 1-12-13
	return ranks[0] == deck.Ace && ranks[1] == deck.Queen && ranks[2] == deck.King
}

// isSuited returns true if all three cards share the same suit
func isSuited(cards []*deck.Card) bool {
	return cards[0].Suit == cards[1].Suit && cards[1].Suit == cards[2].Suit
}

// isDi returns true if all three cards are face cards
func isDi(cards []*deck.Card) bool {
	for _, c := range cards {
		if !c.IsFaceCard() {
			return false
		}
	}

	return true
}

// calculatePoints returns the sum of the card points mod 10
func calculatePoints(cards []*deck.Card) int {
	sum := 0
	for _, c := range cards {
		sum += c.Points()
	}

	return sum % 10
}

// highCard returns the strongest card by ace-high rank, then suit strength
func highCard(cards []*deck.Card) *deck.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Compare(best) < 0 {
			best = c
		}
	}

	return best
}

package lieng

import (
	"sort"
	"time"

	"github.com/coder/quartz"
)

// turnManager owns the seat rotation for a single betting round: the
// fold/all-in sets, the "who has acted" bookkeeping, and the per-turn
// timeout. Seats are fixed-order at round start, dealer first.
type turnManager struct {
	playerIDs    []int64
	currentIndex int
	folded       map[int64]bool
	allIn        map[int64]bool
	acted        map[int64]bool
	timerSeconds int

	clock quartz.Clock
	timer *quartz.Timer
}

func newTurnManager(playerIDs []int64, startIndex, timerSeconds int, clock quartz.Clock) *turnManager {
	return &turnManager{
		playerIDs:    playerIDs,
		currentIndex: startIndex % len(playerIDs),
		folded:       make(map[int64]bool),
		allIn:        make(map[int64]bool),
		acted:        make(map[int64]bool),
		timerSeconds: timerSeconds,
		clock:        clock,
	}
}

// current returns the player whose turn it is
func (t *turnManager) current() int64 {
	return t.playerIDs[t.currentIndex]
}

// advance marks the current seat as acted, cancels any pending timeout,
// and moves to the next seat that can still act. Returns false if no
// seat can act (the round is complete by exhaustion).
func (t *turnManager) advance() (int64, bool) {
	t.acted[t.current()] = true
	t.clearTimer()

	if t.isRoundComplete() {
		return 0, false
	}

	next := (t.currentIndex + 1) % len(t.playerIDs)
	for lap := 0; t.folded[t.playerIDs[next]] || t.allIn[t.playerIDs[next]]; lap++ {
		if lap >= len(t.playerIDs) {
			return 0, false
		}

		next = (next + 1) % len(t.playerIDs)
	}

	t.currentIndex = next
	return t.playerIDs[next], true
}

// fold removes the player from the rotation
func (t *turnManager) fold(id int64) {
	t.folded[id] = true
	t.acted[id] = true
}

// markAllIn records that the player can no longer act
func (t *turnManager) markAllIn(id int64) {
	t.allIn[id] = true
	t.acted[id] = true
}

// resetActedOnRaise clears acted status for every seat that can still
// act, forcing them to respond to the new bet level. The raiser and the
// folded/all-in seats stay marked.
func (t *turnManager) resetActedOnRaise(raiserID int64) {
	t.acted = make(map[int64]bool)
	t.acted[raiserID] = true
	for id := range t.folded {
		t.acted[id] = true
	}
	for id := range t.allIn {
		t.acted[id] = true
	}
}

// isRoundComplete returns true once no further action is possible:
// at most one non-folded seat remains, or every seat still able to act
// has acted
func (t *turnManager) isRoundComplete() bool {
	active := t.activePlayers()
	if len(active) <= 1 {
		return true
	}

	canAct := make([]int64, 0, len(active))
	for _, id := range active {
		if !t.allIn[id] {
			canAct = append(canAct, id)
		}
	}

	if len(canAct) <= 1 {
		for _, id := range canAct {
			if !t.acted[id] {
				return false
			}
		}

		return true
	}

	for _, id := range active {
		if !t.acted[id] {
			return false
		}
	}

	return true
}

// activePlayers returns the non-folded seats in seating order
func (t *turnManager) activePlayers() []int64 {
	active := make([]int64, 0, len(t.playerIDs))
	for _, id := range t.playerIDs {
		if !t.folded[id] {
			active = append(active, id)
		}
	}

	return active
}

func (t *turnManager) isSeated(id int64) bool {
	for _, pid := range t.playerIDs {
		if pid == id {
			return true
		}
	}

	return false
}

// startTimer schedules the auto-fold callback for the current seat.
// There is at most one scheduled callback per turn; any previous one is
// cancelled first so a stale timer cannot fire after the turn advanced.
func (t *turnManager) startTimer(onTimeout func(playerID int64)) {
	t.clearTimer()

	id := t.current()
	t.timer = t.clock.AfterFunc(time.Duration(t.timerSeconds)*time.Second, func() {
		onTimeout(id)
	})
}

func (t *turnManager) clearTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// TurnSnapshot is the serializable projection of the turn state.
// Remaining turn time is deliberately not captured; a restored round
// restarts the current turn's timeout at full duration.
type TurnSnapshot struct {
	PlayerIDs    []int64 `json:"playerIds"`
	CurrentIndex int     `json:"currentIndex"`
	Folded       []int64 `json:"folded"`
	AllIn        []int64 `json:"allIn"`
	Acted        []int64 `json:"acted"`
}

func (t *turnManager) serialize() *TurnSnapshot {
	return &TurnSnapshot{
		PlayerIDs:    append([]int64{}, t.playerIDs...),
		CurrentIndex: t.currentIndex,
		Folded:       sortedKeys(t.folded),
		AllIn:        sortedKeys(t.allIn),
		Acted:        sortedKeys(t.acted),
	}
}

func restoreTurnManager(snapshot *TurnSnapshot, timerSeconds int, clock quartz.Clock) *turnManager {
	t := newTurnManager(snapshot.PlayerIDs, 0, timerSeconds, clock)
	t.currentIndex = snapshot.CurrentIndex
	for _, id := range snapshot.Folded {
		t.folded[id] = true
	}
	for _, id := range snapshot.AllIn {
		t.allIn[id] = true
	}
	for _, id := range snapshot.Acted {
		t.acted[id] = true
	}

	return t
}

func sortedKeys(set map[int64]bool) []int64 {
	keys := make([]int64, 0, len(set))
	for id := range set {
		keys = append(keys, id)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

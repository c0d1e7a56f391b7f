package lieng

// UserError is an error caused by the player that is safe to send back
// in an action result
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// user-facing action failures
const (
	ErrNotBettingPhase  UserError = "not in the betting phase"
	ErrNotYourTurn      UserError = "it is not your turn"
	ErrPlayerNotFound   UserError = "player is not in the round"
	ErrUnknownAction    UserError = "unknown action"
	ErrAllInNotAllowed  UserError = "all-in is not allowed at this table"
	ErrNotEnoughToCall  UserError = "not enough chips to call"
	ErrNotEnoughToRaise UserError = "not enough chips to raise"
	ErrRoundInProgress  UserError = "a round is already in progress"
	ErrNotEnoughPlayers UserError = "at least two players with chips are required"
)

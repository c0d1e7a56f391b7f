package lieng

import "errors"

// Options configures how a Liêng table is played
type Options struct {
	MaxPlayers int `json:"maxPlayers" yaml:"maxPlayers"`
	Ante       int `json:"ante" yaml:"ante"`
	MinBet     int `json:"minBet" yaml:"minBet"`
	MaxBet     int `json:"maxBet" yaml:"maxBet"`
	// TurnTimer is the per-turn time budget in seconds
	TurnTimer     int  `json:"turnTimer" yaml:"turnTimer"`
	StartingChips int  `json:"startingChips" yaml:"startingChips"`
	AllowAllIn    bool `json:"allowAllIn" yaml:"allowAllIn"`
	// RaiseInMinBetSteps restricts raise totals to multiples of the
	// minimum bet (a table-rule choice)
	RaiseInMinBetSteps bool `json:"raiseInMinBetSteps" yaml:"raiseInMinBetSteps"`
}

// DefaultOptions returns the default options for Liêng
func DefaultOptions() Options {
	return Options{
		MaxPlayers:    12,
		Ante:          10,
		MinBet:        10,
		MaxBet:        1000,
		TurnTimer:     60,
		StartingChips: 1000,
		AllowAllIn:    true,
	}
}

func validateOptions(opts Options) error {
	if opts.Ante <= 0 {
		return errors.New("ante must be > 0")
	}

	if opts.MinBet <= 0 {
		return errors.New("minimum bet must be > 0")
	}

	if opts.MaxBet > 0 && opts.MaxBet < opts.MinBet {
		return errors.New("maximum bet must not be below the minimum bet")
	}

	if opts.MaxPlayers < 2 {
		return errors.New("table must seat at least two players")
	}

	if opts.TurnTimer <= 0 {
		return errors.New("turn timer must be > 0")
	}

	return nil
}

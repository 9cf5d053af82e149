package gamestate

import (
	"strings"

	"github.com/riskibarqy/pitchsync/internal/domain/feed"
)

const (
	MaxBalls   = 3
	MaxStrikes = 3
	MaxOuts    = 3
)

// Bases is the base-occupancy mask: bit0 first, bit1 second, bit2 third.
type Bases uint8

const (
	BaseFirst  Bases = 1 << 0
	BaseSecond Bases = 1 << 1
	BaseThird  Bases = 1 << 2

	BasesEmpty  Bases = 0
	BasesLoaded Bases = BaseFirst | BaseSecond | BaseThird
)

func (b Bases) Has(base Bases) bool {
	return b&base != 0
}

// Count is the ball/strike/out/base state at one point in a half-inning.
type Count struct {
	Balls   int
	Strikes int
	Outs    int
	Bases   Bases
}

// NewPlateAppearance resets balls and strikes, keeping outs and runners.
func (c Count) NewPlateAppearance() Count {
	c.Balls = 0
	c.Strikes = 0
	return c
}

// NewHalfInning resets every component.
func (c Count) NewHalfInning() Count {
	return Count{}
}

// PitchOutcome is the effect a pitch call has on the count.
type PitchOutcome int

const (
	OutcomeOther PitchOutcome = iota
	OutcomeBall
	OutcomeStrike
	OutcomeFoul
	OutcomeInPlay
	OutcomeHitByPitch
)

var callOutcomes = map[string]PitchOutcome{
	"B":  OutcomeBall,
	"*B": OutcomeBall,
	"I":  OutcomeBall,
	"P":  OutcomeBall,
	"V":  OutcomeBall,
	"VB": OutcomeBall,
	"C":  OutcomeStrike,
	"S":  OutcomeStrike,
	"W":  OutcomeStrike,
	"M":  OutcomeStrike,
	"Q":  OutcomeStrike,
	"T":  OutcomeStrike,
	"L":  OutcomeStrike,
	"O":  OutcomeStrike,
	"A":  OutcomeStrike,
	"AC": OutcomeStrike,
	"F":  OutcomeFoul,
	"R":  OutcomeFoul,
	"X":  OutcomeInPlay,
	"D":  OutcomeInPlay,
	"E":  OutcomeInPlay,
	"H":  OutcomeHitByPitch,
}

// ClassifyPitch maps a pitch event's call to its count effect, falling back to
// the feed's ball/strike/in-play flags for codes it does not know.
func ClassifyPitch(ev feed.Event) PitchOutcome {
	if outcome, ok := callOutcomes[strings.ToUpper(strings.TrimSpace(ev.CallCode))]; ok {
		return outcome
	}
	switch {
	case ev.IsInPlay:
		return OutcomeInPlay
	case ev.IsBall:
		return OutcomeBall
	case ev.IsStrike:
		return OutcomeStrike
	default:
		return OutcomeOther
	}
}

// ApplyPitch returns the count after the pitch's ball/strike effect.
// Balls and strikes saturate at their bounds; a foul never produces strike three.
func (c Count) ApplyPitch(outcome PitchOutcome) Count {
	switch outcome {
	case OutcomeBall:
		if c.Balls < MaxBalls {
			c.Balls++
		}
	case OutcomeStrike:
		if c.Strikes < MaxStrikes {
			c.Strikes++
		}
	case OutcomeFoul:
		if c.Strikes < MaxStrikes-1 {
			c.Strikes++
		}
	}
	return c
}

// ApplyRunners moves runners per the movement records of one event and returns
// the new count plus the runs that scored. Segments for the same runner are
// collapsed so a runner moving 1B->2B->3B ends on third only.
func (c Count) ApplyRunners(moves []feed.RunnerMovement) (Count, int) {
	if len(moves) == 0 {
		return c, 0
	}

	type path struct {
		start string
		end   string
		out   bool
	}
	order := make([]int64, 0, len(moves))
	paths := make(map[int64]*path, len(moves))
	for _, move := range moves {
		p, ok := paths[move.RunnerID]
		if !ok {
			p = &path{start: move.Start}
			paths[move.RunnerID] = p
			order = append(order, move.RunnerID)
		}
		p.end = move.End
		if move.IsOut {
			p.out = true
		}
	}

	next := c
	for _, runnerID := range order {
		next.Bases &^= baseBit(paths[runnerID].start)
	}

	runs := 0
	for _, runnerID := range order {
		p := paths[runnerID]
		if p.out {
			if next.Outs < MaxOuts {
				next.Outs++
			}
			continue
		}
		if isHome(p.end) {
			runs++
			continue
		}
		next.Bases |= baseBit(p.end)
	}

	return next, runs
}

func baseBit(label string) Bases {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case feed.BaseFirst:
		return BaseFirst
	case feed.BaseSecond:
		return BaseSecond
	case feed.BaseThird:
		return BaseThird
	default:
		return BasesEmpty
	}
}

func isHome(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case feed.BaseHome, "home", "4b":
		return true
	default:
		return false
	}
}

// Score is the running score of a game.
type Score struct {
	Home int
	Away int
}

// Add credits runs to the batting side.
func (s Score) Add(topInning bool, runs int) Score {
	if topInning {
		s.Away += runs
	} else {
		s.Home += runs
	}
	return s
}

package gamestate

import (
	"strings"

	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
)

// State is the running situation of one game. It is a value: every transition
// returns the next State and leaves the receiver untouched.
type State struct {
	Inning    int
	TopInning bool
	Count     Count
	Score     Score
	Home      Defense
	Away      Defense
	started   bool
}

// New starts a game with each team's starting alignment.
func New(home, away Defense) State {
	return State{Home: home, Away: away}
}

// BeginPlateAppearance resets balls and strikes and, on a half-inning change,
// outs and runners as well. Defensive alignments carry over untouched.
func (s State) BeginPlateAppearance(inning int, topInning bool) State {
	if !s.started || s.Inning != inning || s.TopInning != topInning {
		s.Count = s.Count.NewHalfInning()
		s.Inning = inning
		s.TopInning = topInning
		s.started = true
		return s
	}
	s.Count = s.Count.NewPlateAppearance()
	return s
}

// Fielding returns the alignment of the team on defense.
func (s State) Fielding() Defense {
	if s.TopInning {
		return s.Home
	}
	return s.Away
}

// Batting returns the alignment record of the team at bat; only its DH slot is
// meaningful while batting.
func (s State) Batting() Defense {
	if s.TopInning {
		return s.Away
	}
	return s.Home
}

func (s State) withFielding(d Defense) State {
	if s.TopInning {
		s.Home = d
	} else {
		s.Away = d
	}
	return s
}

func (s State) withBatting(d Defense) State {
	if s.TopInning {
		s.Away = d
	} else {
		s.Home = d
	}
	return s
}

// ApplySubstitution applies a lineup-changing action. Events that are not
// substitutions or switches are ignored.
func (s State) ApplySubstitution(ev feed.Event) State {
	if ev.PlayerID <= 0 {
		return s
	}

	switch normalizeAction(ev.ActionType) {
	case feed.ActionPitchingSubstitution:
		return s.withFielding(s.Fielding().Assign(boxscore.PositionPitcher, ev.PlayerID))
	case feed.ActionDefensiveSubstitution, feed.ActionDefensiveSwitch:
		fielding := s.Fielding()
		if IsDefensivePosition(ev.Position) {
			if fielding.DesignatedHitter == ev.PlayerID {
				fielding.DesignatedHitter = 0
			}
			return s.withFielding(fielding.Assign(ev.Position, ev.PlayerID))
		}
		if normalizePosition(ev.Position) == boxscore.PositionDesignatedHitter {
			return s.withFielding(fielding.Assign(ev.Position, ev.PlayerID))
		}
		return s
	case feed.ActionOffensiveSubstitution:
		batting := s.Batting()
		if normalizePosition(ev.Position) == boxscore.PositionDesignatedHitter ||
			(ev.ReplacedPlayerID > 0 && batting.DesignatedHitter == ev.ReplacedPlayerID) {
			return s.withBatting(batting.Assign(boxscore.PositionDesignatedHitter, ev.PlayerID))
		}
		return s
	default:
		return s
	}
}

// IsLineupChange reports whether the event alters a defensive or DH slot.
func IsLineupChange(ev feed.Event) bool {
	switch normalizeAction(ev.ActionType) {
	case feed.ActionPitchingSubstitution,
		feed.ActionDefensiveSubstitution,
		feed.ActionDefensiveSwitch,
		feed.ActionOffensiveSubstitution:
		return true
	default:
		return false
	}
}

// ApplyPitch applies the pitch call and the runner movements recorded for it.
func (s State) ApplyPitch(ev feed.Event, moves []feed.RunnerMovement) (State, int) {
	s.Count = s.Count.ApplyPitch(ClassifyPitch(ev))
	return s.ApplyRunners(moves)
}

// ApplyRunners applies runner movements recorded for a non-pitch event.
func (s State) ApplyRunners(moves []feed.RunnerMovement) (State, int) {
	next, runs := s.Count.ApplyRunners(moves)
	s.Count = next
	s.Score = s.Score.Add(s.TopInning, runs)
	return s, runs
}

func normalizeAction(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

package gamestate

import (
	"strings"

	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
)

// Defense is the fielding alignment of one team. Zero ids mean the slot is unknown.
// Values are never mutated in place; every transition returns a new Defense.
type Defense struct {
	Pitcher          int64
	Catcher          int64
	FirstBase        int64
	SecondBase       int64
	ThirdBase        int64
	Shortstop        int64
	LeftField        int64
	CenterField      int64
	RightField       int64
	DesignatedHitter int64
}

// DefenseFromLineup builds the starting alignment from a box score side.
func DefenseFromLineup(side boxscore.Side) Defense {
	var out Defense
	for position, playerID := range side.Starters {
		out = out.Assign(position, playerID)
	}
	return out
}

// Assign returns a copy with the slot for the position code set to playerID.
// Unknown codes (pinch hitter, pinch runner, empty) leave the alignment unchanged.
func (d Defense) Assign(position string, playerID int64) Defense {
	switch normalizePosition(position) {
	case boxscore.PositionPitcher:
		d.Pitcher = playerID
	case boxscore.PositionCatcher:
		d.Catcher = playerID
	case boxscore.PositionFirstBase:
		d.FirstBase = playerID
	case boxscore.PositionSecondBase:
		d.SecondBase = playerID
	case boxscore.PositionThirdBase:
		d.ThirdBase = playerID
	case boxscore.PositionShortstop:
		d.Shortstop = playerID
	case boxscore.PositionLeftField:
		d.LeftField = playerID
	case boxscore.PositionCenterField:
		d.CenterField = playerID
	case boxscore.PositionRightField:
		d.RightField = playerID
	case boxscore.PositionDesignatedHitter:
		d.DesignatedHitter = playerID
	}
	return d
}

// At returns the player at the position code.
func (d Defense) At(position string) (int64, bool) {
	var id int64
	switch normalizePosition(position) {
	case boxscore.PositionPitcher:
		id = d.Pitcher
	case boxscore.PositionCatcher:
		id = d.Catcher
	case boxscore.PositionFirstBase:
		id = d.FirstBase
	case boxscore.PositionSecondBase:
		id = d.SecondBase
	case boxscore.PositionThirdBase:
		id = d.ThirdBase
	case boxscore.PositionShortstop:
		id = d.Shortstop
	case boxscore.PositionLeftField:
		id = d.LeftField
	case boxscore.PositionCenterField:
		id = d.CenterField
	case boxscore.PositionRightField:
		id = d.RightField
	case boxscore.PositionDesignatedHitter:
		id = d.DesignatedHitter
	}
	return id, id > 0
}

// Fielders returns the eight non-pitcher fielders, catcher first.
func (d Defense) Fielders() [8]int64 {
	return [8]int64{
		d.Catcher,
		d.FirstBase,
		d.SecondBase,
		d.ThirdBase,
		d.Shortstop,
		d.LeftField,
		d.CenterField,
		d.RightField,
	}
}

// IsDefensivePosition reports whether the code names a fielding slot (DH excluded).
func IsDefensivePosition(position string) bool {
	switch normalizePosition(position) {
	case boxscore.PositionPitcher,
		boxscore.PositionCatcher,
		boxscore.PositionFirstBase,
		boxscore.PositionSecondBase,
		boxscore.PositionThirdBase,
		boxscore.PositionShortstop,
		boxscore.PositionLeftField,
		boxscore.PositionCenterField,
		boxscore.PositionRightField:
		return true
	default:
		return false
	}
}

var positionAliases = map[string]string{
	"P":  boxscore.PositionPitcher,
	"C":  boxscore.PositionCatcher,
	"1B": boxscore.PositionFirstBase,
	"2B": boxscore.PositionSecondBase,
	"3B": boxscore.PositionThirdBase,
	"SS": boxscore.PositionShortstop,
	"LF": boxscore.PositionLeftField,
	"CF": boxscore.PositionCenterField,
	"RF": boxscore.PositionRightField,
	"DH": boxscore.PositionDesignatedHitter,
}

func normalizePosition(position string) string {
	value := strings.ToUpper(strings.TrimSpace(position))
	if code, ok := positionAliases[value]; ok {
		return code
	}
	return value
}

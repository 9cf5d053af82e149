package boxscore

// Position codes used by the provider for fielding slots.
const (
	PositionPitcher          = "1"
	PositionCatcher          = "2"
	PositionFirstBase        = "3"
	PositionSecondBase       = "4"
	PositionThirdBase        = "5"
	PositionShortstop        = "6"
	PositionLeftField        = "7"
	PositionCenterField      = "8"
	PositionRightField       = "9"
	PositionDesignatedHitter = "10"
)

// Summary is the cached slice of a box score needed for reconstruction.
type Summary struct {
	GamePk   int64     `json:"gamePk" validate:"required,gt=0"`
	Home     Side      `json:"home"`
	Away     Side      `json:"away"`
	Umpires  Officials `json:"umpires"`
	Attended int       `json:"attendance,omitempty"`
}

func (s Summary) Key() int64 {
	return s.GamePk
}

// Side is one team's box score.
type Side struct {
	TeamID int64 `json:"teamId"`
	// Starters maps position code to the starting player at that position.
	Starters map[string]int64 `json:"starters"`
	// BattingOrder lists starting batters in lineup order.
	BattingOrder []int64 `json:"battingOrder"`
	// Players lists every person who appeared for the side.
	Players []int64 `json:"players"`
}

type Officials struct {
	HomePlate  int64 `json:"homePlate,omitempty"`
	FirstBase  int64 `json:"firstBase,omitempty"`
	SecondBase int64 `json:"secondBase,omitempty"`
	ThirdBase  int64 `json:"thirdBase,omitempty"`
}

// PlayerIDs returns the distinct persons referenced by the box score, umpires excluded.
func (s Summary) PlayerIDs() []int64 {
	seen := make(map[int64]struct{}, len(s.Home.Players)+len(s.Away.Players))
	out := make([]int64, 0, len(s.Home.Players)+len(s.Away.Players))
	add := func(id int64) {
		if id <= 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, side := range []Side{s.Home, s.Away} {
		for _, id := range side.Players {
			add(id)
		}
		for _, id := range side.BattingOrder {
			add(id)
		}
		for _, id := range side.Starters {
			add(id)
		}
	}
	return out
}

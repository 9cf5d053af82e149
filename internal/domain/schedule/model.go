package schedule

import (
	"strings"
	"time"

	"github.com/riskibarqy/pitchsync/internal/domain/season"
)

// Coded game states reported by the provider.
const (
	StateScheduled  = "S"
	StatePreGame    = "P"
	StateInProgress = "I"
	StateGameOver   = "O"
	StateFinal      = "F"
	StatePostponed  = "D"
	StateCancelled  = "C"
	StateSuspended  = "U"
)

// GameSummary is one schedule entry.
type GameSummary struct {
	GamePk        int64     `json:"gamePk" validate:"required,gt=0"`
	GameDate      time.Time `json:"gameDate"`
	OfficialDate  string    `json:"officialDate"`
	Season        int       `json:"season" validate:"required,gt=1870"`
	LevelOfPlayID int64     `json:"levelOfPlayId" validate:"required,gt=0"`
	GameType      string    `json:"gameType"`
	StatusCode    string    `json:"statusCode"`
	AbstractState string    `json:"abstractState"`
	DetailedState string    `json:"detailedState"`
	VenueID       int64     `json:"venueId"`
	HomeTeamID    int64     `json:"homeTeamId"`
	AwayTeamID    int64     `json:"awayTeamId"`
	DoubleHeader  string    `json:"doubleHeader,omitempty"`
	GameNumber    int       `json:"gameNumber,omitempty"`
	FeedURL       string    `json:"feedUrl,omitempty"`
	BoxScoreURL   string    `json:"boxScoreUrl,omitempty"`
}

func (g GameSummary) Key() int64 {
	return g.GamePk
}

func (g GameSummary) SeasonKey() season.Key {
	return season.Key{Year: g.Season, LevelOfPlayID: g.LevelOfPlayID}
}

// IsTerminal reports whether the game can no longer change upstream.
func (g GameSummary) IsTerminal() bool {
	switch strings.ToUpper(strings.TrimSpace(g.StatusCode)) {
	case StateFinal, StateGameOver, StateCancelled:
		return true
	}
	switch strings.ToLower(strings.TrimSpace(g.DetailedState)) {
	case "final", "game over", "completed early", "cancelled":
		return true
	}
	return false
}

// HasPlayData reports whether a finished play-by-play feed should exist.
func (g GameSummary) HasPlayData() bool {
	if !g.IsTerminal() {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(g.StatusCode), StateCancelled) &&
		!strings.EqualFold(strings.TrimSpace(g.DetailedState), "cancelled")
}

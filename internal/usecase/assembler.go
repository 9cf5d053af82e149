package usecase

import (
	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
)

// AssemblerInput borrows the cached collections. Nothing in it is modified.
type AssemblerInput struct {
	Games     []schedule.GameSummary
	BoxScores []boxscore.Summary
	Venues    []venue.Venue
	Teams     []team.Team
	Staffs    []coach.Staff
	Players   []player.Player
}

// GameCoaches is the coaching staff of both clubs in one game.
type GameCoaches struct {
	Home *coach.Staff
	Away *coach.Staff
}

// Lookups are the read-only join tables used by reconstruction. When a
// collection holds duplicate keys the later entry wins.
type Lookups struct {
	Games       map[int64]schedule.GameSummary
	BoxScores   map[int64]boxscore.Summary
	Venues      map[season.IDKey]venue.Venue
	VenuesByID  map[int64]venue.Venue
	Teams       map[season.IDKey]team.Team
	Staffs      map[season.IDKey]coach.Staff
	Players     map[int64]player.Player
	GameCoaches map[int64]GameCoaches
}

// AssembleLookups builds the join tables. It performs no I/O.
func AssembleLookups(in AssemblerInput) *Lookups {
	out := &Lookups{
		Games:       make(map[int64]schedule.GameSummary, len(in.Games)),
		BoxScores:   make(map[int64]boxscore.Summary, len(in.BoxScores)),
		Venues:      make(map[season.IDKey]venue.Venue, len(in.Venues)),
		VenuesByID:  make(map[int64]venue.Venue, len(in.Venues)),
		Teams:       make(map[season.IDKey]team.Team, len(in.Teams)),
		Staffs:      make(map[season.IDKey]coach.Staff, len(in.Staffs)),
		Players:     make(map[int64]player.Player, len(in.Players)),
		GameCoaches: make(map[int64]GameCoaches, len(in.Games)),
	}

	for _, item := range in.Games {
		out.Games[item.GamePk] = item
	}
	for _, item := range in.BoxScores {
		out.BoxScores[item.GamePk] = item
	}
	for _, item := range in.Venues {
		out.Venues[item.Key()] = item
		if latest, ok := out.VenuesByID[item.ID]; !ok || item.Season >= latest.Season {
			out.VenuesByID[item.ID] = item
		}
	}
	for _, item := range in.Teams {
		out.Teams[item.Key()] = item
	}
	for _, item := range in.Staffs {
		out.Staffs[item.Key()] = item
	}
	for _, item := range in.Players {
		out.Players[item.ID] = item
	}

	for gamePk, game := range out.Games {
		var coaches GameCoaches
		if staff, ok := out.Staffs[season.IDKey{ID: game.HomeTeamID, Season: game.Season}]; ok {
			coaches.Home = &staff
		}
		if staff, ok := out.Staffs[season.IDKey{ID: game.AwayTeamID, Season: game.Season}]; ok {
			coaches.Away = &staff
		}
		if coaches.Home != nil || coaches.Away != nil {
			out.GameCoaches[gamePk] = coaches
		}
	}

	return out
}

// Venue resolves the season-specific venue of a game, falling back to the most
// recent season cached for the same venue id.
func (l *Lookups) Venue(game schedule.GameSummary) (venue.Venue, bool) {
	if item, ok := l.Venues[season.IDKey{ID: game.VenueID, Season: game.Season}]; ok {
		return item, true
	}
	item, ok := l.VenuesByID[game.VenueID]
	return item, ok
}

func (l *Lookups) Team(id int64, year int) (team.Team, bool) {
	item, ok := l.Teams[season.IDKey{ID: id, Season: year}]
	return item, ok
}

func (l *Lookups) Player(id int64) (player.Player, bool) {
	if id <= 0 {
		return player.Player{}, false
	}
	item, ok := l.Players[id]
	return item, ok
}

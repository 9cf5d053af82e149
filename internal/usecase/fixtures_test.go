package usecase

import (
	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
)

const (
	fixtureGamePk  int64 = 745001
	fixtureSeason        = 2024
	fixtureVenueID int64 = 15
	fixtureHomeID  int64 = 147
	fixtureAwayID  int64 = 111
)

func fixtureGame(gamePk int64) schedule.GameSummary {
	return schedule.GameSummary{
		GamePk:        gamePk,
		OfficialDate:  "2024-07-04",
		Season:        fixtureSeason,
		LevelOfPlayID: season.LevelMLB,
		GameType:      "R",
		StatusCode:    schedule.StateFinal,
		AbstractState: "Final",
		DetailedState: "Final",
		VenueID:       fixtureVenueID,
		HomeTeamID:    fixtureHomeID,
		AwayTeamID:    fixtureAwayID,
	}
}

// fixtureSide numbers players base+1 (pitcher) through base+10 (designated hitter).
func fixtureSide(teamID, base int64) boxscore.Side {
	side := boxscore.Side{TeamID: teamID, Starters: make(map[string]int64, 10)}
	positions := []string{
		boxscore.PositionPitcher,
		boxscore.PositionCatcher,
		boxscore.PositionFirstBase,
		boxscore.PositionSecondBase,
		boxscore.PositionThirdBase,
		boxscore.PositionShortstop,
		boxscore.PositionLeftField,
		boxscore.PositionCenterField,
		boxscore.PositionRightField,
		boxscore.PositionDesignatedHitter,
	}
	for i, position := range positions {
		id := base + int64(i) + 1
		side.Starters[position] = id
		side.Players = append(side.Players, id)
		if position != boxscore.PositionPitcher {
			side.BattingOrder = append(side.BattingOrder, id)
		}
	}
	return side
}

func fixtureBoxScore(gamePk int64) boxscore.Summary {
	return boxscore.Summary{
		GamePk:  gamePk,
		Home:    fixtureSide(fixtureHomeID, 1000),
		Away:    fixtureSide(fixtureAwayID, 2000),
		Umpires: boxscore.Officials{HomePlate: 427315},
	}
}

func fixtureVenue() venue.Venue {
	elevation := 15
	return venue.Venue{ID: fixtureVenueID, Season: fixtureSeason, Name: "Yankee Stadium", City: "Bronx", Elevation: &elevation}
}

func fixtureTeams() []team.Team {
	return []team.Team{
		{ID: fixtureHomeID, Season: fixtureSeason, Name: "New York Yankees", Abbreviation: "NYY"},
		{ID: fixtureAwayID, Season: fixtureSeason, Name: "Boston Red Sox", Abbreviation: "BOS"},
	}
}

func fixtureStaffs() []coach.Staff {
	return []coach.Staff{
		{TeamID: fixtureHomeID, Season: fixtureSeason, Coaches: []coach.Coach{
			{PersonID: 9001, FullName: "Home Manager", JobCode: coach.JobManager},
			{PersonID: 9002, FullName: "Home Pitching Coach", JobCode: coach.JobPitchingCoach},
		}},
		{TeamID: fixtureAwayID, Season: fixtureSeason, Coaches: []coach.Coach{
			{PersonID: 9101, FullName: "Away Manager", JobCode: coach.JobManager},
			{PersonID: 9102, FullName: "Away Pitching Coach", JobCode: coach.JobPitchingCoach},
		}},
	}
}

func fixturePlayers() []player.Player {
	return []player.Player{
		{ID: 1001, FullName: "Home Starter", PitchHand: player.HandRight},
		{ID: 2003, FullName: "Away First Baseman", BatSide: player.HandLeft},
	}
}

func fixtureLookups(gamePk int64) *Lookups {
	return AssembleLookups(AssemblerInput{
		Games:     []schedule.GameSummary{fixtureGame(gamePk)},
		BoxScores: []boxscore.Summary{fixtureBoxScore(gamePk)},
		Venues:    []venue.Venue{fixtureVenue()},
		Teams:     fixtureTeams(),
		Staffs:    fixtureStaffs(),
		Players:   fixturePlayers(),
	})
}

func pitchEvent(index int, callCode string) feed.Event {
	speed := 95.1
	ev := feed.Event{
		Index:       index,
		Kind:        feed.KindPitch,
		IsPitch:     true,
		PitchNumber: index + 1,
		CallCode:    callCode,
		Pitch:       &feed.PitchData{TypeCode: "FF", StartSpeed: &speed},
	}
	switch callCode {
	case "B":
		ev.IsBall = true
	case "C", "S", "F":
		ev.IsStrike = true
	case "X":
		ev.IsInPlay = true
	}
	return ev
}

// fixtureFeed is a single top-of-first plate appearance: a ball then a called strike.
func fixtureFeed(gamePk int64) feed.Game {
	temperature, duration := 78, 171
	return feed.Game{
		GamePk: gamePk,
		Meta: feed.Meta{
			WeatherCondition: "Partly Cloudy",
			TemperatureF:     &temperature,
			Wind:             "8 mph, Out To CF",
			DayNight:         "night",
			FirstPitch:       "2024-07-04T23:05:00.000Z",
			DurationMinutes:  &duration,
			ScheduledInnings: 9,
		},
		PlateAppearances: []feed.PlateAppearance{
			{
				AtBatIndex:  0,
				Inning:      1,
				IsTopInning: true,
				BatterID:    2003,
				PitcherID:   1001,
				BatSide:     player.HandLeft,
				PitchHand:   player.HandRight,
				Event:       "Strikeout",
				EventType:   "strikeout",
				Events:      []feed.Event{pitchEvent(0, "B"), pitchEvent(1, "C")},
			},
		},
	}
}

package usecase

import (
	"testing"

	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
)

func TestAssembleLookups_LaterDuplicateWins(t *testing.T) {
	t.Parallel()

	lookups := AssembleLookups(AssemblerInput{
		Players: []player.Player{
			{ID: 660271, FullName: "Stale Name"},
			{ID: 660271, FullName: "Shohei Ohtani"},
		},
	})
	got, ok := lookups.Player(660271)
	if !ok || got.FullName != "Shohei Ohtani" {
		t.Fatalf("unexpected player: %+v ok=%v", got, ok)
	}
	if _, ok := lookups.Player(0); ok {
		t.Fatalf("zero id must never resolve")
	}
}

func TestAssembleLookups_VenueFallsBackToLatestSeason(t *testing.T) {
	t.Parallel()

	lookups := AssembleLookups(AssemblerInput{
		Venues: []venue.Venue{
			{ID: fixtureVenueID, Season: 2022, Name: "Old Name"},
			{ID: fixtureVenueID, Season: 2023, Name: "New Name"},
		},
	})

	game := fixtureGame(fixtureGamePk)
	got, ok := lookups.Venue(game)
	if !ok || got.Name != "New Name" {
		t.Fatalf("unexpected fallback venue: %+v ok=%v", got, ok)
	}

	game.Season = 2022
	got, ok = lookups.Venue(game)
	if !ok || got.Name != "Old Name" {
		t.Fatalf("expected season-specific venue, got %+v", got)
	}
}

func TestAssembleLookups_GameCoaches(t *testing.T) {
	t.Parallel()

	lookups := AssembleLookups(AssemblerInput{
		Games:  []schedule.GameSummary{fixtureGame(fixtureGamePk), fixtureGame(fixtureGamePk + 1)},
		Staffs: fixtureStaffs()[:1],
	})

	coaches, ok := lookups.GameCoaches[fixtureGamePk]
	if !ok || coaches.Home == nil || coaches.Away != nil {
		t.Fatalf("unexpected game coaches: %+v ok=%v", coaches, ok)
	}
	if coaches.Home.TeamID != fixtureHomeID {
		t.Fatalf("unexpected home staff team: %d", coaches.Home.TeamID)
	}
	if _, ok := lookups.Team(fixtureHomeID, fixtureSeason); ok {
		t.Fatalf("no teams were assembled")
	}
}

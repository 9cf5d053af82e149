package usecase

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
	"github.com/riskibarqy/pitchsync/internal/domain/gamestate"
	"github.com/riskibarqy/pitchsync/internal/domain/pitch"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
)

// GameResult is the output of reconstructing one game.
type GameResult struct {
	GamePk  int64
	Pitches []pitch.Pitch
	// Misses counts optional joins that found nothing and were left nil.
	Misses int
}

type ReconstructorOptions struct {
	Physics       PhysicsDeriver
	RunExpectancy gamestate.RunExpectancy
}

// Reconstructor turns a decoded play-by-play feed into flat pitch rows. It
// holds no per-game state and is safe for concurrent use.
type Reconstructor struct {
	physics       PhysicsDeriver
	runExpectancy gamestate.RunExpectancy
}

func NewReconstructor(opts ReconstructorOptions) *Reconstructor {
	return &Reconstructor{
		physics:       opts.Physics,
		runExpectancy: opts.RunExpectancy,
	}
}

// gameContext is the per-game metadata resolved once before walking events.
type gameContext struct {
	game     schedule.GameSummary
	venue    venue.Venue
	meta     feed.Meta
	coaches  GameCoaches
	umpire   *int64
	homeName *string
	awayName *string
}

// Reconstruct walks the plate appearances of one game in source order.
// A missing schedule entry, box score or venue fails the game with
// ErrMissingMetadata; every other lookup miss leaves a nil field.
func (r *Reconstructor) Reconstruct(gamePk int64, game feed.Game, lookups *Lookups) (GameResult, error) {
	result := GameResult{GamePk: gamePk}
	if lookups == nil {
		return result, errors.Mark(errors.Newf("game %d: no lookups assembled", gamePk), ErrMissingMetadata)
	}

	summary, ok := lookups.Games[gamePk]
	if !ok {
		return result, errors.Mark(errors.Newf("game %d: schedule entry not cached", gamePk), ErrMissingMetadata)
	}
	box, ok := lookups.BoxScores[gamePk]
	if !ok {
		return result, errors.Mark(errors.Newf("game %d: box score not cached", gamePk), ErrMissingMetadata)
	}
	ballpark, ok := lookups.Venue(summary)
	if !ok {
		return result, errors.Mark(errors.Newf("game %d: venue %d not cached", gamePk, summary.VenueID), ErrMissingMetadata)
	}

	gc := gameContext{
		game:    summary,
		venue:   ballpark,
		meta:    game.Meta,
		coaches: lookups.GameCoaches[gamePk],
		umpire:  optionalID(box.Umpires.HomePlate),
	}
	if gc.umpire == nil {
		result.Misses++
	}
	if t, ok := lookups.Team(summary.HomeTeamID, summary.Season); ok {
		gc.homeName = &t.Name
	} else {
		result.Misses++
	}
	if t, ok := lookups.Team(summary.AwayTeamID, summary.Season); ok {
		gc.awayName = &t.Name
	} else {
		result.Misses++
	}

	state := gamestate.New(gamestate.DefenseFromLineup(box.Home), gamestate.DefenseFromLineup(box.Away))
	out := make([]pitch.Pitch, 0, len(game.PlateAppearances)*4)

	for _, pa := range game.PlateAppearances {
		state = state.BeginPlateAppearance(pa.Inning, pa.IsTopInning)
		moves := runnersByEvent(pa.Runners)
		events := orderedEvents(pa.Events)
		lastPitch := lastPitchIndex(events)

		for _, ev := range events {
			if !ev.IsPitch {
				if gamestate.IsLineupChange(ev) {
					state = state.ApplySubstitution(ev)
				}
				state, _ = state.ApplyRunners(moves[ev.Index])
				continue
			}

			pre := state
			next, runs := state.ApplyPitch(ev, moves[ev.Index])
			record, misses := r.buildPitch(gc, lookups, pa, ev, pre, next, runs)
			record.IsLastPitch = ev.Index == lastPitch
			result.Misses += misses
			out = append(out, record)
			state = next
		}
	}

	result.Pitches = out
	return result, nil
}

func (r *Reconstructor) buildPitch(
	gc gameContext,
	lookups *Lookups,
	pa feed.PlateAppearance,
	ev feed.Event,
	pre gamestate.State,
	post gamestate.State,
	runs int,
) (pitch.Pitch, int) {
	misses := 0
	fielding := pre.Fielding()
	batting := pre.Batting()

	battingTeam, fieldingTeam := gc.game.HomeTeamID, gc.game.AwayTeamID
	var battingStaff, fieldingStaff *coach.Staff = gc.coaches.Home, gc.coaches.Away
	if pa.IsTopInning {
		battingTeam, fieldingTeam = fieldingTeam, battingTeam
		battingStaff, fieldingStaff = fieldingStaff, battingStaff
	}

	p := pitch.Pitch{
		GamePk:         gc.game.GamePk,
		OfficialDate:   gc.game.OfficialDate,
		GameType:       gc.game.GameType,
		Season:         gc.game.Season,
		LevelOfPlayID:  gc.game.LevelOfPlayID,
		VenueID:        gc.venue.ID,
		VenueName:      gc.venue.Name,
		VenueElevation: gc.venue.Elevation,
		VenueRoofType:  gc.venue.RoofType,
		HomeTeamID:     gc.game.HomeTeamID,
		AwayTeamID:     gc.game.AwayTeamID,
		HomeTeamName:   gc.homeName,
		AwayTeamName:   gc.awayName,

		WeatherCondition:    gc.meta.WeatherCondition,
		TemperatureF:        gc.meta.TemperatureF,
		Wind:                gc.meta.Wind,
		DayNight:            gc.meta.DayNight,
		FirstPitch:          gc.meta.FirstPitch,
		GameDurationMinutes: gc.meta.DurationMinutes,
		ScheduledInnings:    gc.meta.ScheduledInnings,

		AtBatIndex:  pa.AtBatIndex,
		EventIndex:  ev.Index,
		PitchNumber: ev.PitchNumber,
		PlayID:      ev.PlayID,
		Inning:      pa.Inning,
		IsTopInning: pa.IsTopInning,

		BatterID:       pa.BatterID,
		BatSide:        pa.BatSide,
		PitcherID:      pa.PitcherID,
		PitchHand:      pa.PitchHand,
		BattingTeamID:  battingTeam,
		FieldingTeamID: fieldingTeam,

		HomePlateUmpireID: gc.umpire,

		PreBalls:    pre.Count.Balls,
		PreStrikes:  pre.Count.Strikes,
		PreOuts:     pre.Count.Outs,
		PreBases:    uint8(pre.Count.Bases),
		PostBalls:   post.Count.Balls,
		PostStrikes: post.Count.Strikes,
		PostOuts:    post.Count.Outs,
		PostBases:   uint8(post.Count.Bases),
		RunsOnPitch: runs,
		HomeScore:   pre.Score.Home,
		AwayScore:   pre.Score.Away,

		CallCode: ev.CallCode,
		CallDesc: ev.CallDesc,
		IsBall:   ev.IsBall,
		IsStrike: ev.IsStrike,
		IsInPlay: ev.IsInPlay,

		Event:     pa.Event,
		EventType: pa.EventType,
	}

	if batter, ok := lookups.Player(pa.BatterID); ok {
		p.BatterName = &batter.FullName
	} else {
		misses++
	}
	if pitcher, ok := lookups.Player(pa.PitcherID); ok {
		p.PitcherName = &pitcher.FullName
	} else {
		misses++
	}

	slots := []struct {
		dst **int64
		id  int64
	}{
		{&p.FieldingPitcherID, fielding.Pitcher},
		{&p.CatcherID, fielding.Catcher},
		{&p.FirstBaseID, fielding.FirstBase},
		{&p.SecondBaseID, fielding.SecondBase},
		{&p.ThirdBaseID, fielding.ThirdBase},
		{&p.ShortstopID, fielding.Shortstop},
		{&p.LeftFieldID, fielding.LeftField},
		{&p.CenterFieldID, fielding.CenterField},
		{&p.RightFieldID, fielding.RightField},
	}
	for _, slot := range slots {
		*slot.dst = optionalID(slot.id)
		if *slot.dst == nil {
			misses++
		}
	}
	p.BattingDHID = optionalID(batting.DesignatedHitter)

	p.FieldingManagerID, misses = staffMember(fieldingStaff, coach.JobManager, misses)
	p.BattingManagerID, misses = staffMember(battingStaff, coach.JobManager, misses)
	p.PitchingCoachID, misses = staffMember(fieldingStaff, coach.JobPitchingCoach, misses)

	if data := ev.Pitch; data != nil {
		p.PitchType = data.TypeCode
		p.StartSpeed = data.StartSpeed
		p.EndSpeed = data.EndSpeed
		p.SpinRate = data.SpinRate
		p.SpinDirection = data.SpinDirection
		p.Extension = data.Extension
		p.PlateX = data.PX
		p.PlateZ = data.PZ
		p.PfxX = data.PfxX
		p.PfxZ = data.PfxZ
		p.Zone = data.Zone
		p.StrikeZoneTop = data.StrikeZoneTop
		p.StrikeZoneBot = data.StrikeZoneBot
		if r.physics != nil {
			derived := r.physics.Derive(*data)
			p.HorizontalBreak = derived.HorizontalBreak
			p.InducedVerticalBreak = derived.InducedVerticalBreak
			p.ApproachAngle = derived.ApproachAngle
		}
	}
	if hit := ev.Hit; hit != nil {
		p.LaunchSpeed = hit.LaunchSpeed
		p.LaunchAngle = hit.LaunchAngle
		p.HitDistance = hit.TotalDistance
		p.Trajectory = hit.Trajectory
	}

	if value, ok := r.runExpectancy.Lookup(pre.Count); ok {
		p.RunExpectancyPre = &value
	}
	if value, ok := r.runExpectancy.Lookup(post.Count); ok {
		p.RunExpectancyPost = &value
	}

	return p, misses
}

func staffMember(staff *coach.Staff, jobCode string, misses int) (*int64, int) {
	if staff == nil {
		return nil, misses + 1
	}
	member, ok := staff.Find(jobCode)
	if !ok || member.PersonID <= 0 {
		return nil, misses + 1
	}
	id := member.PersonID
	return &id, misses
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

func runnersByEvent(moves []feed.RunnerMovement) map[int][]feed.RunnerMovement {
	out := make(map[int][]feed.RunnerMovement, len(moves))
	for _, move := range moves {
		out[move.PlayIndex] = append(out[move.PlayIndex], move)
	}
	return out
}

// orderedEvents returns the events sorted by index without reordering ties.
func orderedEvents(events []feed.Event) []feed.Event {
	out := make([]feed.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func lastPitchIndex(events []feed.Event) int {
	last := -1
	for _, ev := range events {
		if ev.IsPitch {
			last = ev.Index
		}
	}
	return last
}

package statsapi

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
)

func mapSchedule(key season.Key, env scheduleEnvelope) []schedule.GameSummary {
	out := make([]schedule.GameSummary, 0)
	for _, date := range env.Dates {
		for _, item := range date.Games {
			year, err := strconv.Atoi(strings.TrimSpace(item.Season))
			if err != nil || year == 0 {
				year = key.Year
			}
			game := schedule.GameSummary{
				GamePk:        item.GamePk,
				OfficialDate:  firstNonEmpty(item.OfficialDate, date.Date),
				Season:        year,
				LevelOfPlayID: key.LevelOfPlayID,
				GameType:      item.GameType,
				StatusCode:    firstNonEmpty(item.Status.CodedGameState, item.Status.StatusCode),
				AbstractState: item.Status.AbstractGameState,
				DetailedState: item.Status.DetailedState,
				VenueID:       item.Venue.ID,
				HomeTeamID:    item.Teams.Home.Team.ID,
				AwayTeamID:    item.Teams.Away.Team.ID,
				DoubleHeader:  item.DoubleHeader,
				GameNumber:    item.GameNumber,
				FeedURL:       item.Link,
				BoxScoreURL:   boxScorePath(item.GamePk),
			}
			if parsed, err := time.Parse(time.RFC3339, item.GameDate); err == nil {
				game.GameDate = parsed.UTC()
			}
			out = append(out, game)
		}
	}
	return out
}

func mapBoxScore(gamePk int64, env boxScoreEnvelope) boxscore.Summary {
	out := boxscore.Summary{
		GamePk: gamePk,
		Home:   mapBoxScoreSide(env.Teams.Home),
		Away:   mapBoxScoreSide(env.Teams.Away),
	}
	for _, official := range env.Officials {
		switch strings.ToLower(strings.TrimSpace(official.OfficialType)) {
		case "home plate":
			out.Umpires.HomePlate = official.Official.ID
		case "first base":
			out.Umpires.FirstBase = official.Official.ID
		case "second base":
			out.Umpires.SecondBase = official.Official.ID
		case "third base":
			out.Umpires.ThirdBase = official.Official.ID
		}
	}
	for _, info := range env.Info {
		if strings.EqualFold(strings.TrimSpace(info.Label), "Att") {
			out.Attended = parseLooseInt(info.Value)
		}
	}
	return out
}

// mapBoxScoreSide derives starters from battingOrder slots ending in "00" plus
// the first listed pitcher.
func mapBoxScoreSide(side boxScoreTeam) boxscore.Side {
	out := boxscore.Side{
		TeamID:       side.Team.ID,
		Starters:     make(map[string]int64, 10),
		BattingOrder: append([]int64(nil), side.BattingOrder...),
	}

	keys := make([]string, 0, len(side.Players))
	for key := range side.Players {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		item := side.Players[key]
		if item.Person.ID <= 0 {
			continue
		}
		out.Players = append(out.Players, item.Person.ID)
		if item.GameStatus.IsSubstitute || !strings.HasSuffix(item.BattingOrder, "00") {
			continue
		}
		position := item.Position.Code
		if len(item.AllPositions) > 0 {
			position = item.AllPositions[0].Code
		}
		if position != "" {
			out.Starters[position] = item.Person.ID
		}
	}
	if len(side.Pitchers) > 0 && side.Pitchers[0] > 0 {
		out.Starters[boxscore.PositionPitcher] = side.Pitchers[0]
	}
	return out
}

func mapVenue(season int, item venueItem) venue.Venue {
	return venue.Venue{
		ID:          item.ID,
		Season:      season,
		Name:        item.Name,
		City:        item.Location.City,
		State:       firstNonEmpty(item.Location.StateAbbrev, item.Location.State),
		Elevation:   item.Location.Elevation,
		RoofType:    item.FieldInfo.RoofType,
		TurfType:    item.FieldInfo.TurfType,
		LeftLine:    item.FieldInfo.LeftLine,
		CenterField: item.FieldInfo.Center,
		RightLine:   item.FieldInfo.RightLine,
	}
}

func mapTeam(season int, item teamItem) team.Team {
	return team.Team{
		ID:           item.ID,
		Season:       season,
		Name:         item.Name,
		Abbreviation: item.Abbreviation,
		LocationName: item.LocationName,
		LeagueID:     item.League.ID,
		DivisionID:   item.Division.ID,
		SportID:      item.Sport.ID,
		ParentOrgID:  item.ParentOrgID,
		VenueID:      item.Venue.ID,
	}
}

func mapCoaches(key season.IDKey, env coachesEnvelope) coach.Staff {
	out := coach.Staff{TeamID: key.ID, Season: key.Season}
	for _, item := range env.Roster {
		if item.Person.ID <= 0 {
			continue
		}
		out.Coaches = append(out.Coaches, coach.Coach{
			PersonID: item.Person.ID,
			FullName: item.Person.FullName,
			JobCode:  strings.ToUpper(strings.TrimSpace(item.JobID)),
			Job:      firstNonEmpty(item.Job, item.Title),
		})
	}
	return out
}

func mapPlayer(item personItem) player.Player {
	return player.Player{
		ID:            item.ID,
		FullName:      item.FullName,
		BatSide:       item.BatSide.Code,
		PitchHand:     item.PitchHand.Code,
		PrimaryPos:    firstNonEmpty(item.PrimaryPosition.Abbreviation, item.PrimaryPosition.Code),
		BirthDate:     item.BirthDate,
		HeightInches:  parseHeight(item.Height),
		WeightPounds:  item.Weight,
		MLBDebutDate:  item.MLBDebutDate,
		StrikeZoneTop: item.StrikeZoneTop,
		StrikeZoneBot: item.StrikeZoneBottom,
	}
}

func mapFeed(gamePk int64, env feedEnvelope) feed.Game {
	meta := feed.Meta{
		WeatherCondition: env.GameData.Weather.Condition,
		Wind:             env.GameData.Weather.Wind,
		DayNight:         env.GameData.Datetime.DayNight,
		FirstPitch:       env.GameData.GameInfo.FirstPitch,
		DurationMinutes:  env.GameData.GameInfo.GameDurationMinutes,
		ScheduledInnings: env.GameData.Status.ScheduledInnings,
	}
	if temp, err := strconv.Atoi(strings.TrimSpace(env.GameData.Weather.Temp)); err == nil {
		meta.TemperatureF = &temp
	}

	out := feed.Game{
		GamePk:           gamePk,
		Meta:             meta,
		PlateAppearances: make([]feed.PlateAppearance, 0, len(env.LiveData.Plays.AllPlays)),
	}
	for _, play := range env.LiveData.Plays.AllPlays {
		pa := feed.PlateAppearance{
			AtBatIndex:  play.About.AtBatIndex,
			Inning:      play.About.Inning,
			IsTopInning: play.About.IsTopInning,
			BatterID:    play.Matchup.Batter.ID,
			PitcherID:   play.Matchup.Pitcher.ID,
			BatSide:     play.Matchup.BatSide.Code,
			PitchHand:   play.Matchup.PitchHand.Code,
			Event:       play.Result.Event,
			EventType:   play.Result.EventType,
			Description: play.Result.Description,
			RBI:         play.Result.RBI,
			IsOut:       play.Result.IsOut,
			Events:      make([]feed.Event, 0, len(play.PlayEvents)),
			Runners:     make([]feed.RunnerMovement, 0, len(play.Runners)),
		}
		for _, ev := range play.PlayEvents {
			pa.Events = append(pa.Events, mapFeedEvent(ev))
		}
		for _, runner := range play.Runners {
			pa.Runners = append(pa.Runners, mapRunner(runner))
		}
		out.PlateAppearances = append(out.PlateAppearances, pa)
	}
	return out
}

func mapFeedEvent(ev feedEvent) feed.Event {
	out := feed.Event{
		Index:            ev.Index,
		Kind:             eventKind(ev),
		PlayID:           ev.PlayID,
		IsPitch:          ev.IsPitch,
		StartAt:          ev.StartTime,
		EndAt:            ev.EndTime,
		PlayerID:         ev.Player.ID,
		ReplacedPlayerID: ev.ReplacedPlayer.ID,
		Position:         ev.Position.Code,
		ActionType:       ev.Details.EventType,
		Description:      ev.Details.Description,
		PitchNumber:      ev.PitchNumber,
		CallCode:         firstNonEmpty(ev.Details.Call.Code, ev.Details.Code),
		CallDesc:         ev.Details.Call.Description,
		IsBall:           ev.Details.IsBall,
		IsStrike:         ev.Details.IsStrike,
		IsInPlay:         ev.Details.IsInPlay,
		HasReview:        ev.Details.HasReview,
	}
	if data := ev.PitchData; data != nil && ev.IsPitch {
		out.Pitch = &feed.PitchData{
			TypeCode:             ev.Details.Type.Code,
			TypeDesc:             ev.Details.Type.Description,
			StartSpeed:           data.StartSpeed,
			EndSpeed:             data.EndSpeed,
			SpinRate:             data.Breaks.SpinRate,
			SpinDirection:        data.Breaks.SpinDirection,
			Extension:            data.Extension,
			PlateTime:            data.PlateTime,
			Zone:                 data.Zone,
			StrikeZoneTop:        data.StrikeZoneTop,
			StrikeZoneBot:        data.StrikeZoneBottom,
			PX:                   data.Coordinates.PX,
			PZ:                   data.Coordinates.PZ,
			PfxX:                 data.Coordinates.PfxX,
			PfxZ:                 data.Coordinates.PfxZ,
			X0:                   data.Coordinates.X0,
			Y0:                   data.Coordinates.Y0,
			Z0:                   data.Coordinates.Z0,
			VX0:                  data.Coordinates.VX0,
			VY0:                  data.Coordinates.VY0,
			VZ0:                  data.Coordinates.VZ0,
			AX:                   data.Coordinates.AX,
			AY:                   data.Coordinates.AY,
			AZ:                   data.Coordinates.AZ,
			BreakAngle:           data.Breaks.BreakAngle,
			BreakLength:          data.Breaks.BreakLength,
			BreakY:               data.Breaks.BreakY,
			BreakHorizontal:      data.Breaks.BreakHorizontal,
			BreakVerticalInduced: data.Breaks.BreakVerticalInduced,
		}
	}
	if hit := ev.HitData; hit != nil {
		out.Hit = &feed.HitData{
			LaunchSpeed:   hit.LaunchSpeed,
			LaunchAngle:   hit.LaunchAngle,
			TotalDistance: hit.TotalDistance,
			Trajectory:    hit.Trajectory,
			Hardness:      hit.Hardness,
			Location:      hit.Location,
			CoordX:        hit.Coordinates.CoordX,
			CoordY:        hit.Coordinates.CoordY,
		}
	}
	return out
}

func eventKind(ev feedEvent) feed.EventKind {
	if ev.IsPitch {
		return feed.KindPitch
	}
	switch strings.ToLower(strings.TrimSpace(ev.Type)) {
	case "pickoff":
		return feed.KindPickoff
	case "no_pitch":
		return feed.KindNoPitch
	default:
		return feed.KindAction
	}
}

func mapRunner(runner feedRunner) feed.RunnerMovement {
	out := feed.RunnerMovement{
		PlayIndex: runner.Details.PlayIndex,
		RunnerID:  runner.Details.Runner.ID,
		Start:     deref(runner.Movement.Start),
		End:       deref(runner.Movement.End),
		OutBase:   deref(runner.Movement.OutBase),
		IsOut:     runner.Movement.IsOut,
		IsScoring: runner.Details.IsScoringEvent,
		EventType: runner.Details.EventType,
	}
	if runner.Movement.OutNumber != nil {
		out.OutNumber = *runner.Movement.OutNumber
	}
	if runner.Details.ResponsiblePitcher != nil {
		out.Responsible = runner.Details.ResponsiblePitcher.ID
	}
	return out
}

// parseHeight reads the provider's `6' 4"` notation into inches.
func parseHeight(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	feetPart, inchPart, _ := strings.Cut(raw, "'")
	feet, err := strconv.Atoi(strings.TrimSpace(feetPart))
	if err != nil {
		return nil
	}
	inches := 0
	if trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(inchPart), `"`)); trimmed != "" {
		if inches, err = strconv.Atoi(trimmed); err != nil {
			return nil
		}
	}
	total := feet*12 + inches
	return &total
}

func parseLooseInt(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	value, _ := strconv.Atoi(b.String())
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

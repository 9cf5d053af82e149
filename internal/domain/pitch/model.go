package pitch

import "fmt"

// Pitch is one flat fact record per pitch event. Optional values are pointers;
// nil means the value was not available from any source.
type Pitch struct {
	GamePk         int64   `json:"gamePk" db:"game_pk"`
	OfficialDate   string  `json:"officialDate" db:"official_date"`
	GameType       string  `json:"gameType" db:"game_type"`
	Season         int     `json:"season" db:"season"`
	LevelOfPlayID  int64   `json:"levelOfPlayId" db:"level_of_play_id"`
	VenueID        int64   `json:"venueId" db:"venue_id"`
	VenueName      string  `json:"venueName" db:"venue_name"`
	VenueElevation *int    `json:"venueElevation,omitempty" db:"venue_elevation"`
	VenueRoofType  string  `json:"venueRoofType" db:"venue_roof_type"`
	HomeTeamID     int64   `json:"homeTeamId" db:"home_team_id"`
	AwayTeamID     int64   `json:"awayTeamId" db:"away_team_id"`
	HomeTeamName   *string `json:"homeTeamName,omitempty" db:"home_team_name"`
	AwayTeamName   *string `json:"awayTeamName,omitempty" db:"away_team_name"`

	WeatherCondition    string `json:"weatherCondition" db:"weather_condition"`
	TemperatureF        *int   `json:"temperatureF,omitempty" db:"temperature_f"`
	Wind                string `json:"wind" db:"wind"`
	DayNight            string `json:"dayNight" db:"day_night"`
	FirstPitch          string `json:"firstPitch" db:"first_pitch"`
	GameDurationMinutes *int   `json:"gameDurationMinutes,omitempty" db:"game_duration_minutes"`
	ScheduledInnings    int    `json:"scheduledInnings" db:"scheduled_innings"`

	AtBatIndex  int    `json:"atBatIndex" db:"at_bat_index"`
	EventIndex  int    `json:"eventIndex" db:"event_index"`
	PitchNumber int    `json:"pitchNumber" db:"pitch_number"`
	PlayID      string `json:"playId" db:"play_id"`
	Inning      int    `json:"inning" db:"inning"`
	IsTopInning bool   `json:"isTopInning" db:"is_top_inning"`

	BatterID       int64   `json:"batterId" db:"batter_id"`
	BatterName     *string `json:"batterName,omitempty" db:"batter_name"`
	BatSide        string  `json:"batSide" db:"bat_side"`
	PitcherID      int64   `json:"pitcherId" db:"pitcher_id"`
	PitcherName    *string `json:"pitcherName,omitempty" db:"pitcher_name"`
	PitchHand      string  `json:"pitchHand" db:"pitch_hand"`
	BattingTeamID  int64   `json:"battingTeamId" db:"batting_team_id"`
	FieldingTeamID int64   `json:"fieldingTeamId" db:"fielding_team_id"`

	FieldingPitcherID *int64 `json:"fieldingPitcherId,omitempty" db:"fielding_pitcher_id"`
	CatcherID         *int64 `json:"catcherId,omitempty" db:"catcher_id"`
	FirstBaseID       *int64 `json:"firstBaseId,omitempty" db:"first_base_id"`
	SecondBaseID      *int64 `json:"secondBaseId,omitempty" db:"second_base_id"`
	ThirdBaseID       *int64 `json:"thirdBaseId,omitempty" db:"third_base_id"`
	ShortstopID       *int64 `json:"shortstopId,omitempty" db:"shortstop_id"`
	LeftFieldID       *int64 `json:"leftFieldId,omitempty" db:"left_field_id"`
	CenterFieldID     *int64 `json:"centerFieldId,omitempty" db:"center_field_id"`
	RightFieldID      *int64 `json:"rightFieldId,omitempty" db:"right_field_id"`
	BattingDHID       *int64 `json:"battingDhId,omitempty" db:"batting_dh_id"`
	FieldingManagerID *int64 `json:"fieldingManagerId,omitempty" db:"fielding_manager_id"`
	BattingManagerID  *int64 `json:"battingManagerId,omitempty" db:"batting_manager_id"`
	PitchingCoachID   *int64 `json:"pitchingCoachId,omitempty" db:"pitching_coach_id"`
	HomePlateUmpireID *int64 `json:"homePlateUmpireId,omitempty" db:"home_plate_umpire_id"`

	PreBalls    int   `json:"preBalls" db:"pre_balls"`
	PreStrikes  int   `json:"preStrikes" db:"pre_strikes"`
	PreOuts     int   `json:"preOuts" db:"pre_outs"`
	PreBases    uint8 `json:"preBases" db:"pre_bases"`
	PostBalls   int   `json:"postBalls" db:"post_balls"`
	PostStrikes int   `json:"postStrikes" db:"post_strikes"`
	PostOuts    int   `json:"postOuts" db:"post_outs"`
	PostBases   uint8 `json:"postBases" db:"post_bases"`
	RunsOnPitch int   `json:"runsOnPitch" db:"runs_on_pitch"`
	HomeScore   int   `json:"homeScore" db:"home_score"`
	AwayScore   int   `json:"awayScore" db:"away_score"`

	CallCode string `json:"callCode" db:"call_code"`
	CallDesc string `json:"callDesc" db:"call_desc"`
	IsBall   bool   `json:"isBall" db:"is_ball"`
	IsStrike bool   `json:"isStrike" db:"is_strike"`
	IsInPlay bool   `json:"isInPlay" db:"is_in_play"`

	PitchType     string   `json:"pitchType" db:"pitch_type"`
	StartSpeed    *float64 `json:"startSpeed,omitempty" db:"start_speed"`
	EndSpeed      *float64 `json:"endSpeed,omitempty" db:"end_speed"`
	SpinRate      *float64 `json:"spinRate,omitempty" db:"spin_rate"`
	SpinDirection *float64 `json:"spinDirection,omitempty" db:"spin_direction"`
	Extension     *float64 `json:"extension,omitempty" db:"extension"`
	PlateX        *float64 `json:"plateX,omitempty" db:"plate_x"`
	PlateZ        *float64 `json:"plateZ,omitempty" db:"plate_z"`
	PfxX          *float64 `json:"pfxX,omitempty" db:"pfx_x"`
	PfxZ          *float64 `json:"pfxZ,omitempty" db:"pfx_z"`
	Zone          *int     `json:"zone,omitempty" db:"zone"`
	StrikeZoneTop *float64 `json:"strikeZoneTop,omitempty" db:"strike_zone_top"`
	StrikeZoneBot *float64 `json:"strikeZoneBot,omitempty" db:"strike_zone_bot"`

	HorizontalBreak      *float64 `json:"horizontalBreak,omitempty" db:"horizontal_break"`
	InducedVerticalBreak *float64 `json:"inducedVerticalBreak,omitempty" db:"induced_vertical_break"`
	ApproachAngle        *float64 `json:"approachAngle,omitempty" db:"approach_angle"`

	LaunchSpeed *float64 `json:"launchSpeed,omitempty" db:"launch_speed"`
	LaunchAngle *float64 `json:"launchAngle,omitempty" db:"launch_angle"`
	HitDistance *float64 `json:"hitDistance,omitempty" db:"hit_distance"`
	Trajectory  string   `json:"trajectory" db:"trajectory"`

	Event             string   `json:"event" db:"event"`
	EventType         string   `json:"eventType" db:"event_type"`
	IsLastPitch       bool     `json:"isLastPitch" db:"is_last_pitch"`
	RunExpectancyPre  *float64 `json:"runExpectancyPre,omitempty" db:"run_expectancy_pre"`
	RunExpectancyPost *float64 `json:"runExpectancyPost,omitempty" db:"run_expectancy_post"`
}

// Key identifies a pitch within the output stream.
type Key struct {
	GamePk     int64
	AtBatIndex int
	EventIndex int
}

func (p Pitch) Key() Key {
	return Key{GamePk: p.GamePk, AtBatIndex: p.AtBatIndex, EventIndex: p.EventIndex}
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.GamePk, k.AtBatIndex, k.EventIndex)
}

// Columns is the stable sink column order. Row returns values in the same order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

var columns = []string{
	"game_pk", "official_date", "game_type", "season", "level_of_play_id",
	"venue_id", "venue_name", "venue_elevation", "venue_roof_type",
	"home_team_id", "away_team_id", "home_team_name", "away_team_name",
	"weather_condition", "temperature_f", "wind", "day_night", "first_pitch",
	"game_duration_minutes", "scheduled_innings",
	"at_bat_index", "event_index", "pitch_number", "play_id", "inning", "is_top_inning",
	"batter_id", "batter_name", "bat_side", "pitcher_id", "pitcher_name", "pitch_hand",
	"batting_team_id", "fielding_team_id",
	"fielding_pitcher_id", "catcher_id", "first_base_id", "second_base_id", "third_base_id",
	"shortstop_id", "left_field_id", "center_field_id", "right_field_id", "batting_dh_id",
	"fielding_manager_id", "batting_manager_id", "pitching_coach_id", "home_plate_umpire_id",
	"pre_balls", "pre_strikes", "pre_outs", "pre_bases",
	"post_balls", "post_strikes", "post_outs", "post_bases",
	"runs_on_pitch", "home_score", "away_score",
	"call_code", "call_desc", "is_ball", "is_strike", "is_in_play",
	"pitch_type", "start_speed", "end_speed", "spin_rate", "spin_direction", "extension",
	"plate_x", "plate_z", "pfx_x", "pfx_z", "zone", "strike_zone_top", "strike_zone_bot",
	"horizontal_break", "induced_vertical_break", "approach_angle",
	"launch_speed", "launch_angle", "hit_distance", "trajectory",
	"event", "event_type", "is_last_pitch", "run_expectancy_pre", "run_expectancy_post",
}

// Row returns the record's values in Columns order. Nil pointers stay nil.
func (p Pitch) Row() []any {
	return []any{
		p.GamePk, p.OfficialDate, p.GameType, p.Season, p.LevelOfPlayID,
		p.VenueID, p.VenueName, p.VenueElevation, p.VenueRoofType,
		p.HomeTeamID, p.AwayTeamID, p.HomeTeamName, p.AwayTeamName,
		p.WeatherCondition, p.TemperatureF, p.Wind, p.DayNight, p.FirstPitch,
		p.GameDurationMinutes, p.ScheduledInnings,
		p.AtBatIndex, p.EventIndex, p.PitchNumber, p.PlayID, p.Inning, p.IsTopInning,
		p.BatterID, p.BatterName, p.BatSide, p.PitcherID, p.PitcherName, p.PitchHand,
		p.BattingTeamID, p.FieldingTeamID,
		p.FieldingPitcherID, p.CatcherID, p.FirstBaseID, p.SecondBaseID, p.ThirdBaseID,
		p.ShortstopID, p.LeftFieldID, p.CenterFieldID, p.RightFieldID, p.BattingDHID,
		p.FieldingManagerID, p.BattingManagerID, p.PitchingCoachID, p.HomePlateUmpireID,
		p.PreBalls, p.PreStrikes, p.PreOuts, p.PreBases,
		p.PostBalls, p.PostStrikes, p.PostOuts, p.PostBases,
		p.RunsOnPitch, p.HomeScore, p.AwayScore,
		p.CallCode, p.CallDesc, p.IsBall, p.IsStrike, p.IsInPlay,
		p.PitchType, p.StartSpeed, p.EndSpeed, p.SpinRate, p.SpinDirection, p.Extension,
		p.PlateX, p.PlateZ, p.PfxX, p.PfxZ, p.Zone, p.StrikeZoneTop, p.StrikeZoneBot,
		p.HorizontalBreak, p.InducedVerticalBreak, p.ApproachAngle,
		p.LaunchSpeed, p.LaunchAngle, p.HitDistance, p.Trajectory,
		p.Event, p.EventType, p.IsLastPitch, p.RunExpectancyPre, p.RunExpectancyPost,
	}
}

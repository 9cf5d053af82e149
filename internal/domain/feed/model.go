package feed

// EventKind classifies one entry of a plate appearance.
type EventKind string

const (
	KindPitch   EventKind = "pitch"
	KindAction  EventKind = "action"
	KindPickoff EventKind = "pickoff"
	KindNoPitch EventKind = "no_pitch"
)

// Action event types that move players in or out of the lineup.
const (
	ActionDefensiveSubstitution = "defensive_substitution"
	ActionDefensiveSwitch       = "defensive_switch"
	ActionPitchingSubstitution  = "pitching_substitution"
	ActionOffensiveSubstitution = "offensive_substitution"
	ActionUmpireSubstitution    = "umpire_substitution"
)

// Base labels used by runner movements.
const (
	BaseFirst  = "1B"
	BaseSecond = "2B"
	BaseThird  = "3B"
	BaseHome   = "score"
)

// Game is one decoded play-by-play payload.
type Game struct {
	GamePk           int64
	Meta             Meta
	PlateAppearances []PlateAppearance
}

// Meta carries game-level context from the feed.
type Meta struct {
	WeatherCondition string
	TemperatureF     *int
	Wind             string
	DayNight         string
	FirstPitch       string
	DurationMinutes  *int
	ScheduledInnings int
}

// PlateAppearance is one batter's turn against a pitcher.
type PlateAppearance struct {
	AtBatIndex  int
	Inning      int
	IsTopInning bool
	BatterID    int64
	PitcherID   int64
	BatSide     string
	PitchHand   string
	Event       string
	EventType   string
	Description string
	RBI         int
	IsOut       bool
	Events      []Event
	Runners     []RunnerMovement
}

// Event is a pitch, action or pickoff inside a plate appearance.
type Event struct {
	Index    int
	Kind     EventKind
	PlayID   string
	IsPitch  bool
	StartAt  string
	EndAt    string
	PlayerID int64
	// ReplacedPlayerID is the player leaving the game on a substitution.
	ReplacedPlayerID int64
	// Position is the provider position code a substitution assigns.
	Position    string
	ActionType  string
	Description string

	PitchNumber int
	CallCode    string
	CallDesc    string
	IsBall      bool
	IsStrike    bool
	IsInPlay    bool
	HasReview   bool
	Pitch       *PitchData
	Hit         *HitData
}

// PitchData holds pitch tracking measurements.
type PitchData struct {
	TypeCode      string
	TypeDesc      string
	StartSpeed    *float64
	EndSpeed      *float64
	SpinRate      *float64
	SpinDirection *float64
	Extension     *float64
	PlateTime     *float64
	Zone          *int
	StrikeZoneTop *float64
	StrikeZoneBot *float64
	PX            *float64
	PZ            *float64
	PfxX          *float64
	PfxZ          *float64
	X0            *float64
	Y0            *float64
	Z0            *float64
	VX0           *float64
	VY0           *float64
	VZ0           *float64
	AX            *float64
	AY            *float64
	AZ            *float64
	BreakAngle    *float64
	BreakLength   *float64
	BreakY        *float64
	// BreakHorizontal and BreakVerticalInduced are provider-computed movement in inches.
	BreakHorizontal      *float64
	BreakVerticalInduced *float64
}

// HitData describes a ball put in play.
type HitData struct {
	LaunchSpeed   *float64
	LaunchAngle   *float64
	TotalDistance *float64
	Trajectory    string
	Hardness      string
	Location      string
	CoordX        *float64
	CoordY        *float64
}

// RunnerMovement moves one runner during the event at PlayIndex.
type RunnerMovement struct {
	PlayIndex   int
	RunnerID    int64
	Start       string
	End         string
	OutBase     string
	IsOut       bool
	OutNumber   int
	IsScoring   bool
	EventType   string
	Responsible int64
}

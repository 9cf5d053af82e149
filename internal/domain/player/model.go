package player

// Handedness codes reported by the provider.
const (
	HandLeft   = "L"
	HandRight  = "R"
	HandSwitch = "S"
)

// Player is a person profile; attributes do not vary by season.
type Player struct {
	ID            int64    `json:"id" validate:"required,gt=0"`
	FullName      string   `json:"fullName"`
	BatSide       string   `json:"batSide,omitempty"`
	PitchHand     string   `json:"pitchHand,omitempty"`
	PrimaryPos    string   `json:"primaryPosition,omitempty"`
	BirthDate     string   `json:"birthDate,omitempty"`
	HeightInches  *int     `json:"heightInches,omitempty"`
	WeightPounds  *int     `json:"weightPounds,omitempty"`
	MLBDebutDate  string   `json:"mlbDebutDate,omitempty"`
	StrikeZoneTop *float64 `json:"strikeZoneTop,omitempty"`
	StrikeZoneBot *float64 `json:"strikeZoneBottom,omitempty"`
}

func (p Player) Key() int64 {
	return p.ID
}

package venue

import "github.com/riskibarqy/pitchsync/internal/domain/season"

// Venue is a ballpark as configured for one season.
type Venue struct {
	ID          int64  `json:"id" validate:"required,gt=0"`
	Season      int    `json:"season"`
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Elevation   *int   `json:"elevation,omitempty"`
	RoofType    string `json:"roofType,omitempty"`
	TurfType    string `json:"turfType,omitempty"`
	LeftLine    *int   `json:"leftLine,omitempty"`
	CenterField *int   `json:"center,omitempty"`
	RightLine   *int   `json:"rightLine,omitempty"`
}

func (v Venue) Key() season.IDKey {
	return season.IDKey{ID: v.ID, Season: v.Season}
}

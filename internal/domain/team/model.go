package team

import "github.com/riskibarqy/pitchsync/internal/domain/season"

// Team is a club as registered for one season.
type Team struct {
	ID           int64  `json:"id" validate:"required,gt=0"`
	Season       int    `json:"season"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	LeagueID     int64  `json:"leagueId,omitempty"`
	DivisionID   int64  `json:"divisionId,omitempty"`
	SportID      int64  `json:"sportId,omitempty"`
	ParentOrgID  int64  `json:"parentOrgId,omitempty"`
	VenueID      int64  `json:"venueId,omitempty"`
}

func (t Team) Key() season.IDKey {
	return season.IDKey{ID: t.ID, Season: t.Season}
}

package coach

import "github.com/riskibarqy/pitchsync/internal/domain/season"

// Job codes the reconstructor joins on.
const (
	JobManager       = "MNGR"
	JobPitchingCoach = "COAP"
	JobHittingCoach  = "COAB"
)

// Staff is a team's coaching staff for one season.
type Staff struct {
	TeamID  int64   `json:"teamId" validate:"required,gt=0"`
	Season  int     `json:"season"`
	Coaches []Coach `json:"coaches"`
}

type Coach struct {
	PersonID int64  `json:"personId"`
	FullName string `json:"fullName"`
	JobCode  string `json:"jobCode"`
	Job      string `json:"job"`
}

func (s Staff) Key() season.IDKey {
	return season.IDKey{ID: s.TeamID, Season: s.Season}
}

// Find returns the first coach holding the job code.
func (s Staff) Find(jobCode string) (Coach, bool) {
	for _, item := range s.Coaches {
		if item.JobCode == jobCode {
			return item, true
		}
	}
	return Coach{}, false
}

package season

import "fmt"

// Level-of-play identifiers used by the stats provider (sportId).
const (
	LevelMLB     int64 = 1
	LevelTripleA int64 = 11
	LevelDoubleA int64 = 12
	LevelHighA   int64 = 13
	LevelSingleA int64 = 14
	LevelRookie  int64 = 16
	LevelWinter  int64 = 17
)

// Key identifies one schedule partition.
type Key struct {
	Year          int
	LevelOfPlayID int64
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d", k.Year, k.LevelOfPlayID)
}

// Less orders keys by year then level.
func (k Key) Less(other Key) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.LevelOfPlayID < other.LevelOfPlayID
}

// IDKey is the composite key of entities whose attributes vary by season.
type IDKey struct {
	ID     int64
	Season int
}

func (k IDKey) String() string {
	return fmt.Sprintf("%d@%d", k.ID, k.Season)
}

type Status string

const (
	StatusNone     Status = "none"
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
)

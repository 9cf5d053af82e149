package ledger

import "sort"

// Status is the outcome recorded for one game.
type Status string

const (
	StatusGood Status = "good"
	StatusBad  Status = "bad"
)

// Entry is the persisted ledger row for one game.
type Entry struct {
	GamePk int64  `json:"gamePk"`
	Status Status `json:"status"`
}

func (e Entry) Key() int64 {
	return e.GamePk
}

// Ledger tracks which games have been reconstructed successfully. Each game
// holds exactly one status so the good and bad sets never overlap. A good game
// never goes back to bad.
type Ledger struct {
	status map[int64]Status
}

func New() *Ledger {
	return &Ledger{status: make(map[int64]Status)}
}

// FromEntries rebuilds a ledger from persisted rows. Later rows win unless they
// would demote a good game.
func FromEntries(entries []Entry) *Ledger {
	l := New()
	for _, entry := range entries {
		switch entry.Status {
		case StatusGood:
			l.MarkGood(entry.GamePk)
		case StatusBad:
			l.MarkBad(entry.GamePk)
		}
	}
	return l
}

func (l *Ledger) MarkGood(gamePk int64) {
	l.status[gamePk] = StatusGood
}

// MarkBad records a failure unless the game already succeeded.
func (l *Ledger) MarkBad(gamePk int64) {
	if l.status[gamePk] == StatusGood {
		return
	}
	l.status[gamePk] = StatusBad
}

func (l *Ledger) IsGood(gamePk int64) bool {
	return l.status[gamePk] == StatusGood
}

func (l *Ledger) IsBad(gamePk int64) bool {
	return l.status[gamePk] == StatusBad
}

func (l *Ledger) Good() []int64 {
	return l.collect(StatusGood)
}

func (l *Ledger) Bad() []int64 {
	return l.collect(StatusBad)
}

func (l *Ledger) Len() int {
	return len(l.status)
}

// Entries returns the persisted form ordered by gamePk.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.status))
	for gamePk, status := range l.status {
		out = append(out, Entry{GamePk: gamePk, Status: status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GamePk < out[j].GamePk })
	return out
}

func (l *Ledger) collect(status Status) []int64 {
	out := make([]int64, 0, len(l.status))
	for gamePk, value := range l.status {
		if value == status {
			out = append(out, gamePk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

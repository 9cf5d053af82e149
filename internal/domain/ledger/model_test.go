package ledger

import "testing"

func TestLedgerGoodAndBadStayDisjoint(t *testing.T) {
	t.Parallel()

	l := New()
	l.MarkBad(1)
	l.MarkBad(2)
	l.MarkGood(2)
	l.MarkGood(3)
	l.MarkBad(3)

	good := l.Good()
	bad := l.Bad()
	if len(good) != 2 || good[0] != 2 || good[1] != 3 {
		t.Fatalf("unexpected good set: %v", good)
	}
	if len(bad) != 1 || bad[0] != 1 {
		t.Fatalf("unexpected bad set: %v", bad)
	}
	for _, g := range good {
		if l.IsBad(g) {
			t.Fatalf("game %d is both good and bad", g)
		}
	}
}

func TestFromEntriesNeverDemotesGood(t *testing.T) {
	t.Parallel()

	l := FromEntries([]Entry{
		{GamePk: 10, Status: StatusGood},
		{GamePk: 10, Status: StatusBad},
		{GamePk: 11, Status: StatusBad},
		{GamePk: 12, Status: "unknown"},
	})

	if !l.IsGood(10) {
		t.Fatalf("expected game 10 to stay good")
	}
	if !l.IsBad(11) {
		t.Fatalf("expected game 11 to be bad")
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 tracked games, got %d", l.Len())
	}

	entries := l.Entries()
	if len(entries) != 2 || entries[0].GamePk != 10 || entries[1].GamePk != 11 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

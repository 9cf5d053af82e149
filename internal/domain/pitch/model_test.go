package pitch

import "testing"

func TestRowMatchesColumns(t *testing.T) {
	t.Parallel()

	row := Pitch{GamePk: 1}.Row()
	if len(row) != len(Columns()) {
		t.Fatalf("row has %d values, columns has %d", len(row), len(Columns()))
	}
	if row[0] != int64(1) {
		t.Fatalf("expected game_pk first, got %v", row[0])
	}
}

func TestColumnsAreUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for _, column := range Columns() {
		if _, ok := seen[column]; ok {
			t.Fatalf("duplicate column %q", column)
		}
		seen[column] = struct{}{}
	}
}

func TestKeyString(t *testing.T) {
	t.Parallel()

	got := Pitch{GamePk: 7, AtBatIndex: 2, EventIndex: 3}.Key().String()
	if got != "7/2/3" {
		t.Fatalf("unexpected key: %s", got)
	}
}

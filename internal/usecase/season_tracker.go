package usecase

import (
	"sort"

	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
)

// SeasonStatuses classifies every season present in the cached schedule.
// Seasons absent from games are not in the map; use SeasonStatusOf for them.
func SeasonStatuses(games []schedule.GameSummary) map[season.Key]season.Status {
	type tally struct {
		terminal    int
		nonTerminal int
	}
	tallies := make(map[season.Key]*tally)
	for _, game := range games {
		key := game.SeasonKey()
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
		}
		if game.IsTerminal() {
			t.terminal++
		} else {
			t.nonTerminal++
		}
	}

	out := make(map[season.Key]season.Status, len(tallies))
	for key, t := range tallies {
		switch {
		case t.nonTerminal > 0:
			out[key] = season.StatusPartial
		case t.terminal > 0:
			out[key] = season.StatusComplete
		default:
			out[key] = season.StatusNone
		}
	}
	return out
}

// SeasonStatusOf treats keys missing from statuses as None.
func SeasonStatusOf(statuses map[season.Key]season.Status, key season.Key) season.Status {
	if status, ok := statuses[key]; ok {
		return status
	}
	return season.StatusNone
}

// SeasonsToRefresh returns the requested seasons that are not Complete, sorted
// and deduplicated. A Complete season is never returned.
func SeasonsToRefresh(requested []season.Key, statuses map[season.Key]season.Status) []season.Key {
	seen := make(map[season.Key]struct{}, len(requested))
	out := make([]season.Key, 0, len(requested))
	for _, key := range requested {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		if SeasonStatusOf(statuses, key) == season.StatusComplete {
			continue
		}
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

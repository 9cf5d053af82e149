package statsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
	"github.com/riskibarqy/pitchsync/internal/platform/resilience"
	"github.com/riskibarqy/pitchsync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*ClientConfig)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		RateLimit:  1000,
		RateBurst:  100,
		Logger:     logging.NewNop(),
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewClient(cfg)
}

const scheduleJSON = `{
  "dates": [{
    "date": "2024-07-04",
    "games": [{
      "gamePk": 745001,
      "link": "/api/v1.1/game/745001/feed/live",
      "gameType": "R",
      "season": "2024",
      "gameDate": "2024-07-04T17:05:00Z",
      "officialDate": "2024-07-04",
      "status": {"abstractGameState": "Final", "codedGameState": "F", "detailedState": "Final", "statusCode": "F"},
      "teams": {"away": {"team": {"id": 111}}, "home": {"team": {"id": 147}}},
      "venue": {"id": 3313},
      "doubleHeader": "N",
      "gameNumber": 1
    }]
  }]
}`

func TestClient_FetchSchedule(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/schedule" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("sportId"); got != "1" {
			t.Errorf("unexpected sportId %q", got)
		}
		if got := r.URL.Query().Get("gameType"); got != "R,F" {
			t.Errorf("unexpected gameType %q", got)
		}
		_, _ = w.Write([]byte(scheduleJSON))
	})

	games, err := client.FetchSchedule(context.Background(), season.Key{Year: 2024, LevelOfPlayID: season.LevelMLB}, []string{"R", "F"})
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("unexpected game count: %d", len(games))
	}
	game := games[0]
	if game.GamePk != 745001 || game.Season != 2024 || game.LevelOfPlayID != season.LevelMLB {
		t.Fatalf("unexpected game identity: %+v", game)
	}
	if game.HomeTeamID != 147 || game.AwayTeamID != 111 || game.VenueID != 3313 {
		t.Fatalf("unexpected participants: %+v", game)
	}
	if !game.IsTerminal() || !game.GameDate.Equal(time.Date(2024, 7, 4, 17, 5, 0, 0, time.UTC)) {
		t.Fatalf("unexpected state or date: %+v", game)
	}
	if game.BoxScoreURL != "/v1/game/745001/boxscore" {
		t.Fatalf("unexpected box score url: %q", game.BoxScoreURL)
	}
}

func TestClient_FetchScheduleAllGameTypes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("gameType") {
			t.Errorf("gameType must be omitted, got %q", r.URL.Query().Get("gameType"))
		}
		_, _ = w.Write([]byte(scheduleJSON))
	})

	games, err := client.FetchSchedule(context.Background(), season.Key{Year: 2024, LevelOfPlayID: season.LevelMLB}, nil)
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("unexpected game count: %d", len(games))
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"people":[{"id":592450,"fullName":"Aaron Judge","batSide":{"code":"R"},"pitchHand":{"code":"R"},"primaryPosition":{"abbreviation":"RF"},"height":"6' 7\"","weight":282}]}`))
	}, func(cfg *ClientConfig) { cfg.MaxRetries = 1 })

	got, err := client.FetchPlayer(context.Background(), 592450)
	if err != nil {
		t.Fatalf("fetch player: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, calls=%d", calls.Load())
	}
	if got.FullName != "Aaron Judge" || got.HeightInches == nil || *got.HeightInches != 79 {
		t.Fatalf("unexpected player: %+v", got)
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/people/1"):
			w.WriteHeader(http.StatusNotFound)
		case strings.HasPrefix(r.URL.Path, "/v1/people/2"):
			w.WriteHeader(http.StatusBadGateway)
		default:
			_, _ = w.Write([]byte(`{"people": [`))
		}
	})

	ctx := context.Background()
	if _, err := client.FetchPlayer(ctx, 1); !crerr.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := client.FetchPlayer(ctx, 2); !crerr.Is(err, usecase.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if _, err := client.FetchPlayer(ctx, 3); !crerr.Is(err, usecase.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.BreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}
	})

	ctx := context.Background()
	for i := int64(1); i <= 2; i++ {
		if _, err := client.FetchBoxScore(ctx, i); !crerr.Is(err, usecase.ErrNetwork) {
			t.Fatalf("expected network failure, got %v", err)
		}
	}
	if _, err := client.FetchBoxScore(ctx, 3); !crerr.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must not reach the server, calls=%d", calls.Load())
	}
}

func TestClient_FetchBoxScore(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
  "teams": {
    "home": {
      "team": {"id": 147},
      "pitchers": [543037, 605400],
      "battingOrder": [592450, 650402],
      "players": {
        "ID592450": {"person": {"id": 592450}, "position": {"code": "9"}, "allPositions": [{"code": "9"}], "battingOrder": "100"},
        "ID650402": {"person": {"id": 650402}, "position": {"code": "3"}, "allPositions": [{"code": "10"}, {"code": "3"}], "battingOrder": "200"},
        "ID543037": {"person": {"id": 543037}, "position": {"code": "1"}, "allPositions": [{"code": "1"}]},
        "ID605400": {"person": {"id": 605400}, "position": {"code": "1"}, "gameStatus": {"isSubstitute": true}}
      }
    },
    "away": {"team": {"id": 111}, "players": {}}
  },
  "officials": [{"official": {"id": 427315}, "officialType": "Home Plate"}],
  "info": [{"label": "Att", "value": "41,032."}]
}`))
	})

	got, err := client.FetchBoxScore(context.Background(), 745001)
	if err != nil {
		t.Fatalf("fetch box score: %v", err)
	}
	if got.Home.Starters[boxscore.PositionRightField] != 592450 {
		t.Fatalf("unexpected right fielder: %v", got.Home.Starters)
	}
	if got.Home.Starters[boxscore.PositionDesignatedHitter] != 650402 {
		t.Fatalf("starting position must come from allPositions: %v", got.Home.Starters)
	}
	if got.Home.Starters[boxscore.PositionPitcher] != 543037 {
		t.Fatalf("unexpected starting pitcher: %v", got.Home.Starters)
	}
	if got.Umpires.HomePlate != 427315 || got.Attended != 41032 {
		t.Fatalf("unexpected officials or attendance: %+v", got)
	}
	if len(got.PlayerIDs()) != 4 {
		t.Fatalf("unexpected player ids: %v", got.PlayerIDs())
	}
}

func TestClient_FetchVenueFallsBackWithoutSeason(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("season") != "" {
			_, _ = w.Write([]byte(`{"venues": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"venues": [{"id": 3313, "name": "Yankee Stadium", "location": {"city": "Bronx", "stateAbbrev": "NY", "elevation": 55}, "fieldInfo": {"roofType": "Open", "leftLine": 318}}]}`))
	})

	ctx := context.Background()
	key := season.IDKey{ID: 3313, Season: 2019}
	if _, err := client.FetchVenue(ctx, key); !crerr.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty season lookup, got %v", err)
	}

	got, err := client.FetchVenueByID(ctx, key)
	if err != nil {
		t.Fatalf("fetch venue by id: %v", err)
	}
	if got.Season != 2019 || got.Name != "Yankee Stadium" || got.State != "NY" {
		t.Fatalf("unexpected venue: %+v", got)
	}

	again, err := client.FetchVenueByID(ctx, season.IDKey{ID: 3313, Season: 2020})
	if err != nil {
		t.Fatalf("fetch venue by id: %v", err)
	}
	if again.Season != 2020 {
		t.Fatalf("season must be stamped from the key, got %d", again.Season)
	}
	if calls.Load() != 2 {
		t.Fatalf("fallback lookups must be memoized, calls=%d", calls.Load())
	}
}

const feedJSON = `{
  "gamePk": 745001,
  "gameData": {"weather": {"condition": "Sunny", "temp": "84", "wind": "7 mph, Out To CF"}, "datetime": {"dayNight": "day"}},
  "liveData": {"plays": {"allPlays": [{
    "result": {"type": "atBat", "event": "Single", "eventType": "single", "rbi": 0, "isOut": false},
    "about": {"atBatIndex": 0, "inning": 1, "isTopInning": true},
    "matchup": {"batter": {"id": 646240}, "batSide": {"code": "L"}, "pitcher": {"id": 543037}, "pitchHand": {"code": "R"}},
    "playEvents": [
      {"index": 0, "isPitch": true, "type": "pitch", "pitchNumber": 1, "playId": "a1",
       "details": {"call": {"code": "B", "description": "Ball"}, "isBall": true, "type": {"code": "FF", "description": "Four-Seam Fastball"}},
       "pitchData": {"startSpeed": 96.2, "endSpeed": NaN, "zone": 11, "coordinates": {"pX": -1.1, "pfxX": -7.4}, "breaks": {"spinRate": 2390, "breakVerticalInduced": 17.2}}},
      {"index": 1, "isPitch": false, "type": "action", "player": {"id": 700001}, "replacedPlayer": {"id": 700002}, "position": {"code": "10"},
       "details": {"eventType": "offensive_substitution", "description": "Pinch-hitter"}},
      {"index": 2, "isPitch": true, "type": "pitch", "pitchNumber": 2,
       "details": {"call": {"code": "X", "description": "In play, no out"}, "isInPlay": true},
       "hitData": {"launchSpeed": 101.4, "launchAngle": 12, "trajectory": "line_drive", "coordinates": {"coordX": 100.5}}}
    ],
    "runners": [{"movement": {"start": null, "end": "1B", "isOut": false}, "details": {"eventType": "single", "runner": {"id": 646240}, "playIndex": 2}}]
  }]}}
}`

func TestClient_FeedRoundTrip(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.1/game/745001/feed/live" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(feedJSON))
	})

	payload, err := client.FetchFeedPayload(context.Background(), 745001)
	if err != nil {
		t.Fatalf("fetch feed: %v", err)
	}
	game, err := client.DecodeFeed(745001, payload)
	if err != nil {
		t.Fatalf("decode feed: %v", err)
	}

	if game.Meta.TemperatureF == nil || *game.Meta.TemperatureF != 84 {
		t.Fatalf("unexpected meta: %+v", game.Meta)
	}
	if len(game.PlateAppearances) != 1 {
		t.Fatalf("unexpected plate appearance count: %d", len(game.PlateAppearances))
	}
	pa := game.PlateAppearances[0]
	if len(pa.Events) != 3 || len(pa.Runners) != 1 {
		t.Fatalf("unexpected events=%d runners=%d", len(pa.Events), len(pa.Runners))
	}

	first := pa.Events[0]
	if first.Kind != feed.KindPitch || first.Pitch == nil || first.Pitch.TypeCode != "FF" {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if first.Pitch.EndSpeed != nil {
		t.Fatalf("NaN must decode as nil, got %v", *first.Pitch.EndSpeed)
	}
	if first.Pitch.BreakVerticalInduced == nil || *first.Pitch.BreakVerticalInduced != 17.2 {
		t.Fatalf("unexpected induced break: %v", first.Pitch.BreakVerticalInduced)
	}

	sub := pa.Events[1]
	if sub.Kind != feed.KindAction || sub.ActionType != feed.ActionOffensiveSubstitution || sub.ReplacedPlayerID != 700002 {
		t.Fatalf("unexpected substitution: %+v", sub)
	}

	inPlay := pa.Events[2]
	if inPlay.Pitch != nil || inPlay.Hit == nil || inPlay.Hit.Trajectory != "line_drive" {
		t.Fatalf("pitch without tracking data must keep nil pitch data: %+v", inPlay)
	}
	if pa.Runners[0].PlayIndex != 2 || pa.Runners[0].End != feed.BaseFirst || pa.Runners[0].Start != "" {
		t.Fatalf("unexpected runner: %+v", pa.Runners[0])
	}
}

func TestClient_DecodeFeedRejectsMismatchedGame(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.DecodeFeed(1, []byte(feedJSON)); !crerr.Is(err, usecase.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

package usecase

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
	"github.com/riskibarqy/pitchsync/internal/domain/ledger"
	"github.com/riskibarqy/pitchsync/internal/domain/pitch"
	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
	"github.com/riskibarqy/pitchsync/internal/infrastructure/entitycache"
	"github.com/riskibarqy/pitchsync/internal/platform/id"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
)

type stubStatsProvider struct {
	mu        sync.Mutex
	calls     map[string]int
	failFeeds map[int64]bool
	games     []schedule.GameSummary
}

func newStubStatsProvider(games ...schedule.GameSummary) *stubStatsProvider {
	return &stubStatsProvider{
		calls:     make(map[string]int),
		failFeeds: make(map[int64]bool),
		games:     games,
	}
}

func (s *stubStatsProvider) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *stubStatsProvider) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubStatsProvider) setFeedFailure(gamePk int64, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFeeds[gamePk] = fail
}

func (s *stubStatsProvider) FetchSchedule(_ context.Context, key season.Key, gameTypes []string) ([]schedule.GameSummary, error) {
	s.record("schedule")
	out := make([]schedule.GameSummary, 0, len(s.games))
	for _, game := range s.games {
		if game.SeasonKey() != key {
			continue
		}
		if len(gameTypes) > 0 && !slices.Contains(gameTypes, game.GameType) {
			continue
		}
		out = append(out, game)
	}
	return out, nil
}

func (s *stubStatsProvider) FetchBoxScore(_ context.Context, gamePk int64) (boxscore.Summary, error) {
	s.record("boxscore")
	return fixtureBoxScore(gamePk), nil
}

func (s *stubStatsProvider) FetchVenue(_ context.Context, key season.IDKey) (venue.Venue, error) {
	s.record("venue")
	out := fixtureVenue()
	out.Season = key.Season
	return out, nil
}

func (s *stubStatsProvider) FetchVenueByID(_ context.Context, key season.IDKey) (venue.Venue, error) {
	s.record("venue_by_id")
	return venue.Venue{}, errors.Wrapf(ErrNotFound, "venue %s", key)
}

func (s *stubStatsProvider) FetchTeam(_ context.Context, key season.IDKey) (team.Team, error) {
	s.record("team")
	for _, item := range fixtureTeams() {
		if item.Key() == key {
			return item, nil
		}
	}
	return team.Team{}, errors.Wrapf(ErrNotFound, "team %s", key)
}

func (s *stubStatsProvider) FetchTeamByID(_ context.Context, key season.IDKey) (team.Team, error) {
	s.record("team_by_id")
	return team.Team{}, errors.Wrapf(ErrNotFound, "team %s", key)
}

func (s *stubStatsProvider) FetchCoaches(_ context.Context, key season.IDKey) (coach.Staff, error) {
	s.record("coach")
	for _, item := range fixtureStaffs() {
		if item.Key() == key {
			return item, nil
		}
	}
	return coach.Staff{TeamID: key.ID, Season: key.Season}, nil
}

func (s *stubStatsProvider) FetchPlayer(_ context.Context, personID int64) (player.Player, error) {
	s.record("player")
	return player.Player{ID: personID, FullName: "Player " + strconv.FormatInt(personID, 10)}, nil
}

func (s *stubStatsProvider) FetchFeedPayload(_ context.Context, gamePk int64) ([]byte, error) {
	s.record("feed")
	s.mu.Lock()
	fail := s.failFeeds[gamePk]
	s.mu.Unlock()
	if fail {
		return nil, errors.Mark(errors.Newf("feed %d: connection reset", gamePk), ErrNetwork)
	}
	return []byte(strconv.FormatInt(gamePk, 10)), nil
}

func (s *stubStatsProvider) DecodeFeed(gamePk int64, payload []byte) (feed.Game, error) {
	if string(payload) != strconv.FormatInt(gamePk, 10) {
		return feed.Game{}, errors.Wrapf(ErrParse, "feed %d", gamePk)
	}
	return fixtureFeed(gamePk), nil
}

type sinkMock struct {
	mock.Mock
}

func (m *sinkMock) Write(ctx context.Context, pitches []pitch.Pitch) error {
	return m.Called(ctx, pitches).Error(0)
}

type memoryArchive struct {
	mu       sync.Mutex
	payloads map[int64][]byte
}

func (a *memoryArchive) Get(_ context.Context, gamePk int64) ([]byte, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	payload, ok := a.payloads[gamePk]
	return payload, ok, nil
}

func (a *memoryArchive) Put(_ context.Context, gamePk int64, payload []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.payloads[gamePk] = payload
	return nil
}

func newFileCaches(t *testing.T, dir string) SyncCaches {
	t.Helper()

	store, err := entitycache.NewFileStore(dir)
	require.NoError(t, err)
	return SyncCaches{
		Schedule:  entitycache.New[int64, schedule.GameSummary](store, entitycache.CollectionSchedule),
		BoxScores: entitycache.New[int64, boxscore.Summary](store, entitycache.CollectionBoxScore),
		Venues:    entitycache.New[season.IDKey, venue.Venue](store, entitycache.CollectionVenue),
		Teams:     entitycache.New[season.IDKey, team.Team](store, entitycache.CollectionTeam),
		Coaches:   entitycache.New[season.IDKey, coach.Staff](store, entitycache.CollectionCoach),
		Players:   entitycache.New[int64, player.Player](store, entitycache.CollectionPlayer),
		Ledger:    entitycache.New[int64, ledger.Entry](store, entitycache.CollectionLedger),
	}
}

func snapshotDir(t *testing.T, dir string) map[string]string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string]string, len(entries))
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.NoError(t, err)
		out[entry.Name()] = string(data)
	}
	return out
}

func fixtureSyncConfig(retry bool) SyncConfig {
	return SyncConfig{
		Seasons:            []season.Key{{Year: fixtureSeason, LevelOfPlayID: season.LevelMLB}},
		GameTypes:          []string{"R"},
		MaxWorkers:         4,
		FeedBatchSize:      10,
		ReconstructWorkers: 2,
		RetryFailedGames:   retry,
	}
}

func TestSyncService_Run_IncrementalAndIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	caches := newFileCaches(t, dir)
	provider := newStubStatsProvider(fixtureGame(fixtureGamePk), fixtureGame(fixtureGamePk+1))
	provider.setFeedFailure(fixtureGamePk+1, true)

	sink := &sinkMock{}
	sink.On("Write", mock.Anything, mock.MatchedBy(func(p []pitch.Pitch) bool {
		return len(p) == 2 && p[0].GamePk == fixtureGamePk
	})).Return(nil).Once()

	deps := SyncDependencies{
		Provider: provider,
		Caches:   caches,
		Sink:     sink,
		IDs:      id.Fixed("run-1"),
		Logger:   logging.NewNop(),
	}
	report, err := NewSyncService(deps, fixtureSyncConfig(false)).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, "run-1", report.RunID)
	require.Equal(t, []string{"2024/1"}, report.SeasonsRefreshed)
	require.Equal(t, 2, report.GamesPending)
	require.Equal(t, 1, report.GamesSucceeded)
	require.Equal(t, 1, report.GamesFailed)
	require.Equal(t, 2, report.PitchesWritten)
	require.Equal(t, 1, report.FailuresByKind["network"])
	require.Equal(t, 2, provider.count("boxscore"))
	require.Equal(t, 20, provider.count("player"))
	sink.AssertExpectations(t)

	entries, err := caches.Ledger.Load(ctx)
	require.NoError(t, err)
	book := ledger.FromEntries(entries)
	require.Equal(t, []int64{fixtureGamePk}, book.Good())
	require.Equal(t, []int64{fixtureGamePk + 1}, book.Bad())

	before := snapshotDir(t, dir)
	report, err = NewSyncService(deps, fixtureSyncConfig(false)).Run(ctx)
	require.NoError(t, err)
	require.Empty(t, report.SeasonsRefreshed)
	require.Zero(t, report.GamesPending)
	require.Equal(t, 1, provider.count("schedule"), "complete season must not be refetched")
	require.Equal(t, 2, provider.count("boxscore"))
	require.Equal(t, before, snapshotDir(t, dir))
}

func TestSyncService_Run_RetriesFailedGames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caches := newFileCaches(t, t.TempDir())
	provider := newStubStatsProvider(fixtureGame(fixtureGamePk), fixtureGame(fixtureGamePk+1))
	provider.setFeedFailure(fixtureGamePk+1, true)

	sink := &sinkMock{}
	sink.On("Write", mock.Anything, mock.Anything).Return(nil)
	deps := SyncDependencies{Provider: provider, Caches: caches, Sink: sink, Logger: logging.NewNop()}

	_, err := NewSyncService(deps, fixtureSyncConfig(true)).Run(ctx)
	require.NoError(t, err)

	provider.setFeedFailure(fixtureGamePk+1, false)
	report, err := NewSyncService(deps, fixtureSyncConfig(true)).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.GamesPending)
	require.Equal(t, 1, report.GamesSucceeded)

	entries, err := caches.Ledger.Load(ctx)
	require.NoError(t, err)
	book := ledger.FromEntries(entries)
	require.Equal(t, []int64{fixtureGamePk, fixtureGamePk + 1}, book.Good())
	require.Empty(t, book.Bad())
	for _, gamePk := range book.Good() {
		require.False(t, book.IsBad(gamePk))
	}
}

func TestSyncService_Run_GameTypeFilterChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caches := newFileCaches(t, t.TempDir())
	postseason := fixtureGame(fixtureGamePk + 1)
	postseason.GameType = "P"
	provider := newStubStatsProvider(fixtureGame(fixtureGamePk), postseason)

	var mu sync.Mutex
	written := make(map[int64]int)
	sink := &sinkMock{}
	sink.On("Write", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		for _, p := range args.Get(1).([]pitch.Pitch) {
			written[p.GamePk]++
		}
	}).Return(nil)
	deps := SyncDependencies{Provider: provider, Caches: caches, Sink: sink, Logger: logging.NewNop()}

	regular := fixtureSyncConfig(false)
	report, err := NewSyncService(deps, regular).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.GamesPending)
	require.Equal(t, 1, report.GamesSucceeded)
	require.Zero(t, written[fixtureGamePk+1])

	widened := fixtureSyncConfig(false)
	widened.GameTypes = []string{"R", "P"}
	report, err = NewSyncService(deps, widened).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.GamesPending)
	require.Equal(t, 1, report.GamesSucceeded)
	require.Equal(t, 2, written[fixtureGamePk+1])
	require.Equal(t, 1, provider.count("schedule"), "complete season must not be refetched")

	entries, err := caches.Ledger.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{fixtureGamePk, fixtureGamePk + 1}, ledger.FromEntries(entries).Good())

	// Narrowing to a type with no cached games leaves nothing pending.
	wildcard := fixtureSyncConfig(false)
	wildcard.GameTypes = []string{"W"}
	report, err = NewSyncService(deps, wildcard).Run(ctx)
	require.NoError(t, err)
	require.Zero(t, report.GamesPending)
}

func TestScopeGames_FiltersByGameType(t *testing.T) {
	t.Parallel()

	exhibition := fixtureGame(fixtureGamePk + 2)
	exhibition.GameType = "E"
	postseason := fixtureGame(fixtureGamePk + 1)
	postseason.GameType = "p"
	games := []schedule.GameSummary{exhibition, postseason, fixtureGame(fixtureGamePk)}
	seasons := []season.Key{{Year: fixtureSeason, LevelOfPlayID: season.LevelMLB}}

	gamePks := func(games []schedule.GameSummary) []int64 {
		out := make([]int64, 0, len(games))
		for _, game := range games {
			out = append(out, game.GamePk)
		}
		return out
	}

	require.Equal(t, []int64{fixtureGamePk}, gamePks(scopeGames(games, seasons, []string{"R"})))
	require.Equal(t, []int64{fixtureGamePk, fixtureGamePk + 1}, gamePks(scopeGames(games, seasons, []string{"r", "P"})))
	require.Equal(t, []int64{fixtureGamePk, fixtureGamePk + 1, fixtureGamePk + 2}, gamePks(scopeGames(games, seasons, nil)))
}

func TestSyncService_Run_SinkFailureIsFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	caches := newFileCaches(t, t.TempDir())
	provider := newStubStatsProvider(fixtureGame(fixtureGamePk))

	sink := &sinkMock{}
	sink.On("Write", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	_, err := NewSyncService(SyncDependencies{Provider: provider, Caches: caches, Sink: sink, Logger: logging.NewNop()}, fixtureSyncConfig(false)).Run(ctx)
	require.Error(t, err)
	require.True(t, IsRunFatal(err))

	entries, err := caches.Ledger.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, entries, "ledger must not record games whose pitches were not written")
}

func TestSyncService_LoadFeed_PrefersArchive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	provider := newStubStatsProvider()
	archive := &memoryArchive{payloads: make(map[int64][]byte)}
	svc := NewSyncService(SyncDependencies{Provider: provider, Archive: archive, Logger: logging.NewNop()}, SyncConfig{})

	game, err := svc.loadFeed(ctx, fixtureGamePk)
	require.NoError(t, err)
	require.Equal(t, fixtureGamePk, game.GamePk)
	require.Equal(t, 1, provider.count("feed"))

	_, err = svc.loadFeed(ctx, fixtureGamePk)
	require.NoError(t, err)
	require.Equal(t, 1, provider.count("feed"), "archived feed must not be refetched")
}

func TestSyncService_Run_RejectsMissingDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewSyncService(SyncDependencies{}, fixtureSyncConfig(false)).Run(context.Background())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

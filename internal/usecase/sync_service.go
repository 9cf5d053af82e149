package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

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
	"github.com/riskibarqy/pitchsync/internal/platform/id"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
)

const (
	defaultFeedBatchSize      = 50
	defaultReconstructWorkers = 4
)

type SyncConfig struct {
	Seasons []season.Key
	// GameTypes filters which cached games are synced; empty means all.
	GameTypes []string
	// MaxWorkers and ItemTimeout bound every remote fetch batch.
	MaxWorkers         int
	ItemTimeout        time.Duration
	FeedBatchSize      int
	ReconstructWorkers int
	// RetryFailedGames re-attempts games recorded as bad by earlier runs.
	RetryFailedGames bool
}

func (c SyncConfig) normalize() SyncConfig {
	if c.FeedBatchSize <= 0 {
		c.FeedBatchSize = defaultFeedBatchSize
	}
	if c.ReconstructWorkers <= 0 {
		c.ReconstructWorkers = defaultReconstructWorkers
	}
	return c
}

func (c SyncConfig) fetchOptions() FetchOptions {
	return FetchOptions{MaxWorkers: c.MaxWorkers, ItemTimeout: c.ItemTimeout}
}

// SyncCaches are the persisted collections one run reads and extends.
type SyncCaches struct {
	Schedule  Collection[schedule.GameSummary]
	BoxScores Collection[boxscore.Summary]
	Venues    Collection[venue.Venue]
	Teams     Collection[team.Team]
	Coaches   Collection[coach.Staff]
	Players   Collection[player.Player]
	Ledger    Collection[ledger.Entry]
}

func (c SyncCaches) validate() error {
	if c.Schedule == nil || c.BoxScores == nil || c.Venues == nil || c.Teams == nil ||
		c.Coaches == nil || c.Players == nil || c.Ledger == nil {
		return errors.Wrap(ErrInvalidInput, "every entity cache must be configured")
	}
	return nil
}

type SyncDependencies struct {
	Provider      StatsProvider
	Caches        SyncCaches
	Sink          PitchSink
	Reconstructor *Reconstructor
	// Archive is optional; without it every feed is fetched remotely.
	Archive FeedArchive
	IDs     id.Generator
	Logger  *logging.Logger
}

// EntityStats summarizes one differential fetch stage.
type EntityStats struct {
	Name       string `json:"name"`
	Needed     int    `json:"needed"`
	Cached     int    `json:"cached"`
	Fetched    int    `json:"fetched"`
	Failed     int    `json:"failed"`
	DurationMs int64  `json:"duration_ms"`
}

type SyncReport struct {
	RunID            string        `json:"run_id"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       time.Time     `json:"finished_at"`
	SeasonsRefreshed []string      `json:"seasons_refreshed"`
	SeasonsFailed    []string      `json:"seasons_failed,omitempty"`
	Entities         []EntityStats `json:"entities"`
	GamesPending     int           `json:"games_pending"`
	GamesSucceeded   int           `json:"games_succeeded"`
	GamesFailed      int           `json:"games_failed"`
	PitchesWritten   int           `json:"pitches_written"`
	LookupMisses     int           `json:"lookup_misses"`
	// FailuresByKind counts failed games per error taxonomy bucket.
	FailuresByKind map[string]int `json:"failures_by_kind,omitempty"`
}

// SyncService runs one incremental sync: refresh incomplete seasons, fetch the
// metadata the scoped games need, then reconstruct games not yet marked good.
type SyncService struct {
	provider      StatsProvider
	caches        SyncCaches
	sink          PitchSink
	reconstructor *Reconstructor
	archive       FeedArchive
	ids           id.Generator
	logger        *logging.Logger
	cfg           SyncConfig
	now           func() time.Time
}

func NewSyncService(deps SyncDependencies, cfg SyncConfig) *SyncService {
	reconstructor := deps.Reconstructor
	if reconstructor == nil {
		reconstructor = NewReconstructor(ReconstructorOptions{})
	}
	ids := deps.IDs
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}
	return &SyncService{
		provider:      deps.Provider,
		caches:        deps.Caches,
		sink:          deps.Sink,
		reconstructor: reconstructor,
		archive:       deps.Archive,
		ids:           ids,
		logger:        logging.OrDefault(deps.Logger).Named("sync"),
		cfg:           cfg.normalize(),
		now:           time.Now,
	}
}

// Run executes the pipeline once. Per-item failures are reported and left for
// a later run; only cache or sink I/O failures abort and return an error
// marked ErrCacheIO. The partial report is returned either way.
func (s *SyncService) Run(ctx context.Context) (SyncReport, error) {
	runID := s.ids.NewID()
	ctx, span := startRunSpan(ctx, "usecase.SyncService.Run",
		attribute.String("sync.run_id", runID),
		attribute.Int("sync.seasons", len(s.cfg.Seasons)),
	)
	report, err := s.run(ctx, runID)
	span.SetAttributes(
		attribute.Int("sync.games_succeeded", report.GamesSucceeded),
		attribute.Int("sync.games_failed", report.GamesFailed),
		attribute.Int("sync.pitches_written", report.PitchesWritten),
	)
	finishSpan(span, err)
	return report, err
}

func (s *SyncService) run(ctx context.Context, runID string) (SyncReport, error) {
	report := SyncReport{
		RunID:          runID,
		StartedAt:      s.now(),
		FailuresByKind: make(map[string]int),
	}

	if s.provider == nil || s.sink == nil {
		return s.finish(report), errors.Wrap(ErrInvalidInput, "provider and sink are required")
	}
	if err := s.caches.validate(); err != nil {
		return s.finish(report), err
	}
	if len(s.cfg.Seasons) == 0 {
		return s.finish(report), errors.Wrap(ErrInvalidInput, "at least one season is required")
	}

	logger := s.logger.With("run_id", report.RunID)
	logger.InfoContext(ctx, "sync started", "seasons", len(s.cfg.Seasons))

	games, err := s.refreshSchedules(ctx, &report)
	if err != nil {
		return s.finish(report), err
	}
	scoped := scopeGames(games, s.cfg.Seasons, s.cfg.GameTypes)

	lookups, err := s.syncMetadata(ctx, scoped, &report)
	if err != nil {
		return s.finish(report), err
	}

	if err := s.reconstructGames(ctx, scoped, lookups, &report, logger); err != nil {
		return s.finish(report), err
	}

	report = s.finish(report)
	logger.InfoContext(ctx, "sync finished",
		"games_pending", report.GamesPending,
		"games_succeeded", report.GamesSucceeded,
		"games_failed", report.GamesFailed,
		"pitches_written", report.PitchesWritten,
		"lookup_misses", report.LookupMisses,
	)
	return report, nil
}

func (s *SyncService) finish(report SyncReport) SyncReport {
	report.FinishedAt = s.now()
	return report
}

type seasonSchedule struct {
	key   season.Key
	games []schedule.GameSummary
}

// refreshSchedules refetches every requested season that is not yet complete
// and returns the extended schedule cache.
func (s *SyncService) refreshSchedules(ctx context.Context, report *SyncReport) ([]schedule.GameSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.refreshSchedules")
	defer span.End()

	cached, err := s.caches.Schedule.Load(ctx)
	if err != nil {
		return nil, cacheIOError(err, "load schedule cache")
	}

	refresh := SeasonsToRefresh(s.cfg.Seasons, SeasonStatuses(cached))
	result, err := DiffFetch(ctx, NewKeySet(refresh...), NewKeySet[season.Key](),
		func(ctx context.Context, key season.Key) (seasonSchedule, error) {
			// Every game type is cached so season completeness does not depend
			// on the configured filter; GameTypes is applied in scopeGames.
			games, err := s.provider.FetchSchedule(ctx, key, nil)
			if err != nil {
				return seasonSchedule{}, err
			}
			return seasonSchedule{key: key, games: games}, nil
		},
		s.cfg.fetchOptions(),
	)
	if err != nil {
		return nil, err
	}

	sort.Slice(result.Succeeded, func(i, j int) bool {
		return result.Succeeded[i].key.Less(result.Succeeded[j].key)
	})
	incoming := make([]schedule.GameSummary, 0)
	for _, item := range result.Succeeded {
		report.SeasonsRefreshed = append(report.SeasonsRefreshed, item.key.String())
		incoming = append(incoming, item.games...)
	}
	failed := result.Failed.Keys()
	sort.Slice(failed, func(i, j int) bool { return failed[i].Less(failed[j]) })
	for _, key := range failed {
		report.SeasonsFailed = append(report.SeasonsFailed, key.String())
		s.logger.WarnContext(ctx, "schedule fetch failed", "season", key.String(), "kind", failureKind(result.Errors[key]), "error", result.Errors[key])
	}

	report.Entities = append(report.Entities, EntityStats{
		Name:       "schedule",
		Needed:     len(s.cfg.Seasons),
		Cached:     len(s.cfg.Seasons) - len(refresh),
		Fetched:    len(result.Succeeded),
		Failed:     len(result.Failed),
		DurationMs: result.Duration.Milliseconds(),
	})

	if len(incoming) == 0 {
		return cached, nil
	}
	games, err := s.caches.Schedule.Extend(ctx, incoming)
	if err != nil {
		return nil, cacheIOError(err, "extend schedule cache")
	}
	return games, nil
}

// scopeGames keeps games of the requested seasons and game types that have
// play data, sorted by gamePk. No game types means every type.
func scopeGames(games []schedule.GameSummary, seasons []season.Key, gameTypes []string) []schedule.GameSummary {
	wanted := NewKeySet(seasons...)
	types := make(KeySet[string], len(gameTypes))
	for _, gameType := range gameTypes {
		types.Add(strings.ToUpper(strings.TrimSpace(gameType)))
	}
	byPk := make(map[int64]schedule.GameSummary, len(games))
	for _, game := range games {
		if !wanted.Has(game.SeasonKey()) || !game.HasPlayData() {
			continue
		}
		if len(types) > 0 && !types.Has(strings.ToUpper(strings.TrimSpace(game.GameType))) {
			continue
		}
		byPk[game.GamePk] = game
	}
	out := make([]schedule.GameSummary, 0, len(byPk))
	for _, game := range byPk {
		out = append(out, game)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GamePk < out[j].GamePk })
	return out
}

// syncEntity runs one differential fetch stage and returns the full cached
// collection after merging what was fetched.
func syncEntity[K comparable, T interface{ Key() K }](
	ctx context.Context,
	s *SyncService,
	name string,
	collection Collection[T],
	needed KeySet[K],
	fetch FetchFunc[K, T],
	less func(a, b K) bool,
	report *SyncReport,
) ([]T, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.sync."+name)
	defer span.End()

	existing, err := collection.Load(ctx)
	if err != nil {
		return nil, cacheIOError(err, "load %s cache", name)
	}
	cached := make(KeySet[K], len(existing))
	for _, item := range existing {
		cached.Add(item.Key())
	}

	result, err := DiffFetch(ctx, needed, cached, fetch, s.cfg.fetchOptions())
	if err != nil {
		return nil, err
	}
	for key, fetchErr := range result.Errors {
		s.logger.WarnContext(ctx, "entity fetch failed", "entity", name, "key", key, "kind", failureKind(fetchErr), "error", fetchErr)
	}
	report.Entities = append(report.Entities, EntityStats{
		Name:       name,
		Needed:     len(needed),
		Cached:     len(needed) - result.Requested,
		Fetched:    len(result.Succeeded),
		Failed:     len(result.Failed),
		DurationMs: result.Duration.Milliseconds(),
	})

	if len(result.Succeeded) == 0 {
		return existing, nil
	}
	sort.Slice(result.Succeeded, func(i, j int) bool {
		return less(result.Succeeded[i].Key(), result.Succeeded[j].Key())
	})
	merged, err := collection.Extend(ctx, result.Succeeded)
	if err != nil {
		return nil, cacheIOError(err, "extend %s cache", name)
	}
	return merged, nil
}

func lessInt64(a, b int64) bool { return a < b }

func lessIDKey(a, b season.IDKey) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	return a.Season < b.Season
}

// syncMetadata brings every lookup collection up to date for the scoped games
// and assembles the join tables.
func (s *SyncService) syncMetadata(ctx context.Context, games []schedule.GameSummary, report *SyncReport) (*Lookups, error) {
	gameKeys := make(KeySet[int64], len(games))
	venueKeys := make(KeySet[season.IDKey])
	teamKeys := make(KeySet[season.IDKey])
	for _, game := range games {
		gameKeys.Add(game.GamePk)
		if game.VenueID > 0 {
			venueKeys.Add(season.IDKey{ID: game.VenueID, Season: game.Season})
		}
		for _, teamID := range []int64{game.HomeTeamID, game.AwayTeamID} {
			if teamID > 0 {
				teamKeys.Add(season.IDKey{ID: teamID, Season: game.Season})
			}
		}
	}

	boxScores, err := syncEntity(ctx, s, "boxscore", s.caches.BoxScores, gameKeys, s.provider.FetchBoxScore, lessInt64, report)
	if err != nil {
		return nil, err
	}
	venues, err := syncEntity(ctx, s, "venue", s.caches.Venues, venueKeys,
		WithFallback[season.IDKey, venue.Venue](s.provider.FetchVenue, s.provider.FetchVenueByID), lessIDKey, report)
	if err != nil {
		return nil, err
	}
	teams, err := syncEntity(ctx, s, "team", s.caches.Teams, teamKeys,
		WithFallback[season.IDKey, team.Team](s.provider.FetchTeam, s.provider.FetchTeamByID), lessIDKey, report)
	if err != nil {
		return nil, err
	}
	staffs, err := syncEntity(ctx, s, "coach", s.caches.Coaches, teamKeys, s.provider.FetchCoaches, lessIDKey, report)
	if err != nil {
		return nil, err
	}

	playerKeys := make(KeySet[int64])
	for _, box := range boxScores {
		if !gameKeys.Has(box.GamePk) {
			continue
		}
		for _, personID := range box.PlayerIDs() {
			playerKeys.Add(personID)
		}
	}
	players, err := syncEntity(ctx, s, "player", s.caches.Players, playerKeys, s.provider.FetchPlayer, lessInt64, report)
	if err != nil {
		return nil, err
	}

	return AssembleLookups(AssemblerInput{
		Games:     games,
		BoxScores: boxScores,
		Venues:    venues,
		Teams:     teams,
		Staffs:    staffs,
		Players:   players,
	}), nil
}

type gameOutcome struct {
	gamePk int64
	result GameResult
	err    error
}

// reconstructGames walks pending games in batches. Feeds are fetched on the
// worker pool, games are rebuilt in parallel, and the sink and ledger are
// written once per batch by this goroutine only.
func (s *SyncService) reconstructGames(
	ctx context.Context,
	games []schedule.GameSummary,
	lookups *Lookups,
	report *SyncReport,
	logger *logging.Logger,
) error {
	entries, err := s.caches.Ledger.Load(ctx)
	if err != nil {
		return cacheIOError(err, "load sync ledger")
	}
	book := ledger.FromEntries(entries)

	pending := make([]int64, 0, len(games))
	for _, game := range games {
		switch {
		case book.IsGood(game.GamePk):
		case book.IsBad(game.GamePk) && !s.cfg.RetryFailedGames:
		default:
			pending = append(pending, game.GamePk)
		}
	}
	report.GamesPending = len(pending)

	for start := 0; start < len(pending); start += s.cfg.FeedBatchSize {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "sync cancelled")
		}
		end := min(start+s.cfg.FeedBatchSize, len(pending))
		if err := s.runBatch(ctx, pending[start:end], lookups, book, report, logger); err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) runBatch(
	ctx context.Context,
	batch []int64,
	lookups *Lookups,
	book *ledger.Ledger,
	report *SyncReport,
	logger *logging.Logger,
) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.runBatch", attribute.Int("sync.batch_size", len(batch)))
	defer span.End()

	feeds, err := DiffFetch(ctx, NewKeySet(batch...), NewKeySet[int64](), s.loadFeed, s.cfg.fetchOptions())
	if err != nil {
		return err
	}

	results := pool.NewWithResults[gameOutcome]().WithMaxGoroutines(s.cfg.ReconstructWorkers)
	for _, game := range feeds.Succeeded {
		results.Go(func() gameOutcome {
			result, err := s.reconstructor.Reconstruct(game.GamePk, game, lookups)
			return gameOutcome{gamePk: game.GamePk, result: result, err: err}
		})
	}
	outcomes := results.Wait()
	for gamePk, fetchErr := range feeds.Errors {
		outcomes = append(outcomes, gameOutcome{gamePk: gamePk, err: fetchErr})
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].gamePk < outcomes[j].gamePk })

	var pitches []pitch.Pitch
	for _, outcome := range outcomes {
		if outcome.err == nil {
			pitches = append(pitches, outcome.result.Pitches...)
		}
	}
	if len(pitches) > 0 {
		if err := s.sink.Write(ctx, pitches); err != nil {
			return cacheIOError(err, "write %d pitches", len(pitches))
		}
	}

	for _, outcome := range outcomes {
		if outcome.err != nil {
			kind := failureKind(outcome.err)
			book.MarkBad(outcome.gamePk)
			report.GamesFailed++
			report.FailuresByKind[kind]++
			logger.WarnContext(ctx, "game failed", "game_pk", outcome.gamePk, "kind", kind, "error", outcome.err)
			continue
		}
		book.MarkGood(outcome.gamePk)
		report.GamesSucceeded++
		report.PitchesWritten += len(outcome.result.Pitches)
		report.LookupMisses += outcome.result.Misses
	}

	if err := s.caches.Ledger.Save(ctx, book.Entries()); err != nil {
		return cacheIOError(err, "save sync ledger")
	}
	logger.InfoContext(ctx, "batch done", "games", len(batch), "pitches", len(pitches), "ledger_size", book.Len())
	return nil
}

// loadFeed reads the archived payload when present and otherwise fetches and
// archives it. Archive failures only cost a refetch.
func (s *SyncService) loadFeed(ctx context.Context, gamePk int64) (feed.Game, error) {
	if s.archive != nil {
		payload, ok, err := s.archive.Get(ctx, gamePk)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "feed archive read failed", "game_pk", gamePk, "error", err)
		case ok:
			game, decodeErr := s.provider.DecodeFeed(gamePk, payload)
			if decodeErr == nil {
				return game, nil
			}
			s.logger.WarnContext(ctx, "archived feed unreadable, refetching", "game_pk", gamePk, "error", decodeErr)
		}
	}

	payload, err := s.provider.FetchFeedPayload(ctx, gamePk)
	if err != nil {
		return feed.Game{}, err
	}
	game, err := s.provider.DecodeFeed(gamePk, payload)
	if err != nil {
		return feed.Game{}, err
	}
	if s.archive != nil {
		if err := s.archive.Put(ctx, gamePk, payload); err != nil {
			s.logger.WarnContext(ctx, "feed archive write failed", "game_pk", gamePk, "error", err)
		}
	}
	return game, nil
}

package app

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/pitchsync/external/statsapi"
	"github.com/riskibarqy/pitchsync/internal/config"
	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/ledger"
	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
	"github.com/riskibarqy/pitchsync/internal/infrastructure/entitycache"
	"github.com/riskibarqy/pitchsync/internal/infrastructure/feedarchive"
	"github.com/riskibarqy/pitchsync/internal/infrastructure/sink"
	idgen "github.com/riskibarqy/pitchsync/internal/platform/id"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
	"github.com/riskibarqy/pitchsync/internal/platform/resilience"
	"github.com/riskibarqy/pitchsync/internal/usecase"
)

type pitchSink interface {
	usecase.PitchSink
	Close() error
}

// Runner owns every resource one sync run needs.
type Runner struct {
	service *usecase.SyncService
	closers []func() error
	logger  *logging.Logger
}

// NewSyncRunner builds the sync pipeline from config. Call Close when done.
func NewSyncRunner(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Runner, error) {
	logger = logging.OrDefault(logger)
	r := &Runner{logger: logger}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, store.Close)

	out, err := newSink(ctx, cfg)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	r.closers = append(r.closers, out.Close)

	var archive usecase.FeedArchive
	if cfg.FeedArchiveEnabled {
		a, err := feedarchive.New(cfg.FeedArchiveDir)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("open feed archive: %w", err)
		}
		r.closers = append(r.closers, a.Close)
		archive = a
	}

	client := statsapi.NewClient(statsapi.ClientConfig{
		BaseURL:    cfg.StatsAPIBaseURL,
		Timeout:    cfg.StatsAPITimeout,
		MaxRetries: cfg.StatsAPIMaxRetries,
		RateLimit:  cfg.StatsAPIRateLimit,
		RateBurst:  cfg.StatsAPIRateBurst,
		Logger:     logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.StatsAPICircuitEnabled,
			FailureThreshold: cfg.StatsAPICircuitFailureCount,
			OpenTimeout:      cfg.StatsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsAPICircuitHalfOpenMaxReq,
		},
	})

	r.service = usecase.NewSyncService(usecase.SyncDependencies{
		Provider: client,
		Caches:   newCaches(store),
		Sink:     out,
		Reconstructor: usecase.NewReconstructor(usecase.ReconstructorOptions{
			Physics: usecase.KinematicsDeriver{},
		}),
		Archive: archive,
		IDs:     idgen.NewUUIDGenerator(),
		Logger:  logger,
	}, usecase.SyncConfig{
		Seasons:            cfg.SeasonKeys(),
		GameTypes:          cfg.SyncGameTypes,
		MaxWorkers:         cfg.SyncMaxWorkers,
		ItemTimeout:        cfg.SyncItemTimeout,
		FeedBatchSize:      cfg.SyncFeedBatchSize,
		ReconstructWorkers: cfg.SyncReconstructWorkers,
		RetryFailedGames:   cfg.SyncRetryFailedGames,
	})

	logger.Info("sync runner ready",
		"cache_backend", cfg.CacheBackend,
		"sink", cfg.SinkKind,
		"feed_archive", cfg.FeedArchiveEnabled,
		"seasons", len(cfg.SyncSeasons),
	)
	return r, nil
}

func (r *Runner) Run(ctx context.Context) (usecase.SyncReport, error) {
	return r.service.Run(ctx)
}

// Close releases resources in reverse order of acquisition.
func (r *Runner) Close() error {
	var errs error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.logger.Warn("close sync resource failed", "error", err)
			errs = errors.CombineErrors(errs, err)
		}
	}
	r.closers = nil
	return errs
}

func newStore(ctx context.Context, cfg config.Config) (entitycache.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendSQLite:
		store, err := entitycache.NewSQLiteStore(ctx, cfg.CacheSQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return store, nil
	case config.CacheBackendFile, "":
		store, err := entitycache.NewFileStore(cfg.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}
}

func newSink(ctx context.Context, cfg config.Config) (pitchSink, error) {
	switch cfg.SinkKind {
	case config.SinkPostgres:
		out, err := sink.NewPostgres(ctx, sink.PostgresConfig{
			URL:                         cfg.DBURL,
			MaxOpenConns:                cfg.DBMaxOpenConns,
			MaxIdleConns:                cfg.DBMaxIdleConns,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres sink: %w", err)
		}
		return out, nil
	case config.SinkCSV, "":
		out, err := sink.NewCSV(cfg.SinkCSVPath)
		if err != nil {
			return nil, fmt.Errorf("open csv sink: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported sink kind %q", cfg.SinkKind)
	}
}

func newCaches(store entitycache.Store) usecase.SyncCaches {
	return usecase.SyncCaches{
		Schedule:  entitycache.New[int64, schedule.GameSummary](store, entitycache.CollectionSchedule),
		BoxScores: entitycache.New[int64, boxscore.Summary](store, entitycache.CollectionBoxScore),
		Venues:    entitycache.New[season.IDKey, venue.Venue](store, entitycache.CollectionVenue),
		Teams:     entitycache.New[season.IDKey, team.Team](store, entitycache.CollectionTeam),
		Coaches:   entitycache.New[season.IDKey, coach.Staff](store, entitycache.CollectionCoach),
		Players:   entitycache.New[int64, player.Player](store, entitycache.CollectionPlayer),
		Ledger:    entitycache.New[int64, ledger.Entry](store, entitycache.CollectionLedger),
	}
}

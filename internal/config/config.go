package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/platform/logging"
)

const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"

	SinkCSV      = "csv"
	SinkPostgres = "postgres"
)

// Config stores runtime configuration for the sync process.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       logging.Level

	StatsAPIBaseURL               string        `validate:"required,url"`
	StatsAPITimeout               time.Duration `validate:"gt=0"`
	StatsAPIMaxRetries            int           `validate:"gte=0,lte=10"`
	StatsAPIRateLimit             float64       `validate:"gt=0"`
	StatsAPIRateBurst             int           `validate:"gte=1"`
	StatsAPICircuitEnabled        bool
	StatsAPICircuitFailureCount   int           `validate:"gte=1"`
	StatsAPICircuitOpenTimeout    time.Duration `validate:"gt=0"`
	StatsAPICircuitHalfOpenMaxReq int           `validate:"gte=1"`

	SyncSeasons            []int         `validate:"min=1,dive,gt=1870"`
	SyncLevelIDs           []int64       `validate:"min=1,dive,gt=0"`
	SyncGameTypes          []string      `validate:"dive,required"`
	SyncMaxWorkers         int           `validate:"gte=1,lte=256"`
	SyncItemTimeout        time.Duration `validate:"gt=0"`
	SyncFeedBatchSize      int           `validate:"gte=1"`
	SyncReconstructWorkers int           `validate:"gte=1"`
	SyncRetryFailedGames   bool

	CacheBackend    string `validate:"oneof=file sqlite"`
	CacheDir        string `validate:"required_if=CacheBackend file"`
	CacheSQLitePath string `validate:"required_if=CacheBackend sqlite"`

	FeedArchiveEnabled bool
	FeedArchiveDir     string `validate:"required_if=FeedArchiveEnabled true"`

	SinkKind                string `validate:"oneof=csv postgres"`
	SinkCSVPath             string `validate:"required_if=SinkKind csv"`
	DBURL                   string `validate:"required_if=SinkKind postgres"`
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int `validate:"gte=1"`
	DBMaxIdleConns          int `validate:"gte=0"`

	UptraceEnabled             bool
	UptraceLogsEnabled         bool
	UptraceDSN                 string `validate:"required_if=UptraceEnabled true"`
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration `validate:"gt=0"`
}

// SeasonKeys expands the configured years and levels into schedule partitions.
func (c Config) SeasonKeys() []season.Key {
	out := make([]season.Key, 0, len(c.SyncSeasons)*len(c.SyncLevelIDs))
	for _, year := range c.SyncSeasons {
		for _, level := range c.SyncLevelIDs {
			out = append(out, season.Key{Year: year, LevelOfPlayID: level})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:          appEnv,
		ServiceName:     strings.TrimSpace(getEnv("APP_SERVICE_NAME", "pitchsync")),
		ServiceVersion:  strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:        logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		StatsAPIBaseURL: strings.TrimRight(strings.TrimSpace(getEnv("STATSAPI_BASE_URL", "https://statsapi.mlb.com/api")), "/"),
		CacheBackend:    strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendFile))),
		CacheDir:        strings.TrimSpace(getEnv("CACHE_DIR", "data/cache")),
		CacheSQLitePath: strings.TrimSpace(getEnv("CACHE_SQLITE_PATH", "")),
		FeedArchiveDir:  strings.TrimSpace(getEnv("FEED_ARCHIVE_DIR", "data/feeds")),
		SinkKind:        strings.ToLower(strings.TrimSpace(getEnv("SINK_KIND", SinkCSV))),
		SinkCSVPath:     strings.TrimSpace(getEnv("SINK_CSV_PATH", "data/pitches.csv")),
		DBURL:           strings.TrimSpace(getEnv("DB_URL", "")),
		UptraceDSN:      strings.TrimSpace(getEnv("UPTRACE_DSN", "")),

		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", "pitchsync")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		SyncGameTypes:              splitCSV(getEnv("SYNC_GAME_TYPES", "R")),
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.CacheBackend == CacheBackendSQLite && cfg.CacheSQLitePath == "" {
		cfg.CacheSQLitePath = strings.TrimSuffix(cfg.CacheDir, "/") + "/pitchsync.db"
	}

	if cfg.StatsAPITimeout, err = getEnvAsDuration("STATSAPI_TIMEOUT", 20*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StatsAPIMaxRetries, err = getEnvAsInt("STATSAPI_MAX_RETRIES", 2); err != nil {
		return Config{}, err
	}
	if cfg.StatsAPIRateLimit, err = getEnvAsFloat("STATSAPI_RATE_LIMIT", 10); err != nil {
		return Config{}, err
	}
	if cfg.StatsAPIRateBurst, err = getEnvAsInt("STATSAPI_RATE_BURST", 5); err != nil {
		return Config{}, err
	}
	if cfg.StatsAPICircuitEnabled, err = getEnvAsBool("STATSAPI_CIRCUIT_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.StatsAPICircuitFailureCount, err = getEnvAsInt("STATSAPI_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, err
	}
	if cfg.StatsAPICircuitOpenTimeout, err = getEnvAsDuration("STATSAPI_CIRCUIT_OPEN_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StatsAPICircuitHalfOpenMaxReq, err = getEnvAsInt("STATSAPI_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, err
	}

	if cfg.SyncSeasons, err = parseSeasons(getEnv("SYNC_SEASONS", strconv.Itoa(time.Now().Year()))); err != nil {
		return Config{}, fmt.Errorf("parse SYNC_SEASONS: %w", err)
	}
	if cfg.SyncLevelIDs, err = parseIDList(getEnv("SYNC_LEVEL_IDS", "1")); err != nil {
		return Config{}, fmt.Errorf("parse SYNC_LEVEL_IDS: %w", err)
	}
	if cfg.SyncMaxWorkers, err = getEnvAsInt("SYNC_MAX_WORKERS", 8); err != nil {
		return Config{}, err
	}
	if cfg.SyncItemTimeout, err = getEnvAsDuration("SYNC_ITEM_TIMEOUT", 45*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SyncFeedBatchSize, err = getEnvAsInt("SYNC_FEED_BATCH_SIZE", 50); err != nil {
		return Config{}, err
	}
	if cfg.SyncReconstructWorkers, err = getEnvAsInt("SYNC_RECONSTRUCT_WORKERS", 4); err != nil {
		return Config{}, err
	}
	if cfg.SyncRetryFailedGames, err = getEnvAsBool("SYNC_RETRY_FAILED_GAMES", true); err != nil {
		return Config{}, err
	}

	if cfg.FeedArchiveEnabled, err = getEnvAsBool("FEED_ARCHIVE_ENABLED", true); err != nil {
		return Config{}, err
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", false); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 4); err != nil {
		return Config{}, err
	}
	if cfg.DBMaxIdleConns, err = getEnvAsInt("DB_MAX_IDLE_CONNS", 2); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks cross-field constraints after parsing.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseSeasons accepts single years and inclusive ranges, e.g. "2019-2021,2024".
func parseSeasons(raw string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, item := range splitCSV(raw) {
		from, to, isRange := strings.Cut(item, "-")
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", item, err)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
				return nil, fmt.Errorf("invalid season range %q: %w", item, err)
			}
		}
		if end < start {
			return nil, fmt.Errorf("season range %q is reversed", item)
		}
		for year := start; year <= end; year++ {
			seen[year] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for year := range seen {
		out = append(out, year)
	}
	sort.Ints(out)
	return out, nil
}

func parseIDList(raw string) ([]int64, error) {
	items := splitCSV(raw)
	out := make([]int64, 0, len(items))
	for _, item := range items {
		value, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", item, err)
		}
		out = append(out, value)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

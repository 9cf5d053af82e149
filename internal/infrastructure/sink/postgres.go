package sink

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/pitchsync/internal/domain/pitch"
	"github.com/riskibarqy/pitchsync/internal/platform/querybuilder"
)

const (
	pitchesTable = "pitches"
	// lib/pq caps bind parameters at 65535 per statement.
	maxPostgresParams = 65535
)

var conflictColumns = []string{"game_pk", "at_bat_index", "event_index"}

type PostgresConfig struct {
	URL                         string
	MaxOpenConns                int
	MaxIdleConns                int
	DisablePreparedBinaryResult bool
}

// Postgres upserts pitch rows into the pitches table so a re-run of the same
// game replaces its rows instead of duplicating them.
type Postgres struct {
	db        *sqlx.DB
	batchRows int
}

func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("postgres sink url is required")
	}
	dsn := normalizeDBURL(cfg.URL, cfg.DisablePreparedBinaryResult)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatQueryForTrace),
	)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres sink")
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres sink")
	}

	return NewPostgresFromDB(db), nil
}

// NewPostgresFromDB wraps an existing handle.
func NewPostgresFromDB(db *sqlx.DB) *Postgres {
	return &Postgres{db: db, batchRows: maxPostgresParams / len(pitch.Columns())}
}

func (s *Postgres) Write(ctx context.Context, pitches []pitch.Pitch) (err error) {
	if len(pitches) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin pitch upsert")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for start := 0; start < len(pitches); start += s.batchRows {
		end := min(start+s.batchRows, len(pitches))
		query, args, buildErr := upsertPitches(pitches[start:end])
		if buildErr != nil {
			return buildErr
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "upsert %d pitches", end-start)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit pitch upsert")
	}
	return nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func upsertPitches(pitches []pitch.Pitch) (string, []any, error) {
	columns := pitch.Columns()
	insert := querybuilder.InsertInto(pitchesTable).Columns(columns...)
	for _, p := range pitches {
		insert.Values(p.Row()...)
	}
	return insert.
		OnConflict(conflictColumns...).
		DoUpdate(updatableColumns(columns)...).
		ToSQL()
}

func updatableColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, column := range columns {
		switch column {
		case "game_pk", "at_bat_index", "event_index":
			continue
		}
		out = append(out, column)
	}
	return out
}

const maxTracedQueryLength = 512

var queryWhitespace = regexp.MustCompile(`\s+`)

// formatQueryForTrace collapses whitespace and truncates long upserts so span
// attributes stay readable.
func formatQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}
	normalized := queryWhitespace.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}
	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}
	for _, token := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			if name = strings.Trim(name, `"'`); name != "" {
				return name
			}
		}
	}
	return ""
}

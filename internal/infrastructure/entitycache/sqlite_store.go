package entitycache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/pitchsync/internal/platform/querybuilder"
)

const (
	entitiesTable   = "entities"
	sqliteChunkRows = 500
)

const createEntitiesTable = `CREATE TABLE IF NOT EXISTS entities (
	collection TEXT NOT NULL,
	position   INTEGER NOT NULL,
	payload    BLOB NOT NULL,
	PRIMARY KEY (collection, position)
)`

// SQLiteStore keeps every collection in one table of a local sqlite file.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite cache %s", path)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createEntitiesTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create entities table")
	}
	return &SQLiteStore{db: db}, nil
}

type entityRow struct {
	Position int    `db:"position"`
	Payload  []byte `db:"payload"`
}

func (s *SQLiteStore) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	query, args, err := querybuilder.Select("position", "payload").
		From(entitiesTable).
		Where(querybuilder.Eq("collection", collection)).
		OrderBy("position").
		PlaceholderFormat(querybuilder.Question).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []entityRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrapf(err, "select %s entities", collection)
	}

	out := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, json.RawMessage(row.Payload))
	}
	return out, nil
}

// Save replaces the collection inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, collection string, payloads []json.RawMessage) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin sqlite tx")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := querybuilder.DeleteFrom(entitiesTable).
		Where(querybuilder.Eq("collection", collection)).
		PlaceholderFormat(querybuilder.Question).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "clear %s entities", collection)
	}

	for start := 0; start < len(payloads); start += sqliteChunkRows {
		end := min(start+sqliteChunkRows, len(payloads))
		insert := querybuilder.InsertInto(entitiesTable).
			Columns("collection", "position", "payload").
			PlaceholderFormat(querybuilder.Question)
		for i := start; i < end; i++ {
			insert.Values(collection, i, []byte(payloads[i]))
		}
		query, args, err = insert.ToSQL()
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrapf(err, "insert %s entities", collection)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit sqlite tx")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

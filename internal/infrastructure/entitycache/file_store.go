package entitycache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

// FileStore keeps one JSON array file per collection under dir.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("cache dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create cache dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *FileStore) Load(_ context.Context, collection string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path(collection))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path(collection))
	}
	if len(data) == 0 {
		return nil, nil
	}

	var payloads []json.RawMessage
	if err := sonic.Unmarshal(data, &payloads); err != nil {
		return nil, errors.Wrapf(err, "decode %s", s.path(collection))
	}
	return payloads, nil
}

// Save writes to a temp file in the same directory, fsyncs it and renames it
// over the target so readers see either the old or the new collection.
func (s *FileStore) Save(ctx context.Context, collection string, payloads []json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('[')
	for i, payload := range payloads {
		if i > 0 {
			_, _ = buf.WriteString(",\n")
		}
		_, _ = buf.Write(payload)
	}
	_, _ = buf.WriteString("]\n")

	target := s.path(collection)
	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", target)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return errors.Wrapf(err, "rename %s", target)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}

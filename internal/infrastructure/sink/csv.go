package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/pitchsync/internal/domain/pitch"
)

// CSV appends pitch rows to one file. The header is written only when the
// file is created or empty; rows are never rewritten.
type CSV struct {
	mu   sync.Mutex
	path string
}

func NewCSV(path string) (*CSV, error) {
	if path == "" {
		return nil, errors.New("csv sink path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create csv sink dir for %s", path)
	}
	return &CSV{path: path}, nil
}

func (s *CSV) Write(ctx context.Context, pitches []pitch.Pitch) error {
	if len(pitches) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open csv sink %s", s.path)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return errors.Wrapf(err, "stat csv sink %s", s.path)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	if info.Size() == 0 {
		if err := w.Write(pitch.Columns()); err != nil {
			return errors.Wrap(err, "encode csv header")
		}
	}
	record := make([]string, 0, len(pitch.Columns()))
	for _, p := range pitches {
		record = record[:0]
		for _, value := range p.Row() {
			record = append(record, formatValue(value))
		}
		if err := w.Write(record); err != nil {
			return errors.Wrapf(err, "encode csv row %s", p.Key())
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush csv rows")
	}

	if _, err := file.Write(buf.B); err != nil {
		return errors.Wrapf(err, "append csv sink %s", s.path)
	}
	return file.Sync()
}

func (s *CSV) Close() error {
	return nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case int:
		return strconv.Itoa(v)
	case *int:
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	case int64:
		return strconv.FormatInt(v, 10)
	case *int64:
		if v == nil {
			return ""
		}
		return strconv.FormatInt(*v, 10)
	case uint8:
		return strconv.Itoa(int(v))
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *float64:
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	default:
		return ""
	}
}

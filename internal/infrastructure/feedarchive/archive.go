package feedarchive

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/bytebufferpool"
)

const fileSuffix = ".json.zst"

// Archive stores raw play-by-play payloads as zstd files named by gamePk so a
// later run can reconstruct a game without refetching it.
type Archive struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func New(dir string) (*Archive, error) {
	if dir == "" {
		return nil, errors.New("feed archive dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create feed archive dir %s", dir)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.Wrap(err, "create zstd encoder")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = encoder.Close()
		return nil, errors.Wrap(err, "create zstd decoder")
	}

	return &Archive{dir: dir, encoder: encoder, decoder: decoder}, nil
}

func (a *Archive) path(gamePk int64) string {
	return filepath.Join(a.dir, strconv.FormatInt(gamePk, 10)+fileSuffix)
}

// Get returns the archived payload. ok is false when the game was never archived.
func (a *Archive) Get(_ context.Context, gamePk int64) (payload []byte, ok bool, err error) {
	compressed, err := os.ReadFile(a.path(gamePk))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read archived feed %d", gamePk)
	}

	payload, err = a.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, errors.Wrapf(err, "decompress archived feed %d", gamePk)
	}
	return payload, true, nil
}

// Put writes the payload atomically, replacing any earlier copy.
func (a *Archive) Put(ctx context.Context, gamePk int64, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.B = a.encoder.EncodeAll(payload, buf.B[:0])

	tmp, err := os.CreateTemp(a.dir, strconv.FormatInt(gamePk, 10)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for feed %d", gamePk)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.B); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "write feed %d", gamePk)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "close feed %d", gamePk)
	}
	if err := os.Rename(tmpName, a.path(gamePk)); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrapf(err, "rename feed %d", gamePk)
	}
	return nil
}

func (a *Archive) Close() error {
	a.decoder.Close()
	return a.encoder.Close()
}

package usecase

import "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrNetwork marks transient per-item transport failures. Items failing
	// with it are recorded and retried on a later run.
	ErrNetwork = errors.New("network failure")
	// ErrParse marks payloads whose shape could not be decoded or validated.
	ErrParse = errors.New("malformed payload")
	// ErrMissingMetadata marks a game whose schedule entry, box score or venue
	// is absent from the assembled lookups.
	ErrMissingMetadata = errors.New("missing metadata")
	// ErrCacheIO aborts the run: persisted state can no longer be trusted.
	ErrCacheIO = errors.New("cache i/o failure")
)

// IsRunFatal reports whether err must abort the whole sync run.
func IsRunFatal(err error) bool {
	return errors.Is(err, ErrCacheIO)
}

func cacheIOError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ErrCacheIO)
}

// failureKind names the taxonomy bucket of a per-item error for reporting.
func failureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCacheIO):
		return "cache_io"
	case errors.Is(err, ErrMissingMetadata):
		return "missing_metadata"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrDependencyUnavailable):
		return "dependency_unavailable"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "network"
	}
}

package usecase

import (
	"context"

	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
	"github.com/riskibarqy/pitchsync/internal/domain/pitch"
	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
)

// StatsProvider is the remote statistics API. Every method is idempotent and
// safe to call concurrently.
type StatsProvider interface {
	FetchSchedule(ctx context.Context, key season.Key, gameTypes []string) ([]schedule.GameSummary, error)
	FetchBoxScore(ctx context.Context, gamePk int64) (boxscore.Summary, error)
	FetchVenue(ctx context.Context, key season.IDKey) (venue.Venue, error)
	// FetchVenueByID ignores the season and stamps key.Season on the result.
	FetchVenueByID(ctx context.Context, key season.IDKey) (venue.Venue, error)
	FetchTeam(ctx context.Context, key season.IDKey) (team.Team, error)
	// FetchTeamByID ignores the season and stamps key.Season on the result.
	FetchTeamByID(ctx context.Context, key season.IDKey) (team.Team, error)
	FetchCoaches(ctx context.Context, key season.IDKey) (coach.Staff, error)
	FetchPlayer(ctx context.Context, personID int64) (player.Player, error)
	FetchFeedPayload(ctx context.Context, gamePk int64) ([]byte, error)
	DecodeFeed(gamePk int64, payload []byte) (feed.Game, error)
}

// Collection is one persisted entity collection.
type Collection[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
	Extend(ctx context.Context, incoming []T) ([]T, error)
}

// FeedArchive keeps raw play-by-play payloads between runs.
type FeedArchive interface {
	Get(ctx context.Context, gamePk int64) ([]byte, bool, error)
	Put(ctx context.Context, gamePk int64, payload []byte) error
}

// PitchSink receives reconstructed pitch rows. Writes are append-only from the
// pipeline's point of view.
type PitchSink interface {
	Write(ctx context.Context, pitches []pitch.Pitch) error
}

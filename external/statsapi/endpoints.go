package statsapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/pitchsync/internal/domain/boxscore"
	"github.com/riskibarqy/pitchsync/internal/domain/coach"
	"github.com/riskibarqy/pitchsync/internal/domain/feed"
	"github.com/riskibarqy/pitchsync/internal/domain/player"
	"github.com/riskibarqy/pitchsync/internal/domain/schedule"
	"github.com/riskibarqy/pitchsync/internal/domain/season"
	"github.com/riskibarqy/pitchsync/internal/domain/team"
	"github.com/riskibarqy/pitchsync/internal/domain/venue"
	"github.com/riskibarqy/pitchsync/internal/usecase"
)

var _ usecase.StatsProvider = (*Client)(nil)

func (c *Client) FetchSchedule(ctx context.Context, key season.Key, gameTypes []string) ([]schedule.GameSummary, error) {
	query := url.Values{}
	query.Set("sportId", strconv.FormatInt(key.LevelOfPlayID, 10))
	query.Set("season", strconv.Itoa(key.Year))
	if len(gameTypes) > 0 {
		query.Set("gameType", strings.Join(gameTypes, ","))
	}

	var env scheduleEnvelope
	if _, err := c.doJSON(ctx, "/v1/schedule", query, &env); err != nil {
		return nil, crerr.Wrapf(err, "fetch schedule %s", key)
	}

	games := mapSchedule(key, env)
	for _, game := range games {
		if err := c.check(game, fmt.Sprintf("schedule game %d", game.GamePk)); err != nil {
			return nil, err
		}
	}
	return games, nil
}

func boxScorePath(gamePk int64) string {
	return fmt.Sprintf("/v1/game/%d/boxscore", gamePk)
}

func (c *Client) FetchBoxScore(ctx context.Context, gamePk int64) (boxscore.Summary, error) {
	var env boxScoreEnvelope
	if _, err := c.doJSON(ctx, boxScorePath(gamePk), nil, &env); err != nil {
		return boxscore.Summary{}, crerr.Wrapf(err, "fetch box score %d", gamePk)
	}

	out := mapBoxScore(gamePk, env)
	if err := c.check(out, fmt.Sprintf("box score %d", gamePk)); err != nil {
		return boxscore.Summary{}, err
	}
	return out, nil
}

// FetchVenue loads the venue as configured for key.Season.
func (c *Client) FetchVenue(ctx context.Context, key season.IDKey) (venue.Venue, error) {
	query := url.Values{}
	query.Set("season", strconv.Itoa(key.Season))
	query.Set("hydrate", venueHydrateParam)
	return c.fetchVenue(ctx, key, query)
}

// FetchVenueByID loads the venue without a season filter. Results are memoized
// by id because many seasons fall back to the same record.
func (c *Client) FetchVenueByID(ctx context.Context, key season.IDKey) (venue.Venue, error) {
	out, err := c.venuesByID.GetOrLoad(ctx, key.ID, func(ctx context.Context) (venue.Venue, error) {
		query := url.Values{}
		query.Set("hydrate", venueHydrateParam)
		return c.fetchVenue(ctx, key, query)
	})
	if err != nil {
		return venue.Venue{}, err
	}
	out.Season = key.Season
	return out, nil
}

func (c *Client) fetchVenue(ctx context.Context, key season.IDKey, query url.Values) (venue.Venue, error) {
	var env venuesEnvelope
	if _, err := c.doJSON(ctx, fmt.Sprintf("/v1/venues/%d", key.ID), query, &env); err != nil {
		return venue.Venue{}, crerr.Wrapf(err, "fetch venue %s", key)
	}
	if len(env.Venues) == 0 {
		return venue.Venue{}, crerr.Wrapf(usecase.ErrNotFound, "venue %s", key)
	}

	out := mapVenue(key.Season, env.Venues[0])
	if err := c.check(out, "venue "+key.String()); err != nil {
		return venue.Venue{}, err
	}
	return out, nil
}

// FetchTeam loads the team as registered for key.Season.
func (c *Client) FetchTeam(ctx context.Context, key season.IDKey) (team.Team, error) {
	query := url.Values{}
	query.Set("season", strconv.Itoa(key.Season))
	return c.fetchTeam(ctx, key, query)
}

// FetchTeamByID loads the team without a season filter, memoized by id.
func (c *Client) FetchTeamByID(ctx context.Context, key season.IDKey) (team.Team, error) {
	out, err := c.teamsByID.GetOrLoad(ctx, key.ID, func(ctx context.Context) (team.Team, error) {
		return c.fetchTeam(ctx, key, nil)
	})
	if err != nil {
		return team.Team{}, err
	}
	out.Season = key.Season
	return out, nil
}

func (c *Client) fetchTeam(ctx context.Context, key season.IDKey, query url.Values) (team.Team, error) {
	var env teamsEnvelope
	if _, err := c.doJSON(ctx, fmt.Sprintf("/v1/teams/%d", key.ID), query, &env); err != nil {
		return team.Team{}, crerr.Wrapf(err, "fetch team %s", key)
	}
	if len(env.Teams) == 0 {
		return team.Team{}, crerr.Wrapf(usecase.ErrNotFound, "team %s", key)
	}

	out := mapTeam(key.Season, env.Teams[0])
	if err := c.check(out, "team "+key.String()); err != nil {
		return team.Team{}, err
	}
	return out, nil
}

func (c *Client) FetchCoaches(ctx context.Context, key season.IDKey) (coach.Staff, error) {
	query := url.Values{}
	query.Set("season", strconv.Itoa(key.Season))

	var env coachesEnvelope
	if _, err := c.doJSON(ctx, fmt.Sprintf("/v1/teams/%d/coaches", key.ID), query, &env); err != nil {
		return coach.Staff{}, crerr.Wrapf(err, "fetch coaches %s", key)
	}

	out := mapCoaches(key, env)
	if err := c.check(out, "coaches "+key.String()); err != nil {
		return coach.Staff{}, err
	}
	return out, nil
}

func (c *Client) FetchPlayer(ctx context.Context, personID int64) (player.Player, error) {
	var env peopleEnvelope
	if _, err := c.doJSON(ctx, fmt.Sprintf("/v1/people/%d", personID), nil, &env); err != nil {
		return player.Player{}, crerr.Wrapf(err, "fetch player %d", personID)
	}
	if len(env.People) == 0 {
		return player.Player{}, crerr.Wrapf(usecase.ErrNotFound, "player %d", personID)
	}

	out := mapPlayer(env.People[0])
	if err := c.check(out, fmt.Sprintf("player %d", personID)); err != nil {
		return player.Player{}, err
	}
	return out, nil
}

// FetchFeedPayload returns the normalized play-by-play payload undecoded so
// callers can archive it.
func (c *Client) FetchFeedPayload(ctx context.Context, gamePk int64) ([]byte, error) {
	raw, err := c.doJSON(ctx, fmt.Sprintf("/v1.1/game/%d/feed/live", gamePk), nil, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch feed %d", gamePk)
	}
	return raw, nil
}

// DecodeFeed parses a payload returned by FetchFeedPayload or read back from
// the archive. The normalizer runs again so archives written before a fix-up
// was added are still readable.
func (c *Client) DecodeFeed(gamePk int64, payload []byte) (feed.Game, error) {
	var env feedEnvelope
	if err := sonic.Unmarshal(c.normalizer.Normalize(feedPath, payload), &env); err != nil {
		return feed.Game{}, crerr.Mark(crerr.Wrapf(err, "decode feed %d", gamePk), usecase.ErrParse)
	}
	if pk := firstPk(env.GamePk, env.GameData.Game.Pk); pk > 0 && pk != gamePk {
		return feed.Game{}, crerr.Mark(crerr.Newf("feed %d carries game %d", gamePk, pk), usecase.ErrParse)
	}
	return mapFeed(gamePk, env), nil
}

const feedPath = "/v1.1/game/feed/live"

func firstPk(values ...int64) int64 {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}

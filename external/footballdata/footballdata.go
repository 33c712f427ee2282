package footballdata

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/football-predictions/internal/domain/competition"
	"github.com/riskibarqy/football-predictions/internal/domain/match"
)

const (
	defaultH2HLimit = 10
	dateLayout      = "2006-01-02"
)

// GetCompetitions lists every competition visible to the token.
func (c *Client) GetCompetitions(ctx context.Context) ([]competition.Competition, error) {
	var envelope competitionsEnvelope
	if err := c.GetJSON(ctx, "/competitions", nil, &envelope); err != nil {
		return nil, err
	}
	return mapCompetitions(envelope.Competitions), nil
}

// GetScheduledMatches lists SCHEDULED matches of a competition. A season of 0
// lets the provider pick the current one.
func (c *Client) GetScheduledMatches(ctx context.Context, code string, season int) (match.Page, error) {
	params := url.Values{}
	params.Set("status", match.StatusScheduled)
	if season > 0 {
		params.Set("season", strconv.Itoa(season))
	}
	return c.competitionMatches(ctx, code, params)
}

// GetFinishedMatches lists FINISHED matches of a competition played in [from, to].
func (c *Client) GetFinishedMatches(ctx context.Context, code string, from, to time.Time) (match.Page, error) {
	params := url.Values{}
	params.Set("status", match.StatusFinished)
	if !from.IsZero() {
		params.Set("dateFrom", from.UTC().Format(dateLayout))
	}
	if !to.IsZero() {
		params.Set("dateTo", to.UTC().Format(dateLayout))
	}
	return c.competitionMatches(ctx, code, params)
}

func (c *Client) competitionMatches(ctx context.Context, code string, params url.Values) (match.Page, error) {
	code = competition.NormalizeCode(code)
	if code == "" {
		return match.Page{}, newExternalError(KindNotFound, 0, "", crerr.New("competition code is required"))
	}

	var envelope matchesEnvelope
	path := "/competitions/" + url.PathEscape(code) + "/matches"
	if err := c.GetJSON(ctx, path, params, &envelope); err != nil {
		return match.Page{}, err
	}

	ref := mapCompetitionRef(envelope.Competition)
	return match.Page{
		Competition: ref,
		Matches:     mapMatches(envelope.Matches, ref),
		ResultSet:   mapResultSet(envelope.ResultSet),
	}, nil
}

// GetHeadToHead returns prior meetings of the two teams playing matchID.
// LastUpdated is left empty for the caller to stamp.
func (c *Client) GetHeadToHead(ctx context.Context, matchID int64, limit int) (match.H2H, error) {
	if limit <= 0 {
		limit = defaultH2HLimit
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var envelope headToHeadEnvelope
	path := "/matches/" + strconv.FormatInt(matchID, 10) + "/head2head"
	if err := c.GetJSON(ctx, path, params, &envelope); err != nil {
		return match.H2H{}, err
	}
	return mapHeadToHead(envelope), nil
}

// GetTeamMatches lists a team's matches, optionally filtered by status.
func (c *Client) GetTeamMatches(ctx context.Context, teamID int64, limit int, status string) (match.Page, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if status = strings.TrimSpace(status); status != "" {
		params.Set("status", match.NormalizeStatus(status))
	}

	var envelope matchesEnvelope
	path := "/teams/" + strconv.FormatInt(teamID, 10) + "/matches"
	if err := c.GetJSON(ctx, path, params, &envelope); err != nil {
		return match.Page{}, err
	}
	return match.Page{
		Matches:   mapMatches(envelope.Matches, nil),
		ResultSet: mapResultSet(envelope.ResultSet),
	}, nil
}

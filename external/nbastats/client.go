package nbastats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/courtcap/fantasy-nba/internal/platform/logging"
	"github.com/courtcap/fantasy-nba/internal/platform/resilience"
	"github.com/courtcap/fantasy-nba/internal/usecase"
)

const (
	defaultBaseURL  = "https://cdn.nba.com/static/json/liveData"
	defaultRetries  = 3
	defaultBackoff  = 500 * time.Millisecond
	maxResponseSize = 8 << 20
)

var isoMinutesRegex = regexp.MustCompile(`^PT(\d+)M(?:(\d+)(?:\.\d+)?S)?$`)
var errTransient = crerr.New("nba stats transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches box scores and the player catalog from the NBA stats feed.
// It serves the two payload generations the feed exposes: the live shape
// with camelCase fields and ISO-8601 minutes, and the historical shape with
// upper-case abbreviations and integer minutes.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultRetries
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ListGames returns the provider IDs of games played on the given date.
func (c *Client) ListGames(ctx context.Context, date time.Time) ([]string, error) {
	day := date.UTC().Format("2006-01-02")

	var envelope scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard/scoreboard.json", map[string]string{"gameDate": day}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoreboard date=%s: %w", day, err)
	}

	out := make([]string, 0, len(envelope.Scoreboard.Games))
	for _, game := range envelope.Scoreboard.Games {
		id := strings.TrimSpace(game.GameID)
		if id == "" {
			continue
		}
		out = append(out, id)
	}

	return out, nil
}

// FetchBoxScore returns one normalized stat line per player in the game.
func (c *Client) FetchBoxScore(ctx context.Context, gameID string) ([]usecase.ExternalStatLine, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}

	var envelope boxScoreEnvelope
	path := "/boxscore/boxscore_" + gameID + ".json"
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch box score game_id=%s: %w", gameID, err)
	}

	gameDate, err := resolveGameDate(envelope.Game.GameTimeUTC, envelope.Game.GameDate)
	if err != nil {
		return nil, fmt.Errorf("resolve game date game_id=%s: %w", gameID, err)
	}

	teams := []boxScoreTeam{envelope.Game.HomeTeam, envelope.Game.AwayTeam}
	out := make([]usecase.ExternalStatLine, 0, 26)
	for _, team := range teams {
		for _, item := range team.Players {
			line, ok := mapPlayerLine(item, team.TeamTricode, gameDate)
			if !ok {
				c.logger.WarnContext(ctx, "skip box score row without player identity", "game_id", gameID)
				continue
			}
			out = append(out, line)
		}
	}

	return out, nil
}

// ListPlayers returns the full player catalog.
func (c *Client) ListPlayers(ctx context.Context) ([]usecase.ExternalPlayer, error) {
	var envelope playersEnvelope
	if err := c.doJSON(ctx, "/players/players.json", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch players: %w", err)
	}

	out := make([]usecase.ExternalPlayer, 0, len(envelope.League.Standard))
	for _, item := range envelope.League.Standard {
		if item.PersonID <= 0 {
			continue
		}
		name := strings.TrimSpace(strings.TrimSpace(item.FirstName) + " " + strings.TrimSpace(item.LastName))
		if name == "" {
			name = strings.TrimSpace(item.Name)
		}
		out = append(out, usecase.ExternalPlayer{
			ExternalID: item.PersonID,
			Name:       name,
			Position:   normalizePosition(item.Position),
			TeamCode:   strings.ToUpper(strings.TrimSpace(item.TeamTricode)),
			IsActive:   item.IsActive,
		})
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "nba stats circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries-1 {
			break
		}
		backoff := defaultBackoff << attempt
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "nba stats request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func resolveGameDate(gameTimeUTC, gameDate string) (time.Time, error) {
	if raw := strings.TrimSpace(gameTimeUTC); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse gameTimeUTC %q: %w", raw, err)
		}
		return parsed.UTC().Truncate(24 * time.Hour), nil
	}

	raw := strings.TrimSpace(gameDate)
	if raw == "" {
		return time.Time{}, fmt.Errorf("payload carries neither gameTimeUTC nor gameDate")
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05Z", "01/02/2006"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC().Truncate(24 * time.Hour), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported game date format %q", raw)
}

// parseMinutes accepts the live ISO-8601 duration form ("PT23M12S") and the
// historical plain-integer form ("34"). Unparseable input counts as zero.
func parseMinutes(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if match := isoMinutesRegex.FindStringSubmatch(raw); match != nil {
		minutes, _ := strconv.Atoi(match[1])
		if match[2] != "" {
			if seconds, _ := strconv.Atoi(match[2]); seconds >= 30 {
				minutes++
			}
		}
		return minutes
	}
	if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
		return value
	}
	if idx := strings.IndexByte(raw, ':'); idx > 0 {
		if value, err := strconv.Atoi(raw[:idx]); err == nil && value >= 0 {
			return value
		}
	}
	return 0
}

func normalizePosition(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	// Hyphenated dual positions ("G-F") collapse to the primary one; the
	// catalog sometimes reports "G"/"F" which map onto the guard/forward
	// defaults.
	if idx := strings.IndexByte(raw, '-'); idx > 0 {
		raw = raw[:idx]
	}
	switch raw {
	case "PG", "SG", "SF", "PF", "C":
		return raw
	case "G":
		return "PG"
	case "F":
		return "SF"
	}
	return raw
}

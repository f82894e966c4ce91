package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"huddle/internal/metrics"
	"huddle/internal/platform/cache"
	"huddle/internal/platform/logging"
	"huddle/internal/platform/resilience"
)

const (
	defaultSiteAPIBaseURL = "https://site.web.api.espn.com/apis/v2/sports/football/nfl"
	defaultCoreAPIBaseURL = "https://sports.core.api.espn.com/v2/sports/football/leagues/nfl"
	defaultTimeout        = 10 * time.Second
	defaultRosterLimit    = 200
	defaultRosterWorkers  = 8
	defaultCollegeWorkers = 4

	maxResponseBytes = 6 << 20
)

// Metric labels for the endpoints the client calls.
const (
	endpointStandings = "standings"
	endpointRoster    = "roster_index"
	endpointAthlete   = "athlete"
	endpointCollege   = "college"
)

type ClientConfig struct {
	HTTPClient      *http.Client
	SiteAPIBaseURL  string
	CoreAPIBaseURL  string
	Timeout         time.Duration
	RosterPageLimit int
	RosterWorkers   int
	CollegeWorkers  int
	Logger          *logging.Logger
	Metrics         *metrics.Recorder
}

// Client reads public ESPN NFL endpoints. Every call is a bare GET with a
// fixed timeout; there is no retry, backoff, or circuit breaking, so a
// failure surfaces immediately and the caller decides what to keep showing.
type Client struct {
	httpClient     *http.Client
	siteBaseURL    string
	coreBaseURL    string
	rosterLimit    int
	rosterWorkers  int
	collegeWorkers int
	logger         *logging.Logger
	recorder       *metrics.Recorder
	collegeCache   *cache.Store
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	siteBaseURL := strings.TrimRight(strings.TrimSpace(cfg.SiteAPIBaseURL), "/")
	if siteBaseURL == "" {
		siteBaseURL = defaultSiteAPIBaseURL
	}
	coreBaseURL := strings.TrimRight(strings.TrimSpace(cfg.CoreAPIBaseURL), "/")
	if coreBaseURL == "" {
		coreBaseURL = defaultCoreAPIBaseURL
	}

	rosterLimit := cfg.RosterPageLimit
	if rosterLimit <= 0 {
		rosterLimit = defaultRosterLimit
	}
	rosterWorkers := cfg.RosterWorkers
	if rosterWorkers <= 0 {
		rosterWorkers = defaultRosterWorkers
	}
	collegeWorkers := cfg.CollegeWorkers
	if collegeWorkers <= 0 {
		collegeWorkers = defaultCollegeWorkers
	}

	return &Client{
		httpClient:     httpClient,
		siteBaseURL:    siteBaseURL,
		coreBaseURL:    coreBaseURL,
		rosterLimit:    rosterLimit,
		rosterWorkers:  rosterWorkers,
		collegeWorkers: collegeWorkers,
		logger:         logger,
		recorder:       cfg.Metrics,
		collegeCache:   cache.NewStore(0),
	}
}

// fetchJSON issues one GET and decodes the body into target. Concurrent
// callers hitting the same URL share a single request.
func (c *Client) fetchJSON(ctx context.Context, endpoint, fullURL string, target any) error {
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		start := time.Now()
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.recorder.RecordFetch(endpoint, time.Since(start), reqErr)
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("%w: unexpected response payload type %T", ErrDecode, out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", ErrDecode, endpoint, err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", err)
		return nil, fmt.Errorf("%w: send request: %v", ErrNetwork, err)
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrNetwork, readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "espn request rejected", "url", fullURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrNetwork, resp.StatusCode, abbreviateBody(raw))
	}

	return raw, nil
}

func abbreviateBody(raw []byte) string {
	const limit = 200
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

// normalizeRefURL upgrades $ref links to https. ESPN still emits plain http
// in core API references.
func normalizeRefURL(ref string) string {
	if strings.HasPrefix(ref, "http://") {
		return "https://" + strings.TrimPrefix(ref, "http://")
	}
	return ref
}

func asMap(raw any) map[string]any {
	obj, _ := raw.(map[string]any)
	return obj
}

func asSlice(raw any) []any {
	items, _ := raw.([]any)
	return items
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// getID stringifies an identifier that may arrive as a string or a number.
func getID(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	switch typed := src[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	default:
		return ""
	}
}

// intFromAny coerces loosely typed JSON numbers to int, defaulting to zero.
func intFromAny(raw any) int {
	switch typed := raw.(type) {
	case float64:
		return int(typed)
	case float32:
		return int(typed)
	case int:
		return typed
	case int64:
		return int(typed)
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return int(v)
	default:
		return 0
	}
}

// intPtrFromAny parses an optional integer, returning nil when the value is
// absent or unparsable.
func intPtrFromAny(raw any) *int {
	if raw == nil {
		return nil
	}
	switch typed := raw.(type) {
	case float64:
		v := int(typed)
		return &v
	case float32:
		v := int(typed)
		return &v
	case int:
		v := typed
		return &v
	case int64:
		v := int(typed)
		return &v
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return nil
		}
		v := int(parsed)
		return &v
	default:
		return nil
	}
}

// floatPtrFromAny parses an optional number, returning nil when the value is
// absent or unparsable.
func floatPtrFromAny(raw any) *float64 {
	if raw == nil {
		return nil
	}
	switch typed := raw.(type) {
	case float64:
		v := typed
		return &v
	case float32:
		v := float64(typed)
		return &v
	case int:
		v := float64(typed)
		return &v
	case int64:
		v := float64(typed)
		return &v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// stringFromAny renders a loosely typed JSON value for display. Integral
// floats drop the decimal point.
func stringFromAny(raw any) string {
	switch typed := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func firstNonEmpty(values ...string) string {
	for _, item := range values {
		if strings.TrimSpace(item) != "" {
			return strings.TrimSpace(item)
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, item := range values {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, sep)
}

// truthy mirrors loose JSON boolean flags that may arrive as bool, number,
// or string.
func truthy(raw any) bool {
	switch typed := raw.(type) {
	case bool:
		return typed
	case float64:
		return typed != 0
	case string:
		return typed == "true" || typed == "1"
	default:
		return false
	}
}

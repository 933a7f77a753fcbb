package whoop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/readyday/readyday/internal/core"
)

// DefaultBaseURL is the Whoop developer API root.
const DefaultBaseURL = "https://api.prod.whoop.com/developer"

const defaultPageLimit = 25

// Client wraps the Whoop developer API. The underlying http.Client is
// expected to carry OAuth credentials (see OAuthClient.GetClient).
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Whoop API client
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL overrides the API root. Used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

// GetRecoveries returns recovery cycles recorded within [start, end).
func (c *Client) GetRecoveries(ctx context.Context, start, end time.Time) ([]RecoveryDTO, error) {
	return collect[RecoveryDTO](ctx, c, "/v1/recovery", start, end)
}

// GetSleeps returns sleep activities recorded within [start, end).
func (c *Client) GetSleeps(ctx context.Context, start, end time.Time) ([]SleepDTO, error) {
	return collect[SleepDTO](ctx, c, "/v1/activity/sleep", start, end)
}

// GetWorkouts returns workout activities recorded within [start, end).
func (c *Client) GetWorkouts(ctx context.Context, start, end time.Time) ([]WorkoutDTO, error) {
	return collect[WorkoutDTO](ctx, c, "/v1/activity/workout", start, end)
}

// GetCycles returns physiological cycles within [start, end).
func (c *Client) GetCycles(ctx context.Context, start, end time.Time) ([]CycleDTO, error) {
	return collect[CycleDTO](ctx, c, "/v1/cycle", start, end)
}

// GetProfile returns the authenticated user's basic profile.
func (c *Client) GetProfile(ctx context.Context) (*ProfileDTO, error) {
	var profile ProfileDTO
	if err := c.get(ctx, "/v1/user/profile/basic", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// collect walks a paginated collection endpoint until next_token runs out.
func collect[T any](ctx context.Context, c *Client, path string, start, end time.Time) ([]T, error) {
	var records []T
	nextToken := ""

	for {
		params := url.Values{}
		params.Set("start", start.UTC().Format(time.RFC3339))
		params.Set("end", end.UTC().Format(time.RFC3339))
		params.Set("limit", fmt.Sprintf("%d", defaultPageLimit))
		if nextToken != "" {
			params.Set("nextToken", nextToken)
		}

		var page PaginatedResponse[T]
		if err := c.get(ctx, path, params, &page); err != nil {
			return nil, err
		}

		records = append(records, page.Records...)
		if page.NextToken == "" {
			return records, nil
		}
		nextToken = page.NextToken
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapStatus translates API status codes into the shared error taxonomy.
func mapStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized:
		return core.ErrTokenExpired
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	case status >= 500:
		return fmt.Errorf("%w: status %d", core.ErrServerError, status)
	default:
		return fmt.Errorf("%w: unexpected status %d", core.ErrWhoopUnavailable, status)
	}
}

package royale

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"cr_war_stats/internal/app"

	"github.com/rs/zerolog/log"
)

// APIError is a non-200 response from the API
type APIError struct {
	StatusCode int
	Reason     string `json:"reason"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("API request failed with status %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// Client calls the Clash Royale public API with a bearer token
type Client struct {
	token        string
	baseURL      string
	logLimit     int
	client       *http.Client
	apiCallCount int64
	apiCallMutex sync.Mutex
}

// NewClient creates a client. logLimit caps battle log requests; 0 means the API default.
func NewClient(token, baseURL string, logLimit int, timeout time.Duration) *Client {
	return &Client{
		token:    token,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logLimit: logLimit,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// tagPath renders a tag as a path segment, re-adding the encoded '#'
func tagPath(tag string) string {
	return url.PathEscape("#" + app.NormalizeTag(tag))
}

// get performs an authenticated GET and decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", endpoint).
			Msg("API request failed")
		return fmt.Errorf("failed to make request: %w", err)
	}
	c.IncrementAPICall()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || (apiErr.Reason == "" && apiErr.Message == "") {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// GetClanMembers fetches the current roster of a clan
func (c *Client) GetClanMembers(ctx context.Context, clanTag string) (*app.MembersResponse, error) {
	log.Debug().Str("clan_tag", clanTag).Msg("Fetching clan members")

	var members app.MembersResponse
	if err := c.get(ctx, "/clans/"+tagPath(clanTag)+"/members", nil, &members); err != nil {
		return nil, fmt.Errorf("failed to fetch members of clan %s: %w", clanTag, err)
	}

	log.Debug().
		Str("clan_tag", clanTag).
		Int("members", len(members.Items)).
		Msg("Successfully fetched clan members")

	return &members, nil
}

// GetBattleLog fetches a player's most recent battles, newest first
func (c *Client) GetBattleLog(ctx context.Context, playerTag string) ([]app.Battle, error) {
	query := url.Values{}
	if c.logLimit > 0 {
		query.Set("limit", fmt.Sprintf("%d", c.logLimit))
	}

	var battles []app.Battle
	if err := c.get(ctx, "/players/"+tagPath(playerTag)+"/battlelog", query, &battles); err != nil {
		return nil, fmt.Errorf("failed to fetch battle log of %s: %w", playerTag, err)
	}

	log.Debug().
		Str("player_tag", playerTag).
		Int("battles", len(battles)).
		Msg("Successfully fetched battle log")

	return battles, nil
}

// GetClan fetches a clan's basic info
func (c *Client) GetClan(ctx context.Context, clanTag string) (*app.Clan, error) {
	var clan app.Clan
	if err := c.get(ctx, "/clans/"+tagPath(clanTag), nil, &clan); err != nil {
		return nil, fmt.Errorf("failed to fetch clan %s: %w", clanTag, err)
	}
	return &clan, nil
}

package roblox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tg-moderator/internal/config"
	"tg-moderator/internal/logger"
)

var (
	// ErrNotFound means the Roblox API explicitly reported no such account.
	ErrNotFound = errors.New("roblox: account not found")
	// ErrUnavailable means a timeout or server-side failure. Callers must
	// not treat it as a negative lookup result.
	ErrUnavailable = errors.New("roblox: service unavailable")
)

// UserInfo is the public profile subset the bot cares about.
type UserInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Client talks to the public Roblox web API.
type Client struct {
	httpClient *http.Client
	usersBase  string
	legacyBase string
}

// NewClient creates a Roblox API client with the configured timeout.
func NewClient(cfg *config.RobloxConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		usersBase:  cfg.UsersAPIBase,
		legacyBase: cfg.LegacyAPIBase,
	}
}

// GetUserID resolves a Roblox username to the account id.
func (c *Client) GetUserID(ctx context.Context, username string) (int64, error) {
	apiURL := fmt.Sprintf("%s/users/get-by-username?username=%s", c.legacyBase, url.QueryEscape(username))

	var result struct {
		ID       int64  `json:"Id"`
		Username string `json:"Username"`
	}
	if err := c.getJSON(ctx, apiURL, &result); err != nil {
		return 0, err
	}

	// The legacy endpoint answers 200 with an empty Id for unknown names
	if result.ID == 0 {
		return 0, ErrNotFound
	}
	return result.ID, nil
}

// GetUserInfo fetches the public profile (name and description) for an id.
func (c *Client) GetUserInfo(ctx context.Context, robloxID int64) (*UserInfo, error) {
	apiURL := fmt.Sprintf("%s/v1/users/%d", c.usersBase, robloxID)

	var info UserInfo
	if err := c.getJSON(ctx, apiURL, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warningf("Roblox API request failed: %v", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		logger.Warningf("Roblox API returned status %d for %s", resp.StatusCode, apiURL)
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/homeweave/weavectl/internal/core/domain"
	"github.com/homeweave/weavectl/internal/logging"
)

// ErrPluginNotFound is returned when the backend reports 404 for a
// plugin id used in a mutating call.
var ErrPluginNotFound = errors.New("plugin not found")

// actionRequest is the body of every mutating call: just the plugin id.
type actionRequest struct {
	ID string `json:"id"`
}

// errorResponse is the backend's error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// ConsoleClient talks to the plugin API of a Weave server. Mutating
// calls carry only the plugin id and do not reconcile any local state;
// callers re-read the list when they want the post-action view.
type ConsoleClient struct {
	baseURL string
	client  *http.Client
	logger  *logging.ConsoleLogger
}

// NewConsoleClient creates a client for the plugin API rooted at
// baseURL (scheme://host[:port], no trailing slash required).
func NewConsoleClient(baseURL string, timeout time.Duration, logger *logging.ConsoleLogger) *ConsoleClient {
	return &ConsoleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the backend root this client targets.
func (c *ConsoleClient) BaseURL() string {
	return c.baseURL
}

// ListPlugins fetches the full plugin list from GET /api/plugins/.
func (c *ConsoleClient) ListPlugins(ctx context.Context) ([]domain.Plugin, error) {
	url := c.baseURL + "/api/plugins/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debugf("fetching plugin list from %s", url)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var plugins []domain.Plugin
	if err := json.NewDecoder(resp.Body).Decode(&plugins); err != nil {
		return nil, fmt.Errorf("failed to decode plugin list: %w", err)
	}

	c.logger.Debugf("retrieved %d plugins", len(plugins))
	return plugins, nil
}

// Install asks the backend to install the plugin with the given id.
func (c *ConsoleClient) Install(ctx context.Context, id string) (*domain.Plugin, error) {
	return c.post(ctx, "install", id)
}

// Uninstall asks the backend to remove the plugin with the given id.
func (c *ConsoleClient) Uninstall(ctx context.Context, id string) (*domain.Plugin, error) {
	return c.post(ctx, "uninstall", id)
}

// Activate asks the backend to enable and start the plugin with the
// given id. The page-level control for this call is "Enable".
func (c *ConsoleClient) Activate(ctx context.Context, id string) (*domain.Plugin, error) {
	return c.post(ctx, "activate", id)
}

// Deactivate asks the backend to disable and stop the plugin with the
// given id. The page-level control for this call is "Disable".
func (c *ConsoleClient) Deactivate(ctx context.Context, id string) (*domain.Plugin, error) {
	return c.post(ctx, "deactivate", id)
}

// post issues one mutating call. The backend answers 200 with the
// updated plugin, 404 for an unknown id, and 400 with an error envelope
// when the action is invalid for the plugin's current state.
func (c *ConsoleClient) post(ctx context.Context, action, id string) (*domain.Plugin, error) {
	body, err := json.Marshal(actionRequest{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/plugins/%s", c.baseURL, action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugf("POST %s id=%s", url, id)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Fall through to decode below.
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s %q: %w", action, id, ErrPluginNotFound)
	case http.StatusBadRequest:
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s %q rejected: %s", action, id, apiErr.Error)
		}
		return nil, fmt.Errorf("%s %q rejected by backend", action, id)
	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// Some backends answer mutations with an empty body; the list
		// endpoint remains the source of truth either way.
		return nil, nil
	}

	var updated domain.Plugin
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &updated, nil
}

package gtm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/ignite/floody/internal/pkg/httpretry"
)

const defaultBaseURL = "https://www.googleapis.com/tagmanager/v1"

// Config holds settings for the Tag Manager API client.
type Config struct {
	// BaseURL overrides the production endpoint, used by tests.
	BaseURL     string
	TokenSource oauth2.TokenSource
}

// Client is the Google Tag Manager API client.
type Client struct {
	baseURL     string
	tokenSource oauth2.TokenSource
	httpClient  httpretry.HTTPDoer
}

// NewClient creates a new Tag Manager API client.
func NewClient(config Config) *Client {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		tokenSource: config.TokenSource,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: 60 * time.Second,
		}, 3),
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client httpretry.HTTPDoer) {
	c.httpClient = client
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokenSource != nil {
		token, err := c.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to obtain access token: %w", err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

type accountsListResponse struct {
	Accounts []struct {
		AccountID string `json:"accountId"`
	} `json:"accounts"`
}

type containersListResponse struct {
	Containers []Container `json:"containers"`
}

// FindContainer scans every accessible account for a container with the
// given public id. An account whose container list cannot be fetched is
// skipped.
func (c *Client) FindContainer(ctx context.Context, publicID string) (Container, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/accounts", nil)
	if err != nil {
		return Container{}, fmt.Errorf("list accounts: %w", err)
	}

	var accounts accountsListResponse
	if err := json.Unmarshal(respBody, &accounts); err != nil {
		return Container{}, fmt.Errorf("failed to parse accounts response: %w", err)
	}

	for _, account := range accounts.Accounts {
		endpoint := fmt.Sprintf("/accounts/%s/containers", account.AccountID)
		listBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			continue
		}

		var containers containersListResponse
		if err := json.Unmarshal(listBody, &containers); err != nil {
			continue
		}
		for _, container := range containers.Containers {
			if container.PublicID == publicID {
				container.AccountID = account.AccountID
				return container, nil
			}
		}
	}
	return Container{}, fmt.Errorf("%w: %s", ErrContainerNotFound, publicID)
}

// BatchCreateTags creates every tag, recording a per-tag outcome. The
// results slice is aligned with the input order.
func (c *Client) BatchCreateTags(ctx context.Context, container Container, tags []Tag) []TagOperationResult {
	results := make([]TagOperationResult, 0, len(tags))
	for _, tag := range tags {
		result := TagOperationResult{ActivityName: tag.Name, Success: true}

		endpoint := fmt.Sprintf("/accounts/%s/containers/%s/tags", container.AccountID, container.ContainerID)
		if _, err := c.doRequest(ctx, http.MethodPost, endpoint, tag); err != nil {
			result.Success = false
			result.Message = err.Error()
		}
		results = append(results, result)
	}
	return results
}

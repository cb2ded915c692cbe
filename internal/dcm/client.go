package dcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/ignite/floody/internal/pkg/httpretry"
)

const defaultBaseURL = "https://dfareporting.googleapis.com/dfareporting/v4"

// Config holds settings for the Campaign Manager API client.
type Config struct {
	// BaseURL overrides the production endpoint, used by tests.
	BaseURL     string
	TokenSource oauth2.TokenSource
}

// Client is the Campaign Manager 360 API client.
type Client struct {
	baseURL     string
	tokenSource oauth2.TokenSource
	httpClient  httpretry.HTTPDoer
}

// NewClient creates a new Campaign Manager API client.
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

// doRequest performs an authenticated request against the API.
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

// ListActivities retrieves one page of floodlight activities for a
// configuration.
func (c *Client) ListActivities(ctx context.Context, profileID, configID int64, pageToken string) ([]FloodlightActivity, string, error) {
	params := url.Values{}
	params.Set("floodlightConfigurationId", strconv.FormatInt(configID, 10))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	endpoint := fmt.Sprintf("/userprofiles/%d/floodlightActivities?%s", profileID, params.Encode())

	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}

	var response activitiesListResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, "", fmt.Errorf("failed to parse activities response: %w", err)
	}
	return response.FloodlightActivities, response.NextPageToken, nil
}

// ListGroups retrieves one page of floodlight activity groups.
func (c *Client) ListGroups(ctx context.Context, profileID, configID int64, pageToken string) ([]FloodlightActivityGroup, string, error) {
	params := url.Values{}
	params.Set("floodlightConfigurationId", strconv.FormatInt(configID, 10))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	endpoint := fmt.Sprintf("/userprofiles/%d/floodlightActivityGroups?%s", profileID, params.Encode())

	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}

	var response groupsListResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, "", fmt.Errorf("failed to parse groups response: %w", err)
	}
	return response.FloodlightActivityGroups, response.NextPageToken, nil
}

// InsertActivity creates a new floodlight activity.
func (c *Client) InsertActivity(ctx context.Context, profileID int64, activity FloodlightActivity) (FloodlightActivity, error) {
	endpoint := fmt.Sprintf("/userprofiles/%d/floodlightActivities", profileID)

	respBody, err := c.doRequest(ctx, http.MethodPost, endpoint, activity)
	if err != nil {
		return FloodlightActivity{}, err
	}

	var created FloodlightActivity
	if err := json.Unmarshal(respBody, &created); err != nil {
		return FloodlightActivity{}, fmt.Errorf("failed to parse insert response: %w", err)
	}
	return created, nil
}

// PatchActivity updates an existing floodlight activity.
func (c *Client) PatchActivity(ctx context.Context, profileID, activityID int64, activity FloodlightActivity) (FloodlightActivity, error) {
	endpoint := fmt.Sprintf("/userprofiles/%d/floodlightActivities?id=%d", profileID, activityID)

	respBody, err := c.doRequest(ctx, http.MethodPatch, endpoint, activity)
	if err != nil {
		return FloodlightActivity{}, err
	}

	var updated FloodlightActivity
	if err := json.Unmarshal(respBody, &updated); err != nil {
		return FloodlightActivity{}, fmt.Errorf("failed to parse patch response: %w", err)
	}
	return updated, nil
}

// InsertGroup creates a new floodlight activity group.
func (c *Client) InsertGroup(ctx context.Context, profileID int64, group FloodlightActivityGroup) (FloodlightActivityGroup, error) {
	endpoint := fmt.Sprintf("/userprofiles/%d/floodlightActivityGroups", profileID)

	respBody, err := c.doRequest(ctx, http.MethodPost, endpoint, group)
	if err != nil {
		return FloodlightActivityGroup{}, err
	}

	var created FloodlightActivityGroup
	if err := json.Unmarshal(respBody, &created); err != nil {
		return FloodlightActivityGroup{}, fmt.Errorf("failed to parse group insert response: %w", err)
	}
	return created, nil
}

// CreateAudienceList creates a remarketing list.
func (c *Client) CreateAudienceList(ctx context.Context, profileID int64, list RemarketingList) (RemarketingList, error) {
	endpoint := fmt.Sprintf("/userprofiles/%d/remarketingLists", profileID)

	respBody, err := c.doRequest(ctx, http.MethodPost, endpoint, list)
	if err != nil {
		return RemarketingList{}, err
	}

	var created RemarketingList
	if err := json.Unmarshal(respBody, &created); err != nil {
		return RemarketingList{}, fmt.Errorf("failed to parse remarketing list response: %w", err)
	}
	return created, nil
}

// GetCustomVariables retrieves the custom variable definitions of a
// floodlight configuration.
func (c *Client) GetCustomVariables(ctx context.Context, profileID, configID int64) ([]UserDefinedVariableConfiguration, error) {
	endpoint := fmt.Sprintf("/userprofiles/%d/floodlightConfigurations/%d?fields=userDefinedVariableConfigurations", profileID, configID)

	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response floodlightConfiguration
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse configuration response: %w", err)
	}
	return response.UserDefinedVariableConfigurations, nil
}

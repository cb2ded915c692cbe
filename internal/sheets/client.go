package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/ignite/floody/internal/pkg/httpretry"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Config holds settings for the Sheets API client.
type Config struct {
	// BaseURL overrides the production endpoint, used by tests.
	BaseURL     string
	TokenSource oauth2.TokenSource
}

// Client is the Google Sheets v4 API client.
type Client struct {
	baseURL     string
	tokenSource oauth2.TokenSource
	httpClient  httpretry.HTTPDoer
}

// NewClient creates a new Sheets API client.
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

type valueRange struct {
	Range  string          `json:"range,omitempty"`
	Values [][]interface{} `json:"values,omitempty"`
}

// ReadRange reads a range with formatted cell values.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, rangeA1 string) ([][]string, error) {
	endpoint := fmt.Sprintf("/spreadsheets/%s/values/%s?valueRenderOption=FORMATTED_VALUE",
		url.PathEscape(spreadsheetID), url.PathEscape(rangeA1))

	respBody, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var response valueRange
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse values response: %w", err)
	}

	rows := make([][]string, 0, len(response.Values))
	for _, raw := range response.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ClearRange blanks all cells in a range.
func (c *Client) ClearRange(ctx context.Context, spreadsheetID, rangeA1 string) error {
	endpoint := fmt.Sprintf("/spreadsheets/%s/values/%s:clear",
		url.PathEscape(spreadsheetID), url.PathEscape(rangeA1))

	_, err := c.doRequest(ctx, http.MethodPost, endpoint, struct{}{})
	return err
}

// WriteRows writes rows starting at the top-left cell of the range using
// RAW input (no cell-value parsing by the backend).
func (c *Client) WriteRows(ctx context.Context, spreadsheetID, rangeA1 string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		values[i] = cells
	}

	endpoint := fmt.Sprintf("/spreadsheets/%s/values/%s?valueInputOption=RAW",
		url.PathEscape(spreadsheetID), url.PathEscape(rangeA1))

	_, err := c.doRequest(ctx, http.MethodPut, endpoint, valueRange{Values: values})
	return err
}

type developerMetadata struct {
	MetadataKey   string `json:"metadataKey"`
	MetadataValue string `json:"metadataValue"`
	Visibility    string `json:"visibility,omitempty"`
	Location      *struct {
		Spreadsheet bool `json:"spreadsheet"`
	} `json:"location,omitempty"`
}

type metadataSearchResponse struct {
	MatchedDeveloperMetadata []struct {
		DeveloperMetadata developerMetadata `json:"developerMetadata"`
	} `json:"matchedDeveloperMetadata"`
}

// ReadMetadata searches the spreadsheet's developer metadata for a key.
func (c *Client) ReadMetadata(ctx context.Context, spreadsheetID, key string) ([]string, error) {
	endpoint := fmt.Sprintf("/spreadsheets/%s/developerMetadata:search", url.PathEscape(spreadsheetID))

	request := map[string]interface{}{
		"dataFilters": []map[string]interface{}{
			{"developerMetadataLookup": map[string]string{"metadataKey": key}},
		},
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, endpoint, request)
	if err != nil {
		return nil, err
	}

	var response metadataSearchResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse metadata response: %w", err)
	}

	values := make([]string, 0, len(response.MatchedDeveloperMetadata))
	for _, match := range response.MatchedDeveloperMetadata {
		values = append(values, match.DeveloperMetadata.MetadataValue)
	}
	return values, nil
}

// WriteMetadata stores a spreadsheet-scoped developer-metadata entry.
func (c *Client) WriteMetadata(ctx context.Context, spreadsheetID, key, value string) error {
	endpoint := fmt.Sprintf("/spreadsheets/%s:batchUpdate", url.PathEscape(spreadsheetID))

	request := map[string]interface{}{
		"requests": []map[string]interface{}{
			{
				"createDeveloperMetadata": map[string]interface{}{
					"developerMetadata": map[string]interface{}{
						"metadataKey":   key,
						"metadataValue": value,
						"visibility":    "DOCUMENT",
						"location":      map[string]bool{"spreadsheet": true},
					},
				},
			},
		},
	}

	_, err := c.doRequest(ctx, http.MethodPost, endpoint, request)
	return err
}

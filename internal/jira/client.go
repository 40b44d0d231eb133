package jira

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is a Jira REST API v3 client.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL (e.g.
// https://example.atlassian.net) using basic authentication.
func NewClient(baseURL, user, apiToken string) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(user + ":" + apiToken))
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: "Basic " + creds,
		httpClient: &http.Client{},
	}
}

// GetIssue fetches a single issue by key as a raw record. fields limits the
// returned issue fields; pass "*all" (or "") for everything.
func (c *Client) GetIssue(key, fields string) (Record, error) {
	u := fmt.Sprintf("%s/rest/api/3/issue/%s", c.baseURL, url.PathEscape(key))
	if fields != "" {
		u += "?fields=" + url.QueryEscape(fields)
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Jira API returned %d: %s", resp.StatusCode, string(body))
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return rec, nil
}

// UpdateIssueFields updates the given fields of an issue, e.g.
// {"labels": [...]}.
func (c *Client) UpdateIssueFields(key string, fields map[string]any) error {
	u := fmt.Sprintf("%s/rest/api/3/issue/%s", c.baseURL, url.PathEscape(key))

	data, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return fmt.Errorf("marshalling payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, u, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Jira API returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// searchPage is one page of GET /rest/api/3/search.
type searchPage struct {
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	Total      int      `json:"total"`
	Issues     []Record `json:"issues"`
}

func (c *Client) search(jql, fields string, startAt, maxResults int) (*searchPage, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("startAt", fmt.Sprintf("%d", startAt))
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))
	if fields != "" {
		params.Set("fields", fields)
	}
	u := fmt.Sprintf("%s/rest/api/3/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Jira API returned %d: %s", resp.StatusCode, string(body))
	}

	var page searchPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &page, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

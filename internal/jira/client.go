// Package jira fetches issues from the Jira REST API as raw JSON payloads,
// preserving the open customfield_* surface the report engine addresses
// through field paths.
package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	jira "github.com/andygrunwald/go-jira"
	"golang.org/x/oauth2"

	"github.com/weekrep/weekrep/internal/config"
	"github.com/weekrep/weekrep/internal/logging"
	"github.com/weekrep/weekrep/pkg/models"
)

// childrenPageSize is the page size used when walking a parent's children.
const childrenPageSize = 100

// Client handles interactions with the Jira API.
type Client struct {
	client *jira.Client
}

// NewClient creates a Jira client from the environment configuration.
// Basic auth (username + API token) is the default; JIRA_AUTH_METHOD=bearer
// switches to a personal access token carried as an OAuth2 bearer token.
func NewClient() (*Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}
	if err := config.ValidateJiraConfig(cfg); err != nil {
		return nil, err
	}

	logging.Debug("creating jira client",
		"url", cfg.Jira.URL,
		"auth_method", cfg.Jira.AuthMethod,
		"token", logging.MaskSensitive(cfg.Jira.Token))

	var httpClient *http.Client
	if cfg.Jira.AuthMethod == "bearer" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Jira.Token})
		httpClient = oauth2.NewClient(context.Background(), source)
	} else {
		tp := jira.BasicAuthTransport{
			Username: cfg.Jira.Username,
			Password: cfg.Jira.Token,
		}
		httpClient = tp.Client()
	}

	client, err := jira.NewClient(httpClient, cfg.Jira.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %v", err)
	}

	return &Client{client: client}, nil
}

// FetchIssue retrieves one issue by key as a raw payload.
func (c *Client) FetchIssue(key string) (models.Issue, error) {
	if c.client == nil {
		return nil, fmt.Errorf("jira client not initialized")
	}

	endpoint := fmt.Sprintf("rest/api/2/issue/%s", url.PathEscape(key))
	req, err := c.client.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build issue request: %v", err)
	}

	var issue models.Issue
	resp, err := c.client.Do(req, &issue)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to fetch issue %s: %v (status: %d)", key, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to fetch issue %s: %v", key, err)
	}

	logging.Debug("fetched issue", "key", key)
	return issue, nil
}

// searchPage mirrors the Jira search response envelope.
type searchPage struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Issues     []models.Issue `json:"issues"`
}

// FetchChildren retrieves the flat list of a parent's direct children in
// creation order. Children of children are not fetched.
func (c *Client) FetchChildren(parentKey string) ([]models.Issue, error) {
	if c.client == nil {
		return nil, fmt.Errorf("jira client not initialized")
	}

	jql := fmt.Sprintf(`parent = "%s" ORDER BY created ASC`, parentKey)

	var children []models.Issue
	startAt := 0
	for {
		endpoint := fmt.Sprintf("rest/api/2/search?jql=%s&startAt=%d&maxResults=%d",
			url.QueryEscape(jql), startAt, childrenPageSize)
		req, err := c.client.NewRequest("GET", endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build search request: %v", err)
		}

		var page searchPage
		resp, err := c.client.Do(req, &page)
		if err != nil {
			if resp != nil {
				return nil, fmt.Errorf("failed to search children of %s: %v (status: %d)", parentKey, err, resp.StatusCode)
			}
			return nil, fmt.Errorf("failed to search children of %s: %v", parentKey, err)
		}

		children = append(children, page.Issues...)
		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}

	logging.Debug("fetched children",
		"parent", parentKey,
		"count", len(children))
	return children, nil
}

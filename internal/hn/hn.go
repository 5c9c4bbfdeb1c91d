// Package hn is a minimal Hacker News Firebase API client, used by the
// news curator to source AI stories.
package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Firebase endpoint.
const DefaultBaseURL = "https://hacker-news.firebaseio.com"

// Client talks to the Hacker News API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Item is one Hacker News item. Only the fields the curator reads.
type Item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Score int    `json:"score"`
	By    string `json:"by"`
	Time  int    `json:"time"`
	Type  string `json:"type"`
}

// NewClient creates a client. An empty baseURL means the public API;
// tests point it at a local server.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// TopStories retrieves the current top story IDs, best first.
func (c *Client) TopStories(ctx context.Context) ([]int, error) {
	var ids []int
	if err := c.getJSON(ctx, c.baseURL+"/v0/topstories.json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Item retrieves a single item by ID.
func (c *Client) Item(ctx context.Context, id int) (Item, error) {
	var item Item
	if err := c.getJSON(ctx, fmt.Sprintf("%s/v0/item/%d.json", c.baseURL, id), &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hn: %s returned status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

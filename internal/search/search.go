// Package search queries the Radio Browser directory for stations by name.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint points at the public Radio Browser node used by default.
const DefaultEndpoint = "https://de1.api.radio-browser.info"

const (
	searchPath    = "/json/stations/search"
	searchLimit   = "150"
	searchTimeout = 10 * time.Second
)

// Station is one directory entry. Immutable once returned; URLResolved may be
// empty for broken listings.
type Station struct {
	UUID        string `json:"stationuuid"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	URLResolved string `json:"url_resolved"`
}

// Client performs station searches against a Radio Browser endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a Client for the given endpoint; empty means
// DefaultEndpoint. A nil http.Client gets a sane timeout-bearing default.
func NewClient(endpoint string, cli *http.Client) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	if cli == nil {
		cli = &http.Client{Timeout: searchTimeout}
	}
	return &Client{endpoint: strings.TrimRight(endpoint, "/"), http: cli}
}

// Search returns stations matching query by name, hiding broken entries.
// An empty or whitespace query returns no results without touching the
// network.
func (c *Client) Search(ctx context.Context, query string) ([]Station, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("name", query)
	q.Set("limit", searchLimit)
	q.Set("hidebroken", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+searchPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "radiodigger/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("station search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("station search failed: %s", resp.Status)
	}

	var stations []Station
	if err := json.NewDecoder(resp.Body).Decode(&stations); err != nil {
		return nil, fmt.Errorf("station search parse error: %w", err)
	}
	return stations, nil
}

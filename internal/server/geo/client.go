package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/avoronin/placekeeper/internal/server/models"
)

// Client calls a positionstack-compatible forward-geocoding endpoint
// (GET {base}/v1/forward?access_key=...&query=...). The first candidate wins.
type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
}

func NewClient(baseURL, accessKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, accessKey: accessKey, http: httpClient}
}

type forwardResponse struct {
	Data []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"data"`
}

func (c *Client) Resolve(ctx context.Context, address string) (models.Coordinates, error) {
	var coords models.Coordinates

	q := url.Values{}
	q.Set("access_key", c.accessKey)
	q.Set("query", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forward?"+q.Encode(), nil)
	if err != nil {
		return coords, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return coords, fmt.Errorf("geocoding request: %w", common.ErrorUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return coords, fmt.Errorf("geocoding status %d: %w", resp.StatusCode, common.ErrorUnavailable)
	}

	var body forwardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return coords, fmt.Errorf("decoding geocoding response: %w", common.ErrorUnavailable)
	}

	if len(body.Data) == 0 {
		return coords, common.ErrorNotFound
	}

	coords.Latitude = body.Data[0].Latitude
	coords.Longitude = body.Data[0].Longitude
	return coords, nil
}

var _ Resolver = (*Client)(nil)

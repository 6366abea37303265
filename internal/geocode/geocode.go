// Package geocode resolves postal addresses to geographic coordinates via an
// external geocoding API. The service is treated as unreliable: failures are
// surfaced to the caller immediately and never silently defaulted.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/snapshare/backend/internal/server/models"
)

var (
	// ErrNotFound means the address could not be resolved to coordinates.
	ErrNotFound = errors.New("address not found")
	// ErrUnavailable means the geocoding service failed or misbehaved.
	ErrUnavailable = errors.New("geocoding service unavailable")
)

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.Coordinates, error)
}

// HTTPGeocoder talks to a Google-style geocoding endpoint:
// GET {baseURL}?address=...&key=... returning
// {"status": "...", "results": [{"geometry": {"location": {"lat", "lng"}}}]}.
type HTTPGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGeocoder(baseURL, apiKey string, client *http.Client) *HTTPGeocoder {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPGeocoder{baseURL: baseURL, apiKey: apiKey, client: client}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location models.Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *HTTPGeocoder) Resolve(ctx context.Context, address string) (models.Coordinates, error) {
	q := url.Values{}
	q.Set("address", address)
	if g.apiKey != "" {
		q.Set("key", g.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Coordinates{}, fmt.Errorf("%w: %s; body: %s", ErrUnavailable, resp.Status, string(body))
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case parsed.Status == "ZERO_RESULTS" || len(parsed.Results) == 0:
		return models.Coordinates{}, ErrNotFound
	case parsed.Status != "OK":
		return models.Coordinates{}, fmt.Errorf("%w: status %s", ErrUnavailable, parsed.Status)
	}

	return parsed.Results[0].Geometry.Location, nil
}

// Package geocode resolves coordinates into human-readable addresses via a
// Nominatim-compatible endpoint. Lookups are best-effort: appeals are stored
// even when the geocoder is down.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const userAgent = "CitizenAppeals/1.0"

type Geocoder struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

func New(baseURL string, enabled bool) *Geocoder {
	return &Geocoder{
		baseURL: baseURL,
		enabled: enabled,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Reverse returns the display address for a coordinate pair, or an empty
// string when the geocoder is disabled or returns nothing usable.
func (g *Geocoder) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	if !g.enabled || g.baseURL == "" {
		return "", nil
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call geocoder: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoder returned %d", res.StatusCode)
	}

	var out reverseResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.DisplayName, nil
}

// Package classify is the HTTP client for the external text-classification
// service that suggests which municipal service should handle an appeal.
package classify

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

	"github.com/maxmaindev/citizen-appeals/pkg/analytics"
)

type Classifier struct {
	baseURL    string
	enabled    bool
	httpClient *http.Client
}

type classifyRequest struct {
	Text string `json:"text"`
}

// Prediction is the raw answer of the /classify endpoint.
type Prediction struct {
	Service         string                  `json:"service"`
	Confidence      float64                 `json:"confidence"`
	NeedsModeration bool                    `json:"needs_moderation"`
	TopAlternatives []analytics.Alternative `json:"top_alternatives"`
}

// HistoryPage is the /classifications/history answer. Unlike the backend's
// own API it carries no success/error envelope.
type HistoryPage struct {
	Entries []analytics.HistoryEntry `json:"entries"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
	Limit   int                      `json:"limit"`
}

// HistoryParams filter the history listing; zero values are omitted.
type HistoryParams struct {
	Page            int
	Limit           int
	Service         string
	NeedsModeration *bool
}

func New(baseURL string, enabled bool) *Classifier {
	return &Classifier{
		baseURL: baseURL,
		enabled: enabled,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// ClampThreshold bounds a confidence floor to [0, 1].
func ClampThreshold(threshold float64) float64 {
	if threshold < 0 {
		return 0
	}
	if threshold > 1 {
		return 1
	}
	return threshold
}

// Classify returns the suggested service name and raw confidence. The
// threshold is per-call state so one shared Classifier stays safe under
// concurrent requests. The name is empty when classification is disabled,
// fails, or the confidence is below the threshold; only a transport/decode
// problem is an error.
func (c *Classifier) Classify(ctx context.Context, text string, threshold float64) (string, float64, error) {
	if !c.enabled || c.baseURL == "" {
		return "", 0, nil
	}

	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("call classification service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(res.Body)
		return "", 0, fmt.Errorf("classification service returned %d: %s", res.StatusCode, msg)
	}

	var out Prediction
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("decode response: %w", err)
	}

	if out.Confidence < ClampThreshold(threshold) {
		return "", out.Confidence, nil
	}
	return out.Service, out.Confidence, nil
}

// History fetches one page of the classification audit log.
func (c *Classifier) History(ctx context.Context, params HistoryParams) (*HistoryPage, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("classification service URL is not configured")
	}

	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Service != "" {
		q.Set("service", params.Service)
	}
	if params.NeedsModeration != nil {
		q.Set("needs_moderation", strconv.FormatBool(*params.NeedsModeration))
	}

	endpoint := c.baseURL + "/classifications/history"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call classification service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("classification service returned %d: %s", res.StatusCode, msg)
	}

	var page HistoryPage
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &page, nil
}

// SyncKeywords pings the classification service after a service's keyword
// string changed so it can re-embed. Best-effort: callers log and move on.
func (c *Classifier) SyncKeywords(ctx context.Context) error {
	if !c.enabled || c.baseURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call classification service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("classification service returned %d", res.StatusCode)
	}
	return nil
}

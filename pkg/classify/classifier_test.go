package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBelowThresholdReturnsNoService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/classify", r.URL.Path)
		json.NewEncoder(w).Encode(Prediction{Service: "Water supply", Confidence: 0.61, NeedsModeration: true})
	}))
	defer srv.Close()

	c := New(srv.URL, true)

	service, confidence, err := c.Classify(context.Background(), "burst pipe on the corner", 0.8)
	require.NoError(t, err)
	assert.Empty(t, service)
	assert.InDelta(t, 0.61, confidence, 1e-9)
}

func TestClassifyAboveThreshold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "street lamp is out", req.Text)
		json.NewEncoder(w).Encode(Prediction{Service: "Street lighting", Confidence: 0.93})
	}))
	defer srv.Close()

	c := New(srv.URL, true)

	service, confidence, err := c.Classify(context.Background(), "street lamp is out", 0.8)
	require.NoError(t, err)
	assert.Equal(t, "Street lighting", service)
	assert.InDelta(t, 0.93, confidence, 1e-9)
}

func TestClassifyDisabled(t *testing.T) {
	c := New("http://unreachable.invalid", false)

	service, confidence, err := c.Classify(context.Background(), "anything", 0.8)
	require.NoError(t, err)
	assert.Empty(t, service)
	assert.Zero(t, confidence)
}

func TestClampThreshold(t *testing.T) {
	assert.Equal(t, 0.0, ClampThreshold(-0.5))
	assert.Equal(t, 1.0, ClampThreshold(1.5))
	assert.Equal(t, 0.75, ClampThreshold(0.75))
}

func TestClassifyConcurrentWithDifferentThresholds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Prediction{Service: "Street lighting", Confidence: 0.85})
	}))
	defer srv.Close()

	c := New(srv.URL, true)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		threshold := 0.8
		if i%2 == 1 {
			threshold = 0.9
		}
		wg.Add(1)
		go func(threshold float64) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				service, _, err := c.Classify(context.Background(), "street lamp is out", threshold)
				assert.NoError(t, err)
				if threshold > 0.85 {
					assert.Empty(t, service)
				} else {
					assert.Equal(t, "Street lighting", service)
				}
			}
		}(threshold)
	}
	wg.Wait()
}

func TestHistoryPassesFiltersAndDecodesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/classifications/history", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("needs_moderation"))
		json.NewEncoder(w).Encode(HistoryPage{Total: 120, Page: 2, Limit: 50})
	}))
	defer srv.Close()

	c := New(srv.URL, true)
	moderation := true

	page, err := c.History(context.Background(), HistoryParams{Page: 2, Limit: 50, NeedsModeration: &moderation})
	require.NoError(t, err)
	assert.Equal(t, int64(120), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 50, page.Limit)
}

func TestHistoryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, true)

	_, err := c.History(context.Background(), HistoryParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

package controllers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/pkg/analytics"
	"github.com/maxmaindev/citizen-appeals/pkg/classify"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
)

// ClassificationController proxies the external classification service's
// audit log and derives chart data from it.
type ClassificationController struct {
	Classifier *classify.Classifier
	Cache      *querycache.Cache[any]
}

func NewClassificationController(classifier *classify.Classifier, cache *querycache.Cache[any]) *ClassificationController {
	return &ClassificationController{Classifier: classifier, Cache: cache}
}

func (ctl *ClassificationController) fetchPage(c *gin.Context) (*classify.HistoryPage, error) {
	params := classify.HistoryParams{
		Service: c.Query("service"),
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if v := c.Query("needs_moderation"); v != "" {
		b := v == "true"
		params.NeedsModeration = &b
	}

	key := "classifications:" + c.Request.URL.RawQuery
	cached, err := ctl.Cache.Get(c.Request.Context(), key, func(ctx context.Context) (any, error) {
		return ctl.Classifier.History(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return cached.(*classify.HistoryPage), nil
}

// filterEntries applies the page-local case-insensitive substring search.
func filterEntries(entries []analytics.HistoryEntry, q string) []analytics.HistoryEntry {
	if q == "" {
		return entries
	}
	q = strings.ToLower(q)
	out := make([]analytics.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Text), q) {
			out = append(out, e)
		}
	}
	return out
}

// GET /classification/history
func (ctl *ClassificationController) History(c *gin.Context) {
	page, err := ctl.fetchPage(c)
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	entries := filterEntries(page.Entries, c.Query("q"))
	resp.OK(c, gin.H{
		"entries": entries,
		"total":   page.Total,
		"page":    page.Page,
		"limit":   page.Limit,
	})
}

// GET /classification/history/analytics
func (ctl *ClassificationController) Analytics(c *gin.Context) {
	page, err := ctl.fetchPage(c)
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	entries := filterEntries(page.Entries, c.Query("q"))
	resp.OK(c, gin.H{
		"histogram":   analytics.ConfidenceHistogram(entries),
		"over_time":   analytics.ConfidenceOverTime(entries),
		"entry_count": len(entries),
	})
}

package source

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jobpulse/jobpulse/internal/model"
)

// HackerNewsProvider walks the comment tree of a "Who is hiring" item on the
// Firebase API.
type HackerNewsProvider struct {
	itemID      int64
	maxComments int
	filter      *Filter
	client      *http.Client
	baseURL     string
}

func NewHackerNewsProvider(itemID int64, maxComments, timeoutMs int, filter *Filter) *HackerNewsProvider {
	if maxComments <= 0 {
		maxComments = 50
	}
	return &HackerNewsProvider{
		itemID:      itemID,
		maxComments: maxComments,
		filter:      filter,
		client:      newHTTPClient(timeoutMs),
		baseURL:     "https://hacker-news.firebaseio.com/v0",
	}
}

func (p *HackerNewsProvider) Name() string { return "hackernews" }

type hnItem struct {
	By   string  `json:"by"`
	Text string  `json:"text"`
	Time int64   `json:"time"`
	Kids []int64 `json:"kids"`
}

func (p *HackerNewsProvider) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	var root hnItem
	if err := getJSON(ctx, p.client, fmt.Sprintf("%s/item/%d.json", p.baseURL, p.itemID), nil, &root); err != nil {
		return nil, err
	}

	kids := root.Kids
	if len(kids) > p.maxComments {
		kids = kids[:p.maxComments]
	}

	var records []model.RawRecord
	for _, kid := range kids {
		var comment hnItem
		if err := getJSON(ctx, p.client, fmt.Sprintf("%s/item/%d.json", p.baseURL, kid), nil, &comment); err != nil {
			continue // one dead comment never sinks the batch
		}

		if !p.filter.IsHiringPost(comment.Text, "") {
			continue
		}

		created := time.Unix(comment.Time, 0)
		if !p.filter.IsRecent(created) {
			continue
		}

		records = append(records, model.RawRecord{
			"kind":       "lead",
			"platform":   "HackerNews",
			"source":     "Who is Hiring",
			"title":      "HN Job Post",
			"author":     comment.By,
			"content":    clip(comment.Text, 500),
			"url":        "https://news.ycombinator.com/item?id=" + strconv.FormatInt(kid, 10),
			"created_at": strconv.FormatInt(comment.Time, 10),
		})
	}
	return records, nil
}

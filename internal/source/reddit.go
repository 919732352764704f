package source

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jobpulse/jobpulse/internal/model"
)

// RedditProvider reads the public new-post JSON listing of a set of
// subreddits. A subreddit that errors is skipped; the remaining listings
// still contribute.
type RedditProvider struct {
	subreddits []string
	limit      int
	filter     *Filter
	client     *http.Client
	baseURL    string
}

func NewRedditProvider(subreddits []string, limit, timeoutMs int, filter *Filter) *RedditProvider {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return &RedditProvider{
		subreddits: subreddits,
		limit:      limit,
		filter:     filter,
		client:     newHTTPClient(timeoutMs),
		baseURL:    "https://www.reddit.com",
	}
}

func (p *RedditProvider) Name() string { return "reddit" }

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				Author     string  `json:"author"`
				Selftext   string  `json:"selftext"`
				Permalink  string  `json:"permalink"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (p *RedditProvider) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	var records []model.RawRecord
	var lastErr error

	for _, sub := range p.subreddits {
		url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", p.baseURL, sub, p.limit)

		var listing redditListing
		if err := getJSON(ctx, p.client, url, nil, &listing); err != nil {
			lastErr = err
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			created := time.Unix(int64(post.CreatedUTC), 0)
			if !p.filter.IsRecent(created) || !p.filter.IsHiringPost(post.Title, post.Selftext) {
				continue
			}

			records = append(records, model.RawRecord{
				"kind":       "lead",
				"platform":   "Reddit",
				"source":     "r/" + sub,
				"title":      post.Title,
				"author":     post.Author,
				"content":    clip(post.Selftext, 500),
				"url":        "https://reddit.com" + post.Permalink,
				"created_at": strconv.FormatInt(created.Unix(), 10),
			})
		}
	}

	if len(records) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return records, nil
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

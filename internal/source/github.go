package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jobpulse/jobpulse/internal/model"
)

// GitHubProvider searches issues for hiring posts via the REST search API.
type GitHubProvider struct {
	token   string
	queries []string
	perPage int
	filter  *Filter
	client  *http.Client
	baseURL string
}

func NewGitHubProvider(token string, queries []string, perPage, timeoutMs int, filter *Filter) *GitHubProvider {
	if perPage <= 0 || perPage > 100 {
		perPage = 30
	}
	return &GitHubProvider{
		token:   token,
		queries: queries,
		perPage: perPage,
		filter:  filter,
		client:  newHTTPClient(timeoutMs),
		baseURL: "https://api.github.com",
	}
}

func (p *GitHubProvider) Name() string { return "github" }

type githubSearchResult struct {
	Items []struct {
		Title     string    `json:"title"`
		Body      string    `json:"body"`
		HTMLURL   string    `json:"html_url"`
		CreatedAt time.Time `json:"created_at"`
		User      struct {
			Login string `json:"login"`
		} `json:"user"`
		RepositoryURL string `json:"repository_url"`
	} `json:"items"`
}

func (p *GitHubProvider) Fetch(ctx context.Context) ([]model.RawRecord, error) {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if p.token != "" {
		headers["Authorization"] = "token " + p.token
	}

	var records []model.RawRecord
	var lastErr error

	for _, q := range p.queries {
		u := fmt.Sprintf("%s/search/issues?q=%s&sort=created&order=desc&per_page=%d",
			p.baseURL, url.QueryEscape(q), p.perPage)

		var result githubSearchResult
		if err := getJSON(ctx, p.client, u, headers, &result); err != nil {
			lastErr = err
			continue
		}

		for _, item := range result.Items {
			if !p.filter.IsRecent(item.CreatedAt) || !p.filter.IsHiringPost(item.Title, item.Body) {
				continue
			}

			records = append(records, model.RawRecord{
				"kind":       "lead",
				"platform":   "GitHub",
				"source":     lastPathSegment(item.RepositoryURL),
				"title":      item.Title,
				"author":     item.User.Login,
				"content":    clip(item.Body, 500),
				"url":        item.HTMLURL,
				"created_at": item.CreatedAt.Format(time.RFC3339),
			})
		}
	}

	if len(records) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return records, nil
}

func lastPathSegment(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[i+1:]
		}
	}
	return s
}

// Package normalize maps raw provider records onto the two canonical entity
// shapes. It is the only place that knows about the per-source field soup;
// everything past it works with model.Entity.
package normalize

import (
	"errors"
	"strings"

	"github.com/jobpulse/jobpulse/internal/model"
)

// ErrRejected marks a raw record that lacks the minimum field for its kind.
var ErrRejected = errors.New("normalize: record rejected")

// Lead maps a raw record to a lead entity. A lead without a url cannot be
// deduplicated and is rejected.
func Lead(raw model.RawRecord, sourceTag string) (model.Entity, error) {
	url := strings.TrimSpace(firstOf(raw, "url", "link", "permalink"))
	if url == "" {
		return model.Entity{}, ErrRejected
	}

	return model.Entity{
		Kind:      model.KindLead,
		SourceTag: sourceTag,
		Status:    model.StatusNew,
		Platform:  firstOf(raw, "platform", "site"),
		Title:     firstOf(raw, "title", "headline"),
		Author:    firstOf(raw, "author", "user", "by"),
		URL:       url,
		Content:   firstOf(raw, "content", "body", "text", "description"),
	}, nil
}

// Company maps a raw record to a company entity. A company without a name
// is rejected. A comma-separated "emails" field becomes the candidate list.
func Company(raw model.RawRecord, sourceTag string) (model.Entity, error) {
	name := strings.TrimSpace(firstOf(raw, "name", "company", "company_name"))
	if name == "" {
		return model.Entity{}, ErrRejected
	}

	return model.Entity{
		Kind:            model.KindCompany,
		SourceTag:       sourceTag,
		Status:          model.StatusNew,
		Name:            name,
		Website:         strings.TrimSpace(firstOf(raw, "website", "url", "homepage")),
		Description:     firstOf(raw, "description", "about"),
		CandidateEmails: splitEmails(raw.Get("emails")),
	}, nil
}

// Normalize routes a raw record by its "kind" field; records without one are
// treated as leads, matching what the scrapers emit.
func Normalize(raw model.RawRecord, sourceTag string) (model.Entity, error) {
	kind, _ := model.ParseKind(raw.Get("kind"))
	if kind == model.KindCompany {
		return Company(raw, sourceTag)
	}
	return Lead(raw, sourceTag)
}

func firstOf(raw model.RawRecord, keys ...string) string {
	for _, k := range keys {
		if v := raw.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func splitEmails(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Package discovery extracts candidate contact addresses from free text and
// filters them down to plausible business addresses. The outreach scheduler
// only ever consumes the filtered list.
package discovery

import (
	"context"
	"regexp"
	"strings"

	"github.com/jobpulse/jobpulse/internal/model"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// Extract pulls every address-shaped token out of text, in order of
// appearance, deduplicated case-insensitively.
func Extract(text string) []string {
	matches := emailPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		k := strings.ToLower(m)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}

var fileExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico", ".bmp",
	".webm", ".mp4", ".mov", ".avi", ".pdf", ".doc", ".zip", ".tar",
	".css", ".js", ".html", ".xml", ".json", ".txt",
}

var junkPatterns = []string{
	"2x.", "@2x", "logo-", "img-", "icon-", "hero-", "cover-",
	"still-", "video-", "updated_", "monochrome",
}

var skipPatterns = []string{
	"noreply", "no-reply", "donotreply", "example.com", "test.com",
	"webmaster@", "admin@", "postmaster@", "abuse@", "spam@",
	"robot@", "bot@", "automatic@", "newsletter@", "marketing@",
	"notifications@", "alerts@", "system@", "daemon@", "u003e",
}

var businessPatterns = []string{
	"contact", "info", "hello", "careers", "jobs", "hr", "hiring",
	"sales", "business", "partnerships", "support", "team",
	"founder", "ceo", "cto", "director", "manager", "lead",
}

var strongBusinessPatterns = []string{
	"careers", "hiring", "jobs", "business", "sales", "partnerships",
}

var validTLDs = map[string]struct{}{
	"com": {}, "org": {}, "net": {}, "edu": {}, "gov": {}, "io": {},
	"co": {}, "app": {}, "dev": {}, "ai": {}, "ly": {}, "me": {},
}

var freeDomains = map[string]struct{}{
	"gmail.com": {}, "yahoo.com": {}, "hotmail.com": {}, "outlook.com": {},
}

// IsRelevant applies the strict business-address filter: no file-name false
// positives, no role/robot addresses, a real TLD, and at least one business
// keyword (a stronger one on free mail domains).
func IsRelevant(email string) bool {
	e := strings.ToLower(strings.TrimSpace(email))

	if strings.Count(e, "@") != 1 {
		return false
	}
	_, domain, _ := strings.Cut(e, "@")

	for _, ext := range fileExtensions {
		if strings.Contains(e, ext) {
			return false
		}
	}
	for _, p := range junkPatterns {
		if strings.Contains(e, p) {
			return false
		}
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) < 2 {
		return false
	}
	if _, ok := validTLDs[domainParts[len(domainParts)-1]]; !ok {
		return false
	}

	for _, p := range skipPatterns {
		if strings.Contains(e, p) {
			return false
		}
	}

	if _, free := freeDomains[domain]; free {
		return containsAny(e, strongBusinessPatterns)
	}
	return containsAny(e, businessPatterns)
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// FilterRelevant keeps only addresses passing IsRelevant, preserving order.
func FilterRelevant(emails []string) []string {
	var out []string
	for _, e := range emails {
		if IsRelevant(e) {
			out = append(out, e)
		}
	}
	return out
}

// Finder resolves candidate addresses for an entity.
type Finder interface {
	Find(ctx context.Context, e model.Entity) []string
}

// ContentFinder extracts addresses from a lead's free-text content, the way
// inline addresses appear in hiring posts. No network access.
type ContentFinder struct{}

func (ContentFinder) Find(_ context.Context, e model.Entity) []string {
	return Extract(e.Content)
}

// StaticFinder returns the pre-filtered candidate list a company was
// admitted with.
type StaticFinder struct{}

func (StaticFinder) Find(_ context.Context, e model.Entity) []string {
	return e.CandidateEmails
}

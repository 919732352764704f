package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

type statusError struct {
	url    string
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("source: url=%s status=%d", e.url, e.status)
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

// Filter screens raw posts before normalization: it drops job-seeker posts,
// requires a hiring indicator plus a configured keyword, and discards posts
// older than MaxAge.
type Filter struct {
	Keywords []string
	MaxAge   time.Duration

	now func() time.Time
}

func NewFilter(keywords []string, maxAgeDays int) *Filter {
	if maxAgeDays <= 0 {
		maxAgeDays = 30
	}
	return &Filter{
		Keywords: keywords,
		MaxAge:   time.Duration(maxAgeDays) * 24 * time.Hour,
		now:      time.Now,
	}
}

var skipPhrases = []string{"for hire", "looking for work", "seeking employment", "available for"}

var hiringIndicators = []string{"hiring", "looking for", "seeking", "need", "wanted", "join our team", "we are hiring"}

// IsHiringPost reports whether the title/content pair reads like a hiring
// post matching the configured keywords.
func (f *Filter) IsHiringPost(title, content string) bool {
	title = strings.ToLower(title)
	content = strings.ToLower(content)

	for _, p := range skipPhrases {
		if strings.Contains(title, p) {
			return false
		}
	}

	hiring := false
	for _, in := range hiringIndicators {
		if strings.Contains(title, in) || strings.Contains(content, in) {
			hiring = true
			break
		}
	}
	if !hiring {
		return false
	}

	for _, kw := range f.Keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(title, kw) || strings.Contains(content, kw) {
			return true
		}
	}
	return false
}

// IsRecent reports whether a post created at t falls within the max age.
// A zero time is accepted; sources that omit timestamps still pass.
func (f *Filter) IsRecent(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return f.now().Sub(t) <= f.MaxAge
}

package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobpulse/jobpulse/internal/model"
)

func TestExtract(t *testing.T) {
	text := "Reach us at careers@acme.com or Careers@Acme.com, maybe info@acme.io."

	got := Extract(text)

	// Case-insensitive dedup keeps the first occurrence.
	assert.Equal(t, []string{"careers@acme.com", "info@acme.io"}, got)
}

func TestExtractNothing(t *testing.T) {
	assert.Nil(t, Extract("no addresses in here, not even at signs"))
}

func TestIsRelevantAccepts(t *testing.T) {
	for _, email := range []string{
		"careers@acme.com",
		"info@startup.io",
		"hello@widgets.dev",
		"founder@smallshop.co",
		"hiring@gmail.com", // free domain but strong business keyword
	} {
		assert.True(t, IsRelevant(email), email)
	}
}

func TestIsRelevantRejects(t *testing.T) {
	for _, email := range []string{
		"noreply@acme.com",
		"webmaster@acme.com",
		"newsletter@acme.com",
		"logo-2x@assets.com",
		"hero-image@cdn.com",
		"contact@site.png",
		"somebody@gmail.com",       // free domain, weak keyword
		"random@acme.xyz",          // unlisted TLD
		"careers@acme",             // no TLD at all
		"icon-careers@2x.acme.com", // junk pattern wins
	} {
		assert.False(t, IsRelevant(email), email)
	}
}

func TestFilterRelevant(t *testing.T) {
	in := []string{"careers@acme.com", "noreply@acme.com", "info@acme.io"}
	assert.Equal(t, []string{"careers@acme.com", "info@acme.io"}, FilterRelevant(in))
}

func TestContentFinder(t *testing.T) {
	e := model.Entity{Kind: model.KindLead, Content: "apply via jobs@acme.com"}
	assert.Equal(t, []string{"jobs@acme.com"}, ContentFinder{}.Find(context.Background(), e))
}

func TestStaticFinder(t *testing.T) {
	e := model.Entity{Kind: model.KindCompany, CandidateEmails: []string{"careers@acme.com"}}
	assert.Equal(t, []string{"careers@acme.com"}, StaticFinder{}.Find(context.Background(), e))
}

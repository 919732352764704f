package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jobpulse/jobpulse/internal/model"
)

var testInfo = PersonalInfo{
	Name:     "Alex Doe",
	LinkedIn: "https://linkedin.com/in/alexdoe",
	GitHub:   "https://github.com/alexdoe",
}

func TestComposeLead(t *testing.T) {
	e := model.Entity{
		Kind: model.KindLead,
		URL:  "https://reddit.com/r/forhire/comments/abc/post/",
	}

	subject, body := Compose(e, testInfo)

	assert.Equal(t, "Backend Engineer Application - Alex Doe", subject)
	assert.Contains(t, body, "Found via: https://reddit.com/r/forhire/comments/abc/post/")
	assert.Contains(t, body, "Alex Doe")
	assert.Contains(t, body, "https://github.com/alexdoe")
}

func TestComposeLeadWithoutURL(t *testing.T) {
	_, body := Compose(model.Entity{Kind: model.KindLead}, testInfo)
	assert.Contains(t, body, "Found via: Direct outreach")
}

func TestComposeCompany(t *testing.T) {
	e := model.Entity{
		Kind:        model.KindCompany,
		Name:        "Acme Robotics",
		Description: "warehouse automation",
	}

	subject, body := Compose(e, testInfo)

	assert.Equal(t, "Experienced Backend Engineer - Alex Doe", subject)
	assert.Contains(t, body, "Acme Robotics")
	assert.Contains(t, body, "warehouse automation")
}

func TestComposeCompanyDefaultDescription(t *testing.T) {
	_, body := Compose(model.Entity{Kind: model.KindCompany, Name: "Acme"}, testInfo)
	assert.Contains(t, body, "innovative technology solutions")
}

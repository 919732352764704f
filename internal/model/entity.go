package model

import (
	"strings"
	"time"
)

type Kind string

const (
	KindLead    Kind = "lead"
	KindCompany Kind = "company"
)

func (k Kind) String() string { return string(k) }

// ParseKind normalizes input; empty => lead.
// Returns (value, true) if valid; otherwise (lead, false).
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lead":
		return KindLead, true
	case "company":
		return KindCompany, true
	default:
		return KindLead, false
	}
}

func (k Kind) Valid() bool {
	return k == KindLead || k == KindCompany
}

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
)

func (s Status) String() string { return string(s) }

func (s Status) Valid() bool {
	return s == StatusNew || s == StatusContacted
}

// Entity is the canonical record held by the store. Lead and Company share
// the same persisted shape; kind-specific fields are simply unused by the
// other kind.
type Entity struct {
	ID          int64     `json:"id" db:"id"`
	Kind        Kind      `json:"kind" db:"kind"`
	IdentityKey string    `json:"identity_key" db:"identity_key"`
	SourceTag   string    `json:"source_tag" db:"source_tag"`
	Status      Status    `json:"status" db:"status"`
	Discovered  time.Time `json:"discovered_at" db:"discovered_at"`

	ContactedAt  *time.Time `json:"contacted_at,omitempty" db:"contacted_at"`
	ContactedVia string     `json:"contacted_via,omitempty" db:"contacted_via"`

	// Lead fields.
	Platform string `json:"platform,omitempty" db:"platform"`
	Title    string `json:"title,omitempty" db:"title"`
	Author   string `json:"author,omitempty" db:"author"`
	URL      string `json:"url,omitempty" db:"url"`
	Content  string `json:"content,omitempty" db:"content"`

	// Company fields.
	Name            string   `json:"name,omitempty" db:"name"`
	Website         string   `json:"website,omitempty" db:"website"`
	Description     string   `json:"description,omitempty" db:"description"`
	CandidateEmails []string `json:"candidate_emails,omitempty" db:"-"`
}

// HasCandidateEmails reports whether a company is eligible for outreach.
func (e Entity) HasCandidateEmails() bool {
	return len(e.CandidateEmails) > 0
}

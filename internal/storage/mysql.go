package storage

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jobpulse/jobpulse/internal/model"
)

// MySQLBackend stores entities in a single table. Append inserts one row at
// admission; SaveSnapshot upserts the mutable columns (status transitions);
// LoadSnapshot reads everything back in admission order.
type MySQLBackend struct {
	db *sqlx.DB
}

func NewMySQLBackend(db *sqlx.DB) *MySQLBackend {
	return &MySQLBackend{db: db}
}

// entityRow flattens model.Entity for sqlx; candidate emails travel as a
// comma-joined column.
type entityRow struct {
	ID           int64      `db:"id"`
	Kind         string     `db:"kind"`
	IdentityKey  string     `db:"identity_key"`
	SourceTag    string     `db:"source_tag"`
	Status       string     `db:"status"`
	DiscoveredAt time.Time  `db:"discovered_at"`
	ContactedAt  *time.Time `db:"contacted_at"`
	ContactedVia string     `db:"contacted_via"`
	Platform     string     `db:"platform"`
	Title        string     `db:"title"`
	Author       string     `db:"author"`
	URL          string     `db:"url"`
	Content      string     `db:"content"`
	Name         string     `db:"name"`
	Website      string     `db:"website"`
	Description  string     `db:"description"`
	Emails       string     `db:"emails"`
}

func toRow(e model.Entity) entityRow {
	return entityRow{
		ID:           e.ID,
		Kind:         e.Kind.String(),
		IdentityKey:  e.IdentityKey,
		SourceTag:    e.SourceTag,
		Status:       e.Status.String(),
		DiscoveredAt: e.Discovered,
		ContactedAt:  e.ContactedAt,
		ContactedVia: e.ContactedVia,
		Platform:     e.Platform,
		Title:        e.Title,
		Author:       e.Author,
		URL:          e.URL,
		Content:      e.Content,
		Name:         e.Name,
		Website:      e.Website,
		Description:  e.Description,
		Emails:       strings.Join(e.CandidateEmails, ","),
	}
}

func fromRow(r entityRow) model.Entity {
	var emails []string
	if r.Emails != "" {
		emails = strings.Split(r.Emails, ",")
	}
	return model.Entity{
		ID:              r.ID,
		Kind:            model.Kind(r.Kind),
		IdentityKey:     r.IdentityKey,
		SourceTag:       r.SourceTag,
		Status:          model.Status(r.Status),
		Discovered:      r.DiscoveredAt,
		ContactedAt:     r.ContactedAt,
		ContactedVia:    r.ContactedVia,
		Platform:        r.Platform,
		Title:           r.Title,
		Author:          r.Author,
		URL:             r.URL,
		Content:         r.Content,
		Name:            r.Name,
		Website:         r.Website,
		Description:     r.Description,
		CandidateEmails: emails,
	}
}

const upsertQuery = `
	INSERT INTO entities
	    (id, kind, identity_key, source_tag, status, discovered_at,
	     contacted_at, contacted_via, platform, title, author, url, content,
	     name, website, description, emails)
	VALUES
	    (:id, :kind, :identity_key, :source_tag, :status, :discovered_at,
	     :contacted_at, :contacted_via, :platform, :title, :author, :url, :content,
	     :name, :website, :description, :emails)
	ON DUPLICATE KEY UPDATE
	    status = VALUES(status),
	    contacted_at = VALUES(contacted_at),
	    contacted_via = VALUES(contacted_via),
	    emails = VALUES(emails)
`

func (b *MySQLBackend) Append(e model.Entity) error {
	_, err := b.db.NamedExecContext(context.Background(), upsertQuery, toRow(e))
	return err
}

func (b *MySQLBackend) SaveSnapshot(s Snapshot) error {
	ctx := context.Background()
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range s.Entities {
		if _, err := tx.NamedExecContext(ctx, upsertQuery, toRow(e)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (b *MySQLBackend) LoadSnapshot() (Snapshot, bool, error) {
	var rows []entityRow
	err := b.db.SelectContext(context.Background(), &rows,
		`SELECT id, kind, identity_key, source_tag, status, discovered_at,
		        contacted_at, contacted_via, platform, title, author, url, content,
		        name, website, description, emails
		 FROM entities ORDER BY id`)
	if err != nil {
		return Snapshot{}, false, err
	}
	if len(rows) == 0 {
		return Snapshot{}, false, nil
	}

	s := Snapshot{
		Entities: make([]model.Entity, 0, len(rows)),
		Keys:     make([]string, 0, len(rows)),
	}
	for _, r := range rows {
		e := fromRow(r)
		s.Entities = append(s.Entities, e)
		s.Keys = append(s.Keys, e.IdentityKey)
	}
	return s, true, nil
}

func (b *MySQLBackend) Close() error { return b.db.Close() }

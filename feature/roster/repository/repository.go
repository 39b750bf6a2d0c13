package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roster-sync/feature/roster/models"
	"roster-sync/feature/roster/reconcile"

	"gorm.io/gorm"
)

// insertBatchSize bounds the rows per INSERT statement for events.
const insertBatchSize = 500

// Repository is the GORM implementation of reconcile.Repository.
type Repository struct {
	db *gorm.DB
}

// New creates a Repository on db.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the people and events tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Person{}, &models.Event{}); err != nil {
		return fmt.Errorf("failed to migrate roster tables: %w", err)
	}
	return nil
}

// FindTakenEmails returns stored emails equal to one of emails or starting
// with one of them followed by an underscore.
func (r *Repository) FindTakenEmails(ctx context.Context, emails []string) ([]string, error) {
	unique := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		unique = append(unique, e)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Person{}).Where("email IN ?", unique)
	for _, e := range unique {
		q = q.Or("email LIKE ?", escapeLike(e)+`\_%`)
	}

	var taken []string
	if err := q.Pluck("email", &taken).Error; err != nil {
		return nil, fmt.Errorf("failed to query emails: %w", err)
	}
	return taken, nil
}

// FindPersonByExternalID returns nil, nil when no person matches.
func (r *Repository) FindPersonByExternalID(ctx context.Context, externalID string) (*models.Person, error) {
	var p models.Person
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find person %s: %w", externalID, err)
	}
	return &p, nil
}

// UpsertPerson inserts p when p.ID is zero. Otherwise it updates the row
// keyed by p.ExternalID, writing only the source-owned columns; email and
// password_hash are never part of the update.
func (r *Repository) UpsertPerson(ctx context.Context, p *models.Person) error {
	db := r.db.WithContext(ctx)
	if p.ID == 0 {
		return db.Create(p).Error
	}

	res := db.Model(&models.Person{}).
		Where("external_id = ?", p.ExternalID).
		Updates(map[string]interface{}{
			"full_name":  p.FullName,
			"role":       p.Role,
			"company":    p.Company,
			"start_date": p.StartDate,
			"end_date":   p.EndDate,
		})
	if res.Error != nil {
		return res.Error
	}
	// Connections use ClientFoundRows, so zero means no matching row.
	if res.RowsAffected == 0 {
		return fmt.Errorf("person %s: %w", p.ExternalID, gorm.ErrRecordNotFound)
	}
	return nil
}

// InsertEvents bulk inserts events in batches.
func (r *Repository) InsertEvents(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&events, insertBatchSize).Error
}

// DeleteEvents removes the events of personID on any scope date or whose
// source range overlaps a scope span.
func (r *Repository) DeleteEvents(ctx context.Context, personID uint, scope reconcile.ReplaceScope) (int64, error) {
	if scope.IsEmpty() {
		return 0, nil
	}

	db := r.db.WithContext(ctx)

	var match *gorm.DB
	if len(scope.Dates) > 0 {
		match = db.Where("date IN ?", scope.Dates)
	}
	for _, s := range scope.Spans {
		overlap := "range_start <= ? AND range_end >= ?"
		if match == nil {
			match = db.Where(overlap, s.End, s.Start)
			continue
		}
		match = match.Or(overlap, s.End, s.Start)
	}

	res := db.Where("person_id = ?", personID).Where(match).Delete(&models.Event{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// escapeLike escapes LIKE wildcards in s.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

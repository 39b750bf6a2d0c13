package reconcile

import (
	"context"
	"errors"
	"fmt"

	"roster-sync/feature/roster/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the datastore the reconciler reads and writes.
type Repository interface {
	// FindTakenEmails returns stored emails equal to one of emails or to one
	// of their "_n" suffixed variants.
	FindTakenEmails(ctx context.Context, emails []string) ([]string, error)
	// FindPersonByExternalID returns nil, nil when no person matches.
	FindPersonByExternalID(ctx context.Context, externalID string) (*models.Person, error)
	// UpsertPerson inserts p when p.ID is zero, otherwise updates the row with
	// p.ExternalID leaving its email and password hash untouched.
	UpsertPerson(ctx context.Context, p *models.Person) error
	// InsertEvents bulk inserts events.
	InsertEvents(ctx context.Context, events []models.Event) error
	// DeleteEvents removes the person's events selected by scope.
	DeleteEvents(ctx context.Context, personID uint, scope ReplaceScope) (int64, error)
}

// Hasher derives a credential hash from a secret.
type Hasher func(secret string) (string, error)

// BcryptHasher returns a Hasher using bcrypt at the given cost.
func BcryptHasher(cost int) Hasher {
	return func(secret string) (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
		if err != nil {
			return "", err
		}
		return string(hash), nil
	}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithHasher overrides the credential hasher used for new people.
func WithHasher(h Hasher) Option {
	return func(r *Reconciler) { r.hash = h }
}

// Reconciler upserts a batch of records and replaces their daily events.
type Reconciler struct {
	repo Repository
	log  *zap.Logger
	hash Hasher
}

// New creates a Reconciler. New people get bcrypt(externalID) at the default
// cost as their initial credential.
func New(repo Repository, log *zap.Logger, opts ...Option) *Reconciler {
	r := &Reconciler{
		repo: repo,
		log:  log,
		hash: BcryptHasher(bcrypt.DefaultCost),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile plans and applies a batch. It only fails as a whole when the
// email deduplication pass cannot run or ctx is canceled; per record failures
// are logged and counted in Summary.Failed.
func (r *Reconciler) Reconcile(ctx context.Context, company models.Company, records []Record) (Summary, error) {
	plan, err := r.Plan(ctx, company, records)
	if err != nil {
		return Summary{}, err
	}
	return r.Apply(ctx, plan)
}

// Plan deduplicates emails across the whole batch and decides create vs update
// for every record. It performs no writes.
func (r *Reconciler) Plan(ctx context.Context, company models.Company, records []Record) (*Plan, error) {
	candidates := make([]string, len(records))
	for i, rec := range records {
		candidates[i] = rec.Email
	}

	takenList, err := r.repo.FindTakenEmails(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing emails: %w", err)
	}
	taken := make(map[string]struct{}, len(takenList))
	for _, email := range takenList {
		taken[email] = struct{}{}
	}

	final := Resolve(candidates, taken)

	plan := &Plan{Company: company}
	plan.Summary.Total = len(records)

	// index into plan.Actions by external id
	planned := make(map[string]int, len(records))

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if idx, dup := planned[rec.ExternalID]; dup {
			// Later occurrences win, as if the writes had run one after another.
			prev := &plan.Actions[idx]
			events := len(ExpandAll(0, rec.Ranges))
			plan.Summary.Events += events - prev.Events
			prev.Record = rec
			prev.Events = events
			r.log.Warn("Duplicate external id in batch, keeping the last record",
				zap.String("external_id", rec.ExternalID))
			continue
		}

		existing, err := r.repo.FindPersonByExternalID(ctx, rec.ExternalID)
		if err != nil {
			r.log.Error("Person lookup failed", zap.String("external_id", rec.ExternalID), zap.Error(err))
			plan.Failures = append(plan.Failures, Failure{ExternalID: rec.ExternalID, Reason: err.Error()})
			plan.Summary.Failed++
			continue
		}

		action := Action{
			ExternalID: rec.ExternalID,
			Record:     rec,
			Existing:   existing,
			Events:     len(ExpandAll(0, rec.Ranges)),
		}
		if existing != nil {
			action.Type = ActionUpdate
			action.Email = existing.Email
			plan.Summary.Updates++
		} else {
			if rec.Email == "" {
				r.log.Warn("Cannot create person without email", zap.String("external_id", rec.ExternalID))
				plan.Failures = append(plan.Failures, Failure{ExternalID: rec.ExternalID, Reason: "missing email for new person"})
				plan.Summary.Failed++
				continue
			}
			action.Type = ActionCreate
			action.Email = final[i]
			action.Renamed = final[i] != rec.Email
			plan.Summary.Creates++
			if action.Renamed {
				plan.Summary.Renamed++
			}
		}
		plan.Summary.Events += action.Events
		planned[rec.ExternalID] = len(plan.Actions)
		plan.Actions = append(plan.Actions, action)
	}

	return plan, nil
}

// Apply executes the plan one action at a time. A failing action is logged
// and counted; the remaining actions are still attempted.
func (r *Reconciler) Apply(ctx context.Context, plan *Plan) (Summary, error) {
	summary := Summary{Failed: plan.Summary.Failed}

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		log := r.log.With(zap.String("external_id", action.ExternalID))

		var err error
		switch action.Type {
		case ActionCreate:
			err = r.create(ctx, action, &summary)
		case ActionUpdate:
			err = r.update(ctx, action, &summary)
		default:
			err = fmt.Errorf("unknown action type %q", action.Type)
		}
		if err != nil {
			summary.Failed++
			var writeErr *RepositoryWriteError
			if errors.As(err, &writeErr) {
				log.Error("Repository write failed", zap.String("op", writeErr.Op), zap.Error(writeErr.Err))
			} else {
				log.Error("Record reconciliation failed", zap.Error(err))
			}
			continue
		}

		if action.Renamed {
			log.Warn("Duplicate email rewritten",
				zap.String("source_email", action.Record.Email),
				zap.String("email", action.Email),
			)
		}
	}

	return summary, nil
}

func (r *Reconciler) create(ctx context.Context, action Action, summary *Summary) error {
	rec := action.Record

	hash, err := r.hash(rec.ExternalID)
	if err != nil {
		return fmt.Errorf("failed to derive credential: %w", err)
	}

	person := &models.Person{
		ExternalID:   rec.ExternalID,
		Email:        action.Email,
		PasswordHash: hash,
	}
	applyRecord(person, rec)

	if err := r.repo.UpsertPerson(ctx, person); err != nil {
		return &RepositoryWriteError{Op: "insert person", ExternalID: rec.ExternalID, Err: err}
	}

	events := ExpandAll(person.ID, rec.Ranges)
	if len(events) > 0 {
		if err := r.repo.InsertEvents(ctx, events); err != nil {
			return &RepositoryWriteError{Op: "insert events", ExternalID: rec.ExternalID, Err: err}
		}
		summary.EventsWritten += len(events)
	}
	summary.Created++
	return nil
}

func (r *Reconciler) update(ctx context.Context, action Action, summary *Summary) error {
	rec := action.Record

	// Email and credential are store-owned; copy them forward untouched.
	person := *action.Existing
	applyRecord(&person, rec)

	if err := r.repo.UpsertPerson(ctx, &person); err != nil {
		return &RepositoryWriteError{Op: "update person", ExternalID: rec.ExternalID, Err: err}
	}

	events := ExpandAll(person.ID, rec.Ranges)
	scope := scopeFor(rec.Ranges, events)
	if !scope.IsEmpty() {
		removed, err := r.repo.DeleteEvents(ctx, person.ID, scope)
		if err != nil {
			return &RepositoryWriteError{Op: "delete events", ExternalID: rec.ExternalID, Err: err}
		}
		summary.EventsRemoved += int(removed)
	}

	if len(events) > 0 {
		if err := r.repo.InsertEvents(ctx, events); err != nil {
			return &RepositoryWriteError{Op: "insert events", ExternalID: rec.ExternalID, Err: err}
		}
		summary.EventsWritten += len(events)
	}
	summary.Updated++
	return nil
}

// applyRecord copies the source-owned fields of rec onto p.
func applyRecord(p *models.Person, rec Record) {
	p.FullName = rec.FullName
	p.Role = rec.Role
	p.Company = rec.Company
	p.StartDate = rec.StartDate
	p.EndDate = rec.EndDate
}

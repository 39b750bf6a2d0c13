package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roster-sync/core/logger"
	"roster-sync/core/metrics"
	"roster-sync/core/scheduler"
	"roster-sync/feature/roster/models"
	"roster-sync/feature/roster/reconcile"
	"roster-sync/feature/roster/source"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher downloads the employee list of one company.
type Fetcher interface {
	Fetch(ctx context.Context, company models.Company) (*source.Payload, error)
}

// SyncOptions tune a single run.
type SyncOptions struct {
	// DryRun computes the plan without writing people or events.
	DryRun bool
	// Replay reads the payload from the archive instead of the API. It is an
	// object key or LatestSnapshot.
	Replay string
	// SkipIfBusy returns ErrRunInProgress instead of waiting when a run for
	// the same company is already going.
	SkipIfBusy bool
}

// ErrRunInProgress is returned by Sync with SkipIfBusy while another run
// holds the company.
var ErrRunInProgress = errors.New("run already in progress")

// Result describes a finished run.
type Result struct {
	RunID   string
	Company models.Company
	// Fetched is the number of employees in the payload.
	Fetched int
	// Rejected counts employees without identity fields.
	Rejected int
	// ArchiveKey is set when the payload was archived.
	ArchiveKey string
	Plan       *reconcile.Plan
	// Summary is zero for dry runs.
	Summary reconcile.Summary
}

// Option configures a Service.
type Option func(*Service)

// WithArchive archives every fetched payload and enables replays.
func WithArchive(a *Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithMetrics records run outcomes.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRoleFilter sets the position keywords employees must match.
func WithRoleFilter(keywords []string) Option {
	return func(s *Service) { s.roleFilter = keywords }
}

// WithReconcileOptions passes options to the per run Reconciler.
func WithReconcileOptions(opts ...reconcile.Option) Option {
	return func(s *Service) { s.reconcileOpts = append(s.reconcileOpts, opts...) }
}

// Service runs synchronizations. Runs for the same company are serialized;
// different companies may run concurrently.
type Service struct {
	fetcher       Fetcher
	repo          reconcile.Repository
	archive       *Archive
	metrics       *metrics.Recorder
	roleFilter    []string
	reconcileOpts []reconcile.Option

	locks scheduler.KeyedLock
	log   *zap.Logger
	newID func() string
}

// NewService creates a Service.
func NewService(fetcher Fetcher, repo reconcile.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		repo:    repo,
		log:     log,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync runs one synchronization for company.
func (s *Service) Sync(ctx context.Context, company models.Company, opts SyncOptions) (*Result, error) {
	var unlock func()
	if opts.SkipIfBusy {
		var ok bool
		if unlock, ok = s.locks.TryLock(string(company)); !ok {
			return nil, fmt.Errorf("%s: %w", company, ErrRunInProgress)
		}
	} else {
		unlock = s.locks.Lock(string(company))
	}
	defer unlock()

	started := time.Now()
	res := &Result{RunID: s.newID(), Company: company}
	log := logger.WithRun(s.log, string(company), res.RunID)

	err := s.run(ctx, log, res, opts)

	status := metrics.StatusSucceeded
	if err != nil {
		status = metrics.StatusFailed
		log.Error("Synchronization run failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
	} else {
		log.Info("Synchronization run finished",
			zap.Bool("dry_run", opts.DryRun),
			zap.Int("fetched", res.Fetched),
			zap.Int("rejected", res.Rejected),
			zap.Int("created", res.Summary.Created),
			zap.Int("updated", res.Summary.Updated),
			zap.Int("failed", res.Summary.Failed),
			zap.Int("events_written", res.Summary.EventsWritten),
			zap.Int("events_removed", res.Summary.EventsRemoved),
			zap.Duration("elapsed", time.Since(started)),
		)
	}

	if !opts.DryRun {
		s.metrics.ObserveRun(string(company), status, time.Since(started))
	}
	return res, err
}

func (s *Service) run(ctx context.Context, log *zap.Logger, res *Result, opts SyncOptions) error {
	payload, err := s.load(ctx, log, res.Company, opts)
	if err != nil {
		return err
	}
	res.Fetched = len(payload.Employees)

	if opts.Replay == "" && s.archive != nil {
		key, err := s.archive.Save(ctx, payload, res.RunID)
		if err != nil {
			// A missing snapshot only costs the audit trail.
			log.Warn("Snapshot archiving failed", zap.Error(err))
		} else {
			res.ArchiveKey = key
		}
	}

	records, rejected := source.NewNormalizer(s.roleFilter, log).Normalize(res.Company, payload.Employees)
	res.Rejected = len(rejected)
	for _, r := range rejected {
		log.Warn("Skipping malformed record", zap.Error(r))
	}

	engine := reconcile.New(s.repo, log, s.reconcileOpts...)
	plan, err := engine.Plan(ctx, res.Company, records)
	if err != nil {
		return err
	}
	res.Plan = plan

	if opts.DryRun {
		return nil
	}

	summary, err := engine.Apply(ctx, plan)
	res.Summary = summary
	s.record(res)
	return err
}

func (s *Service) load(ctx context.Context, log *zap.Logger, company models.Company, opts SyncOptions) (*source.Payload, error) {
	if opts.Replay == "" {
		return s.fetcher.Fetch(ctx, company)
	}

	if s.archive == nil {
		return nil, errors.New("replay requires storage to be enabled")
	}

	key := opts.Replay
	if key == LatestSnapshot {
		latest, err := s.archive.Latest(ctx, company)
		if err != nil {
			return nil, err
		}
		key = latest
	}

	payload, err := s.archive.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if payload.Company != company {
		return nil, fmt.Errorf("snapshot %s belongs to %s, not %s", key, payload.Company, company)
	}

	log.Info("Replaying archived snapshot", zap.String("key", key))
	return payload, nil
}

func (s *Service) record(res *Result) {
	company := string(res.Company)
	s.metrics.AddPeople(company, "created", res.Summary.Created)
	s.metrics.AddPeople(company, "updated", res.Summary.Updated)
	s.metrics.AddPeople(company, "failed", res.Summary.Failed)
	s.metrics.AddPeople(company, "skipped", res.Rejected)
	s.metrics.AddEvents(company, "written", res.Summary.EventsWritten)
	s.metrics.AddEvents(company, "removed", res.Summary.EventsRemoved)
}

// Job adapts Sync to the scheduler. A tick that finds the company still
// running is skipped; the next tick retries. Failures are logged by Sync.
func (s *Service) Job() scheduler.Job {
	return func(ctx context.Context, company string) {
		c, ok := models.ParseCompany(company)
		if !ok {
			s.log.Error("Skipping scheduled run for unknown company", zap.String("company", company))
			return
		}
		if _, err := s.Sync(ctx, c, SyncOptions{SkipIfBusy: true}); errors.Is(err, ErrRunInProgress) {
			s.log.Warn("Skipping scheduled run, previous run still active", zap.String("company", company))
		}
	}
}

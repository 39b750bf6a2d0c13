package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job runs one synchronization for a company.
type Job func(ctx context.Context, company string)

// Scheduler fires a Job for every configured company on each cron spec.
type Scheduler struct {
	cfg  Config
	loc  *time.Location
	cron *cron.Cron
	log  *zap.Logger

	startup []Job

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New validates the configuration and builds a stopped scheduler.
func New(cfg Config, log *zap.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	if len(cfg.Companies) == 0 {
		return nil, fmt.Errorf("no companies configured")
	}

	cl := cronLogger{log: log.Named("cron")}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:    cfg,
		loc:    loc,
		cron:   c,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Register schedules job for every company on every configured spec.
func (s *Scheduler) Register(job Job) error {
	for _, spec := range s.cfg.Schedules {
		for _, company := range s.cfg.Companies {
			if _, err := s.cron.AddFunc(spec, func() { job(s.ctx, company) }); err != nil {
				return fmt.Errorf("invalid schedule %q: %w", spec, err)
			}
		}
		s.log.Info("Schedule registered",
			zap.String("spec", spec),
			zap.String("timezone", s.loc.String()),
			zap.Strings("companies", s.cfg.Companies),
		)
	}

	if s.cfg.RunOnStart {
		s.startup = append(s.startup, job)
	}
	return nil
}

// Start begins firing schedules and launches the startup runs, one goroutine
// per company.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, job := range s.startup {
		for _, company := range s.cfg.Companies {
			s.wg.Add(1)
			go func(job Job, company string) {
				defer s.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("Startup run panicked", zap.String("company", company), zap.Any("panic", r))
					}
				}()
				job(s.ctx, company)
			}(job, company)
		}
	}
	s.startup = nil
}

// Next returns the first activation after now across all schedules, in the
// scheduler's timezone. It is zero when nothing is registered.
func (s *Scheduler) Next(now time.Time) time.Time {
	var next time.Time
	for _, e := range s.cron.Entries() {
		t := e.Schedule.Next(now.In(s.loc))
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}
	return next
}

// Stop cancels the job context, stops firing schedules and waits for running
// jobs to finish or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	waited := make(chan struct{})
	go func() {
		<-done.Done()
		s.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

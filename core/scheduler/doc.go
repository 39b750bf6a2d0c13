// Package scheduler triggers synchronization runs.
//
// It wraps robfig/cron: every configured cron spec fires the registered Job
// once per company code, evaluated in the configured timezone. Panics inside
// jobs are recovered and logged so a bad run never takes the process down.
//
// KeyedLock serializes runs that share a key (the company code) while runs for
// different companies proceed concurrently.
//
// # Usage
//
//	s, err := scheduler.New(cfg.Scheduler, log)
//	if err := s.Register(func(ctx context.Context, company string) {
//	    svc.Sync(ctx, company, roster.SyncOptions{})
//	}); err != nil {
//	    return err
//	}
//	s.Start()
//	defer s.Stop(context.Background())
package scheduler

package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roster-sync/core/config"
	"roster-sync/core/database"
	"roster-sync/core/logger"
	"roster-sync/core/metrics"
	"roster-sync/core/scheduler"
	"roster-sync/feature/roster/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the synchronization daemon",
	Long: `Synchronizes every configured company on start (unless disabled) and on each
cron schedule until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database and bring the schema up to date
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := repository.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}
		logg.Info("Connected to roster database", zap.String("name", cfg.Database.Name))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 4. Metrics (Optional)
		var rec *metrics.Recorder
		if cfg.Metrics.Enabled {
			rec = metrics.New()
			go func() {
				if err := metrics.Serve(ctx, cfg.Metrics.Listen, rec, logg); err != nil {
					logg.Error("Metrics listener failed", zap.Error(err))
				}
			}()
		}

		// 5. Build the service
		svc, err := newService(ctx, cfg, logg, db, rec)
		if err != nil {
			logg.Fatal("Failed to initialize synchronization", zap.Error(err))
		}

		// 6. Schedule
		sched, err := scheduler.New(cfg.Scheduler, logg)
		if err != nil {
			logg.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
		if err := sched.Register(svc.Job()); err != nil {
			logg.Fatal("Failed to register schedules", zap.Error(err))
		}
		sched.Start()
		logg.Info("Scheduler started",
			zap.Strings("companies", cfg.Scheduler.Companies),
			zap.Strings("schedules", cfg.Scheduler.Schedules),
			zap.Time("next_run", sched.Next(time.Now())),
		)

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down scheduler...")
		cancel()

		shutdownCtx, stop := context.WithTimeout(context.Background(), 30*time.Second)
		defer stop()
		if err := sched.Stop(shutdownCtx); err != nil {
			logg.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

package scheduler

// Config holds configuration for the synchronization trigger.
type Config struct {
	// Timezone is the IANA zone the cron specs are evaluated in.
	Timezone string `mapstructure:"timezone" default:"America/Santiago"`
	// Schedules are standard five field cron specs.
	Schedules []string `mapstructure:"schedules" default:"0 6 * * *,0 14 * * *,0 17 * * *"`
	// Companies are the company codes synchronized on every tick.
	Companies []string `mapstructure:"companies" default:"TRN,TIR"`
	// RunOnStart triggers every company once when the scheduler starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
}

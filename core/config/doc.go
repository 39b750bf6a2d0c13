// Package config provides configuration management for roster-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Source: personnel API URL, credentials, company tax ids and role filter
//   - Scheduler: cron specs, timezone, companies and run on start
//   - Database: MySQL connection details
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: Logging level and format
//   - Metrics: Prometheus listener
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Source.BaseURL)
package config

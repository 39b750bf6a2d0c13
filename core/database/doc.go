// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL connections based on the
// application's configuration.
//
// # Connect
//
// Connect opens the connection, applies pool settings and pings the server
// within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read a table definition with SHOW COLUMNS.
// The schema command uses them to verify that the people and events tables
// carry every column the roster models expect.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "people", []string{"external_id", "email"})
package database

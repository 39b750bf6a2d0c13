package repository

import (
	"roster-sync/core/database"
	"roster-sync/feature/roster/models"

	"gorm.io/gorm"
)

// CheckSchema reports the expected columns missing from the roster tables,
// keyed by table. An empty map means the schema is complete.
func CheckSchema(db *gorm.DB) (map[string][]string, error) {
	tables := []struct {
		name    string
		columns []string
	}{
		{models.Person{}.TableName(), models.PersonColumns},
		{models.Event{}.TableName(), models.EventColumns},
	}

	report := make(map[string][]string)
	for _, t := range tables {
		missing, err := database.MissingColumns(db, t.name, t.columns)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			report[t.name] = missing
		}
	}
	return report, nil
}

package reconcile

import (
	"testing"

	"roster-sync/feature/roster/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		category   models.Category
		descriptor string
		want       models.EventKind
	}{
		{"Absence", models.CategoryAbsence, "Permiso sin goce", models.EventAbsence},
		{"Vacation", models.CategoryVacation, "Vacaciones", models.EventVacation},
		{"Progressive Vacation", models.CategoryVacation, "Vacaciones Progresivas", models.EventVacation},
		{"Licencia In Absence", models.CategoryAbsence, "Licencia Médica", models.EventLeave},
		{"Licencia Overrides Vacation", models.CategoryVacation, "licencia maternal", models.EventLeave},
		{"Upper Case", models.CategoryAbsence, "LICENCIA", models.EventLeave},
		{"English License", models.CategoryVacation, "Sick License", models.EventLeave},
		{"Substring", models.CategoryAbsence, "sublicencias", models.EventLeave},
		{"Empty Absence", models.CategoryAbsence, "", models.EventAbsence},
		{"Empty Vacation", models.CategoryVacation, "", models.EventVacation},
		{"Unknown Bucket", models.Category("other"), "Permiso", models.EventAbsence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.category, tt.descriptor))
		})
	}
}

func TestClassify_LeaveWinsForEveryBucket(t *testing.T) {
	descriptors := []string{"licencia", "LiCeNcIa médica", "license", "work LICENSE"}
	buckets := []models.Category{models.CategoryAbsence, models.CategoryVacation}

	for _, d := range descriptors {
		for _, b := range buckets {
			assert.Equal(t, models.EventLeave, Classify(b, d), "descriptor=%q bucket=%q", d, b)
		}
	}
}

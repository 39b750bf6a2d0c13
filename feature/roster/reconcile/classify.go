package reconcile

import (
	"strings"

	"roster-sync/feature/roster/models"

	"golang.org/x/text/cases"
)

// leaveKeywords mark a descriptor as a leave regardless of its bucket.
var leaveKeywords = []string{"licencia", "license"}

// Classify maps a source bucket and descriptor to an event kind.
// A descriptor mentioning a license wins over the bucket; otherwise vacation
// buckets are vacations and everything else is an absence.
func Classify(category models.Category, descriptor string) models.EventKind {
	if descriptor != "" {
		folded := cases.Fold().String(descriptor)
		for _, kw := range leaveKeywords {
			if strings.Contains(folded, kw) {
				return models.EventLeave
			}
		}
	}
	if category == models.CategoryVacation {
		return models.EventVacation
	}
	return models.EventAbsence
}

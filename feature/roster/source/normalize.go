package source

import (
	"strings"
	"time"

	"roster-sync/core/utils"
	"roster-sync/feature/roster/models"
	"roster-sync/feature/roster/reconcile"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

const (
	descriptorVacation            = "Vacaciones"
	descriptorProgressiveVacation = "Vacaciones Progresivas"
)

// Normalizer turns API employees into reconcile records. It is not safe
// for concurrent use; create one per run.
type Normalizer struct {
	keywords []string
	fold     cases.Caser
	log      *zap.Logger
}

// NewNormalizer creates a Normalizer keeping employees whose position
// contains any of keywords. An empty keyword list keeps everyone.
func NewNormalizer(keywords []string, log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	n := &Normalizer{fold: cases.Fold(), log: log}
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			n.keywords = append(n.keywords, n.fold.String(k))
		}
	}
	return n
}

// Normalize filters employees by position and converts the rest. Employees
// without a tax id are returned as MalformedRecordError and left out of the
// records. A missing email is passed on as empty; only creating a new person
// needs it.
func (n *Normalizer) Normalize(company models.Company, employees []Employee) ([]reconcile.Record, []error) {
	records := make([]reconcile.Record, 0, len(employees))
	var rejected []error

	for i, e := range employees {
		if !n.matchesRole(e.Contract.Position) {
			continue
		}

		externalID := strings.TrimSpace(e.Profile.RUT)
		if externalID == "" {
			rejected = append(rejected, &MalformedRecordError{Index: i, Field: "rut", Reason: "is empty"})
			continue
		}

		log := n.log.With(zap.String("external_id", externalID))
		records = append(records, reconcile.Record{
			ExternalID: externalID,
			Email:      strings.TrimSpace(e.Profile.Email),
			FullName:   strings.TrimSpace(e.Profile.FullName),
			Role:       models.RoleDriver,
			Company:    company,
			StartDate:  optionalDate(log, "fechaingreso", e.Contract.StartDate),
			EndDate:    optionalDate(log, "fechatermino", e.Contract.EndDate),
			Ranges:     n.ranges(log, e),
		})
	}

	return records, rejected
}

func (n *Normalizer) matchesRole(position string) bool {
	if len(n.keywords) == 0 {
		return true
	}
	folded := n.fold.String(position)
	for _, k := range n.keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

func (n *Normalizer) ranges(log *zap.Logger, e Employee) []reconcile.Range {
	var out []reconcile.Range

	absences, err := e.AbsenceEntries()
	if err != nil {
		log.Warn("Dropping unreadable absence list", zap.Error(err))
	}
	for _, a := range absences {
		if r, ok := parseRange(log, models.CategoryAbsence, a.Type, a.From, a.To); ok {
			out = append(out, r)
		}
	}

	vacations, err := e.VacationEntries()
	if err != nil {
		log.Warn("Dropping unreadable vacation list", zap.Error(err))
	}
	for _, v := range vacations {
		switch {
		case v.Start != "" && v.End != "":
			if r, ok := parseRange(log, models.CategoryVacation, descriptorVacation, v.Start, v.End); ok {
				out = append(out, r)
			}
		case v.ProgressiveStart != "" && v.ProgressiveEnd != "":
			if r, ok := parseRange(log, models.CategoryVacation, descriptorProgressiveVacation, v.ProgressiveStart, v.ProgressiveEnd); ok {
				out = append(out, r)
			}
		}
	}

	return out
}

func parseRange(log *zap.Logger, category models.Category, descriptor, from, to string) (reconcile.Range, bool) {
	start, err := utils.ParseDMY(from)
	if err != nil {
		log.Warn("Dropping range with invalid start", zap.String("category", string(category)), zap.Error(err))
		return reconcile.Range{}, false
	}
	end, err := utils.ParseDMY(to)
	if err != nil {
		log.Warn("Dropping range with invalid end", zap.String("category", string(category)), zap.Error(err))
		return reconcile.Range{}, false
	}

	r := reconcile.Range{Category: category, Descriptor: descriptor, Start: start, End: end}
	if !r.Valid() {
		log.Warn("Dropping range that ends before it starts",
			zap.String("category", string(category)),
			zap.String("from", from),
			zap.String("to", to),
		)
		return reconcile.Range{}, false
	}
	return r, true
}

func optionalDate(log *zap.Logger, field, value string) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t, err := utils.ParseDMY(value)
	if err != nil {
		log.Warn("Ignoring invalid contract date", zap.String("field", field), zap.Error(err))
		return nil
	}
	return &t
}

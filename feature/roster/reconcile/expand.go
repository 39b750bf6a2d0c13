package reconcile

import (
	"time"

	"roster-sync/core/utils"
	"roster-sync/feature/roster/models"
)

// Expand produces one event per calendar day of the inclusive range
// [start, end]. A reversed range yields no events.
func Expand(personID uint, category models.Category, descriptor string, start, end time.Time) []models.Event {
	start, end = utils.Truncate(start), utils.Truncate(end)
	if start.After(end) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	events := make([]models.Event, 0, days)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		events = append(events, models.Event{
			PersonID:   personID,
			Date:       day,
			Kind:       Classify(category, descriptor),
			Descriptor: descriptor,
			RangeStart: start,
			RangeEnd:   end,
		})
	}
	return events
}

// ExpandAll expands each range independently and concatenates the results.
// Days covered by several ranges appear once per range.
func ExpandAll(personID uint, ranges []Range) []models.Event {
	var events []models.Event
	for _, r := range ranges {
		events = append(events, Expand(personID, r.Category, r.Descriptor, r.Start, r.End)...)
	}
	return events
}

// scopeFor builds the replace scope of a run for one person.
func scopeFor(ranges []Range, events []models.Event) ReplaceScope {
	var scope ReplaceScope

	seen := make(map[time.Time]struct{}, len(events))
	for _, e := range events {
		if _, ok := seen[e.Date]; ok {
			continue
		}
		seen[e.Date] = struct{}{}
		scope.Dates = append(scope.Dates, e.Date)
	}

	for _, r := range ranges {
		if !r.Valid() {
			continue
		}
		scope.Spans = append(scope.Spans, Span{Start: utils.Truncate(r.Start), End: utils.Truncate(r.End)})
	}
	return scope
}

package reconcile

import (
	"testing"
	"time"

	"roster-sync/core/utils"
	"roster-sync/feature/roster/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return utils.Date(2024, m, d)
}

func TestExpand_InclusiveRange(t *testing.T) {
	events := Expand(7, models.CategoryVacation, "Vacaciones", day(time.January, 5), day(time.January, 7))

	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, day(time.January, 5+i), e.Date)
		assert.Equal(t, uint(7), e.PersonID)
		assert.Equal(t, models.EventVacation, e.Kind)
		assert.Equal(t, "Vacaciones", e.Descriptor)
		assert.Equal(t, day(time.January, 5), e.RangeStart)
		assert.Equal(t, day(time.January, 7), e.RangeEnd)
	}
}

func TestExpand_SingleDay(t *testing.T) {
	events := Expand(1, models.CategoryAbsence, "Permiso", day(time.March, 3), day(time.March, 3))
	require.Len(t, events, 1)
	assert.Equal(t, models.EventAbsence, events[0].Kind)
}

func TestExpand_ReversedRangeIsEmpty(t *testing.T) {
	events := Expand(1, models.CategoryAbsence, "Permiso", day(time.January, 7), day(time.January, 5))
	assert.Empty(t, events)
}

func TestExpand_CrossesMonthAndLeapDay(t *testing.T) {
	events := Expand(1, models.CategoryAbsence, "Licencia", day(time.February, 28), day(time.March, 1))
	require.Len(t, events, 3)
	assert.Equal(t, day(time.February, 29), events[1].Date)
	for _, e := range events {
		assert.Equal(t, models.EventLeave, e.Kind)
	}
}

func TestExpand_IgnoresClockPart(t *testing.T) {
	start := time.Date(2024, time.January, 5, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 6, 1, 0, 0, 0, time.UTC)
	events := Expand(1, models.CategoryVacation, "Vacaciones", start, end)
	require.Len(t, events, 2)
	assert.Equal(t, day(time.January, 5), events[0].Date)
}

func TestExpandAll_KeepsOverlaps(t *testing.T) {
	ranges := []Range{
		{Category: models.CategoryAbsence, Descriptor: "Permiso", Start: day(time.January, 1), End: day(time.January, 3)},
		{Category: models.CategoryVacation, Descriptor: "Vacaciones", Start: day(time.January, 3), End: day(time.January, 4)},
		{Category: models.CategoryAbsence, Descriptor: "bad", Start: day(time.January, 9), End: day(time.January, 8)},
	}

	events := ExpandAll(2, ranges)
	require.Len(t, events, 5)

	onThird := 0
	for _, e := range events {
		if e.Date.Equal(day(time.January, 3)) {
			onThird++
		}
	}
	assert.Equal(t, 2, onThird)
}

func TestScopeFor(t *testing.T) {
	ranges := []Range{
		{Category: models.CategoryAbsence, Start: day(time.January, 1), End: day(time.January, 2)},
		{Category: models.CategoryVacation, Start: day(time.January, 2), End: day(time.January, 3)},
		{Category: models.CategoryAbsence, Start: day(time.January, 9), End: day(time.January, 8)},
	}

	scope := scopeFor(ranges, ExpandAll(1, ranges))

	assert.Equal(t, []time.Time{day(time.January, 1), day(time.January, 2), day(time.January, 3)}, scope.Dates)
	assert.Len(t, scope.Spans, 2)
	assert.False(t, scope.IsEmpty())
	assert.True(t, ReplaceScope{}.IsEmpty())
}

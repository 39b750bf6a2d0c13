package source

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"roster-sync/core/utils"
	"roster-sync/feature/roster/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func employee(position, rut, email string) Employee {
	return Employee{
		Contract: Contract{Position: position},
		Profile:  Profile{FullName: "Someone", RUT: rut, Email: email},
	}
}

func TestNormalize_RoleFilter(t *testing.T) {
	n := NewNormalizer([]string{"driver", " CONDUCTOR "}, nil)

	records, rejected := n.Normalize(models.CompanyTRN, []Employee{
		employee("Conductor de Bus", "1-9", "a@x"),
		employee("Administrativo", "2-7", "b@x"),
		employee("Bus DRIVER", "3-5", "c@x"),
	})

	assert.Empty(t, rejected)
	require.Len(t, records, 2)
	assert.Equal(t, "1-9", records[0].ExternalID)
	assert.Equal(t, "3-5", records[1].ExternalID)
	assert.Equal(t, models.RoleDriver, records[0].Role)
	assert.Equal(t, models.CompanyTRN, records[0].Company)
}

func TestNormalize_EmptyFilterKeepsAll(t *testing.T) {
	records, _ := NewNormalizer(nil, nil).Normalize(models.CompanyTIR, []Employee{
		employee("Administrativo", "2-7", "b@x"),
	})
	assert.Len(t, records, 1)
}

func TestNormalize_MissingIdentity(t *testing.T) {
	n := NewNormalizer(nil, nil)

	records, rejected := n.Normalize(models.CompanyTRN, []Employee{
		employee("Conductor", "", "a@x"),
		employee("Conductor", "2-7", "  "),
		employee("Conductor", "  ", "c@x"),
	})

	require.Len(t, records, 1)
	assert.Equal(t, "2-7", records[0].ExternalID)
	assert.Empty(t, records[0].Email)

	require.Len(t, rejected, 2)
	assert.True(t, errors.Is(rejected[0], ErrMalformedRecord))

	var malformed *MalformedRecordError
	require.ErrorAs(t, rejected[1], &malformed)
	assert.Equal(t, 2, malformed.Index)
	assert.Equal(t, "rut", malformed.Field)
}

func TestNormalize_MissingEmailKeepsRanges(t *testing.T) {
	e := employee("Conductor", "1-9", "")
	e.Absences = json.RawMessage(`[{"desde":"01/02/2024","hasta":"02/02/2024","tipo":"Permiso"}]`)

	records, rejected := NewNormalizer(nil, nil).Normalize(models.CompanyTRN, []Employee{e})

	assert.Empty(t, rejected)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Email)
	assert.Len(t, records[0].Ranges, 1)
}

func TestNormalize_ContractDates(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := employee("Conductor", "1-9", "a@x")
	e.Contract.StartDate = "1/3/2020"
	e.Contract.EndDate = "31/02/2024"

	records, _ := NewNormalizer(nil, zap.New(core)).Normalize(models.CompanyTRN, []Employee{e})

	require.Len(t, records, 1)
	require.NotNil(t, records[0].StartDate)
	assert.Equal(t, utils.Date(2020, time.March, 1), *records[0].StartDate)
	assert.Nil(t, records[0].EndDate)
	assert.Equal(t, 1, logs.FilterMessage("Ignoring invalid contract date").Len())
}

func TestNormalize_Ranges(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e := employee("Conductor", "1-9", "a@x")
	e.Absences = json.RawMessage(`[
		{"desde":"01/02/2024","hasta":"02/02/2024","tipo":"Licencia Medica"},
		{"desde":"xx","hasta":"02/02/2024","tipo":"Permiso"},
		{"desde":"10/02/2024","hasta":"05/02/2024","tipo":"Permiso"}
	]`)
	e.Vacation = json.RawMessage(`{"solicitudes":[
		{"inicio":"05/01/2024","termino":"07/01/2024"},
		{"progresivas_inicio":"10/03/2024","progresivas_termino":"11/03/2024"},
		{"inicio":"12/03/2024"}
	]}`)

	records, _ := NewNormalizer(nil, zap.New(core)).Normalize(models.CompanyTRN, []Employee{e})
	require.Len(t, records, 1)

	ranges := records[0].Ranges
	require.Len(t, ranges, 3)

	assert.Equal(t, models.CategoryAbsence, ranges[0].Category)
	assert.Equal(t, "Licencia Medica", ranges[0].Descriptor)
	assert.Equal(t, utils.Date(2024, time.February, 1), ranges[0].Start)

	assert.Equal(t, models.CategoryVacation, ranges[1].Category)
	assert.Equal(t, "Vacaciones", ranges[1].Descriptor)
	assert.Equal(t, utils.Date(2024, time.January, 7), ranges[1].End)

	assert.Equal(t, "Vacaciones Progresivas", ranges[2].Descriptor)

	assert.Equal(t, 2, logs.Len())
}

func TestEmployeeEntries_Placeholders(t *testing.T) {
	for _, raw := range []string{``, `null`, `"N/A"`, `""`} {
		e := Employee{Absences: json.RawMessage(raw), Vacation: json.RawMessage(raw)}

		absences, err := e.AbsenceEntries()
		assert.NoError(t, err, raw)
		assert.Empty(t, absences, raw)

		vacations, err := e.VacationEntries()
		assert.NoError(t, err, raw)
		assert.Empty(t, vacations, raw)
	}
}

func TestEmployeeEntries_Corrupt(t *testing.T) {
	e := Employee{Absences: json.RawMessage(`[{"desde":1}]`)}
	_, err := e.AbsenceEntries()
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	employees, err := Decode([]byte(employeeBody))
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Conductor", employees[0].Contract.Position)

	_, err = Decode([]byte("nope"))
	assert.Error(t, err)
}

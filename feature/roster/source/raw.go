package source

import (
	"bytes"
	"encoding/json"
)

type authRequest struct {
	User     string `json:"usuario"`
	Password string `json:"contrasena"`
}

type authResponse struct {
	Token string `json:"token"`
}

type employeeRequest struct {
	CompanyRUT string `json:"rut_empresa"`
	Movements  string `json:"movimientos_personal"`
}

type employeeResponse struct {
	Result []Employee `json:"result"`
}

// Employee is one entry of the API's employee list, as sent.
type Employee struct {
	Contract Contract `json:"contrato"`
	Profile  Profile  `json:"ficha"`
	// Absences is either a list of AbsenceEntry or the string "N/A".
	Absences json.RawMessage `json:"ausentismo"`
	Vacation json.RawMessage `json:"vacaciones"`
}

// Contract carries the position and contract dates.
type Contract struct {
	Position  string `json:"cargo"`
	StartDate string `json:"fechaingreso"`
	EndDate   string `json:"fechatermino"`
}

// Profile carries the identity fields.
type Profile struct {
	FullName string `json:"nombrecompleto"`
	RUT      string `json:"rut"`
	Email    string `json:"email"`
}

// AbsenceEntry is one absence range.
type AbsenceEntry struct {
	From string `json:"desde"`
	To   string `json:"hasta"`
	Type string `json:"tipo"`
}

// VacationEntry is one vacation request. Exactly one of the regular or
// progressive pairs is normally set.
type VacationEntry struct {
	Start            string `json:"inicio"`
	End              string `json:"termino"`
	ProgressiveStart string `json:"progresivas_inicio"`
	ProgressiveEnd   string `json:"progresivas_termino"`
}

type vacationBlock struct {
	Requests []VacationEntry `json:"solicitudes"`
}

// AbsenceEntries decodes the absence list. Placeholders such as "N/A",
// null or a missing field yield no entries.
func (e Employee) AbsenceEntries() ([]AbsenceEntry, error) {
	if !isList(e.Absences) {
		return nil, nil
	}
	var out []AbsenceEntry
	if err := json.Unmarshal(e.Absences, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VacationEntries decodes the vacation requests. Anything other than an
// object yields no entries.
func (e Employee) VacationEntries() ([]VacationEntry, error) {
	raw := bytes.TrimSpace(e.Vacation)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var block vacationBlock
	if err := json.Unmarshal(raw, &block); err != nil {
		return nil, err
	}
	return block.Requests, nil
}

func isList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

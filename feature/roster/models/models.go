package models

import (
	"strings"
	"time"
)

// Role is the access role of a person.
type Role string

const (
	RoleDriver   Role = "DRIVER"
	RoleAdmin    Role = "ADMIN"
	RoleReader   Role = "READER"
	RoleAppAdmin Role = "APP-ADMIN"
)

// Company is the code of an affiliated company.
type Company string

const (
	CompanyTRN Company = "TRN"
	CompanyTIR Company = "TIR"
)

// Companies lists every known company code.
var Companies = []Company{CompanyTRN, CompanyTIR}

// ParseCompany resolves a company code, ignoring case.
func ParseCompany(code string) (Company, bool) {
	c := Company(strings.ToUpper(strings.TrimSpace(code)))
	switch c {
	case CompanyTRN, CompanyTIR:
		return c, true
	default:
		return "", false
	}
}

// EventKind classifies a calendar event.
type EventKind string

const (
	EventAbsence  EventKind = "ABSENCE"
	EventVacation EventKind = "VACATION"
	EventLeave    EventKind = "LEAVE"
)

// Category is the structural bucket a source range came from.
type Category string

const (
	CategoryAbsence  Category = "absence"
	CategoryVacation Category = "vacation"
)

// Person is one employee as stored in the 'people' table.
// Email and PasswordHash are owned by the store once assigned and are never
// overwritten by a synchronization run.
type Person struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ExternalID   string     `gorm:"column:external_id;size:20;uniqueIndex;not null" json:"external_id"`
	Email        string     `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"column:full_name;size:255" json:"full_name"`
	Role         Role       `gorm:"column:role;size:16" json:"role"`
	Company      Company    `gorm:"column:company;size:8;index" json:"company"`
	PasswordHash string     `gorm:"column:password_hash;size:255" json:"-"`
	StartDate    *time.Time `gorm:"column:start_date;type:date" json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"column:end_date;type:date" json:"end_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// Event is one calendar day of absence, vacation or leave ('events' table).
// RangeStart and RangeEnd keep the inclusive source range the day was
// expanded from.
type Event struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PersonID   uint      `gorm:"column:person_id;not null;index:idx_events_person_date,priority:1" json:"person_id"`
	Date       time.Time `gorm:"column:date;type:date;not null;index:idx_events_person_date,priority:2" json:"date"`
	Kind       EventKind `gorm:"column:kind;size:16;not null" json:"kind"`
	Descriptor string    `gorm:"column:descriptor;size:255" json:"descriptor"`
	RangeStart time.Time `gorm:"column:range_start;type:date" json:"range_start"`
	RangeEnd   time.Time `gorm:"column:range_end;type:date" json:"range_end"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName explicitly sets the table name for GORM.
func (Event) TableName() string {
	return "events"
}

// PersonColumns are the columns the schema check expects on 'people'.
var PersonColumns = []string{
	"id", "external_id", "email", "full_name", "role", "company",
	"password_hash", "start_date", "end_date", "created_at", "updated_at",
}

// EventColumns are the columns the schema check expects on 'events'.
var EventColumns = []string{
	"id", "person_id", "date", "kind", "descriptor", "range_start", "range_end", "created_at",
}

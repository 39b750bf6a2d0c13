// Package utils provides small helpers shared across the roster-sync packages,
// mainly calendar-day handling for the DD/MM/YYYY dates the personnel source
// emits.
package utils

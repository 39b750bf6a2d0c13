// Package repository stores people and events with GORM.
//
// It implements reconcile.Repository over the 'people' and 'events' tables.
// Updates write an explicit column list so a synchronization can never touch
// the store-owned email and password_hash columns, even if a caller hands in a
// Person with different values.
package repository

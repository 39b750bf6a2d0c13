// Package models defines the roster data model: people, their calendar events,
// and the fixed enumerations (roles, companies, event kinds) they use.
package models

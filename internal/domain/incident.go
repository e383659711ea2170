// Package domain contains the core data model shared across packages.
package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Severity is the ordinal severity scale. SEV1 is the most severe.
type Severity string

const (
	SeveritySEV1 Severity = "SEV1"
	SeveritySEV2 Severity = "SEV2"
	SeveritySEV3 Severity = "SEV3"
	SeveritySEV4 Severity = "SEV4"
)

// Severities lists all severity values in declared order.
var Severities = []Severity{SeveritySEV1, SeveritySEV2, SeveritySEV3, SeveritySEV4}

// IsValid reports whether s is a known severity value.
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySEV1, SeveritySEV2, SeveritySEV3, SeveritySEV4:
		return true
	}
	return false
}

// Rank returns the position of s in the declared severity order,
// starting at 0 for SEV1. Unknown values sort last.
func (s Severity) Rank() int {
	for i, v := range Severities {
		if s == v {
			return i
		}
	}
	return len(Severities)
}

// Status is the lifecycle state of an incident. Any status may be set
// to any other; there is no enforced transition order.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusMitigated Status = "MITIGATED"
	StatusResolved  Status = "RESOLVED"
)

// Statuses lists all status values in declared order.
var Statuses = []Status{StatusOpen, StatusMitigated, StatusResolved}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusMitigated, StatusResolved:
		return true
	}
	return false
}

// Rank returns the position of s in the declared status order.
// Unknown values sort last.
func (s Status) Rank() int {
	for i, v := range Statuses {
		if s == v {
			return i
		}
	}
	return len(Statuses)
}

var titleCaser = cases.Title(language.English)

// Label returns a human-readable form of the status, e.g. "Mitigated".
func (s Status) Label() string {
	return titleCaser.String(strings.ToLower(string(s)))
}

// Incident is a record describing a service disruption event.
// The store owns persisted records; id and createdAt are immutable,
// updatedAt is refreshed by the store on every successful update.
type Incident struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Service   string    `json:"service"`
	Severity  Severity  `json:"severity"`
	Status    Status    `json:"status"`
	Owner     *string   `json:"owner"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

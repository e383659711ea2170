package incidents

import (
	"context"

	"github.com/bissquit/incident-board/internal/domain"
)

// Repository defines the interface for incident storage.
type Repository interface {
	CreateIncident(ctx context.Context, incident *domain.Incident) error
	GetIncident(ctx context.Context, id string) (*domain.Incident, error)
	ListIncidents(ctx context.Context, query ListQuery) ([]*domain.Incident, int, error)
	UpdateIncident(ctx context.Context, id string, fields UpdateFields) (*domain.Incident, error)
}

// SortField identifies a column incidents can be sorted by.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortBySeverity  SortField = "severity"
	SortByStatus    SortField = "status"
)

// IsValid reports whether f is a supported sort field.
func (f SortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortBySeverity, SortByStatus:
		return true
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether o is a supported sort order.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// ListQuery holds filter, sort and window options for listing incidents.
// All filters combine with AND; Search matches title OR summary as a
// single AND-term. Severity and status sort by declared enum order.
type ListQuery struct {
	Search    string
	Severity  *domain.Severity
	Status    *domain.Status
	Service   string
	SortBy    SortField
	SortOrder SortOrder
	Limit     int
	Offset    int
}

// UpdateFields holds a partial update. Nil fields are left unchanged.
// The store refreshes updatedAt on every update regardless of which
// fields are set.
type UpdateFields struct {
	Title    *string
	Service  *string
	Severity *domain.Severity
	Status   *domain.Status
	Owner    *string
	Summary  *string
}

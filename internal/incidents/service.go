package incidents

import (
	"context"
	"fmt"

	"github.com/bissquit/incident-board/internal/domain"
	"github.com/google/uuid"
)

// Pagination defaults and limits.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Service implements incident business logic.
type Service struct {
	repo Repository
}

// NewService creates a new incident service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateIncidentInput holds data for creating an incident.
type CreateIncidentInput struct {
	Title    string
	Service  string
	Severity domain.Severity
	Status   domain.Status
	Owner    *string
	Summary  *string
}

// UpdateIncidentInput holds a partial update. Nil fields stay unchanged.
type UpdateIncidentInput struct {
	Title    *string
	Service  *string
	Severity *domain.Severity
	Status   *domain.Status
	Owner    *string
	Summary  *string
}

// ListIncidentsInput holds listing parameters before defaults are applied.
type ListIncidentsInput struct {
	Page      int
	Limit     int
	Search    string
	Severity  *domain.Severity
	Status    *domain.Status
	Service   string
	SortBy    SortField
	SortOrder SortOrder
}

// IncidentPage is one page of a listing plus the total count matching
// the filters across all pages.
type IncidentPage struct {
	Data       []*domain.Incident `json:"data"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Limit      int                `json:"limit"`
}

// CreateIncident creates a new incident with validation. The store
// assigns id, createdAt and updatedAt.
func (s *Service) CreateIncident(ctx context.Context, input CreateIncidentInput) (*domain.Incident, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.Service == "" {
		return nil, fmt.Errorf("%w: service is required", ErrInvalidInput)
	}
	if !input.Severity.IsValid() {
		return nil, fmt.Errorf("%w: invalid severity %q", ErrInvalidInput, input.Severity)
	}
	if !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, input.Status)
	}

	incident := &domain.Incident{
		Title:    input.Title,
		Service:  input.Service,
		Severity: input.Severity,
		Status:   input.Status,
		Owner:    input.Owner,
		Summary:  input.Summary,
	}

	if err := s.repo.CreateIncident(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}
	return incident, nil
}

// GetIncident retrieves an incident by id.
func (s *Service) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrIncidentNotFound
	}
	return s.repo.GetIncident(ctx, id)
}

// UpdateIncident applies a partial update. Provided enum fields are
// validated; updatedAt is refreshed even when nothing else changes.
func (s *Service) UpdateIncident(ctx context.Context, id string, input UpdateIncidentInput) (*domain.Incident, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrIncidentNotFound
	}
	if input.Title != nil && *input.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	if input.Service != nil && *input.Service == "" {
		return nil, fmt.Errorf("%w: service must not be empty", ErrInvalidInput)
	}
	if input.Severity != nil && !input.Severity.IsValid() {
		return nil, fmt.Errorf("%w: invalid severity %q", ErrInvalidInput, *input.Severity)
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *input.Status)
	}

	fields := UpdateFields{
		Title:    input.Title,
		Service:  input.Service,
		Severity: input.Severity,
		Status:   input.Status,
		Owner:    input.Owner,
		Summary:  input.Summary,
	}

	incident, err := s.repo.UpdateIncident(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// ListIncidents returns one page of incidents matching the filters,
// applying defaults for missing pagination and sort parameters.
// A page beyond the last returns empty data with the correct total.
func (s *Service) ListIncidents(ctx context.Context, input ListIncidentsInput) (*IncidentPage, error) {
	page := input.Page
	if page == 0 {
		page = DefaultPage
	}
	limit := input.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be a positive integer", ErrInvalidInput)
	}
	if limit < 1 {
		return nil, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidInput)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	if !sortBy.IsValid() {
		return nil, fmt.Errorf("%w: invalid sortBy %q", ErrInvalidInput, sortBy)
	}
	sortOrder := input.SortOrder
	if sortOrder == "" {
		sortOrder = SortDesc
	}
	if !sortOrder.IsValid() {
		return nil, fmt.Errorf("%w: invalid sortOrder %q", ErrInvalidInput, sortOrder)
	}
	if input.Severity != nil && !input.Severity.IsValid() {
		return nil, fmt.Errorf("%w: invalid severity %q", ErrInvalidInput, *input.Severity)
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *input.Status)
	}

	query := ListQuery{
		Search:    input.Search,
		Severity:  input.Severity,
		Status:    input.Status,
		Service:   input.Service,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	data, total, err := s.repo.ListIncidents(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	return &IncidentPage{
		Data:       data,
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
		Limit:      limit,
	}, nil
}

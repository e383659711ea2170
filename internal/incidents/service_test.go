package incidents

import (
	"context"
	"errors"
	"testing"

	"github.com/bissquit/incident-board/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	incidents map[string]*domain.Incident

	createErr error
	listErr   error

	lastListQuery    ListQuery
	listResult       []*domain.Incident
	listTotal        int
	lastUpdateFields UpdateFields
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		incidents: make(map[string]*domain.Incident),
	}
}

func (m *mockRepository) CreateIncident(_ context.Context, incident *domain.Incident) error {
	if m.createErr != nil {
		return m.createErr
	}
	incident.ID = uuid.NewString()
	m.incidents[incident.ID] = incident
	return nil
}

func (m *mockRepository) GetIncident(_ context.Context, id string) (*domain.Incident, error) {
	if incident, ok := m.incidents[id]; ok {
		return incident, nil
	}
	return nil, ErrIncidentNotFound
}

func (m *mockRepository) ListIncidents(_ context.Context, query ListQuery) ([]*domain.Incident, int, error) {
	m.lastListQuery = query
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockRepository) UpdateIncident(_ context.Context, id string, fields UpdateFields) (*domain.Incident, error) {
	incident, ok := m.incidents[id]
	if !ok {
		return nil, ErrIncidentNotFound
	}
	m.lastUpdateFields = fields
	if fields.Title != nil {
		incident.Title = *fields.Title
	}
	if fields.Status != nil {
		incident.Status = *fields.Status
	}
	return incident, nil
}

func strPtr(s string) *string { return &s }

func TestCreateIncident_Success(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	incident, err := service.CreateIncident(context.Background(), CreateIncidentInput{
		Title:    "API latency spike",
		Service:  "Payment Service",
		Severity: domain.SeveritySEV2,
		Status:   domain.StatusOpen,
		Owner:    strPtr("alice"),
	})

	require.NoError(t, err)
	require.NotNil(t, incident)
	assert.NotEmpty(t, incident.ID)
	assert.Equal(t, "API latency spike", incident.Title)
	assert.Equal(t, domain.SeveritySEV2, incident.Severity)
	require.NotNil(t, incident.Owner)
	assert.Equal(t, "alice", *incident.Owner)
	assert.Nil(t, incident.Summary)
}

func TestCreateIncident_Validation(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	tests := []struct {
		name  string
		input CreateIncidentInput
	}{
		{
			name: "missing title",
			input: CreateIncidentInput{
				Service:  "Payment Service",
				Severity: domain.SeveritySEV2,
				Status:   domain.StatusOpen,
			},
		},
		{
			name: "missing service",
			input: CreateIncidentInput{
				Title:    "API latency spike",
				Severity: domain.SeveritySEV2,
				Status:   domain.StatusOpen,
			},
		},
		{
			name: "unknown severity",
			input: CreateIncidentInput{
				Title:    "API latency spike",
				Service:  "Payment Service",
				Severity: domain.Severity("SEV9"),
				Status:   domain.StatusOpen,
			},
		},
		{
			name: "unknown status",
			input: CreateIncidentInput{
				Title:    "API latency spike",
				Service:  "Payment Service",
				Severity: domain.SeveritySEV2,
				Status:   domain.Status("CLOSED"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incident, err := service.CreateIncident(context.Background(), tt.input)
			assert.Nil(t, incident)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, repo.incidents, "no incident should be persisted")
}

func TestCreateIncident_RepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.createErr = errors.New("connection refused")
	service := NewService(repo)

	incident, err := service.CreateIncident(context.Background(), CreateIncidentInput{
		Title:    "API latency spike",
		Service:  "Payment Service",
		Severity: domain.SeveritySEV2,
		Status:   domain.StatusOpen,
	})

	assert.Nil(t, incident)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestGetIncident_MalformedIDIsNotFound(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	incident, err := service.GetIncident(context.Background(), "not-a-uuid")

	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestGetIncident_UnknownIDIsNotFound(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	incident, err := service.GetIncident(context.Background(), uuid.NewString())

	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestUpdateIncident_PartialUpdate(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	created, err := service.CreateIncident(context.Background(), CreateIncidentInput{
		Title:    "API latency spike",
		Service:  "Payment Service",
		Severity: domain.SeveritySEV2,
		Status:   domain.StatusOpen,
	})
	require.NoError(t, err)

	status := domain.StatusMitigated
	updated, err := service.UpdateIncident(context.Background(), created.ID, UpdateIncidentInput{
		Status: &status,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusMitigated, updated.Status)
	assert.Equal(t, "API latency spike", updated.Title, "omitted fields stay unchanged")
	assert.Nil(t, repo.lastUpdateFields.Title)
	assert.Nil(t, repo.lastUpdateFields.Severity)
}

func TestUpdateIncident_Validation(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	badSeverity := domain.Severity("SEV9")
	badStatus := domain.Status("CLOSED")

	tests := []struct {
		name  string
		input UpdateIncidentInput
	}{
		{name: "empty title", input: UpdateIncidentInput{Title: strPtr("")}},
		{name: "empty service", input: UpdateIncidentInput{Service: strPtr("")}},
		{name: "unknown severity", input: UpdateIncidentInput{Severity: &badSeverity}},
		{name: "unknown status", input: UpdateIncidentInput{Status: &badStatus}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incident, err := service.UpdateIncident(context.Background(), uuid.NewString(), tt.input)
			assert.Nil(t, incident)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUpdateIncident_MalformedIDIsNotFound(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	incident, err := service.UpdateIncident(context.Background(), "42", UpdateIncidentInput{})

	assert.Nil(t, incident)
	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestListIncidents_Defaults(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	page, err := service.ListIncidents(context.Background(), ListIncidentsInput{})

	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page.Page)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.Equal(t, DefaultLimit, repo.lastListQuery.Limit)
	assert.Equal(t, 0, repo.lastListQuery.Offset)
	assert.Equal(t, SortByCreatedAt, repo.lastListQuery.SortBy)
	assert.Equal(t, SortDesc, repo.lastListQuery.SortOrder)
}

func TestListIncidents_PaginationMath(t *testing.T) {
	repo := newMockRepository()
	repo.listTotal = 42
	service := NewService(repo)

	page, err := service.ListIncidents(context.Background(), ListIncidentsInput{Page: 3, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastListQuery.Offset)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 5, page.TotalPages, "total pages rounds up")
	assert.Equal(t, 3, page.Page)
}

func TestListIncidents_TotalPagesExactMultiple(t *testing.T) {
	repo := newMockRepository()
	repo.listTotal = 40
	service := NewService(repo)

	page, err := service.ListIncidents(context.Background(), ListIncidentsInput{Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalPages)
}

func TestListIncidents_LimitCapped(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	page, err := service.ListIncidents(context.Background(), ListIncidentsInput{Limit: 1000})

	require.NoError(t, err)
	assert.Equal(t, MaxLimit, page.Limit)
	assert.Equal(t, MaxLimit, repo.lastListQuery.Limit)
}

func TestListIncidents_RejectsInvalidInput(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	badSeverity := domain.Severity("SEV9")

	tests := []struct {
		name  string
		input ListIncidentsInput
	}{
		{name: "negative page", input: ListIncidentsInput{Page: -1}},
		{name: "negative limit", input: ListIncidentsInput{Limit: -5}},
		{name: "unknown sort field", input: ListIncidentsInput{SortBy: SortField("owner")}},
		{name: "unknown sort order", input: ListIncidentsInput{SortOrder: SortOrder("sideways")}},
		{name: "unknown severity filter", input: ListIncidentsInput{Severity: &badSeverity}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := service.ListIncidents(context.Background(), tt.input)
			assert.Nil(t, page)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestListIncidents_FiltersPassedThrough(t *testing.T) {
	repo := newMockRepository()
	service := NewService(repo)

	severity := domain.SeveritySEV1
	status := domain.StatusOpen
	_, err := service.ListIncidents(context.Background(), ListIncidentsInput{
		Search:    "timeout",
		Severity:  &severity,
		Status:    &status,
		Service:   "payment",
		SortBy:    SortBySeverity,
		SortOrder: SortAsc,
	})

	require.NoError(t, err)
	q := repo.lastListQuery
	assert.Equal(t, "timeout", q.Search)
	require.NotNil(t, q.Severity)
	assert.Equal(t, domain.SeveritySEV1, *q.Severity)
	require.NotNil(t, q.Status)
	assert.Equal(t, domain.StatusOpen, *q.Status)
	assert.Equal(t, "payment", q.Service)
	assert.Equal(t, SortBySeverity, q.SortBy)
	assert.Equal(t, SortAsc, q.SortOrder)
}

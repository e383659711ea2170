// Package incidents provides HTTP handlers and business logic for
// incident tracking: create, point lookup, partial update and
// filtered/sorted/paginated listing.
package incidents

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/bissquit/incident-board/internal/domain"
	"github.com/bissquit/incident-board/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service) *Handler {
	v := validator.New()
	// Report validation failures by json field name so error details
	// match the request payload.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		service:   service,
		validator: v,
	}
}

// RegisterRoutes registers all HTTP routes for the incidents module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.ListIncidents)
		r.Post("/", h.CreateIncident)
		r.Get("/{id}", h.GetIncident)
		r.Patch("/{id}", h.UpdateIncident)
	})
}

// CreateIncidentRequest represents the request body for creating an incident.
type CreateIncidentRequest struct {
	Title    string  `json:"title" validate:"required,min=1"`
	Service  string  `json:"service" validate:"required,min=1"`
	Severity string  `json:"severity" validate:"required,oneof=SEV1 SEV2 SEV3 SEV4"`
	Status   string  `json:"status" validate:"required,oneof=OPEN MITIGATED RESOLVED"`
	Owner    *string `json:"owner"`
	Summary  *string `json:"summary"`
}

// ToInput converts the request to a service input.
func (r *CreateIncidentRequest) ToInput() CreateIncidentInput {
	return CreateIncidentInput{
		Title:    r.Title,
		Service:  r.Service,
		Severity: domain.Severity(r.Severity),
		Status:   domain.Status(r.Status),
		Owner:    r.Owner,
		Summary:  r.Summary,
	}
}

// UpdateIncidentRequest represents the request body for a partial update.
// Unknown fields in the body are ignored; omitted fields stay unchanged.
type UpdateIncidentRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1"`
	Service  *string `json:"service" validate:"omitempty,min=1"`
	Severity *string `json:"severity" validate:"omitempty,oneof=SEV1 SEV2 SEV3 SEV4"`
	Status   *string `json:"status" validate:"omitempty,oneof=OPEN MITIGATED RESOLVED"`
	Owner    *string `json:"owner"`
	Summary  *string `json:"summary"`
}

// ToInput converts the request to a service input.
func (r *UpdateIncidentRequest) ToInput() UpdateIncidentInput {
	input := UpdateIncidentInput{
		Title:   r.Title,
		Service: r.Service,
		Owner:   r.Owner,
		Summary: r.Summary,
	}
	if r.Severity != nil {
		sev := domain.Severity(*r.Severity)
		input.Severity = &sev
	}
	if r.Status != nil {
		st := domain.Status(*r.Status)
		input.Status = &st
	}
	return input
}

// CreateIncident handles POST /incidents.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	incident, err := h.service.CreateIncident(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, incident)
}

// GetIncident handles GET /incidents/{id}.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	incident, err := h.service.GetIncident(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, incident)
}

// UpdateIncident handles PATCH /incidents/{id}.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	incident, err := h.service.UpdateIncident(r.Context(), id, req.ToInput())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, incident)
}

// ListIncidents handles GET /incidents.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	input, err := parseListInput(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.ListIncidents(r.Context(), *input)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, page)
}

// parseListInput parses listing query parameters, rejecting malformed
// enum values and non-positive page/limit. Missing parameters fall back
// to the service defaults.
func parseListInput(r *http.Request) (*ListIncidentsInput, error) {
	q := r.URL.Query()
	input := &ListIncidentsInput{
		Search:  q.Get("search"),
		Service: q.Get("service"),
	}

	if v := q.Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, errors.New("page must be a positive integer")
		}
		input.Page = parsed
	}

	if v := q.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, errors.New("limit must be a positive integer")
		}
		input.Limit = parsed
	}

	if v := q.Get("severity"); v != "" {
		sev := domain.Severity(v)
		if !sev.IsValid() {
			return nil, errors.New("invalid severity filter")
		}
		input.Severity = &sev
	}

	if v := q.Get("status"); v != "" {
		st := domain.Status(v)
		if !st.IsValid() {
			return nil, errors.New("invalid status filter")
		}
		input.Status = &st
	}

	if v := q.Get("sortBy"); v != "" {
		field := SortField(v)
		if !field.IsValid() {
			return nil, errors.New("invalid sortBy, must be 'createdAt', 'severity' or 'status'")
		}
		input.SortBy = field
	}

	if v := q.Get("sortOrder"); v != "" {
		order := SortOrder(v)
		if !order.IsValid() {
			return nil, errors.New("invalid sortOrder, must be 'asc' or 'desc'")
		}
		input.SortOrder = order
	}

	return input, nil
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrIncidentNotFound, Status: http.StatusNotFound},
		{Error: ErrInvalidInput, Status: http.StatusBadRequest},
	})
}

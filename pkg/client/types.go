package client

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Incident mirrors the API representation of an incident record.
type Incident struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Service   string    `json:"service"`
	Severity  string    `json:"severity"`
	Status    string    `json:"status"`
	Owner     *string   `json:"owner"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IncidentPage is one page of a listing plus the total count matching
// the filters across all pages.
type IncidentPage struct {
	Data       []Incident `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Limit      int        `json:"limit"`
}

// CreateIncidentInput is the body for creating an incident.
type CreateIncidentInput struct {
	Title    string  `json:"title"`
	Service  string  `json:"service"`
	Severity string  `json:"severity"`
	Status   string  `json:"status"`
	Owner    *string `json:"owner,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

// UpdateIncidentInput is the body for a partial update. Nil fields are
// omitted and stay unchanged server-side.
type UpdateIncidentInput struct {
	Title    *string `json:"title,omitempty"`
	Service  *string `json:"service,omitempty"`
	Severity *string `json:"severity,omitempty"`
	Status   *string `json:"status,omitempty"`
	Owner    *string `json:"owner,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

// ListOptions holds listing parameters. Zero values are omitted from
// the request and fall back to server defaults.
type ListOptions struct {
	Page      int
	Limit     int
	Search    string
	Severity  string
	Status    string
	Service   string
	SortBy    string
	SortOrder string
}

// values renders the options as query parameters. url.Values.Encode
// sorts keys, so the encoding doubles as a canonical cache key.
func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		v.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Search != "" {
		v.Set("search", o.Search)
	}
	if o.Severity != "" {
		v.Set("severity", o.Severity)
	}
	if o.Status != "" {
		v.Set("status", o.Status)
	}
	if o.Service != "" {
		v.Set("service", o.Service)
	}
	if o.SortBy != "" {
		v.Set("sortBy", o.SortBy)
	}
	if o.SortOrder != "" {
		v.Set("sortOrder", o.SortOrder)
	}
	return v
}

// ErrNotFound is returned when the requested incident does not exist.
var ErrNotFound = errors.New("incident not found")

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for rejected input, with per-field detail
// when the server provides it.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%d invalid fields)", e.Message, len(e.Fields))
}

// APIError is a non-validation failure response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

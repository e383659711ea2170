// Package postgres provides the PostgreSQL implementation of the
// incidents repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bissquit/incident-board/internal/domain"
	"github.com/bissquit/incident-board/internal/incidents"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const incidentColumns = "id, title, service, severity, status, owner, summary, created_at, updated_at"

// Repository implements incidents.Repository using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateIncident persists a new incident. The database assigns id,
// created_at and updated_at; both timestamps come from the same
// statement clock so they are equal at creation.
func (r *Repository) CreateIncident(ctx context.Context, incident *domain.Incident) error {
	query := `
		INSERT INTO incidents (title, service, severity, status, owner, summary)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Service,
		incident.Severity,
		incident.Status,
		incident.Owner,
		incident.Summary,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

// GetIncident retrieves an incident by id.
func (r *Repository) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1`

	var incident domain.Incident
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Title,
		&incident.Service,
		&incident.Severity,
		&incident.Status,
		&incident.Owner,
		&incident.Summary,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, incidents.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}
	return &incident, nil
}

// ListIncidents retrieves one window of incidents matching the filters
// plus the total count across all windows. The count query shares the
// WHERE clause so total always corresponds to the filters.
func (r *Repository) ListIncidents(ctx context.Context, query incidents.ListQuery) ([]*domain.Incident, int, error) {
	where, args := buildListWhere(query)

	var total int
	countQuery := `SELECT COUNT(*) FROM incidents` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count incidents: %w", err)
	}

	listQuery := `SELECT ` + incidentColumns + ` FROM incidents` + where +
		` ORDER BY ` + orderClause(query.SortBy, query.SortOrder)

	listArgs := args
	if query.Limit > 0 {
		listArgs = append(listArgs, query.Limit)
		listQuery += fmt.Sprintf(" LIMIT $%d", len(listArgs))
	}
	if query.Offset > 0 {
		listArgs = append(listArgs, query.Offset)
		listQuery += fmt.Sprintf(" OFFSET $%d", len(listArgs))
	}

	rows, err := r.db.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Incident, 0)
	for rows.Next() {
		var incident domain.Incident
		err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Service,
			&incident.Severity,
			&incident.Status,
			&incident.Owner,
			&incident.Summary,
			&incident.CreatedAt,
			&incident.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan incident: %w", err)
		}
		result = append(result, &incident)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list incidents: %w", err)
	}

	return result, total, nil
}

// UpdateIncident applies a partial update. Nil fields are left
// unchanged; updated_at is always refreshed.
func (r *Repository) UpdateIncident(ctx context.Context, id string, fields incidents.UpdateFields) (*domain.Incident, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Title != nil {
		appendSet("title", *fields.Title)
	}
	if fields.Service != nil {
		appendSet("service", *fields.Service)
	}
	if fields.Severity != nil {
		appendSet("severity", *fields.Severity)
	}
	if fields.Status != nil {
		appendSet("status", *fields.Status)
	}
	if fields.Owner != nil {
		appendSet("owner", *fields.Owner)
	}
	if fields.Summary != nil {
		appendSet("summary", *fields.Summary)
	}

	query := `UPDATE incidents SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + incidentColumns

	var incident domain.Incident
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&incident.ID,
		&incident.Title,
		&incident.Service,
		&incident.Severity,
		&incident.Status,
		&incident.Owner,
		&incident.Summary,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, incidents.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("update incident: %w", err)
	}
	return &incident, nil
}

// buildListWhere folds the query filters into a single AND-combined
// WHERE clause. Each filter contributes one immutable predicate; the
// search term is an OR over title and summary but counts as a single
// AND-term alongside the rest.
func buildListWhere(query incidents.ListQuery) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if query.Search != "" {
		args = append(args, "%"+query.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR summary ILIKE $%d)", n, n))
	}
	if query.Severity != nil {
		args = append(args, *query.Severity)
		conds = append(conds, fmt.Sprintf("severity = $%d", len(args)))
	}
	if query.Status != nil {
		args = append(args, *query.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if query.Service != "" {
		args = append(args, "%"+query.Service+"%")
		conds = append(conds, fmt.Sprintf("service ILIKE $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause builds the ORDER BY expression for a validated sort.
// Severity and status order by declared enum rank rather than
// alphabetically; id breaks ties so repeated reads are stable.
func orderClause(sortBy incidents.SortField, order incidents.SortOrder) string {
	dir := "DESC"
	if order == incidents.SortAsc {
		dir = "ASC"
	}

	switch sortBy {
	case incidents.SortBySeverity:
		return rankExpr("severity", severityRanks()) + " " + dir + ", id ASC"
	case incidents.SortByStatus:
		return rankExpr("status", statusRanks()) + " " + dir + ", id ASC"
	default:
		return "created_at " + dir + ", id ASC"
	}
}

// rankExpr renders a CASE expression mapping enum values to their
// declared rank.
func rankExpr(column string, ranks []string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, v := range ranks {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", v, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(ranks))
	return b.String()
}

func severityRanks() []string {
	values := make([]string, len(domain.Severities))
	for i, s := range domain.Severities {
		values[i] = string(s)
	}
	return values
}

func statusRanks() []string {
	values := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		values[i] = string(s)
	}
	return values
}

package postgres

import (
	"testing"

	"github.com/bissquit/incident-board/internal/domain"
	"github.com/bissquit/incident-board/internal/incidents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListWhere_NoFilters(t *testing.T) {
	where, args := buildListWhere(incidents.ListQuery{})

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildListWhere_SearchIsSingleTerm(t *testing.T) {
	where, args := buildListWhere(incidents.ListQuery{Search: "timeout"})

	assert.Equal(t, " WHERE (title ILIKE $1 OR summary ILIKE $1)", where)
	require.Len(t, args, 1)
	assert.Equal(t, "%timeout%", args[0])
}

func TestBuildListWhere_AllFiltersCombineWithAND(t *testing.T) {
	severity := domain.SeveritySEV1
	status := domain.StatusOpen
	where, args := buildListWhere(incidents.ListQuery{
		Search:   "timeout",
		Severity: &severity,
		Status:   &status,
		Service:  "payment",
	})

	assert.Equal(t,
		" WHERE (title ILIKE $1 OR summary ILIKE $1) AND severity = $2 AND status = $3 AND service ILIKE $4",
		where)
	require.Len(t, args, 4)
	assert.Equal(t, "%timeout%", args[0])
	assert.Equal(t, domain.SeveritySEV1, args[1])
	assert.Equal(t, domain.StatusOpen, args[2])
	assert.Equal(t, "%payment%", args[3])
}

func TestBuildListWhere_PlaceholdersStayOrdered(t *testing.T) {
	// Placeholder numbering must follow argument order even when the
	// leading filters are absent.
	status := domain.StatusResolved
	where, args := buildListWhere(incidents.ListQuery{
		Status:  &status,
		Service: "auth",
	})

	assert.Equal(t, " WHERE status = $1 AND service ILIKE $2", where)
	assert.Len(t, args, 2)
}

func TestOrderClause_CreatedAt(t *testing.T) {
	assert.Equal(t, "created_at DESC, id ASC",
		orderClause(incidents.SortByCreatedAt, incidents.SortDesc))
	assert.Equal(t, "created_at ASC, id ASC",
		orderClause(incidents.SortByCreatedAt, incidents.SortAsc))
}

func TestOrderClause_SeverityUsesEnumRank(t *testing.T) {
	clause := orderClause(incidents.SortBySeverity, incidents.SortAsc)

	assert.Equal(t,
		"CASE severity WHEN 'SEV1' THEN 0 WHEN 'SEV2' THEN 1 WHEN 'SEV3' THEN 2 WHEN 'SEV4' THEN 3 ELSE 4 END ASC, id ASC",
		clause)
}

func TestOrderClause_StatusUsesLifecycleRank(t *testing.T) {
	// MITIGATED sorts between OPEN and RESOLVED, not alphabetically.
	clause := orderClause(incidents.SortByStatus, incidents.SortDesc)

	assert.Equal(t,
		"CASE status WHEN 'OPEN' THEN 0 WHEN 'MITIGATED' THEN 1 WHEN 'RESOLVED' THEN 2 ELSE 3 END DESC, id ASC",
		clause)
}

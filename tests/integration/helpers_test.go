//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bissquit/incident-board/internal/testutil"
	"github.com/stretchr/testify/require"
)

// incidentResponse mirrors the API representation of an incident.
type incidentResponse struct {
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

// pageResponse mirrors one page of the incident listing.
type pageResponse struct {
	Data       []incidentResponse `json:"data"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
	Limit      int                `json:"limit"`
}

// errorResponse mirrors the API error envelope.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// truncateIncidents empties the incidents table so tests start clean.
func truncateIncidents(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec(context.Background(), "TRUNCATE incidents")
	require.NoError(t, err)
}

// createIncident creates an incident via the API and fails the test on
// any non-201 response.
func createIncident(t *testing.T, client *testutil.Client, body map[string]any) incidentResponse {
	t.Helper()

	resp, err := client.POST("/api/incidents", body)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var incident incidentResponse
	testutil.DecodeJSON(t, resp, &incident)
	return incident
}

// listIncidents fetches one page of incidents and fails on non-200.
func listIncidents(t *testing.T, client *testutil.Client, query string) pageResponse {
	t.Helper()

	path := "/api/incidents"
	if query != "" {
		path += "?" + query
	}
	resp, err := client.GET(path)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page pageResponse
	testutil.DecodeJSON(t, resp, &page)
	return page
}

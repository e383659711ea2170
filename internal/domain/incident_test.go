package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity_IsValid(t *testing.T) {
	for _, s := range Severities {
		assert.True(t, s.IsValid(), "severity %q should be valid", s)
	}
	assert.False(t, Severity("SEV5").IsValid())
	assert.False(t, Severity("sev1").IsValid())
	assert.False(t, Severity("").IsValid())
}

func TestSeverity_Rank_FollowsDeclaredOrder(t *testing.T) {
	assert.Equal(t, 0, SeveritySEV1.Rank())
	assert.Equal(t, 1, SeveritySEV2.Rank())
	assert.Equal(t, 2, SeveritySEV3.Rank())
	assert.Equal(t, 3, SeveritySEV4.Rank())

	// Unknown severities sort after every known one.
	assert.Equal(t, len(Severities), Severity("SEV9").Rank())
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.IsValid(), "status %q should be valid", s)
	}
	assert.False(t, Status("CLOSED").IsValid())
	assert.False(t, Status("open").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatus_Rank_FollowsDeclaredOrder(t *testing.T) {
	// The lifecycle order is not alphabetical: MITIGATED ranks between
	// OPEN and RESOLVED.
	assert.Equal(t, 0, StatusOpen.Rank())
	assert.Equal(t, 1, StatusMitigated.Rank())
	assert.Equal(t, 2, StatusResolved.Rank())
	assert.Equal(t, len(Statuses), Status("CLOSED").Rank())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Open", StatusOpen.Label())
	assert.Equal(t, "Mitigated", StatusMitigated.Label())
	assert.Equal(t, "Resolved", StatusResolved.Label())
}

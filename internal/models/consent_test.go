package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 {
	return &v
}

// TestEffectiveStatusAt covers the derivation rules: revocation dominates
// expiry, a nil expiry means indefinite, and expiry is computed passively
// from the clock rather than stored.
func TestEffectiveStatusAt(t *testing.T) {
	now := int64(1_700_000_000_000)

	tests := []struct {
		name      string
		status    ConsentStatus
		expiresAt *int64
		want      EffectiveStatus
	}{
		{"active without expiry", StatusActive, nil, EffectiveActive},
		{"active before expiry", StatusActive, int64Ptr(now + 1), EffectiveActive},
		{"expired at boundary", StatusActive, int64Ptr(now), EffectiveExpired},
		{"expired after expiry", StatusActive, int64Ptr(now - 1), EffectiveExpired},
		{"revoked without expiry", StatusRevoked, nil, EffectiveRevoked},
		{"revoked dominates expiry", StatusRevoked, int64Ptr(now - 1), EffectiveRevoked},
		{"revoked dominates future expiry", StatusRevoked, int64Ptr(now + 1), EffectiveRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveStatusAt(tt.status, tt.expiresAt, now))
		})
	}
}

// TestParseScopeDefaultsToAllOrgs tests the form contract: absent or
// unrecognized scope values fall back to all_orgs
func TestParseScopeDefaultsToAllOrgs(t *testing.T) {
	assert.Equal(t, ScopeAllOrgs, ParseScope(""))
	assert.Equal(t, ScopeAllOrgs, ParseScope("everything"))
	assert.Equal(t, ScopeAllOrgs, ParseScope("ALL_ORGS"))
	assert.Equal(t, ScopeAllOrgs, ParseScope("all_orgs"))
	assert.Equal(t, ScopeSelectedOrgs, ParseScope("selected_orgs"))
	assert.Equal(t, ScopeNone, ParseScope("none"))
}

func TestValidMethod(t *testing.T) {
	for _, m := range []ConsentMethod{MethodPortal, MethodStaffAssisted, MethodVerbal, MethodDocumented, MethodMigration} {
		assert.True(t, ValidMethod(m))
	}
	assert.False(t, ValidMethod(""))
	assert.False(t, ValidMethod("fax"))
}

// TestActorCanManageSharing tests that partner accounts can never change
// sharing preferences
func TestActorCanManageSharing(t *testing.T) {
	assert.True(t, Actor{ID: "c1", Role: RoleClient}.CanManageSharing())
	assert.True(t, Actor{ID: "s1", Role: RoleStaff}.CanManageSharing())
	assert.True(t, Actor{ID: "a1", Role: RoleAdmin}.CanManageSharing())
	assert.False(t, Actor{ID: "p1", Role: RolePartner}.CanManageSharing())
}

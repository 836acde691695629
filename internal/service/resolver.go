package service

import (
	"sort"

	"github.com/IHARC/STEVI-sub004/internal/models"
)

// ResolveOrgSelections partitions the current participating-organization
// roster into allowed and blocked sets for one consent. It is pure and
// deterministic, and it is the sole enforcement point for partner data
// visibility, so every rule lives here:
//
//   - The roster is the authoritative universe: organizations referenced by
//     override rows but no longer participating never appear in the result.
//   - all_orgs defaults every roster org to allowed; an override row with
//     Allowed=false blocks that one org.
//   - selected_orgs defaults every roster org to blocked; an override row
//     with Allowed=true admits that one org.
//   - none blocks unconditionally; overrides are not consulted.
//
// Duplicate override rows for the same organization collapse to the one with
// the latest SetAt. Selections are returned ordered by organization name for
// display.
func ResolveOrgSelections(scope models.ConsentScope, participating []models.Organization, overrides []models.ConsentOrgSelection) models.ResolvedSharing {
	overrideByOrg := make(map[int64]models.ConsentOrgSelection, len(overrides))
	for _, row := range overrides {
		existing, ok := overrideByOrg[row.OrganizationID]
		if !ok || row.SetAt >= existing.SetAt {
			overrideByOrg[row.OrganizationID] = row
		}
	}

	resolved := models.ResolvedSharing{
		AllowedOrgIDs: make([]int64, 0, len(participating)),
		BlockedOrgIDs: make([]int64, 0, len(participating)),
		Selections:    make([]models.OrgDecision, 0, len(participating)),
	}

	for _, org := range participating {
		allowed := false
		switch scope {
		case models.ScopeAllOrgs:
			allowed = true
			if override, ok := overrideByOrg[org.OrganizationID]; ok && !override.Allowed {
				allowed = false
			}
		case models.ScopeSelectedOrgs:
			if override, ok := overrideByOrg[org.OrganizationID]; ok && override.Allowed {
				allowed = true
			}
		case models.ScopeNone:
			allowed = false
		}

		if allowed {
			resolved.AllowedOrgIDs = append(resolved.AllowedOrgIDs, org.OrganizationID)
		} else {
			resolved.BlockedOrgIDs = append(resolved.BlockedOrgIDs, org.OrganizationID)
		}

		resolved.Selections = append(resolved.Selections, models.OrgDecision{
			OrganizationID:   org.OrganizationID,
			OrganizationName: org.Name,
			Allowed:          allowed,
		})
	}

	sort.Slice(resolved.Selections, func(i, j int) bool {
		return resolved.Selections[i].OrganizationName < resolved.Selections[j].OrganizationName
	})

	return resolved
}

// SameOrgIDSet reports whether two org ID lists contain the same set of IDs,
// ignoring order and duplicates. Used for audit diff suppression: the full
// symmetric difference is what matters, not just growth.
func SameOrgIDSet(a, b []int64) bool {
	setA := make(map[int64]bool, len(a))
	for _, id := range a {
		setA[id] = true
	}
	setB := make(map[int64]bool, len(b))
	for _, id := range b {
		setB[id] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for id := range setA {
		if !setB[id] {
			return false
		}
	}
	return true
}

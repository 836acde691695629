package models

// ConsentScope is the sharing policy chosen by or for a person.
type ConsentScope string

const (
	// ScopeAllOrgs shares with every participating organization unless an
	// override row blocks a specific one.
	ScopeAllOrgs ConsentScope = "all_orgs"
	// ScopeSelectedOrgs blocks every participating organization unless an
	// override row allows a specific one.
	ScopeSelectedOrgs ConsentScope = "selected_orgs"
	// ScopeNone is an unconditional denial; override rows are not consulted.
	ScopeNone ConsentScope = "none"
)

// ParseScope maps a raw form value to a ConsentScope. Absent or unrecognized
// values fall back to ScopeAllOrgs, per the portal form contract.
func ParseScope(raw string) ConsentScope {
	switch ConsentScope(raw) {
	case ScopeSelectedOrgs:
		return ScopeSelectedOrgs
	case ScopeNone:
		return ScopeNone
	default:
		return ScopeAllOrgs
	}
}

// IsValidScope reports whether raw is one of the three known scopes.
func IsValidScope(raw string) bool {
	switch ConsentScope(raw) {
	case ScopeAllOrgs, ScopeSelectedOrgs, ScopeNone:
		return true
	}
	return false
}

// ConsentStatus is the persisted lifecycle status. Expiry is never stored;
// see EffectiveStatusAt.
type ConsentStatus string

const (
	StatusActive  ConsentStatus = "active"
	StatusRevoked ConsentStatus = "revoked"
)

// EffectiveStatus is the computed status presented to every consumer.
type EffectiveStatus string

const (
	EffectiveActive  EffectiveStatus = "active"
	EffectiveExpired EffectiveStatus = "expired"
	EffectiveRevoked EffectiveStatus = "revoked"
)

// EffectiveStatusAt derives the effective status of a consent from its stored
// status and expiry at the given instant (epoch millis). Revocation dominates
// expiry; a nil expiry means indefinite. No other code path may read the raw
// stored status for display or decision purposes.
func EffectiveStatusAt(status ConsentStatus, expiresAt *int64, nowMillis int64) EffectiveStatus {
	if status == StatusRevoked {
		return EffectiveRevoked
	}
	if expiresAt == nil {
		return EffectiveActive
	}
	if nowMillis >= *expiresAt {
		return EffectiveExpired
	}
	return EffectiveActive
}

// ConsentMethod records how the sharing decision was captured.
type ConsentMethod string

const (
	MethodPortal        ConsentMethod = "portal"
	MethodStaffAssisted ConsentMethod = "staff_assisted"
	MethodVerbal        ConsentMethod = "verbal"
	MethodDocumented    ConsentMethod = "documented"
	MethodMigration     ConsentMethod = "migration"
)

// ValidMethod reports whether m is a known capture method.
func ValidMethod(m ConsentMethod) bool {
	switch m {
	case MethodPortal, MethodStaffAssisted, MethodVerbal, MethodDocumented, MethodMigration:
		return true
	}
	return false
}

// Consent represents one row of the SHARING_CONSENT table. The current record
// for a person is the most recently created one; older rows are immutable
// history.
type Consent struct {
	ConsentID     string        `db:"CONSENT_ID" json:"consentId"`
	PersonID      int64         `db:"PERSON_ID" json:"personId"`
	Scope         ConsentScope  `db:"SCOPE" json:"scope"`
	Status        ConsentStatus `db:"STATUS" json:"status"`
	ExpiresAt     *int64        `db:"EXPIRES_AT" json:"expiresAt,omitempty"`
	CreatedAt     int64         `db:"CREATED_AT" json:"createdAt"`
	UpdatedAt     int64         `db:"UPDATED_AT" json:"updatedAt"`
	RevokedAt     *int64        `db:"REVOKED_AT" json:"revokedAt,omitempty"`
	Method        ConsentMethod `db:"METHOD" json:"method"`
	PolicyVersion *string       `db:"POLICY_VERSION" json:"policyVersion,omitempty"`
	Notes         *string       `db:"NOTES" json:"notes,omitempty"`
}

// EffectiveStatus computes the consent's effective status at nowMillis.
func (c *Consent) EffectiveStatus(nowMillis int64) EffectiveStatus {
	return EffectiveStatusAt(c.Status, c.ExpiresAt, nowMillis)
}

// ConsentOrgSelection represents one row of the CONSENT_ORG_SELECTION table:
// an explicit allow/block override for one organization under one consent.
// Absence of a row for an org means the scope default applies.
type ConsentOrgSelection struct {
	SelectionID    string  `db:"SELECTION_ID" json:"selectionId"`
	ConsentID      string  `db:"CONSENT_ID" json:"consentId"`
	OrganizationID int64   `db:"ORG_ID" json:"organizationId"`
	Allowed        bool    `db:"ALLOWED" json:"allowed"`
	SetBy          string  `db:"SET_BY" json:"setBy"`
	SetAt          int64   `db:"SET_AT" json:"setAt"`
	Reason         *string `db:"REASON" json:"reason,omitempty"`
}

// OrgDecision is one per-org entry of a resolved partition, carried for
// display purposes and ordered by organization name.
type OrgDecision struct {
	OrganizationID   int64  `json:"organizationId"`
	OrganizationName string `json:"organizationName"`
	Allowed          bool   `json:"allowed"`
}

// ResolvedSharing is the definitive allowed/blocked partition of the current
// participating-organization roster for one consent.
type ResolvedSharing struct {
	AllowedOrgIDs []int64       `json:"allowedOrgIds"`
	BlockedOrgIDs []int64       `json:"blockedOrgIds"`
	Selections    []OrgDecision `json:"selections"`
}

// ResolvedConsentResponse is the read-model returned for a person's current
// consent: the stored record, its computed status, and the resolved partition.
type ResolvedConsentResponse struct {
	Consent         *Consent        `json:"consent"`
	EffectiveStatus EffectiveStatus `json:"effectiveStatus"`
	Sharing         ResolvedSharing `json:"sharing"`
}

// ConsentHistoryEntry is one historical consent row with its computed status.
// Selections are populated only for the current record; prior selection sets
// are reconstructable from the audit trail.
type ConsentHistoryEntry struct {
	Consent         Consent          `json:"consent"`
	EffectiveStatus EffectiveStatus  `json:"effectiveStatus"`
	Current         bool             `json:"current"`
	Sharing         *ResolvedSharing `json:"sharing,omitempty"`
}

// SaveConsentResult is returned by the write service so the caller can diff
// and log: the updated record with its new selections, plus a snapshot of the
// prior record and the selection rows it held before replacement.
type SaveConsentResult struct {
	Consent            *Consent              `json:"consent"`
	Selections         []ConsentOrgSelection `json:"selections"`
	PreviousConsent    *Consent              `json:"previousConsent,omitempty"`
	PreviousSelections []ConsentOrgSelection `json:"previousSelections,omitempty"`
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Audit event types written to CONSENT_AUDIT.
const (
	AuditConsentUpdated    = "consent_updated"
	AuditConsentOrgUpdated = "consent_org_updated"
	AuditConsentRevoked    = "consent_revoked"
	AuditConsentRenewed    = "consent_renewed"
)

// OrgIDList stores a JSON array of organization IDs in a single column.
type OrgIDList []int64

// Scan implements the sql.Scanner interface for OrgIDList.
func (l *OrgIDList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for OrgIDList: %T", value)
	}

	var ids []int64
	if err := json.Unmarshal(bytes, &ids); err != nil {
		return fmt.Errorf("invalid org ID list: %w", err)
	}

	*l = OrgIDList(ids)
	return nil
}

// Value implements the driver.Valuer interface for OrgIDList.
func (l OrgIDList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int64(l))
}

// ConsentAuditEvent represents one row of the CONSENT_AUDIT table: a
// structured record of a consent change, carrying the before/after resolved
// org partitions when the effective sharing set changed.
type ConsentAuditEvent struct {
	AuditID     string    `db:"AUDIT_ID" json:"auditId"`
	PersonID    int64     `db:"PERSON_ID" json:"personId"`
	ConsentID   string    `db:"CONSENT_ID" json:"consentId"`
	EventType   string    `db:"EVENT_TYPE" json:"eventType"`
	ActorID     string    `db:"ACTOR_ID" json:"actorId"`
	ActorRole   ActorRole `db:"ACTOR_ROLE" json:"actorRole"`
	PrevAllowed OrgIDList `db:"PREV_ALLOWED" json:"prevAllowed"`
	PrevBlocked OrgIDList `db:"PREV_BLOCKED" json:"prevBlocked"`
	NewAllowed  OrgIDList `db:"NEW_ALLOWED" json:"newAllowed"`
	NewBlocked  OrgIDList `db:"NEW_BLOCKED" json:"newBlocked"`
	Reason      *string   `db:"REASON" json:"reason,omitempty"`
	CreatedAt   int64     `db:"CREATED_AT" json:"createdAt"`
}

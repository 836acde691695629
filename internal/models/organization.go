package models

// Organization represents one row of the ORGANIZATION table: a partner entity
// eligible to receive shared data. The operator's own organization is always
// excluded from the participating roster, so consent only ever governs
// partner access.
type Organization struct {
	OrganizationID int64  `db:"ORG_ID" json:"organizationId"`
	Name           string `db:"NAME" json:"name"`
	IsActive       bool   `db:"IS_ACTIVE" json:"isActive"`
}

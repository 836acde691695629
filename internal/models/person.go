package models

// PersonStatus is the lifecycle status of a client record.
type PersonStatus string

const (
	PersonActive   PersonStatus = "active"
	PersonInactive PersonStatus = "inactive"
)

// Person is a client record, owned by the case-management system. The consent
// engine reads only its ID and status; an inactive person must never be
// treated as having a resolvable consent.
type Person struct {
	PersonID int64        `db:"PERSON_ID" json:"personId"`
	Status   PersonStatus `db:"STATUS" json:"status"`
}

// IsActive reports whether the person may hold a resolvable consent.
func (p *Person) IsActive() bool {
	return p.Status == PersonActive
}

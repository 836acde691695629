package models

// ActorRole identifies who is making a change on a person's behalf.
type ActorRole string

const (
	RoleClient  ActorRole = "client"
	RoleStaff   ActorRole = "staff"
	RoleAdmin   ActorRole = "admin"
	RolePartner ActorRole = "partner"
)

// Actor is the explicit capability value threaded through every consent
// operation in place of an ambient request context.
type Actor struct {
	ID   string    `json:"id"`
	Role ActorRole `json:"role"`
}

// CanManageSharing reports whether the actor's role permits changing a
// client's sharing preference. Partner staff may read what they were granted
// but never alter the grant itself.
func (a Actor) CanManageSharing() bool {
	switch a.Role {
	case RoleClient, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

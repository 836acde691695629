package dao

import "errors"

// Sentinel errors surfaced by the DAOs so services can classify failures
// with errors.Is instead of matching message text.
var (
	ErrConsentNotFound      = errors.New("consent not found")
	ErrPersonNotFound       = errors.New("person not found")
	ErrOrganizationNotFound = errors.New("organization not found")
)

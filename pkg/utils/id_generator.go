package utils

import (
	"github.com/google/uuid"
)

// GenerateConsentID generates a unique consent record ID
func GenerateConsentID() string {
	return "CONSENT-" + uuid.New().String()
}

// GenerateSelectionID generates a unique org-selection row ID
func GenerateSelectionID() string {
	return "SEL-" + uuid.New().String()
}

// GenerateAuditID generates a unique audit event ID
func GenerateAuditID() string {
	return "AUDIT-" + uuid.New().String()
}

package service

import (
	"context"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

// ConsentStore defines the interface for consent record persistence
type ConsentStore interface {
	CreateWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error
	GetByID(ctx context.Context, consentID string) (*models.Consent, error)
	GetCurrentByPersonID(ctx context.Context, personID int64) (*models.Consent, error)
	GetByPersonID(ctx context.Context, personID int64) ([]models.Consent, error)
	UpdateDecisionWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error
	UpdateExpiry(ctx context.Context, consentID string, expiresAt *int64, updatedAt int64) error
	Revoke(ctx context.Context, consentID string, revokedAt int64) error
}

// OrgSelectionStore defines the interface for per-org override persistence
type OrgSelectionStore interface {
	GetByConsentID(ctx context.Context, consentID string) ([]models.ConsentOrgSelection, error)
	ReplaceWithTx(ctx context.Context, tx *database.Transaction, consentID string, selections []models.ConsentOrgSelection) error
}

// OrganizationStore supplies the live participating-organization roster
type OrganizationStore interface {
	ListParticipating(ctx context.Context, operatorOrgID int64) ([]models.Organization, error)
}

// PersonStore provides read access to client records
type PersonStore interface {
	GetByID(ctx context.Context, personID int64) (*models.Person, error)
}

// AuditStore persists consent audit events
type AuditStore interface {
	Create(ctx context.Context, event *models.ConsentAuditEvent) error
	ListByPersonID(ctx context.Context, personID int64) ([]models.ConsentAuditEvent, error)
}

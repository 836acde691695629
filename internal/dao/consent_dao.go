package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

const consentColumns = `CONSENT_ID, PERSON_ID, SCOPE, STATUS, EXPIRES_AT,
	       CREATED_AT, UPDATED_AT, REVOKED_AT, METHOD, POLICY_VERSION, NOTES`

// ConsentDAO handles database operations for sharing consents
type ConsentDAO struct {
	db *database.DB
}

// NewConsentDAO creates a new ConsentDAO instance
func NewConsentDAO(db *database.DB) *ConsentDAO {
	return &ConsentDAO{db: db}
}

// CreateWithTx inserts a new consent row using a transaction
func (dao *ConsentDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error {
	query := `
		INSERT INTO SHARING_CONSENT (
			CONSENT_ID, PERSON_ID, SCOPE, STATUS, EXPIRES_AT,
			CREATED_AT, UPDATED_AT, REVOKED_AT, METHOD, POLICY_VERSION, NOTES
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		consent.ConsentID,
		consent.PersonID,
		consent.Scope,
		consent.Status,
		consent.ExpiresAt,
		consent.CreatedAt,
		consent.UpdatedAt,
		consent.RevokedAt,
		consent.Method,
		consent.PolicyVersion,
		consent.Notes,
	)

	if err != nil {
		return fmt.Errorf("failed to create consent: %w", err)
	}

	return nil
}

// GetByID retrieves a consent by ID
func (dao *ConsentDAO) GetByID(ctx context.Context, consentID string) (*models.Consent, error) {
	query := fmt.Sprintf(`SELECT %s FROM SHARING_CONSENT WHERE CONSENT_ID = ?`, consentColumns)

	var consent models.Consent
	err := dao.db.GetContext(ctx, &consent, query, consentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrConsentNotFound, consentID)
		}
		return nil, fmt.Errorf("failed to get consent: %w", err)
	}

	return &consent, nil
}

// GetCurrentByPersonID retrieves the current consent for a person: the most
// recently created row. Returns ErrConsentNotFound when the person has never
// recorded a decision.
func (dao *ConsentDAO) GetCurrentByPersonID(ctx context.Context, personID int64) (*models.Consent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM SHARING_CONSENT
		WHERE PERSON_ID = ?
		ORDER BY CREATED_AT DESC
		LIMIT 1
	`, consentColumns)

	var consent models.Consent
	err := dao.db.GetContext(ctx, &consent, query, personID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: person %d", ErrConsentNotFound, personID)
		}
		return nil, fmt.Errorf("failed to get current consent: %w", err)
	}

	return &consent, nil
}

// GetByPersonID retrieves all consent rows for a person, newest first
func (dao *ConsentDAO) GetByPersonID(ctx context.Context, personID int64) ([]models.Consent, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM SHARING_CONSENT
		WHERE PERSON_ID = ?
		ORDER BY CREATED_AT DESC
	`, consentColumns)

	var consents []models.Consent
	err := dao.db.SelectContext(ctx, &consents, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to get consents by person ID: %w", err)
	}

	return consents, nil
}

// UpdateDecisionWithTx rewrites the decision fields of the current consent
// row: scope, capture method, policy version, notes and the update timestamp.
// Expiry, status and creation time are untouched.
func (dao *ConsentDAO) UpdateDecisionWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error {
	query := `
		UPDATE SHARING_CONSENT
		SET SCOPE = ?, METHOD = ?, POLICY_VERSION = ?, NOTES = ?, UPDATED_AT = ?
		WHERE CONSENT_ID = ?
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		consent.Scope,
		consent.Method,
		consent.PolicyVersion,
		consent.Notes,
		consent.UpdatedAt,
		consent.ConsentID,
	)

	if err != nil {
		return fmt.Errorf("failed to update consent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrConsentNotFound, consent.ConsentID)
	}

	return nil
}

// UpdateExpiry sets only the expiry and update timestamps of a consent.
// A nil expiresAt clears the expiry (indefinite consent).
func (dao *ConsentDAO) UpdateExpiry(ctx context.Context, consentID string, expiresAt *int64, updatedAt int64) error {
	query := `
		UPDATE SHARING_CONSENT
		SET EXPIRES_AT = ?, UPDATED_AT = ?
		WHERE CONSENT_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, expiresAt, updatedAt, consentID)
	if err != nil {
		return fmt.Errorf("failed to update consent expiry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrConsentNotFound, consentID)
	}

	return nil
}

// Revoke marks a consent revoked, stamping the revocation and update times
func (dao *ConsentDAO) Revoke(ctx context.Context, consentID string, revokedAt int64) error {
	query := `
		UPDATE SHARING_CONSENT
		SET STATUS = ?, REVOKED_AT = ?, UPDATED_AT = ?
		WHERE CONSENT_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, models.StatusRevoked, revokedAt, revokedAt, consentID)
	if err != nil {
		return fmt.Errorf("failed to revoke consent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrConsentNotFound, consentID)
	}

	return nil
}

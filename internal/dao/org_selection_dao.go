package dao

import (
	"context"
	"fmt"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

// OrgSelectionDAO handles database operations for per-organization
// allow/block overrides attached to a consent record
type OrgSelectionDAO struct {
	db *database.DB
}

// NewOrgSelectionDAO creates a new OrgSelectionDAO instance
func NewOrgSelectionDAO(db *database.DB) *OrgSelectionDAO {
	return &OrgSelectionDAO{db: db}
}

// GetByConsentID retrieves all override rows for a consent, oldest first so
// that later rows win when the resolver collapses duplicates.
func (dao *OrgSelectionDAO) GetByConsentID(ctx context.Context, consentID string) ([]models.ConsentOrgSelection, error) {
	query := `
		SELECT SELECTION_ID, CONSENT_ID, ORG_ID, ALLOWED, SET_BY, SET_AT, REASON
		FROM CONSENT_ORG_SELECTION
		WHERE CONSENT_ID = ?
		ORDER BY SET_AT ASC
	`

	var selections []models.ConsentOrgSelection
	err := dao.db.SelectContext(ctx, &selections, query, consentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get org selections: %w", err)
	}

	return selections, nil
}

// ReplaceWithTx replaces all override rows for a consent in one shot: the old
// rows are deleted and the new set inserted. Historical consents keep their
// own rows untouched since each consent owns its selections exclusively.
func (dao *OrgSelectionDAO) ReplaceWithTx(ctx context.Context, tx *database.Transaction, consentID string, selections []models.ConsentOrgSelection) error {
	if err := dao.deleteByConsentIDWithTx(ctx, tx, consentID); err != nil {
		return err
	}

	for i := range selections {
		if err := dao.createWithTx(ctx, tx, &selections[i]); err != nil {
			return err
		}
	}

	return nil
}

func (dao *OrgSelectionDAO) deleteByConsentIDWithTx(ctx context.Context, tx *database.Transaction, consentID string) error {
	query := `DELETE FROM CONSENT_ORG_SELECTION WHERE CONSENT_ID = ?`

	_, err := tx.ExecContext(ctx, query, consentID)
	if err != nil {
		return fmt.Errorf("failed to delete org selections: %w", err)
	}

	return nil
}

func (dao *OrgSelectionDAO) createWithTx(ctx context.Context, tx *database.Transaction, selection *models.ConsentOrgSelection) error {
	query := `
		INSERT INTO CONSENT_ORG_SELECTION (
			SELECTION_ID, CONSENT_ID, ORG_ID, ALLOWED, SET_BY, SET_AT, REASON
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		selection.SelectionID,
		selection.ConsentID,
		selection.OrganizationID,
		selection.Allowed,
		selection.SetBy,
		selection.SetAt,
		selection.Reason,
	)

	if err != nil {
		return fmt.Errorf("failed to create org selection: %w", err)
	}

	return nil
}

package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

// OrganizationDAO handles database operations for partner organizations
type OrganizationDAO struct {
	db *database.DB
}

// NewOrganizationDAO creates a new OrganizationDAO instance
func NewOrganizationDAO(db *database.DB) *OrganizationDAO {
	return &OrganizationDAO{db: db}
}

// ListParticipating returns the live roster of organizations eligible to
// receive shared data: active organizations excluding the operator's own,
// ordered by name. This list is ground truth for which orgs exist today.
func (dao *OrganizationDAO) ListParticipating(ctx context.Context, operatorOrgID int64) ([]models.Organization, error) {
	query := `
		SELECT ORG_ID, NAME, IS_ACTIVE
		FROM ORGANIZATION
		WHERE IS_ACTIVE = TRUE AND ORG_ID != ?
		ORDER BY NAME ASC
	`

	var orgs []models.Organization
	err := dao.db.SelectContext(ctx, &orgs, query, operatorOrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participating organizations: %w", err)
	}

	return orgs, nil
}

// GetByID retrieves an organization by ID
func (dao *OrganizationDAO) GetByID(ctx context.Context, orgID int64) (*models.Organization, error) {
	query := `SELECT ORG_ID, NAME, IS_ACTIVE FROM ORGANIZATION WHERE ORG_ID = ?`

	var org models.Organization
	err := dao.db.GetContext(ctx, &org, query, orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %d", ErrOrganizationNotFound, orgID)
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

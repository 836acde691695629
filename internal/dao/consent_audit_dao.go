package dao

import (
	"context"
	"fmt"

	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
)

// ConsentAuditDAO handles database operations for consent audit events
type ConsentAuditDAO struct {
	db *database.DB
}

// NewConsentAuditDAO creates a new ConsentAuditDAO instance
func NewConsentAuditDAO(db *database.DB) *ConsentAuditDAO {
	return &ConsentAuditDAO{db: db}
}

// Create inserts a new audit event
func (dao *ConsentAuditDAO) Create(ctx context.Context, event *models.ConsentAuditEvent) error {
	query := `
		INSERT INTO CONSENT_AUDIT (
			AUDIT_ID, PERSON_ID, CONSENT_ID, EVENT_TYPE, ACTOR_ID, ACTOR_ROLE,
			PREV_ALLOWED, PREV_BLOCKED, NEW_ALLOWED, NEW_BLOCKED, REASON, CREATED_AT
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		event.AuditID,
		event.PersonID,
		event.ConsentID,
		event.EventType,
		event.ActorID,
		event.ActorRole,
		event.PrevAllowed,
		event.PrevBlocked,
		event.NewAllowed,
		event.NewBlocked,
		event.Reason,
		event.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}

	return nil
}

// ListByPersonID retrieves all audit events for a person, newest first
func (dao *ConsentAuditDAO) ListByPersonID(ctx context.Context, personID int64) ([]models.ConsentAuditEvent, error) {
	query := `
		SELECT AUDIT_ID, PERSON_ID, CONSENT_ID, EVENT_TYPE, ACTOR_ID, ACTOR_ROLE,
		       PREV_ALLOWED, PREV_BLOCKED, NEW_ALLOWED, NEW_BLOCKED, REASON, CREATED_AT
		FROM CONSENT_AUDIT
		WHERE PERSON_ID = ?
		ORDER BY CREATED_AT DESC
	`

	var events []models.ConsentAuditEvent
	err := dao.db.SelectContext(ctx, &events, query, personID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}

	return events, nil
}

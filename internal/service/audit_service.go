package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/IHARC/STEVI-sub004/internal/models"
	"github.com/IHARC/STEVI-sub004/pkg/utils"
)

// AuditService records structured audit events after consent writes. It is
// invoked by the boundary layer, never by the write service itself, and a
// failed audit write is logged and swallowed — it must never block or roll
// back the underlying consent change.
type AuditService struct {
	auditStore AuditStore
	logger     *logrus.Logger
}

// NewAuditService creates a new audit service instance
func NewAuditService(auditStore AuditStore, logger *logrus.Logger) *AuditService {
	return &AuditService{auditStore: auditStore, logger: logger}
}

// RecordConsentUpdated emits the unconditional "consent updated" event after
// every successful SaveConsent.
func (s *AuditService) RecordConsentUpdated(ctx context.Context, result *models.SaveConsentResult, actor models.Actor) {
	event := &models.ConsentAuditEvent{
		AuditID:   utils.GenerateAuditID(),
		PersonID:  result.Consent.PersonID,
		ConsentID: result.Consent.ConsentID,
		EventType: models.AuditConsentUpdated,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		CreatedAt: utils.GetCurrentTimeMillis(),
	}

	s.record(ctx, event)
}

// RecordOrgSelectionChange resolves the previous and new decisions against
// the same current roster and emits a "consent org updated" event only when
// the effective allowed/blocked partition actually changed. The roster is a
// snapshot-in-time input: the event describes what changed relative to the
// roster at the time of this write, not a frozen historical roster. Returns
// whether an event was emitted.
func (s *AuditService) RecordOrgSelectionChange(
	ctx context.Context,
	roster []models.Organization,
	result *models.SaveConsentResult,
	actor models.Actor,
) bool {
	var prev models.ResolvedSharing
	if result.PreviousConsent != nil {
		prev = ResolveOrgSelections(result.PreviousConsent.Scope, roster, result.PreviousSelections)
	} else {
		// No prior decision: every roster org was unshared.
		prev = ResolveOrgSelections(models.ScopeNone, roster, nil)
	}

	next := ResolveOrgSelections(result.Consent.Scope, roster, result.Selections)

	if SameOrgIDSet(prev.AllowedOrgIDs, next.AllowedOrgIDs) && SameOrgIDSet(prev.BlockedOrgIDs, next.BlockedOrgIDs) {
		return false
	}

	event := &models.ConsentAuditEvent{
		AuditID:     utils.GenerateAuditID(),
		PersonID:    result.Consent.PersonID,
		ConsentID:   result.Consent.ConsentID,
		EventType:   models.AuditConsentOrgUpdated,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		PrevAllowed: models.OrgIDList(prev.AllowedOrgIDs),
		PrevBlocked: models.OrgIDList(prev.BlockedOrgIDs),
		NewAllowed:  models.OrgIDList(next.AllowedOrgIDs),
		NewBlocked:  models.OrgIDList(next.BlockedOrgIDs),
		CreatedAt:   utils.GetCurrentTimeMillis(),
	}

	s.record(ctx, event)
	return true
}

// RecordConsentRevoked emits the revocation event
func (s *AuditService) RecordConsentRevoked(ctx context.Context, consent *models.Consent, actor models.Actor, reason string) {
	event := &models.ConsentAuditEvent{
		AuditID:   utils.GenerateAuditID(),
		PersonID:  consent.PersonID,
		ConsentID: consent.ConsentID,
		EventType: models.AuditConsentRevoked,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Reason:    optional(reason),
		CreatedAt: utils.GetCurrentTimeMillis(),
	}

	s.record(ctx, event)
}

// RecordConsentRenewed emits the renewal event
func (s *AuditService) RecordConsentRenewed(ctx context.Context, consent *models.Consent, actor models.Actor) {
	event := &models.ConsentAuditEvent{
		AuditID:   utils.GenerateAuditID(),
		PersonID:  consent.PersonID,
		ConsentID: consent.ConsentID,
		EventType: models.AuditConsentRenewed,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		CreatedAt: utils.GetCurrentTimeMillis(),
	}

	s.record(ctx, event)
}

// ListByPersonID returns the person's audit trail, newest first. History
// display reconstructs prior org-selection sets from these events.
func (s *AuditService) ListByPersonID(ctx context.Context, personID int64) ([]models.ConsentAuditEvent, error) {
	events, err := s.auditStore.ListByPersonID(ctx, personID)
	if err != nil {
		return nil, NewStorageError("failed to load audit trail", err)
	}
	return events, nil
}

func (s *AuditService) record(ctx context.Context, event *models.ConsentAuditEvent) {
	if err := s.auditStore.Create(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"event_type": event.EventType,
			"person_id":  event.PersonID,
			"consent_id": event.ConsentID,
		}).Error("Failed to record audit event")
	}
}

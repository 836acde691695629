package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/IHARC/STEVI-sub004/internal/config"
	"github.com/IHARC/STEVI-sub004/internal/dao"
	"github.com/IHARC/STEVI-sub004/internal/database"
	"github.com/IHARC/STEVI-sub004/internal/models"
	"github.com/IHARC/STEVI-sub004/pkg/utils"
)

// ConsentService handles business logic for sharing-consent operations.
// It writes only to the consent and org-selection stores; audit logging and
// person updates are the caller's responsibility.
type ConsentService struct {
	consentStore   ConsentStore
	selectionStore OrgSelectionStore
	orgStore       OrganizationStore
	personStore    PersonStore
	db             *database.DB
	cfg            config.ConsentConfig
	logger         *logrus.Logger
}

// NewConsentService creates a new consent service instance
func NewConsentService(
	consentStore ConsentStore,
	selectionStore OrgSelectionStore,
	orgStore OrganizationStore,
	personStore PersonStore,
	db *database.DB,
	cfg config.ConsentConfig,
	logger *logrus.Logger,
) *ConsentService {
	return &ConsentService{
		consentStore:   consentStore,
		selectionStore: selectionStore,
		orgStore:       orgStore,
		personStore:    personStore,
		db:             db,
		cfg:            cfg,
		logger:         logger,
	}
}

// SaveConsent atomically applies a new sharing decision for a person: the
// current consent row is updated (or a fresh row created when none exists or
// the current one is revoked) and its org-selection rows are replaced
// wholesale, all in one transaction. The prior record and its selection rows
// are returned as a snapshot so the caller can diff and log.
func (s *ConsentService) SaveConsent(
	ctx context.Context,
	personID int64,
	scope models.ConsentScope,
	allowedOrgIDs, blockedOrgIDs []int64,
	actor models.Actor,
	method models.ConsentMethod,
	notes, policyVersion string,
) (*models.SaveConsentResult, error) {
	if !actor.CanManageSharing() {
		return nil, NewAuthorizationError("your role is not permitted to change sharing preferences")
	}
	if err := utils.ValidatePersonID(personID); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if !models.ValidMethod(method) {
		return nil, NewValidationError("unknown consent capture method")
	}
	if scope == models.ScopeSelectedOrgs && len(allowedOrgIDs) == 0 {
		return nil, NewValidationError("select at least one organization to share with")
	}
	for _, id := range allowedOrgIDs {
		for _, blocked := range blockedOrgIDs {
			if id == blocked {
				return nil, NewValidationError("an organization cannot be both allowed and blocked")
			}
		}
	}

	if err := s.requireActivePerson(ctx, personID); err != nil {
		return nil, err
	}

	previous, previousSelections, err := s.currentSnapshot(ctx, personID)
	if err != nil {
		return nil, err
	}

	now := utils.GetCurrentTimeMillis()
	consent := s.buildTargetConsent(previous, personID, scope, method, notes, policyVersion, now)
	selections := buildSelections(consent.ConsentID, allowedOrgIDs, blockedOrgIDs, actor, now)

	fresh := previous == nil || previous.ConsentID != consent.ConsentID
	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if fresh {
			if err := s.consentStore.CreateWithTx(ctx, tx, consent); err != nil {
				return err
			}
		} else {
			if err := s.consentStore.UpdateDecisionWithTx(ctx, tx, consent); err != nil {
				return err
			}
		}
		return s.selectionStore.ReplaceWithTx(ctx, tx, consent.ConsentID, selections)
	})
	if err != nil {
		return nil, NewStorageError("failed to save sharing decision", err)
	}

	s.logger.WithFields(logrus.Fields{
		"person_id":  personID,
		"consent_id": consent.ConsentID,
		"scope":      consent.Scope,
		"fresh":      fresh,
	}).Info("Sharing decision saved")

	return &models.SaveConsentResult{
		Consent:            consent,
		Selections:         selections,
		PreviousConsent:    previous,
		PreviousSelections: previousSelections,
	}, nil
}

// RenewConsent extends (or clears) the expiry of an existing consent. Only
// the expiry and update timestamps change; scope and org selections are never
// touched. Renewal of a revoked consent is rejected since a fresh decision is
// required to supersede revocation.
func (s *ConsentService) RenewConsent(ctx context.Context, consentID string, actor models.Actor) (*models.Consent, error) {
	if !actor.CanManageSharing() {
		return nil, NewAuthorizationError("your role is not permitted to change sharing preferences")
	}
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, NewValidationError(err.Error())
	}

	consent, err := s.consentStore.GetByID(ctx, consentID)
	if err != nil {
		if errors.Is(err, dao.ErrConsentNotFound) {
			return nil, NewNotFoundError("no sharing decision on record to renew")
		}
		return nil, NewStorageError("failed to load consent", err)
	}

	if consent.Status == models.StatusRevoked {
		return nil, NewConflictError("a revoked consent cannot be renewed; record a new sharing decision instead")
	}

	now := utils.GetCurrentTimeMillis()
	var expiresAt *int64
	if s.cfg.RenewalDays > 0 {
		expiry := now + int64(s.cfg.RenewalDays)*24*60*60*1000
		expiresAt = &expiry
	}

	if err := s.consentStore.UpdateExpiry(ctx, consentID, expiresAt, now); err != nil {
		return nil, NewStorageError("failed to renew consent", err)
	}

	consent.ExpiresAt = expiresAt
	consent.UpdatedAt = now

	s.logger.WithFields(logrus.Fields{
		"consent_id": consentID,
		"person_id":  consent.PersonID,
	}).Info("Consent renewed")

	return consent, nil
}

// RevokeConsent marks a consent revoked. The confirmed flag is an explicit
// gate from the actor; without it no read or write happens at all.
func (s *ConsentService) RevokeConsent(ctx context.Context, consentID string, confirmed bool, actor models.Actor) (*models.Consent, error) {
	if !confirmed {
		return nil, NewValidationError("confirmation is required to stop sharing")
	}
	if !actor.CanManageSharing() {
		return nil, NewAuthorizationError("your role is not permitted to change sharing preferences")
	}
	if err := utils.ValidateConsentID(consentID); err != nil {
		return nil, NewValidationError(err.Error())
	}

	consent, err := s.consentStore.GetByID(ctx, consentID)
	if err != nil {
		if errors.Is(err, dao.ErrConsentNotFound) {
			return nil, NewNotFoundError("no sharing decision on record to revoke")
		}
		return nil, NewStorageError("failed to load consent", err)
	}

	if consent.Status == models.StatusRevoked {
		return nil, NewConflictError("sharing has already been stopped for this record")
	}

	now := utils.GetCurrentTimeMillis()
	if err := s.consentStore.Revoke(ctx, consentID, now); err != nil {
		return nil, NewStorageError("failed to revoke consent", err)
	}

	consent.Status = models.StatusRevoked
	consent.RevokedAt = &now
	consent.UpdatedAt = now

	s.logger.WithFields(logrus.Fields{
		"consent_id": consentID,
		"person_id":  consent.PersonID,
	}).Info("Consent revoked")

	return consent, nil
}

// GetResolvedConsent returns the person's current consent together with its
// computed effective status and the allowed/blocked partition of the live
// roster. Inactive persons never resolve.
func (s *ConsentService) GetResolvedConsent(ctx context.Context, personID int64) (*models.ResolvedConsentResponse, error) {
	if err := utils.ValidatePersonID(personID); err != nil {
		return nil, NewValidationError(err.Error())
	}
	if err := s.requireActivePerson(ctx, personID); err != nil {
		return nil, err
	}

	consent, err := s.consentStore.GetCurrentByPersonID(ctx, personID)
	if err != nil {
		if errors.Is(err, dao.ErrConsentNotFound) {
			return nil, NewNotFoundError("no sharing decision on record")
		}
		return nil, NewStorageError("failed to load consent", err)
	}

	sharing, err := s.resolveAgainstRoster(ctx, consent)
	if err != nil {
		return nil, err
	}

	return &models.ResolvedConsentResponse{
		Consent:         consent,
		EffectiveStatus: consent.EffectiveStatus(utils.GetCurrentTimeMillis()),
		Sharing:         *sharing,
	}, nil
}

// GetConsentHistory returns every consent row for a person, newest first,
// each with its computed effective status. The current record additionally
// carries its resolved partition when the person is active.
func (s *ConsentService) GetConsentHistory(ctx context.Context, personID int64) ([]models.ConsentHistoryEntry, error) {
	if err := utils.ValidatePersonID(personID); err != nil {
		return nil, NewValidationError(err.Error())
	}

	person, err := s.personStore.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, dao.ErrPersonNotFound) {
			return nil, NewNotFoundError("client record not found")
		}
		return nil, NewStorageError("failed to load client record", err)
	}

	consents, err := s.consentStore.GetByPersonID(ctx, personID)
	if err != nil {
		return nil, NewStorageError("failed to load consent history", err)
	}

	now := utils.GetCurrentTimeMillis()
	entries := make([]models.ConsentHistoryEntry, 0, len(consents))
	for i := range consents {
		entry := models.ConsentHistoryEntry{
			Consent:         consents[i],
			EffectiveStatus: consents[i].EffectiveStatus(now),
			Current:         i == 0,
		}

		if entry.Current && person.IsActive() {
			sharing, err := s.resolveAgainstRoster(ctx, &consents[i])
			if err != nil {
				return nil, err
			}
			entry.Sharing = sharing
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// GetParticipatingOrganizations returns the live roster, operator excluded
func (s *ConsentService) GetParticipatingOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := s.orgStore.ListParticipating(ctx, s.cfg.OperatorOrgID)
	if err != nil {
		return nil, NewStorageError("failed to load participating organizations", err)
	}
	return orgs, nil
}

func (s *ConsentService) requireActivePerson(ctx context.Context, personID int64) error {
	person, err := s.personStore.GetByID(ctx, personID)
	if err != nil {
		if errors.Is(err, dao.ErrPersonNotFound) {
			return NewNotFoundError("client record not found")
		}
		return NewStorageError("failed to load client record", err)
	}
	if !person.IsActive() {
		return NewNotFoundError("client record is inactive")
	}
	return nil
}

// currentSnapshot loads the current consent and its selection rows before
// any mutation, for the caller's audit diff. A person with no decision yet
// yields a nil snapshot, not an error.
func (s *ConsentService) currentSnapshot(ctx context.Context, personID int64) (*models.Consent, []models.ConsentOrgSelection, error) {
	previous, err := s.consentStore.GetCurrentByPersonID(ctx, personID)
	if err != nil {
		if errors.Is(err, dao.ErrConsentNotFound) {
			return nil, nil, nil
		}
		return nil, nil, NewStorageError("failed to load current consent", err)
	}

	selections, err := s.selectionStore.GetByConsentID(ctx, previous.ConsentID)
	if err != nil {
		return nil, nil, NewStorageError("failed to load current org selections", err)
	}

	return previous, selections, nil
}

// buildTargetConsent decides between rewriting the current active row and
// appending a fresh one. A fresh row is appended on the first decision and
// after revocation, so revoked rows stay behind as immutable history.
func (s *ConsentService) buildTargetConsent(
	previous *models.Consent,
	personID int64,
	scope models.ConsentScope,
	method models.ConsentMethod,
	notes, policyVersion string,
	now int64,
) *models.Consent {
	if policyVersion == "" {
		policyVersion = s.cfg.PolicyVersion
	}

	if previous != nil && previous.Status == models.StatusActive {
		updated := *previous
		updated.Scope = scope
		updated.Method = method
		updated.PolicyVersion = optional(policyVersion)
		updated.Notes = optional(notes)
		updated.UpdatedAt = now
		return &updated
	}

	var expiresAt *int64
	if s.cfg.DefaultValidityDays > 0 {
		expiry := now + int64(s.cfg.DefaultValidityDays)*24*60*60*1000
		expiresAt = &expiry
	}

	return &models.Consent{
		ConsentID:     utils.GenerateConsentID(),
		PersonID:      personID,
		Scope:         scope,
		Status:        models.StatusActive,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
		Method:        method,
		PolicyVersion: optional(policyVersion),
		Notes:         optional(notes),
	}
}

func buildSelections(consentID string, allowedOrgIDs, blockedOrgIDs []int64, actor models.Actor, now int64) []models.ConsentOrgSelection {
	selections := make([]models.ConsentOrgSelection, 0, len(allowedOrgIDs)+len(blockedOrgIDs))
	for _, orgID := range allowedOrgIDs {
		selections = append(selections, models.ConsentOrgSelection{
			SelectionID:    utils.GenerateSelectionID(),
			ConsentID:      consentID,
			OrganizationID: orgID,
			Allowed:        true,
			SetBy:          actor.ID,
			SetAt:          now,
		})
	}
	for _, orgID := range blockedOrgIDs {
		selections = append(selections, models.ConsentOrgSelection{
			SelectionID:    utils.GenerateSelectionID(),
			ConsentID:      consentID,
			OrganizationID: orgID,
			Allowed:        false,
			SetBy:          actor.ID,
			SetAt:          now,
		})
	}
	return selections
}

func (s *ConsentService) resolveAgainstRoster(ctx context.Context, consent *models.Consent) (*models.ResolvedSharing, error) {
	roster, err := s.orgStore.ListParticipating(ctx, s.cfg.OperatorOrgID)
	if err != nil {
		return nil, NewStorageError("failed to load participating organizations", err)
	}

	selections, err := s.selectionStore.GetByConsentID(ctx, consent.ConsentID)
	if err != nil {
		return nil, NewStorageError("failed to load org selections", err)
	}

	resolved := ResolveOrgSelections(consent.Scope, roster, selections)
	return &resolved, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

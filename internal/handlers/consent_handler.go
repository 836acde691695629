package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/IHARC/STEVI-sub004/internal/models"
	"github.com/IHARC/STEVI-sub004/internal/service"
	respond "github.com/IHARC/STEVI-sub004/internal/utils"
	"github.com/IHARC/STEVI-sub004/pkg/utils"
)

// ConsentHandler handles the portal's consent form submissions and views.
// It preserves the form-level contract: consent_scope defaulting to all_orgs,
// org_allowed_ids with junk silently dropped, and "on"-valued checkboxes.
type ConsentHandler struct {
	consentService *service.ConsentService
	auditService   *service.AuditService
	logger         *logrus.Logger
}

// NewConsentHandler creates a new consent handler instance
func NewConsentHandler(consentService *service.ConsentService, auditService *service.AuditService, logger *logrus.Logger) *ConsentHandler {
	return &ConsentHandler{
		consentService: consentService,
		auditService:   auditService,
		logger:         logger,
	}
}

// SaveConsent handles POST /people/:personId/consent
func (h *ConsentHandler) SaveConsent(c *gin.Context) {
	personID, err := utils.ParsePersonID(c.Param("personId"))
	if err != nil {
		respond.SendFormResult(c, http.StatusBadRequest, models.FormError("Invalid client record."))
		return
	}

	if !utils.ParseCheckbox(c.PostForm("consent_confirm")) {
		respond.SendFormResult(c, http.StatusBadRequest, models.FormError("Please confirm the sharing decision before saving."))
		return
	}

	actor := respond.GetActor(c)
	scope := models.ParseScope(c.PostForm("consent_scope"))
	allowedOrgIDs := utils.ParseOrgIDs(c.PostFormArray("org_allowed_ids"))
	method := deriveMethod(c.PostForm("consent_method"), actor)
	notes := utils.SanitizeString(c.PostForm("consent_notes"))
	policyVersion := utils.SanitizeString(c.PostForm("policy_version"))

	// The roster is read once and used for both the blocked-set derivation
	// and the audit diff, so both see the same snapshot.
	roster, err := h.consentService.GetParticipatingOrganizations(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load participating organizations")
		respond.SendFormError(c, err)
		return
	}

	var blockedOrgIDs []int64
	if scope == models.ScopeSelectedOrgs {
		blockedOrgIDs = rosterMinus(roster, allowedOrgIDs)
	}

	result, err := h.consentService.SaveConsent(
		c.Request.Context(),
		personID,
		scope,
		allowedOrgIDs,
		blockedOrgIDs,
		actor,
		method,
		notes,
		policyVersion,
	)
	if err != nil {
		h.logger.WithError(err).WithField("person_id", personID).Error("Failed to save sharing decision")
		respond.SendFormError(c, err)
		return
	}

	h.auditService.RecordConsentUpdated(c.Request.Context(), result, actor)
	h.auditService.RecordOrgSelectionChange(c.Request.Context(), roster, result, actor)

	nextStatus := string(result.Consent.EffectiveStatus(utils.GetCurrentTimeMillis()))
	respond.SendFormResult(c, http.StatusOK, models.FormSuccess("Sharing preferences saved.", nextStatus))
}

// RevokeConsent handles POST /consents/:consentId/revoke
func (h *ConsentHandler) RevokeConsent(c *gin.Context) {
	consentID := c.Param("consentId")
	confirmed := utils.ParseCheckbox(c.PostForm("revoke_confirm"))
	reason := utils.SanitizeString(c.PostForm("revoke_reason"))
	actor := respond.GetActor(c)

	consent, err := h.consentService.RevokeConsent(c.Request.Context(), consentID, confirmed, actor)
	if err != nil {
		h.logger.WithError(err).WithField("consent_id", consentID).Warn("Failed to revoke consent")
		respond.SendFormError(c, err)
		return
	}

	h.auditService.RecordConsentRevoked(c.Request.Context(), consent, actor, reason)

	respond.SendFormResult(c, http.StatusOK, models.FormSuccess("Sharing has been stopped.", string(models.EffectiveRevoked)))
}

// RenewConsent handles POST /consents/:consentId/renew
func (h *ConsentHandler) RenewConsent(c *gin.Context) {
	consentID := c.Param("consentId")
	actor := respond.GetActor(c)

	consent, err := h.consentService.RenewConsent(c.Request.Context(), consentID, actor)
	if err != nil {
		h.logger.WithError(err).WithField("consent_id", consentID).Warn("Failed to renew consent")
		respond.SendFormError(c, err)
		return
	}

	h.auditService.RecordConsentRenewed(c.Request.Context(), consent, actor)

	nextStatus := string(consent.EffectiveStatus(utils.GetCurrentTimeMillis()))
	respond.SendFormResult(c, http.StatusOK, models.FormSuccess("Sharing decision renewed.", nextStatus))
}

// GetConsent handles GET /people/:personId/consent
func (h *ConsentHandler) GetConsent(c *gin.Context) {
	personID, err := utils.ParsePersonID(c.Param("personId"))
	if err != nil {
		respond.SendErrorResponse(c, models.ErrCodeBadRequest, "Invalid person ID")
		return
	}

	resolved, err := h.consentService.GetResolvedConsent(c.Request.Context(), personID)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			respond.SendErrorResponse(c, models.ErrCodeConsentNotFound, "No sharing decision on record")
			return
		}
		h.logger.WithError(err).WithField("person_id", personID).Error("Failed to resolve consent")
		respond.SendErrorResponse(c, models.ErrCodeInternalError, "Failed to retrieve sharing decision")
		return
	}

	respond.SendOKResponse(c, resolved)
}

// GetConsentHistory handles GET /people/:personId/consent/history
func (h *ConsentHandler) GetConsentHistory(c *gin.Context) {
	personID, err := utils.ParsePersonID(c.Param("personId"))
	if err != nil {
		respond.SendErrorResponse(c, models.ErrCodeBadRequest, "Invalid person ID")
		return
	}

	entries, err := h.consentService.GetConsentHistory(c.Request.Context(), personID)
	if err != nil {
		if service.KindOf(err) == service.KindNotFound {
			respond.SendErrorResponse(c, models.ErrCodePersonNotFound, "Client record not found")
			return
		}
		h.logger.WithError(err).WithField("person_id", personID).Error("Failed to load consent history")
		respond.SendErrorResponse(c, models.ErrCodeInternalError, "Failed to retrieve consent history")
		return
	}

	respond.SendOKResponse(c, entries)
}

// GetAuditTrail handles GET /people/:personId/consent/audit
func (h *ConsentHandler) GetAuditTrail(c *gin.Context) {
	personID, err := utils.ParsePersonID(c.Param("personId"))
	if err != nil {
		respond.SendErrorResponse(c, models.ErrCodeBadRequest, "Invalid person ID")
		return
	}

	events, err := h.auditService.ListByPersonID(c.Request.Context(), personID)
	if err != nil {
		h.logger.WithError(err).WithField("person_id", personID).Error("Failed to load audit trail")
		respond.SendErrorResponse(c, models.ErrCodeInternalError, "Failed to retrieve audit trail")
		return
	}

	respond.SendOKResponse(c, events)
}

// ListParticipatingOrganizations handles GET /organizations/participating
func (h *ConsentHandler) ListParticipatingOrganizations(c *gin.Context) {
	orgs, err := h.consentService.GetParticipatingOrganizations(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load participating organizations")
		respond.SendErrorResponse(c, models.ErrCodeInternalError, "Failed to retrieve organizations")
		return
	}

	respond.SendOKResponse(c, orgs)
}

// deriveMethod picks the capture method: an explicit valid form value wins,
// otherwise client submissions are portal captures and everything else is
// staff-assisted.
func deriveMethod(raw string, actor models.Actor) models.ConsentMethod {
	if raw != "" && models.ValidMethod(models.ConsentMethod(raw)) {
		return models.ConsentMethod(raw)
	}
	if actor.Role == models.RoleClient {
		return models.MethodPortal
	}
	return models.MethodStaffAssisted
}

// rosterMinus returns the roster org IDs not present in allowed
func rosterMinus(roster []models.Organization, allowed []int64) []int64 {
	allowedSet := make(map[int64]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}

	blocked := make([]int64, 0, len(roster))
	for _, org := range roster {
		if !allowedSet[org.OrganizationID] {
			blocked = append(blocked, org.OrganizationID)
		}
	}
	return blocked
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/IHARC/STEVI-sub004/internal/handlers"
	"github.com/IHARC/STEVI-sub004/internal/models"
	"github.com/IHARC/STEVI-sub004/internal/service"
	"github.com/IHARC/STEVI-sub004/internal/utils"
)

// SetupRouter configures all API routes
func SetupRouter(
	consentService *service.ConsentService,
	auditService *service.AuditService,
	logger *logrus.Logger,
) *gin.Engine {
	router := gin.Default()

	// The upstream auth layer identifies the actor; this middleware only
	// turns its headers into an explicit Actor value.
	router.Use(func(c *gin.Context) {
		actor := models.Actor{
			ID:   c.GetHeader("actor-id"),
			Role: parseActorRole(c.GetHeader("actor-role")),
		}
		utils.SetActor(c, actor)
		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	consentHandler := handlers.NewConsentHandler(consentService, auditService, logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/organizations/participating", consentHandler.ListParticipatingOrganizations)

		people := v1.Group("/people/:personId")
		{
			people.POST("/consent", consentHandler.SaveConsent)
			people.GET("/consent", consentHandler.GetConsent)
			people.GET("/consent/history", consentHandler.GetConsentHistory)
			people.GET("/consent/audit", consentHandler.GetAuditTrail)
		}

		consents := v1.Group("/consents/:consentId")
		{
			consents.POST("/revoke", consentHandler.RevokeConsent)
			consents.POST("/renew", consentHandler.RenewConsent)
		}
	}

	return router
}

func parseActorRole(raw string) models.ActorRole {
	switch models.ActorRole(raw) {
	case models.RoleStaff:
		return models.RoleStaff
	case models.RoleAdmin:
		return models.RoleAdmin
	case models.RolePartner:
		return models.RolePartner
	default:
		return models.RoleClient
	}
}

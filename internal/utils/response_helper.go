package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IHARC/STEVI-sub004/internal/models"
	"github.com/IHARC/STEVI-sub004/internal/service"
)

// Generic retry text shown for storage failures; the real cause is logged
// server-side and never exposed verbatim to the end user.
const genericErrorMessage = "Something went wrong. Please try again."

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendFormResult sends a form result with the given HTTP status
func SendFormResult(c *gin.Context, statusCode int, result models.FormResult) {
	c.JSON(statusCode, result)
}

// SendFormError converts a service error into the tri-state form result. All
// kinds except storage carry user-facing messages already; storage errors are
// replaced with generic retry text.
func SendFormError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := genericErrorMessage

	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindValidation:
			statusCode = http.StatusBadRequest
			message = svcErr.Message
		case service.KindAuthorization:
			statusCode = http.StatusForbidden
			message = svcErr.Message
		case service.KindNotFound:
			statusCode = http.StatusNotFound
			message = svcErr.Message
		case service.KindConflict:
			statusCode = http.StatusConflict
			message = svcErr.Message
		}
	}

	SendFormResult(c, statusCode, models.FormError(message))
}

// SendErrorResponse sends a plain error JSON response (non-form endpoints)
func SendErrorResponse(c *gin.Context, code, message string) {
	c.JSON(models.HTTPStatusForErrorCode(code), models.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

const actorContextKey = "actor"

// SetActor stores the request actor in the Gin context
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorContextKey, actor)
}

// GetActor extracts the request actor from the Gin context, defaulting to an
// anonymous client when the middleware did not run.
func GetActor(c *gin.Context) models.Actor {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{Role: models.RoleClient}
	}
	actor, ok := value.(models.Actor)
	if !ok {
		return models.Actor{Role: models.RoleClient}
	}
	return actor
}

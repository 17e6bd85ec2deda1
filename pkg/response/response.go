package response

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"leetcoders.uz/directory/pkg/apperror"
	"leetcoders.uz/directory/pkg/dto"
)

// VisitorKey is the gin context key holding the visitor uuid.
const VisitorKey = "visitor_id"

// GetVisitorID retrieves the visitor ID set by the visitor middleware
func GetVisitorID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(VisitorKey)
	if !exists {
		return uuid.Nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	ResponseErrorMessage(c, err, err.Error())
}

// ResponseErrorMessage writes err's status with a caller supplied message.
func ResponseErrorMessage(c *gin.Context, err error, message string) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code >= http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, dto.ErrorResponse{Error: message})
}

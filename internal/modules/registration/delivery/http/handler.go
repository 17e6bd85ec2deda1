package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leetcoders.uz/directory/internal/modules/registration/dto"
	registrationService "leetcoders.uz/directory/internal/modules/registration/service"
	"leetcoders.uz/directory/pkg/apperror"
	"leetcoders.uz/directory/pkg/response"
)

type RegistrationHandler struct {
	service registrationService.RegistrationService
}

func NewRegistrationHandler(service registrationService.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// AddUser handles POST /api/v1/users
func (h *RegistrationHandler) AddUser(c *gin.Context) {
	var req dto.AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseErrorMessage(c, apperror.ErrBadRequest, "invalid request body")
		return
	}

	outcome, err := h.service.Submit(c.Request.Context(), response.GetVisitorID(c), req.Username)
	if err != nil {
		response.ResponseErrorMessage(c, err, outcome.Message)
		return
	}

	c.JSON(http.StatusCreated, dto.AddUserResponse{
		Message: outcome.Message,
		Data:    outcome.User,
	})
}

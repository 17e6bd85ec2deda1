package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leetcoders.uz/directory/internal/modules/directory/dto"
	directoryService "leetcoders.uz/directory/internal/modules/directory/service"
	"leetcoders.uz/directory/pkg/apperror"
	pageDto "leetcoders.uz/directory/pkg/dto"
	"leetcoders.uz/directory/pkg/response"
	"leetcoders.uz/directory/pkg/validator"
)

type DirectoryHandler struct {
	service directoryService.DirectoryService
}

func NewDirectoryHandler(service directoryService.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// SearchUsers handles GET /api/v1/users?country=&page=
func (h *DirectoryHandler) SearchUsers(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseErrorMessage(c, apperror.ErrBadRequest, validator.FormatValidationError(err))
		return
	}

	result, err := h.service.Search(c.Request.Context(), response.GetVisitorID(c), query.Country, query.Page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var message string
	if result.ShowNotFound() {
		message = dto.NoUsersFoundMessage
	}

	c.JSON(http.StatusOK, dto.SearchResponse{
		Data: result.Rows,
		Meta: pageDto.PaginationMeta{
			CurrentPage: result.Page,
			TotalPages:  result.TotalPages,
			TotalItems:  int64(result.TotalCount),
			Limit:       result.PageSize,
		},
		Country: result.Country,
		State:   result.State,
		Message: message,
	})
}

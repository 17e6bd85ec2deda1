package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	directoryService "leetcoders.uz/directory/internal/modules/directory/service"
	"leetcoders.uz/directory/internal/modules/page"
	"leetcoders.uz/directory/internal/modules/page/dto"
	registrationDto "leetcoders.uz/directory/internal/modules/registration/dto"
	registrationService "leetcoders.uz/directory/internal/modules/registration/service"
	inflight "leetcoders.uz/directory/internal/service"
	"leetcoders.uz/directory/pkg/apperror"
	"leetcoders.uz/directory/pkg/response"
	"leetcoders.uz/directory/pkg/validator"
)

type PageHandler struct {
	directory    directoryService.DirectoryService
	registration registrationService.RegistrationService
	donationURL  string
}

func NewPageHandler(directory directoryService.DirectoryService, registration registrationService.RegistrationService, donationURL string) *PageHandler {
	return &PageHandler{
		directory:    directory,
		registration: registration,
		donationURL:  donationURL,
	}
}

func (h *PageHandler) view(query dto.PageQuery) dto.PageView {
	return dto.PageView{
		DonationURL: h.donationURL,
		Picker:      dto.NewCountryPicker(query.Country, query.CountryFilter),
		Search:      h.directory.Idle(query.Country),
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, query, err)
		return
	}

	c.HTML(http.StatusOK, page.IndexTemplate, h.view(query))
}

// Search handles GET /search. Submitting with action=filter only narrows the
// country picker.
func (h *PageHandler) Search(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, query, err)
		return
	}

	view := h.view(query)
	if query.Action == dto.FilterAction {
		c.HTML(http.StatusOK, page.IndexTemplate, view)
		return
	}

	result, err := h.directory.Search(c.Request.Context(), response.GetVisitorID(c), query.Country, query.Page)
	view.Search = result
	if err != nil {
		view.Notice = noticeFor(err)
		c.HTML(apperror.MapErrorToStatus(err), page.IndexTemplate, view)
		return
	}

	c.HTML(http.StatusOK, page.IndexTemplate, view)
}

// AddUser handles POST /add-user. The form carries the search card's country
// and page so the card is shown as it was.
func (h *PageHandler) AddUser(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindWith(&query, binding.Form); err != nil {
		h.badRequest(c, query, err)
		return
	}

	var req registrationDto.AddUserRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.badRequest(c, query, err)
		return
	}

	outcome, err := h.registration.Submit(c.Request.Context(), response.GetVisitorID(c), req.Username)

	view := h.view(query)
	view.Registration = outcome
	if query.Page > 0 {
		// a search failure or overlap just leaves the card idle
		if result, searchErr := h.directory.Search(c.Request.Context(), response.GetVisitorID(c), query.Country, query.Page); searchErr == nil {
			view.Search = result
		}
	}

	status := http.StatusOK
	if errors.Is(err, apperror.ErrRequestInFlight) {
		status = http.StatusConflict
	}
	c.HTML(status, page.IndexTemplate, view)
}

func (h *PageHandler) badRequest(c *gin.Context, query dto.PageQuery, err error) {
	log.Printf("Invalid page request %s %s: %v", c.Request.Method, c.Request.URL.Path, err)

	view := h.view(query)
	view.Notice = validator.FormatValidationError(err)
	c.HTML(http.StatusBadRequest, page.IndexTemplate, view)
}

func noticeFor(err error) string {
	if errors.Is(err, apperror.ErrRequestInFlight) {
		return inflight.InFlightMessage
	}
	return err.Error()
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"leetcoders.uz/directory/internal/modules/country/catalog"
)

type CountryHandler struct{}

func NewCountryHandler() *CountryHandler {
	return &CountryHandler{}
}

// GetCountries handles GET /api/v1/countries?search=
func (h *CountryHandler) GetCountries(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": catalog.Filter(c.Query("search"))})
}

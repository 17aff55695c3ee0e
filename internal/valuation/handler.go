package valuation

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/property-valuation/condominium", h.appraiseCondominium)
}

type valuationRequest struct {
	PropertyType string  `json:"property_type" binding:"required,uuid"`
	ListingType  string  `json:"listing_type" binding:"required,uuid"`
	City         string  `json:"city" binding:"required,uuid"`
	Sqm          float64 `json:"sqm" binding:"required,gt=0"`
	YearBuilt    int     `json:"year_built" binding:"required,gt=0"`
}

func (h *Handler) appraiseCondominium(c *gin.Context) {
	var req valuationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.YearBuilt > time.Now().Year() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year_built cannot be in the future"})
		return
	}

	result, err := h.Service.Evaluate(c.Request.Context(), Input{
		PropertyTypeID: req.PropertyType,
		ListingTypeID:  req.ListingType,
		CityID:         req.City,
		Sqm:            req.Sqm,
		YearBuilt:      req.YearBuilt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "valuation failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

package listing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)                    // GET /property-listing/search
	rg.GET("/search/:id", h.getByID)               // GET /property-listing/search/:id
	rg.GET("/property-types", h.propertyTypes)     // GET /property-listing/property-types
	rg.GET("/listing-types", h.listingTypes)       // GET /property-listing/listing-types
	rg.GET("/turnover-status", h.turnoverStatuses) // GET /property-listing/turnover-status
	rg.GET("/cities", h.cities)                    // GET /property-listing/cities
}

// searchParams carries the raw query string; cross-field rules live in
// SearchQuery.Validate.
type searchParams struct {
	PropertyType   *string  `form:"property_type" binding:"omitempty,uuid"`
	ListingType    *string  `form:"listing_type" binding:"omitempty,uuid"`
	TurnoverStatus *string  `form:"turnover_status" binding:"omitempty,uuid"`
	City           *string  `form:"city" binding:"omitempty,uuid"`
	Bedroom        *int     `form:"bedroom_count" binding:"omitempty,gt=0"`
	Bathroom       *int     `form:"bathroom_count" binding:"omitempty,gt=0"`
	StudioType     *bool    `form:"studio_type"`
	IsCBD          *bool    `form:"is_cbd"`
	HasImages      *bool    `form:"has_images"`
	Keyword        *string  `form:"ilike"`
	Sqm            *float64 `form:"sqm" binding:"omitempty,gt=0"`
	SqmMin         *float64 `form:"sqm_min" binding:"omitempty,gt=0"`
	SqmMax         *float64 `form:"sqm_max" binding:"omitempty,gt=0"`
	MinPrice       *float64 `form:"min_price" binding:"omitempty,gt=0"`
	MaxPrice       *float64 `form:"max_price" binding:"omitempty,gt=0"`
	PageLimit      int      `form:"page_limit" binding:"omitempty,min=1,max=100"`
}

func (h *Handler) search(c *gin.Context) {
	var params searchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q := SearchQuery{
		PropertyType:   params.PropertyType,
		ListingType:    params.ListingType,
		TurnoverStatus: params.TurnoverStatus,
		City:           params.City,
		Bedroom:        params.Bedroom,
		Bathroom:       params.Bathroom,
		StudioType:     params.StudioType,
		IsCBD:          params.IsCBD,
		HasImages:      params.HasImages,
		Keyword:        params.Keyword,
		Sqm:            params.Sqm,
		SqmMin:         params.SqmMin,
		SqmMax:         params.SqmMax,
		MinPrice:       params.MinPrice,
		MaxPrice:       params.MaxPrice,
		PageLimit:      params.PageLimit,
	}
	if err := q.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.Repo.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}

	p, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) propertyTypes(c *gin.Context) {
	items, err := h.Repo.PropertyTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listingTypes(c *gin.Context) {
	items, err := h.Repo.ListingTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) turnoverStatuses(c *gin.Context) {
	items, err := h.Repo.TurnoverStatuses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) cities(c *gin.Context) {
	items, err := h.Repo.Cities(c.Request.Context(), c.Query("city"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, items)
}

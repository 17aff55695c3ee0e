package scrape

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// webhookResponse is the crawl result the scraping service delivers. Body may
// legitimately be empty when the crawl got an empty document.
type webhookResponse struct {
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	StatusCode int               `json:"statusCode"`
	Credits    int               `json:"credits"`
}

type webhookRequest struct {
	ID        string          `json:"id" binding:"required,uuid"`
	Attempt   int             `json:"attempt"`
	Status    string          `json:"status" binding:"required"`
	StatusURL string          `json:"statusUrl" binding:"required,url"`
	URL       string          `json:"url" binding:"required,url"`
	Response  webhookResponse `json:"response" binding:"required"`
}

// pageStore is the queue surface the webhook writes to.
type pageStore interface {
	Insert(ctx context.Context, scrapeURL, htmlData, status string, singlePage bool) error
}

// Handler receives finished crawl jobs from the scraping service.
type Handler struct {
	Queue pageStore
}

func NewHandler(queue pageStore) *Handler {
	return &Handler{Queue: queue}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/scraper-api/async-job", h.ReceiveAsyncJob)
}

// ReceiveAsyncJob stores the delivered page for the ingest workers to claim.
func (h *Handler) ReceiveAsyncJob(c *gin.Context) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	singlePage, _ := strconv.ParseBool(c.Query("single_page"))

	if err := h.Queue.Insert(c.Request.Context(), req.URL, req.Response.Body, req.Status, singlePage); err != nil {
		log.Printf("[webhook] failed to store page for %s: %v", req.URL, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store scraped page"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received", "job_id": req.ID})
}

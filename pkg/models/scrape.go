package models

import "time"

// ScrapedPage is one raw page delivered by the external scraping service's
// webhook, queued until an ingest job claims it.
type ScrapedPage struct {
	HTMLDataID       int        `json:"html_data_id"`
	ScrapeURL        string     `json:"scrape_url"`
	HTMLData         string     `json:"html_data"`
	ScraperAPIStatus string     `json:"scraper_api_status"`
	SinglePage       bool       `json:"single_page"`
	ScrapeFinish     bool       `json:"scrape_finish"`
	FinishedAt       *time.Time `json:"finished_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

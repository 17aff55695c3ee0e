package scrape

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client talks to the external scraping service's async job API.
type Client struct {
	BaseURL     string
	APIKey      string
	CallbackURL string
	HTTPClient  *http.Client
}

func NewClient(baseURL, apiKey, callbackURL string) *Client {
	return &Client{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		CallbackURL: callbackURL,
		HTTPClient:  &http.Client{Timeout: 12 * time.Second},
	}
}

type asyncJobCallback struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type asyncJobRequest struct {
	APIKey   string           `json:"apiKey"`
	URL      string           `json:"url"`
	Callback asyncJobCallback `json:"callback"`
}

// AsyncJobResponse is the service's acknowledgement of a queued scrape.
type AsyncJobResponse struct {
	ID        string `json:"id"`
	Attempts  int    `json:"attempts"`
	Status    string `json:"status"`
	StatusURL string `json:"statusUrl"`
	URL       string `json:"url"`
}

// AsyncJob queues one scrape; the result arrives later on our webhook.
func (c *Client) AsyncJob(ctx context.Context, urlToScrape string, singlePage bool) (*AsyncJobResponse, error) {
	payload := asyncJobRequest{
		APIKey: c.APIKey,
		URL:    urlToScrape,
		Callback: asyncJobCallback{
			Type: "webhook",
			URL:  fmt.Sprintf("%s?single_page=%t", c.CallbackURL, singlePage),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("scraper api: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scraper api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper api: request: %w", err)
	}

	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("scraper api: status %d: %s", resp.StatusCode, string(respBody))
	}

	var out AsyncJobResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("scraper api: decode: %w", err)
	}
	return &out, nil
}

// searchTarget is one crawlable search-results URL prefix; pages 1..N are
// appended when enqueueing.
type searchTarget struct {
	URL string
}

// SearchTargets lists every (source, category, listing mode) combination the
// crawler requests. The warehouse categories are rent-only on both sources.
func SearchTargets() []searchTarget {
	var out []searchTarget
	both := []string{
		"https://www.lamudi.com.ph/condominium",
		"https://www.lamudi.com.ph/house",
		"https://www.lamudi.com.ph/apartment",
		"https://www.lamudi.com.ph/lot",
		"https://www.myproperty.ph/condominium",
		"https://www.myproperty.ph/house",
		"https://www.myproperty.ph/apartment",
		"https://www.myproperty.ph/land",
	}
	for _, base := range both {
		out = append(out,
			searchTarget{URL: base + "/buy/"},
			searchTarget{URL: base + "/rent/"},
		)
	}
	out = append(out,
		searchTarget{URL: "https://www.lamudi.com.ph/commercial/warehouse/rent/"},
		searchTarget{URL: "https://www.myproperty.ph/metro-manila/commercial/warehouse/rent/"},
	)
	return out
}

// Dispatcher drives the external crawler: paging enqueues for search results
// and single-page jobs for known properties.
type Dispatcher struct {
	DB      *sql.DB
	Client  *Client
	Enabled bool
	// Pages is how many search-result pages are requested per target.
	Pages int
	// LinkBatch bounds how many properties get a single-page job per run.
	LinkBatch int
}

func NewDispatcher(db *sql.DB, client *Client, enabled bool) *Dispatcher {
	return &Dispatcher{
		DB:        db,
		Client:    client,
		Enabled:   enabled,
		Pages:     100,
		LinkBatch: 5,
	}
}

// EnqueueSearchPages requests every search-results page for every target.
func (d *Dispatcher) EnqueueSearchPages(ctx context.Context) error {
	if !d.Enabled {
		return nil
	}

	for _, target := range SearchTargets() {
		for page := 1; page <= d.Pages; page++ {
			url := fmt.Sprintf("%s?page=%d", target.URL, page)
			if _, err := d.Client.AsyncJob(ctx, url, false); err != nil {
				// The crawl is resumed by the next scheduled run.
				return fmt.Errorf("enqueue %s: %w", url, err)
			}
		}
	}
	return nil
}

// LinkSinglePageJobs finds properties that never had a detail-page scrape,
// requests one, and records the returned job id. The read-then-write runs in
// one transaction so two overlapping runs cannot double-request a property.
func (d *Dispatcher) LinkSinglePageJobs(ctx context.Context) error {
	if !d.Enabled {
		return nil
	}

	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT property_id, listing_url
		FROM properties
		WHERE (listing_url ILIKE '%https://www.lamudi.com.ph%'
		   OR  listing_url ILIKE '%https://www.myproperty.ph%')
		  AND scraper_api_async_job_id IS NULL
		  AND scraper_api_last_run_date IS NULL
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, d.LinkBatch)
	if err != nil {
		return fmt.Errorf("select unlinked: %w", err)
	}

	type unlinked struct{ id, url string }
	var pending []unlinked
	for rows.Next() {
		var u unlinked
		if err := rows.Scan(&u.id, &u.url); err != nil {
			rows.Close()
			return fmt.Errorf("scan unlinked: %w", err)
		}
		pending = append(pending, u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("unlinked rows: %w", err)
	}

	for _, u := range pending {
		var existing int
		err := tx.QueryRowContext(ctx, `
			SELECT html_data_id FROM scraper_api_data WHERE scrape_url = $1 LIMIT 1
		`, u.url).Scan(&existing)
		if err == nil {
			continue // already scraped
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check scrape data for %s: %w", u.id, err)
		}

		log.Printf("[dispatch] no scrape data for %s, requesting single page", u.id)

		resp, err := d.Client.AsyncJob(ctx, u.url, true)
		if err != nil {
			return fmt.Errorf("async job for %s: %w", u.id, err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE properties
			SET scraper_api_async_job_id = $1, scraper_api_last_run_date = NOW()
			WHERE property_id = $2
		`, resp.ID, u.id); err != nil {
			return fmt.Errorf("link job for %s: %w", u.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

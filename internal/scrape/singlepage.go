package scrape

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"propertyhub/pkg/models"
)

// The detail pages embed a dataLayer blob in their first script tag; city and
// description are pulled out of it with best-effort regex matching. Brittle,
// but it tolerates the malformed pages a structured parse would reject.
var (
	locationPattern    = regexp.MustCompile(`"location":\s*(\{[\s\S]*?\})`)
	descriptionPattern = regexp.MustCompile(`"description":\s*(\{[\s\S]*?\})`)
)

var singlePageSources = []string{
	"https://www.lamudi.com.ph",
	"https://www.myproperty.ph",
}

// SinglePageUpdater backfills images, description and city on existing
// properties from their scraped detail pages.
type SinglePageUpdater struct {
	DB    *sql.DB
	Queue *Queue
	Limit int
}

func NewSinglePageUpdater(db *sql.DB, queue *Queue) *SinglePageUpdater {
	return &SinglePageUpdater{DB: db, Queue: queue, Limit: 5}
}

func (u *SinglePageUpdater) Run(ctx context.Context) error {
	pages, err := u.Queue.ClaimSinglePages(ctx, singlePageSources, u.Limit)
	if err != nil {
		return err
	}

	log.Printf("[single-page] claimed %d page(s)", len(pages))

	for _, page := range pages {
		if err := u.applyOne(ctx, page); err != nil {
			log.Printf("[single-page] %s: %v", page.ScrapeURL, err)
		}
	}
	return nil
}

func (u *SinglePageUpdater) applyOne(ctx context.Context, page models.ScrapedPage) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTMLData))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	var images []string
	doc.Find(".Banner-Images img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("data-src"); ok && src != "" {
			images = append(images, src)
		}
	})

	script := doc.Find("script").First().Text()
	if strings.Contains(script, "dataLayer = ") {
		if city, ok := extractJSONField(locationPattern, script, "city"); ok {
			u.updateCity(ctx, page.ScrapeURL, city)
		}
		if description, ok := extractJSONField(descriptionPattern, script, "text"); ok {
			if err := u.updateColumn(ctx, page.ScrapeURL, "description", description); err != nil {
				log.Printf("[single-page] description %s: %v", page.ScrapeURL, err)
			} else {
				log.Printf("[single-page] description updated: %s", page.ScrapeURL)
			}
		}
	}

	if len(images) > 0 {
		blob, err := json.Marshal(images)
		if err != nil {
			return fmt.Errorf("marshal images: %w", err)
		}
		if err := u.updateColumn(ctx, page.ScrapeURL, "images", blob); err != nil {
			return fmt.Errorf("update images: %w", err)
		}
		log.Printf("[single-page] images updated: %s", page.ScrapeURL)
	}

	return nil
}

func (u *SinglePageUpdater) updateCity(ctx context.Context, listingURL, city string) {
	var cityID string
	err := u.DB.QueryRowContext(ctx, `
		SELECT city_id FROM cities WHERE name ILIKE '%' || $1 || '%'
	`, city).Scan(&cityID)
	if err == sql.ErrNoRows {
		return
	}
	if err != nil {
		log.Printf("[single-page] city lookup %q: %v", city, err)
		return
	}

	if err := u.updateColumn(ctx, listingURL, "city_id", cityID); err != nil {
		log.Printf("[single-page] city %s: %v", listingURL, err)
		return
	}
	log.Printf("[single-page] city id updated: %s", listingURL)
}

func (u *SinglePageUpdater) updateColumn(ctx context.Context, listingURL, column string, value any) error {
	_, err := u.DB.ExecContext(ctx,
		fmt.Sprintf(`UPDATE properties SET %s = $1 WHERE listing_url = $2`, column),
		value, listingURL)
	return err
}

// extractJSONField matches the fragment, decodes it, and pulls one string
// field. Any failure simply reports no match.
func extractJSONField(re *regexp.Regexp, script, field string) (string, bool) {
	m := re.FindStringSubmatch(script)
	if len(m) < 2 {
		return "", false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(m[1]), &obj); err != nil {
		return "", false
	}

	s, ok := obj[field].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

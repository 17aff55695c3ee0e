package scrape

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"propertyhub/pkg/models"
)

// Queue is the durable store of raw scraped pages waiting to be processed.
// Claiming is atomic and happens before parsing: a row is spent once claimed,
// whether or not parsing later succeeds.
type Queue struct {
	DB *sql.DB
}

func NewQueue(db *sql.DB) *Queue {
	return &Queue{DB: db}
}

// Insert enqueues one raw page delivered by the scraping service webhook.
func (q *Queue) Insert(ctx context.Context, scrapeURL, htmlData, status string, singlePage bool) error {
	_, err := q.DB.ExecContext(ctx, `
		INSERT INTO scraper_api_data (scrape_url, html_data, scraper_api_status, single_page)
		VALUES ($1, $2, $3, $4)
	`, scrapeURL, htmlData, status, singlePage)
	if err != nil {
		return fmt.Errorf("queue insert: %w", err)
	}
	return nil
}

// ClaimNext atomically claims up to limit newest unclaimed search-result pages
// whose scrape_url contains pattern (case-insensitive). SKIP LOCKED keeps
// concurrent claims from ever returning overlapping row sets.
func (q *Queue) ClaimNext(ctx context.Context, pattern string, limit int) ([]models.ScrapedPage, error) {
	rows, err := q.DB.QueryContext(ctx, `
		UPDATE scraper_api_data
		SET scrape_finish = TRUE, finished_at = NOW()
		WHERE html_data_id IN (
			SELECT html_data_id
			FROM scraper_api_data
			WHERE scrape_url ILIKE '%' || $1 || '%'
			  AND scrape_finish = FALSE
			  AND finished_at IS NULL
			  AND single_page = FALSE
			ORDER BY html_data_id DESC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING html_data_id, html_data, scrape_url
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("queue claim %q: %w", pattern, err)
	}
	defer rows.Close()

	return scanClaimed(rows)
}

// ClaimSinglePages claims detail-page rows matching any of the given source
// patterns.
func (q *Queue) ClaimSinglePages(ctx context.Context, patterns []string, limit int) ([]models.ScrapedPage, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	var or []string
	var args []any
	for i, p := range patterns {
		or = append(or, fmt.Sprintf("scrape_url ILIKE '%%' || $%d || '%%'", i+1))
		args = append(args, p)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		UPDATE scraper_api_data
		SET scrape_finish = TRUE, finished_at = NOW()
		WHERE html_data_id IN (
			SELECT html_data_id
			FROM scraper_api_data
			WHERE (%s)
			  AND scrape_finish = FALSE
			  AND single_page = TRUE
			ORDER BY html_data_id DESC
			LIMIT $%d
			FOR UPDATE SKIP LOCKED
		)
		RETURNING html_data_id, html_data, scrape_url
	`, strings.Join(or, " OR "), len(patterns)+1)

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("queue claim single pages: %w", err)
	}
	defer rows.Close()

	return scanClaimed(rows)
}

// HasAny reports whether any row (claimed or not) still matches the pattern.
func (q *Queue) HasAny(ctx context.Context, pattern string) (bool, error) {
	var id int
	err := q.DB.QueryRowContext(ctx, `
		SELECT html_data_id
		FROM scraper_api_data
		WHERE scrape_url ILIKE '%' || $1 || '%'
		ORDER BY html_data_id DESC
		LIMIT 1
	`, pattern).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("queue has any %q: %w", pattern, err)
	}
	return true, nil
}

// Purge deletes every row matching the pattern, claimed or not.
func (q *Queue) Purge(ctx context.Context, pattern string) (int64, error) {
	res, err := q.DB.ExecContext(ctx, `
		DELETE FROM scraper_api_data
		WHERE scrape_url ILIKE '%' || $1 || '%'
	`, pattern)
	if err != nil {
		return 0, fmt.Errorf("queue purge %q: %w", pattern, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func scanClaimed(rows *sql.Rows) ([]models.ScrapedPage, error) {
	var out []models.ScrapedPage
	for rows.Next() {
		var page models.ScrapedPage
		if err := rows.Scan(&page.HTMLDataID, &page.HTMLData, &page.ScrapeURL); err != nil {
			return nil, fmt.Errorf("queue scan: %w", err)
		}
		out = append(out, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("queue rows: %w", err)
	}
	return out, nil
}

package scrape

import (
	"context"
	"log"
	"strings"

	"propertyhub/pkg/models"
	"propertyhub/pkg/refdata"
)

// PageQueue is the claim surface the ingestor drives. A claim spends the row
// whether or not parsing later succeeds.
type PageQueue interface {
	ClaimNext(ctx context.Context, pattern string, limit int) ([]models.ScrapedPage, error)
	HasAny(ctx context.Context, pattern string) (bool, error)
	Purge(ctx context.Context, pattern string) (int64, error)
}

// Ingestor runs the claim -> extract -> normalize -> upsert pipeline for one
// source job at a time.
type Ingestor struct {
	Queue PageQueue
	Coord *Coordinator
	Ref   *refdata.Set
	// Enabled gates scraping globally (ALLOW_SCRAPING).
	Enabled bool
	// Workers bounds concurrent upserts within one batch.
	Workers int
}

func NewIngestor(queue PageQueue, coord *Coordinator, ref *refdata.Set, enabled bool) *Ingestor {
	return &Ingestor{
		Queue:   queue,
		Coord:   coord,
		Ref:     ref,
		Enabled: enabled,
		Workers: 4,
	}
}

// Run processes one batch for the given job. Pages that fail to parse are
// logged and stay claimed; there is no retry path, later runs move on to the
// next unclaimed batch.
func (ing *Ingestor) Run(ctx context.Context, job SourceJob) error {
	if !ing.Enabled {
		return nil
	}

	pages, err := ing.Queue.ClaimNext(ctx, job.Pattern, job.Limit)
	if err != nil {
		return err
	}

	log.Printf("[ingest] %s: claimed %d page(s)", job.Name, len(pages))

	if len(pages) == 0 {
		if job.PurgeOnEmpty {
			return ing.purgeExhausted(ctx, job)
		}
		return nil
	}

	pool := newWorkerPool(ing.Workers)
	for _, page := range pages {
		cards, err := ExtractCards(page.HTMLData)
		if err != nil {
			// Row stays claimed for manual inspection.
			log.Printf("[ingest] %s: page %d unparsable: %v", job.Name, page.HTMLDataID, err)
			continue
		}

		isBuy := strings.Contains(page.ScrapeURL, "buy")
		for _, card := range cards {
			card.IsBuy = isBuy
			item := card
			pool.Submit(func() {
				ing.upsertOne(ctx, job, item)
			})
		}
	}
	pool.Wait()

	return nil
}

// RunAll runs every job once, sequentially. Used by the one-shot scraper
// binary.
func (ing *Ingestor) RunAll(ctx context.Context, jobs []SourceJob) {
	for _, job := range jobs {
		if err := ing.Run(ctx, job); err != nil {
			log.Printf("[ingest] %s: %v", job.Name, err)
		}
	}
}

// upsertOne is one row's unit of work; a failure here never aborts the batch.
func (ing *Ingestor) upsertOne(ctx context.Context, job SourceJob, item Candidate) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ingest] %s: recovered while normalizing %s: %v", job.Name, item.Href, r)
		}
	}()

	row := Normalize(item, job, ing.Ref)
	id, err := ing.Coord.Upsert(ctx, row, item.Metadata)
	if err != nil {
		log.Printf("[ingest] %s: upsert %s: %v", job.Name, item.Href, err)
		return
	}
	if id != "" {
		log.Printf("[ingest] %s: new property %s", job.Name, id)
	}
}

// purgeExhausted drops all leftover rows for the pattern once the source
// category has no unclaimed work left.
func (ing *Ingestor) purgeExhausted(ctx context.Context, job SourceJob) error {
	has, err := ing.Queue.HasAny(ctx, job.Pattern)
	if err != nil || !has {
		return err
	}

	n, err := ing.Queue.Purge(ctx, job.Pattern)
	if err != nil {
		return err
	}
	log.Printf("[ingest] %s: purged %d exhausted queue row(s)", job.Name, n)
	return nil
}

package main

import (
	"context"
	"log"
	"time"

	"propertyhub/internal/scrape"
	"propertyhub/pkg/config"
	"propertyhub/pkg/database"
	"propertyhub/pkg/refdata"
)

// One-shot ingest pass over every queued page, for manual runs and backfills.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.MustLoad()

	db := database.MustOpen(cfg.DSN())
	defer db.Close()

	// Ensure schema exists
	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	ref, err := refdata.Load(ctx, db)
	if err != nil {
		log.Fatalf("refdata load failed: %v", err)
	}

	queue := scrape.NewQueue(db)
	coord := scrape.NewCoordinator(scrape.NewSQLPropertyStore(db))
	ingestor := scrape.NewIngestor(queue, coord, ref, cfg.AllowScraping)

	ingestor.RunAll(ctx, scrape.DefaultJobs())

	singlePage := scrape.NewSinglePageUpdater(db, queue)
	if err := singlePage.Run(ctx); err != nil {
		log.Printf("single page update failed: %v", err)
	}

	log.Println("ingest pass complete")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"propertyhub/internal/embedding"
	"propertyhub/internal/jobs"
	"propertyhub/internal/listing"
	"propertyhub/internal/scrape"
	"propertyhub/internal/valuation"
	"propertyhub/pkg/config"
	"propertyhub/pkg/database"
	"propertyhub/pkg/refdata"
)

func main() {
	cfg := config.MustLoad()

	db := database.MustOpen(cfg.DSN())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref, err := refdata.Load(ctx, db)
	if err != nil {
		log.Fatalf("refdata load failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		pingCtx, pingCancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer pingCancel()

		if err := db.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "db": "ok"})
	})

	// Scrape webhook
	queue := scrape.NewQueue(db)
	scrapeHandler := scrape.NewHandler(queue)
	scrapeHandler.RegisterRoutes(router)

	// Search
	listingRepo := listing.NewRepo(db, ref)
	listingHandler := listing.NewHandler(listingRepo)
	listingHandler.RegisterRoutes(router.Group("/property-listing"))

	// Valuation
	valuationSvc := valuation.NewService(
		db,
		cfg.CondominiumLifeSpanYears,
		cfg.PropertyStatusSoldID,
		cfg.PropertyStatusClosedID,
		ref.PropertyStatuses[refdata.PropertyStatusAvailable],
	)
	valuation.NewHandler(valuationSvc).RegisterRoutes(router)

	// Background jobs
	coord := scrape.NewCoordinator(scrape.NewSQLPropertyStore(db))
	ingestor := scrape.NewIngestor(queue, coord, ref, cfg.AllowScraping)
	singlePage := scrape.NewSinglePageUpdater(db, queue)

	runner := jobs.NewRunner()
	for _, job := range scrape.DefaultJobs() {
		job := job
		runner.Add("ingest-"+job.Name, job.Every, func(ctx context.Context) error {
			return ingestor.Run(ctx, job)
		})
	}
	runner.Add("single-page-update", 5*time.Second, singlePage.Run)

	if cfg.ScraperAPIURL != "" {
		client := scrape.NewClient(cfg.ScraperAPIURL, cfg.ScraperAPIKey, cfg.ScraperAPICallback)
		dispatcher := scrape.NewDispatcher(db, client, cfg.AllowScraping)
		runner.Add("link-single-page-jobs", 5*time.Second, dispatcher.LinkSinglePageJobs)
		runner.Add("enqueue-search-pages", 7*24*time.Hour, dispatcher.EnqueueSearchPages)
	} else {
		log.Println("[main] SCRAPER_API_URL not set, dispatch jobs disabled")
	}

	if cfg.EmbeddingAPIKey != "" {
		embedClient := embedding.NewClient(cfg.EmbeddingAPIURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
		vectorizer := embedding.NewVectorizer(db, embedClient)
		runner.Add("embedding-backfill", 5*time.Second, vectorizer.Run)
	} else {
		log.Println("[main] EMBEDDING_API_KEY not set, embedding job disabled")
	}

	runner.Start(ctx)

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	runner.Wait()
	log.Println("stopped")
}

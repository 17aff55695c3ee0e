package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatabaseHost    string
	DatabasePort    string
	DatabaseUser    string
	DatabasePass    string
	DatabaseName    string
	DatabaseSSLMode string

	HTTPAddr string

	// AllowScraping globally disables every ingest/dispatch job when false.
	AllowScraping bool

	ScraperAPIURL      string
	ScraperAPIKey      string
	ScraperAPICallback string

	CondominiumLifeSpanYears int
	PropertyStatusSoldID     string
	PropertyStatusClosedID   string

	EmbeddingAPIURL string
	EmbeddingAPIKey string
	EmbeddingModel  string
}

// Load reads the .env file (if present) and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, falling back to system env vars")
	}

	cfg := &Config{
		DatabaseHost:    getEnv("DATABASE_HOST", "localhost"),
		DatabasePort:    getEnv("DATABASE_PORT", "5432"),
		DatabaseUser:    getEnv("DATABASE_USER", ""),
		DatabasePass:    getEnv("DATABASE_PASS", ""),
		DatabaseName:    getEnv("DATABASE_NAME", ""),
		DatabaseSSLMode: getEnv("DATABASE_SSLMODE", "disable"),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		AllowScraping: getEnv("ALLOW_SCRAPING", "1") != "0",

		ScraperAPIURL:      getEnv("SCRAPER_API_URL", ""),
		ScraperAPIKey:      getEnv("SCRAPER_API_KEY", ""),
		ScraperAPICallback: getEnv("SCRAPER_API_ASYNC_JOB_CALLBACK", ""),

		CondominiumLifeSpanYears: getEnvInt("CONDOMINIUM_LIFE_SPAN_IN_YEARS", 50),
		PropertyStatusSoldID:     getEnv("PROPERTY_STATUS_SOLD_ID", ""),
		PropertyStatusClosedID:   getEnv("PROPERTY_STATUS_CLOSED_ID", ""),

		// Empty means the embeddings client's default endpoint.
		EmbeddingAPIURL: getEnv("EMBEDDING_API_URL", ""),
		EmbeddingAPIKey: getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load with a fatal on error, for use in main.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	required := map[string]string{
		"DATABASE_USER": c.DatabaseUser,
		"DATABASE_NAME": c.DatabaseName,
	}
	for key, val := range required {
		if val == "" {
			return fmt.Errorf("config: %s is required", key)
		}
	}
	if c.CondominiumLifeSpanYears <= 0 {
		return fmt.Errorf("config: CONDOMINIUM_LIFE_SPAN_IN_YEARS must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.DatabaseHost +
		" port=" + c.DatabasePort +
		" user=" + c.DatabaseUser +
		" password=" + c.DatabasePass +
		" dbname=" + c.DatabaseName +
		" sslmode=" + c.DatabaseSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

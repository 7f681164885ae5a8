package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"studyrag/loader/service"
	"studyrag/store"
	"studyrag/types"

	"github.com/joho/godotenv"
)

func init() {
	mustLoadEnvVariables()
}

func main() {
	ctx := context.Background()
	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
	pool, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		log.Fatal("error to connect to Postgres database", err)
		return
	}

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables", err)
		return
	}

	service.New(pool, loadConfig()).Run()

	log.Println("Closing database connection pool...")
	if err := pool.Close(); err != nil {
		log.Printf("error closing pool: %v\n", err)
	} else {
		log.Println("Database connection pool closed successfully")
	}
}

func loadConfig() types.Config {
	monitoring, err := strconv.Atoi(os.Getenv("MONITORING_TIME"))
	if err != nil || monitoring <= 0 {
		monitoring = 5
	}
	chunkSize, _ := strconv.Atoi(os.Getenv("CHUNK_SIZE"))
	chunkOverlap, _ := strconv.Atoi(os.Getenv("CHUNK_OVERLAP"))

	strategy := os.Getenv("CHUNK_STRATEGY")
	if strategy == "" {
		strategy = "headings"
	}

	return types.Config{
		MonitoringTime: time.Duration(monitoring) * time.Second,
		SourceDir:      os.Getenv("LOADER_SOURCE_DIR"),
		ArchiveDir:     os.Getenv("LOADER_ARCHIVE_DIR"),
		BadDir:         os.Getenv("LOADER_BAD_DIR"),
		Strategy:       strategy,
		ChunkSize:      chunkSize,
		ChunkOverlap:   chunkOverlap,
	}
}

func mustLoadEnvVariables() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

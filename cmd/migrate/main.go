package main

import (
	"context"
	"log"
	"os"

	"rag-compare-be/internal/model"
	"rag-compare-be/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

// migrationLockID serializes concurrent migrators via pg_advisory_lock.
const migrationLockID = 815502

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	ctx := context.Background()

	// 2. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	// Done over a raw pgx connection so the advisory lock lives on a single
	// session for the whole run.
	log.Println("Step 1: Setting up Extensions...")

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrationLockID); err != nil {
		log.Fatalf("Error: Failed to acquire migration lock: %v", err)
	}

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if _, err := conn.Exec(ctx, sql); err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 3. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatalf("Error: Failed to connect to GORM DB: %v", err)
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate for 4 Tables...")

	models := []interface{}{
		&model.ComparisonSession{},
		&model.ComparisonMessage{},
		&model.Document{},
		&model.DocumentChunk{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Indexes GORM tags can't express
	log.Println("Step 3: Creating Vector Index...")

	postMigrationSQL := []string{
		// HNSW keeps top-K cosine lookups fast once the corpus grows.
		// Requires pgvector >= 0.5; older installs fall back to a seq scan.
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_embedding
		 ON document_chunks USING hnsw (embedding_value vector_cosine_ops);`,
	}
	for _, sql := range postMigrationSQL {
		if _, err := conn.Exec(ctx, sql); err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, migrationLockID); err != nil {
		log.Printf("Warn: Failed to release migration lock: %v", err)
	}
	conn.Close(ctx)

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}

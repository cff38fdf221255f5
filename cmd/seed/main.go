package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"docjays/internal/config"
	"docjays/internal/domain/models"
	"docjays/internal/domain/services"
	"docjays/internal/repository/postgres"
	revisionsvc "docjays/internal/service/revision"
)

// seedFile is the YAML fixture format: documents with an optional initial
// revision that is proposed and approved through the engine itself.
type seedFile struct {
	Documents []seedDocument `yaml:"documents"`
}

type seedDocument struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Content         string        `yaml:"content"`
	InitialRevision *seedRevision `yaml:"initial_revision"`
}

type seedRevision struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Content     string `yaml:"content"`
	Approve     bool   `yaml:"approve"`
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed documents")
	fixtures := flag.String("file", "seed/documents.yaml", "YAML fixture file to seed from")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	data, err := os.ReadFile(*fixtures)
	if err != nil {
		log.Fatalf("Failed to read fixture file %s: %v", *fixtures, err)
	}
	var seeds seedFile
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse fixture file: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	revisionRepo := postgres.NewRevisionRepository(repoConfig)
	documentRepo := postgres.NewDocumentRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Initial revisions go through the engine, not raw inserts, so seeded
	// data satisfies the same invariants as production data
	revisionService := revisionsvc.NewRevisionService(revisionRepo, documentRepo, txManager, nil, logger)

	for i, seed := range seeds.Documents {
		id := seed.ID
		if id == "" {
			id = uuid.NewString()
		}

		now := time.Now().UTC()
		doc := &models.Document{
			ID:        id,
			Name:      seed.Name,
			Content:   seed.Content,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := documentRepo.Create(ctx, doc); err != nil {
			log.Printf("❌ Failed to create document '%s': %v", seed.Name, err)
			continue
		}

		log.Printf("✅ Created document %d/%d: %s (ID: %s)", i+1, len(seeds.Documents), seed.Name, doc.ID)

		if seed.InitialRevision == nil {
			continue
		}

		rev, err := revisionService.CreateRevision(ctx, &services.CreateRevisionRequest{
			DocumentID:   doc.ID,
			Title:        seed.InitialRevision.Title,
			Description:  seed.InitialRevision.Description,
			Content:      seed.InitialRevision.Content,
			Status:       string(models.StatusProposed),
			SourceClient: "seed",
		})
		if err != nil {
			log.Printf("❌ Failed to create initial revision for '%s': %v", seed.Name, err)
			continue
		}

		if seed.InitialRevision.Approve {
			if _, err := revisionService.ApproveRevision(ctx, rev.ID); err != nil {
				log.Printf("❌ Failed to approve initial revision for '%s': %v", seed.Name, err)
				continue
			}
			log.Printf("   📌 Approved initial revision %s as main", rev.ID)
		}
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates the engine's tables if they don't exist. The
// single-main invariant is deliberately NOT a database constraint; the
// engine enforces it through the approval transaction.
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				main_revision_id UUID,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`, tables.Documents),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				document_id UUID NOT NULL REFERENCES %s(id),
				based_on_revision_id UUID,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				content TEXT NOT NULL,
				status VARCHAR(16) NOT NULL,
				is_main BOOLEAN NOT NULL DEFAULT false,
				has_conflicts BOOLEAN NOT NULL DEFAULT false,
				conflict_reason TEXT,
				author_type VARCHAR(8) NOT NULL DEFAULT 'human',
				source_client VARCHAR(64) NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				proposed_at TIMESTAMPTZ,
				approved_at TIMESTAMPTZ,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Revisions, tables.Documents),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_document_created_idx
			ON %s (document_id, created_at)
		`, tables.Revisions, tables.Revisions),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("run schema statement: %w", err)
		}
	}

	return nil
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Revisions, tables.Documents} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"caseflow/internal/config"
	models "caseflow/internal/domain/models/casefile"
	cfSvc "caseflow/internal/domain/services/casefile"
	"caseflow/internal/repository/postgres"
	postgresCasefile "caseflow/internal/repository/postgres/casefile"
	serviceCasefile "caseflow/internal/service/casefile"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	clearData := flag.Bool("clear-data", false, "Clear all documents, folders, analyses and notifications (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	seedUserID := os.Getenv("SEED_USER_ID")
	if seedUserID == "" {
		seedUserID = "seed-user"
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing data...")
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Create repositories and services
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgresCasefile.NewDocumentRepository(repoConfig)
	analysisRepo := postgresCasefile.NewAnalysisRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	listener := noopListener{}
	docService := serviceCasefile.NewDocumentService(docRepo, listener, logger)
	folderService := serviceCasefile.NewFolderService(docRepo, txManager, listener, logger)

	// Clear existing data before seeding
	log.Println("⚠️  Clearing existing data...")
	if err := clearAllData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	log.Println("📝 Seeding client folders and documents...")

	// Client folder with typed subfolders
	jane, err := folderService.CreateFolder(ctx, &cfSvc.CreateFolderRequest{
		UserID:     seedUserID,
		Name:       "Jane Doe",
		FolderType: models.FolderTypeClient,
	})
	if err != nil {
		log.Fatalf("Failed to create client folder: %v", err)
	}
	for _, sub := range []struct{ name, folderType string }{
		{"Forms", models.FolderTypeForm},
		{"Financial Sheets", models.FolderTypeFinancial},
		{"Documents", models.FolderTypeGeneral},
	} {
		if _, err := folderService.CreateFolder(ctx, &cfSvc.CreateFolderRequest{
			UserID:         seedUserID,
			Name:           sub.name,
			FolderType:     sub.folderType,
			ParentFolderID: &jane.ID,
		}); err != nil {
			log.Fatalf("Failed to create subfolder %q: %v", sub.name, err)
		}
	}

	// A second client with no subfolders yet
	if _, err := folderService.CreateFolder(ctx, &cfSvc.CreateFolderRequest{
		UserID:     seedUserID,
		Name:       "John Smith",
		FolderType: models.FolderTypeClient,
	}); err != nil {
		log.Fatalf("Failed to create client folder: %v", err)
	}

	// Uncategorized documents awaiting recommendation
	seedDocs := []struct {
		title    string
		metadata map[string]any
		analysis *models.ExtractedInfo
	}{
		{
			title: "Form 47 - Jane Doe.pdf",
			metadata: map[string]any{
				"extracted_text": "Consumer Proposal of Jane Doe, estate number 35-123456",
			},
			analysis: &models.ExtractedInfo{
				ClientName:         "Jane Doe",
				ConsumerDebtorName: "Jane Doe",
				FormType:           models.FormTypeForm47,
				EstateNumber:       "35-123456",
			},
		},
		{
			title: "budget_2024.xlsx",
			metadata: map[string]any{
				"client_name": "John Smith",
			},
		},
		{title: "meeting notes.txt"},
	}

	for _, sd := range seedDocs {
		doc, err := docService.CreateDocument(ctx, &cfSvc.CreateDocumentRequest{
			UserID:   seedUserID,
			Title:    sd.title,
			Metadata: sd.metadata,
		})
		if err != nil {
			log.Printf("❌ Failed to create document %q: %v", sd.title, err)
			continue
		}

		// Pre-analyzed documents are immediate recommendation candidates.
		if sd.analysis != nil {
			if err := analysisRepo.Upsert(ctx, &models.DocumentAnalysis{
				DocumentID: doc.ID,
				Content:    models.AnalysisContent{ExtractedInfo: *sd.analysis},
				CreatedAt:  time.Now(),
			}); err != nil {
				log.Printf("❌ Failed to store analysis for %q: %v", sd.title, err)
				continue
			}
			if err := docRepo.SetProcessingStatus(ctx, doc.ID, models.ProcessingComplete); err != nil {
				log.Printf("❌ Failed to mark %q complete: %v", sd.title, err)
			}
		}
	}

	log.Println("✅ Seeding complete")
}

// noopListener satisfies the change listener; the engine is not running
// during seeding.
type noopListener struct{}

func (noopListener) Trigger() {}

func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %[1]s (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			is_folder BOOLEAN NOT NULL DEFAULT FALSE,
			folder_type TEXT NOT NULL DEFAULT '',
			parent_folder_id TEXT REFERENCES %[1]s(id) ON DELETE CASCADE,
			metadata JSONB,
			ai_processing_status TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_%[1]s_parent ON %[1]s (parent_folder_id);

		CREATE TABLE IF NOT EXISTS %[2]s (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL UNIQUE REFERENCES %[1]s(id) ON DELETE CASCADE,
			content JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS %[3]s (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT '',
			action_type TEXT NOT NULL DEFAULT '',
			metadata JSONB,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_%[3]s_user ON %[3]s (user_id, created_at DESC);
	`, tables.Documents, tables.Analyses, tables.Notifications)

	_, err := pool.Exec(ctx, schema)
	return err
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	drop := fmt.Sprintf(`
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
		DROP TABLE IF EXISTS %s CASCADE;
	`, tables.Analyses, tables.Notifications, tables.Documents)

	_, err := pool.Exec(ctx, drop)
	return err
}

func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	stmt := fmt.Sprintf(`
		DELETE FROM %s;
		DELETE FROM %s;
		DELETE FROM %s;
	`, tables.Analyses, tables.Notifications, tables.Documents)

	_, err := pool.Exec(ctx, stmt)
	return err
}

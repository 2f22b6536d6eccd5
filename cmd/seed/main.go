package main

import (
	"context"
	_ "embed"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"

	"folio/internal/config"
	"folio/internal/domain/models"
	"folio/internal/domain/services"
	"folio/internal/events"
	"folio/internal/repository/postgres"
	"folio/internal/service"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed pages.yaml
var pagesFixture []byte

// seedPage is one entry in the pages.yaml fixture
type seedPage struct {
	Name              string   `yaml:"name"`
	Thumbnail         string   `yaml:"thumbnail"`
	HTML              string   `yaml:"html"`
	OwnershipType     string   `yaml:"ownership_type"`
	Owners            []string `yaml:"owners"`
	ApprovalThreshold int      `yaml:"approval_threshold"`
	UpdateFee         int64    `yaml:"update_fee"`
	Immutable         bool     `yaml:"immutable"`
}

type fixture struct {
	Pages []seedPage `yaml:"pages"`
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo pages")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if cfg.Debug {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.RunSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	var fx fixture
	if err := yaml.Unmarshal(pagesFixture, &fx); err != nil {
		log.Fatalf("Failed to parse pages fixture: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	pageRepo := postgres.NewPageRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)
	pageService := service.NewPageService(pageRepo, txManager, events.NewBus(), logger)

	log.Printf("📝 Seeding %d demo pages...", len(fx.Pages))

	for i, sp := range fx.Pages {
		caller := ""
		if len(sp.Owners) > 0 {
			caller = sp.Owners[0]
		}
		page, err := pageService.CreatePage(ctx, &services.CreatePageRequest{
			Caller:            caller,
			Name:              sp.Name,
			Thumbnail:         sp.Thumbnail,
			HTML:              sp.HTML,
			OwnershipType:     models.OwnershipType(sp.OwnershipType),
			Owners:            sp.Owners,
			ApprovalThreshold: sp.ApprovalThreshold,
			UpdateFee:         sp.UpdateFee,
			Immutable:         sp.Immutable,
		})
		if err != nil {
			log.Printf("❌ Failed to create page '%s': %v", sp.Name, err)
			continue
		}

		log.Printf("✅ Created page %d/%d: %s (ID: %d, policy: %s)",
			i+1, len(fx.Pages), page.Name, page.ID, page.OwnershipType)
	}

	log.Println("🎉 Seeding complete!")
}

// Package main provides a CLI tool for seeding the database with sample plates.
package main

import (
	"context"
	"fmt"
	"os"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/core/types"
	"plateyard/internal/domain/plate"
	"plateyard/internal/infrastructure/storage/postgres"
	"plateyard/internal/infrastructure/storage/postgres/plate_repo"
	"plateyard/migrations"
	"plateyard/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := postgres.Migrate(ctx, pool, migrations.FS); err != nil {
		log.Fatalw("failed to apply migrations", "error", err)
	}

	service := plate.NewService(plate_repo.NewPlateRepo(postgres.NewTxManager(pool)))

	seeded := 0
	for _, row := range samplePlates() {
		result := service.Add(ctx, id.New(), row)
		if err := result.Err(); err != nil {
			// Duplicates mean the sample was loaded before; skip quietly.
			if !apperror.IsDuplicate(err) {
				log.Fatalw("failed to seed plate", "registration", row.Registration, "error", err)
			}
			continue
		}
		seeded++
	}

	log.Infow("seeding completed", "inserted", seeded)
}

func samplePlates() []plate.Plate {
	rows := []struct {
		registration string
		purchase     string
		sale         string
	}{
		{"AB12 CDE", "500", "750"},
		{"XY34 FGH", "320", "495"},
		{"SM57 ART", "1200", "1800"},
		{"JK21 LMN", "150", "240"},
		{"SO66 ULS", "2100", "3000"},
		{"PQ18 RST", "410", "620"},
		{"SA11 LES", "980", "1450"},
		{"GH73 IJK", "275", "399"},
	}

	plates := make([]plate.Plate, 0, len(rows))
	for _, r := range rows {
		letters, numbers := plate.SplitRegistration(r.registration)
		plates = append(plates, plate.Plate{
			Registration:  r.registration,
			Letters:       letters,
			Numbers:       numbers,
			PurchasePrice: types.MustMoney(r.purchase),
			SalePrice:     types.MustMoney(r.sale),
		})
	}
	return plates
}

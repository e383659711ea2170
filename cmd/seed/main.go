// Command seed fills the incidents table with randomized records for
// local development.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/bissquit/incident-board/internal/config"
	"github.com/bissquit/incident-board/internal/domain"
	"github.com/bissquit/incident-board/internal/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var services = []string{
	"Auth Service",
	"Payment Gateway",
	"Search Engine",
	"Notification Service",
	"User Profile",
	"Inventory Service",
	"Order Service",
	"Analytics Service",
}

var titleParts = []string{
	"Database connection timeout",
	"Elevated error rate",
	"Latency spike on checkout",
	"Queue backlog growing",
	"Disk pressure on primary",
	"Certificate expired",
	"Cache stampede after deploy",
	"Replication lag detected",
}

var owners = []string{
	"Dana Willis", "Marcus Lee", "Priya Natarajan", "Tomasz Kowalski", "Aiko Tanaka",
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	count := flag.Int("count", 200, "number of incidents to create")
	truncate := flag.Bool("truncate", true, "clear existing incidents first")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	if *truncate {
		if _, err := db.Exec(ctx, `TRUNCATE incidents`); err != nil {
			log.Fatalf("truncate incidents: %v", err)
		}
	}

	if err := seed(ctx, db, *count); err != nil {
		log.Fatalf("seed: %v", err)
	}

	log.Printf("seeding finished, created %d incidents", *count)
}

func seed(ctx context.Context, db *pgxpool.Pool, count int) error {
	now := time.Now()

	for i := 0; i < count; i++ {
		createdAt := now.Add(-time.Duration(rand.Intn(60*24)) * time.Hour)
		// updatedAt must stay at or after createdAt
		updatedAt := createdAt.Add(time.Duration(rand.Int63n(int64(now.Sub(createdAt)) + 1)))

		var owner *string
		if rand.Intn(2) == 0 {
			o := owners[rand.Intn(len(owners))]
			owner = &o
		}
		summary := fmt.Sprintf("Auto-generated summary for investigation %s.", uuid.NewString()[:8])

		_, err := db.Exec(ctx, `
			INSERT INTO incidents (title, service, severity, status, owner, summary, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			titleParts[rand.Intn(len(titleParts))],
			services[rand.Intn(len(services))],
			domain.Severities[rand.Intn(len(domain.Severities))],
			domain.Statuses[rand.Intn(len(domain.Statuses))],
			owner,
			summary,
			createdAt,
			updatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert incident %d: %w", i, err)
		}
	}
	return nil
}

// cmd/seed/main.go
// Creates tables and seeds the race catalog.
//
// Usage:
//
//	go run ./cmd/seed
package main

import (
	"context"
	"log"

	bundb "github.com/artlurun/api/db"

	"github.com/artlurun/api/config"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	if err := bundb.Seed(ctx, db); err != nil {
		log.Fatalf("seed races: %v", err)
	}

	log.Println("seed complete")
}

// cmd/addrace/main.go
// Creates or updates a race in the catalog, keyed by slug. On update only the
// flags you pass are written.
//
// Usage:
//
//	go run ./cmd/addrace -slug cocodona-250 -name "Cocodona 250" -distance "250 miles" -location "Black Canyon City, Arizona" -state AZ
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/artlurun/api/catalog"
	"github.com/artlurun/api/config"
	bundb "github.com/artlurun/api/db"
)

func main() {
	slug := flag.String("slug", "", "race slug (required)")
	name := flag.String("name", "", "display name")
	distance := flag.String("distance", "", `distance label, e.g. "100 miles"`)
	distanceMiles := flag.Float64("distance-miles", 0, "distance in miles")
	gain := flag.String("gain", "", `elevation gain label, e.g. "15,600 ft"`)
	gainFt := flag.Int("gain-ft", 0, "elevation gain in feet")
	location := flag.String("location", "", "location")
	state := flag.String("state", "", "US state code")
	country := flag.String("country", "", "country")
	description := flag.String("description", "", "short description")
	month := flag.String("month", "", "race month")
	cutoff := flag.String("cutoff", "", "cutoff time label")
	difficulty := flag.String("difficulty", "", "difficulty label")
	flag.Parse()

	if *slug == "" {
		log.Fatal("-slug is required")
	}

	fields := catalog.RaceFields{Slug: *slug}
	setStr := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setStr(&fields.Name, *name)
	setStr(&fields.Distance, *distance)
	setStr(&fields.ElevationGain, *gain)
	setStr(&fields.Location, *location)
	setStr(&fields.State, *state)
	setStr(&fields.Country, *country)
	setStr(&fields.Description, *description)
	setStr(&fields.Month, *month)
	setStr(&fields.CutoffTime, *cutoff)
	setStr(&fields.Difficulty, *difficulty)
	if *distanceMiles > 0 {
		fields.DistanceMiles = distanceMiles
	}
	if *gainFt > 0 {
		fields.ElevationGainFt = gainFt
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	id, err := catalog.New(db).Upsert(ctx, fields)
	if err != nil {
		log.Fatalf("upsert race: %v", err)
	}

	fmt.Printf("race %q saved (id %d)\n", *slug, id)
}

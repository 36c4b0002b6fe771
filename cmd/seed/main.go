// Command seed loads demo vendors so a fresh environment can serve
// bookings end to end.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/citimaster/booking-platform/internal/geo"
	"github.com/citimaster/booking-platform/internal/vendors"
)

func main() {
	_ = godotenv.Load()
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	repo := vendors.NewPostgresRepository(pool)
	created := 0
	for _, vendor := range demoVendors() {
		v := vendor
		if _, err := repo.Create(ctx, &v); err != nil {
			if isDuplicate(err) {
				log.Printf("skip %s: already seeded", v.BusinessName)
				continue
			}
			log.Fatalf("seed %s: %v", v.BusinessName, err)
		}
		created++
	}
	log.Printf("seeded %d vendors", created)
}

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func demoVendors() []vendors.Vendor {
	return []vendors.Vendor{
		{
			PhoneNumber:    "919876543210",
			BusinessName:   "Cool Air AC Services",
			OwnerName:      "Ramesh Kumar",
			Categories:     []string{"AC"},
			Subcategories:  []string{"AC_REPAIR", "AC_INSTALLATION", "AC_GAS_REFILL"},
			ServiceAreas:   []string{"110001", "110002", "110003"},
			Location:       geo.Coordinate{Lat: 28.6315, Lng: 77.2167},
			HasLocation:    true,
			Rating:         4.5,
			TotalRatings:   120,
			AcceptanceRate: 0.85,
			PriceTier:      vendors.PriceTierMedium,
			IsActive:       true,
		},
		{
			PhoneNumber:    "919876543211",
			BusinessName:   "SparkClean Services",
			OwnerName:      "Priya Sharma",
			Categories:     []string{"CLEANING"},
			Subcategories:  []string{"DEEP_CLEANING", "SOFA_CLEANING", "KITCHEN_CLEANING"},
			ServiceAreas:   []string{"110001", "110005", "110006"},
			Location:       geo.Coordinate{Lat: 28.6519, Lng: 77.19},
			HasLocation:    true,
			Rating:         4.8,
			TotalRatings:   95,
			AcceptanceRate: 0.92,
			PriceTier:      vendors.PriceTierHigh,
			IsActive:       true,
		},
		{
			PhoneNumber:    "919876543212",
			BusinessName:   "QuickFix Plumbers",
			OwnerName:      "Suresh Yadav",
			Categories:     []string{"PLUMBING"},
			Subcategories:  []string{"TAP_REPAIR", "PIPE_LEAKAGE", "BATHROOM_FITTING"},
			ServiceAreas:   []string{"110002", "110003", "110004"},
			Location:       geo.Coordinate{Lat: 28.7041, Lng: 77.1025},
			HasLocation:    true,
			Rating:         4.3,
			TotalRatings:   78,
			AcceptanceRate: 0.78,
			PriceTier:      vendors.PriceTierLow,
			IsActive:       true,
		},
	}
}

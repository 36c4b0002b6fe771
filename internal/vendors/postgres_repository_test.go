package vendors

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresQueryScansPool(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	lat := 28.6519
	lng := 77.1900
	rows := pgxmock.NewRows([]string{
		"id", "phone_number", "business_name", "owner_name", "categories", "subcategories",
		"service_areas", "lat", "lng", "rating", "total_ratings", "acceptance_rate",
		"price_tier", "is_active", "created_at",
	}).AddRow(
		"v1", "919876543211", "SparkClean Services", "Priya Sharma",
		[]string{"CLEANING"}, []string{"DEEP_CLEANING"}, []string{"110001"},
		&lat, &lng, 4.8, 95, 0.92, PriceTierHigh, true, time.Now().UTC(),
	)

	mock.ExpectQuery("SELECT (.+) FROM vendors").
		WithArgs("CLEANING", "DEEP_CLEANING", "110001", true).
		WillReturnRows(rows)

	repo := newPostgresRepositoryWithQuerier(mock)
	got, err := repo.Query(context.Background(), "CLEANING", "DEEP_CLEANING", "110001", true)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one vendor, got %d", len(got))
	}
	v := got[0]
	if v.BusinessName != "SparkClean Services" {
		t.Errorf("unexpected business name %q", v.BusinessName)
	}
	if !v.HasLocation || v.Location.Lat != lat {
		t.Errorf("expected location to be populated, got %+v", v)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresQueryNilCoordinates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "phone_number", "business_name", "owner_name", "categories", "subcategories",
		"service_areas", "lat", "lng", "rating", "total_ratings", "acceptance_rate",
		"price_tier", "is_active", "created_at",
	}).AddRow(
		"v2", "919876543212", "FixIt Plumbing", "Arun Verma",
		[]string{"PLUMBING"}, []string{"LEAK_REPAIR"}, []string{"110001"},
		nil, nil, 4.0, 20, 0.7, PriceTierLow, true, time.Now().UTC(),
	)

	mock.ExpectQuery("SELECT (.+) FROM vendors").
		WithArgs("PLUMBING", "LEAK_REPAIR", "110001", true).
		WillReturnRows(rows)

	repo := newPostgresRepositoryWithQuerier(mock)
	got, err := repo.Query(context.Background(), "PLUMBING", "LEAK_REPAIR", "110001", true)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one vendor, got %d", len(got))
	}
	if got[0].HasLocation {
		t.Errorf("expected HasLocation=false when lat/lng are NULL")
	}
}

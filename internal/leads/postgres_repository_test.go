package leads

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/citimaster/booking-platform/internal/geo"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool failed: %v", err)
	}
	t.Cleanup(mock.Close)
	return newPostgresRepositoryWithIface(mock), mock
}

func TestPostgresCreateLead(t *testing.T) {
	repo, mock := newMockRepo(t)
	req := validRequest()

	addressJSON, err := json.Marshal(req.Address)
	if err != nil {
		t.Fatalf("marshal address: %v", err)
	}

	now := time.Now()
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), req.CustomerID, req.Phone, req.Category, req.Subcategory, addressJSON, StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	lead, err := repo.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if lead.ID == "" {
		t.Fatal("expected generated lead ID")
	}
	if lead.Status != StatusPending {
		t.Fatalf("expected %s, got %s", StatusPending, lead.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	address := Address{
		Street:     "12 Lajpat Nagar",
		City:       "Delhi",
		PostalCode: "110024",
		Location:   geo.Coordinate{Lat: 28.57, Lng: 77.24},
	}
	addressJSON, _ := json.Marshal(address)
	slot := "Tomorrow Morning"
	now := time.Now()

	cols := []string{"id", "customer_id", "phone", "category", "subcategory", "address", "slot", "status", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM leads").
		WithArgs("lead-1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("lead-1", "cust-1", "+919876500001", "AC", "AC_REPAIR", addressJSON, &slot, StatusAssigned, now, now))

	lead, err := repo.GetByID(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if lead.Slot != "Tomorrow Morning" {
		t.Fatalf("expected slot decoded, got %q", lead.Slot)
	}
	if lead.Address.PostalCode != "110024" {
		t.Fatalf("expected address decoded, got %+v", lead.Address)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "customer_id", "phone", "category", "subcategory", "address", "slot", "status", "created_at", "updated_at"}
	mock.ExpectQuery("SELECT (.+) FROM leads").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(cols))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE leads SET status").
		WithArgs("lead-1", StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateStatus(context.Background(), "lead-1", StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	mock.ExpectExec("UPDATE leads SET status").
		WithArgs("missing", StatusCompleted).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.UpdateStatus(context.Background(), "missing", StatusCompleted); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresCreateAssignmentTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs(pgxmock.AnyArg(), "lead-1", "vendor-7", 84.4, StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec("UPDATE leads SET status").
		WithArgs("lead-1", StatusAssigned).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	asg, err := repo.CreateAssignment(context.Background(), "lead-1", "vendor-7", 84.4)
	if err != nil {
		t.Fatalf("CreateAssignment failed: %v", err)
	}
	if asg.LeadID != "lead-1" || asg.VendorID != "vendor-7" {
		t.Fatalf("unexpected assignment: %+v", asg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresCreateAssignmentRollsBackOnMissingLead(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO assignments").
		WithArgs(pgxmock.AnyArg(), "missing", "vendor-7", 10.0, StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectExec("UPDATE leads SET status").
		WithArgs("missing", StatusAssigned).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	if _, err := repo.CreateAssignment(context.Background(), "missing", "vendor-7", 10.0); !errors.Is(err, ErrLeadNotFound) {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

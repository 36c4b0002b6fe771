package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/citimaster/booking-platform/internal/geo"
	"github.com/citimaster/booking-platform/internal/leads"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestLoadReturnsFreshStateWhenAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	state, err := store.Load(context.Background(), "+919876500001")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if state.Step != StepStart {
		t.Fatalf("expected fresh state at %s, got %s", StepStart, state.Step)
	}
	if state.Language != LanguageEnglish {
		t.Fatalf("expected default language en, got %s", state.Language)
	}
	if state.Phone != "+919876500001" {
		t.Fatalf("expected phone carried, got %s", state.Phone)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state := NewState("+919876500001")
	state.Step = StepSlot
	state.Language = LanguageHindi
	state.Booking = &Booking{
		Category:    "AC",
		Subcategory: "AC_REPAIR",
		Address: &leads.Address{
			Street:     "12 Lajpat Nagar",
			City:       "Delhi",
			PostalCode: "110024",
			Location:   geo.Coordinate{Lat: 28.57, Lng: 77.24},
		},
	}
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "+919876500001")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Step != StepSlot {
		t.Fatalf("expected step %s, got %s", StepSlot, got.Step)
	}
	if got.Language != LanguageHindi {
		t.Fatalf("expected language hi, got %s", got.Language)
	}
	if got.Booking == nil || got.Booking.Address == nil {
		t.Fatal("expected booking address to survive the round trip")
	}
	if got.Booking.Address.PostalCode != "110024" {
		t.Fatalf("unexpected postal code %q", got.Booking.Address.PostalCode)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatal("expected Save to stamp UpdatedAt")
	}
}

func TestSaveRejectsInconsistentState(t *testing.T) {
	store, _ := newTestStore(t)

	state := NewState("+919876500001")
	state.Step = StepConfirm
	if err := store.Save(context.Background(), state); err == nil {
		t.Fatal("expected validation error for CONFIRM without address and slot")
	}
}

func TestSaveAppliesTTL(t *testing.T) {
	store, mr := newTestStore(t)

	if err := store.Save(context.Background(), NewState("+919876500001")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	ttl := mr.TTL("session:+919876500001")
	if ttl != time.Hour {
		t.Fatalf("expected 1h TTL, got %v", ttl)
	}

	mr.FastForward(2 * time.Hour)
	state, err := store.Load(context.Background(), "+919876500001")
	if err != nil {
		t.Fatalf("Load after expiry failed: %v", err)
	}
	if state.Step != StepStart {
		t.Fatalf("expected expired session to restart, got %s", state.Step)
	}
}

func TestDeleteResetsSession(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	state := NewState("+919876500001")
	state.Step = StepCategory
	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "+919876500001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err := store.Load(ctx, "+919876500001")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Step != StepStart {
		t.Fatalf("expected fresh session after delete, got %s", got.Step)
	}
}

func TestValidateStepFieldCoupling(t *testing.T) {
	addr := &leads.Address{Street: "x", City: "Delhi", PostalCode: "110001"}

	cases := []struct {
		name    string
		mutate  func(*State)
		wantErr bool
	}{
		{"fresh start", func(s *State) {}, false},
		{"subcategory without category", func(s *State) { s.Step = StepSubcategory }, true},
		{"subcategory with category", func(s *State) {
			s.Step = StepSubcategory
			s.Booking.Category = "AC"
		}, false},
		{"slot without address", func(s *State) {
			s.Step = StepSlot
			s.Booking.Category = "AC"
			s.Booking.Subcategory = "AC_REPAIR"
		}, true},
		{"confirm complete", func(s *State) {
			s.Step = StepConfirm
			s.Booking.Category = "AC"
			s.Booking.Subcategory = "AC_REPAIR"
			s.Booking.Address = addr
			s.Booking.Slot = "Tomorrow Morning"
		}, false},
		{"chat without context", func(s *State) {
			s.Step = StepChat
			s.Chat = nil
		}, true},
		{"chat with context", func(s *State) {
			s.Step = StepChat
			s.EnsureChat()
		}, false},
		{"lead id at start", func(s *State) {
			s.Booking.LeadID = "lead-1"
		}, true},
		{"lead id at address", func(s *State) {
			s.Step = StepAddress
			s.Booking.Category = "AC"
			s.Booking.Subcategory = "AC_REPAIR"
			s.Booking.LeadID = "lead-1"
		}, true},
		{"lead id at slot", func(s *State) {
			s.Step = StepSlot
			s.Booking.Category = "AC"
			s.Booking.Subcategory = "AC_REPAIR"
			s.Booking.Address = addr
			s.Booking.LeadID = "lead-1"
		}, false},
		{"slot before confirm", func(s *State) {
			s.Step = StepSlot
			s.Booking.Category = "AC"
			s.Booking.Subcategory = "AC_REPAIR"
			s.Booking.Address = addr
			s.Booking.Slot = "Tomorrow Morning"
		}, true},
		{"unknown language", func(s *State) { s.Language = "fr" }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := NewState("+919876500001")
			tc.mutate(state)
			err := state.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

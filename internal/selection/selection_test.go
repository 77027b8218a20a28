package selection

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vitalfit/vitalfit-backend/pkg/enums"
	"github.com/vitalfit/vitalfit-backend/pkg/logger"
	"github.com/vitalfit/vitalfit-backend/pkg/vitalfit"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func item(name string, price int64) SelectedItem {
	return SelectedItem{
		ID:       uuid.New(),
		Name:     name,
		PriceUSD: decimal.NewFromInt(price),
	}
}

func TestTogglePackageIsIdempotentPair(t *testing.T) {
	sel := newSelection(uuid.New(), time.Now())
	pkg := item("10 sessions", 50)

	sel.TogglePackage(pkg)
	if len(sel.Packages) != 1 {
		t.Fatalf("expected package selected, got %d", len(sel.Packages))
	}

	sel.TogglePackage(pkg)
	if len(sel.Packages) != 0 {
		t.Fatalf("expected package deselected, got %d", len(sel.Packages))
	}
}

func TestToggleServicePreservesSelectionOrder(t *testing.T) {
	sel := newSelection(uuid.New(), time.Now())
	first := item("spinning", 10)
	second := item("sauna", 15)
	third := item("massage", 30)

	sel.ToggleService(first)
	sel.ToggleService(second)
	sel.ToggleService(third)
	sel.ToggleService(second)

	ids := sel.ServiceIDs()
	if len(ids) != 2 || ids[0] != first.ID || ids[1] != third.ID {
		t.Fatalf("unexpected service order: %v", ids)
	}
}

func TestSetMembershipTogglesOnSameID(t *testing.T) {
	sel := newSelection(uuid.New(), time.Now())
	plan := item("premium", 45)

	sel.SetMembership(&plan)
	if sel.MembershipID == nil || *sel.MembershipID != plan.ID {
		t.Fatal("expected membership selected")
	}

	sel.SetMembership(&plan)
	if sel.MembershipID != nil || sel.Membership != nil {
		t.Fatal("expected re-selecting the same plan to deselect it")
	}
}

func TestNextClampsAtTerminalStep(t *testing.T) {
	sel := newSelection(uuid.New(), time.Now())
	for i := 0; i < 10; i++ {
		sel.Next()
	}
	if sel.Step != enums.StepSuccess {
		t.Fatalf("expected step clamped at %d, got %d", enums.StepSuccess, sel.Step)
	}
}

func TestSetInvoiceIsImmutableOnceSet(t *testing.T) {
	sel := newSelection(uuid.New(), time.Now())
	first := &vitalfit.Invoice{ID: uuid.New()}
	second := &vitalfit.Invoice{ID: uuid.New()}

	if err := sel.SetInvoice(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sel.SetInvoice(second); err == nil {
		t.Fatal("expected replacing the invoice to fail")
	}

	// Refreshing the same invoice (e.g. with appended payments) is allowed.
	refreshed := &vitalfit.Invoice{ID: first.ID, Payments: []vitalfit.Payment{{ID: uuid.New()}}}
	if err := sel.SetInvoice(refreshed); err != nil {
		t.Fatalf("unexpected error refreshing invoice: %v", err)
	}
	if len(sel.Invoice.Payments) != 1 {
		t.Fatal("expected refreshed invoice payments")
	}
}

func TestCanProcessRequiresBranchAndItem(t *testing.T) {
	sel := newSelection(uuid.New(), time.Now())
	if sel.CanProcess() {
		t.Fatal("empty selection must not be processable")
	}

	sel.SetBranch(uuid.New())
	if sel.CanProcess() {
		t.Fatal("branch alone must not be processable")
	}

	svc := item("spinning", 10)
	sel.ToggleService(svc)
	if !sel.CanProcess() {
		t.Fatal("branch plus one service must be processable")
	}

	sel.ToggleService(svc)
	plan := item("premium", 45)
	sel.SetMembership(&plan)
	if !sel.CanProcess() {
		t.Fatal("branch plus membership must be processable")
	}
}

func TestSetBranchResetsBranchScopedPicks(t *testing.T) {
	sel := newSelection(uuid.New(), time.Now())
	branch := uuid.New()
	sel.SetBranch(branch)
	sel.ToggleService(item("spinning", 10))
	sel.SetMethod(uuid.New())

	sel.SetBranch(branch)
	if len(sel.Services) != 1 || sel.MethodID == nil {
		t.Fatal("re-picking the same branch must keep services and method")
	}

	sel.SetBranch(uuid.New())
	if len(sel.Services) != 0 || sel.MethodID != nil {
		t.Fatal("changing branch must clear services and method")
	}
}

func TestStoreUpdateReturnsIsolatedSnapshot(t *testing.T) {
	now := time.Now()
	clock := &now
	store, err := NewStore(StoreParams{
		TTL:    time.Hour,
		Logger: testLogger(),
		Now:    func() time.Time { return *clock },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	sel, err := store.Create(ctx, uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := store.Update(ctx, sel.SessionID, func(s *Selection) error {
		s.TogglePackage(item("10 sessions", 50))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Packages) != 1 {
		t.Fatal("expected package toggled")
	}

	// The returned value is a snapshot; mutating it must not leak into the store.
	updated.Packages[0].Name = "mutated"
	fresh, err := store.Get(ctx, sel.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh.Packages[0].Name != "10 sessions" {
		t.Fatal("store state leaked through snapshot")
	}
}

func TestStoreSweepKeepsSessionsWithOpenInvoices(t *testing.T) {
	now := time.Now()
	clock := &now
	store, err := NewStore(StoreParams{
		TTL:    time.Hour,
		Logger: testLogger(),
		Now:    func() time.Time { return *clock },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	expired, _ := store.Create(ctx, uuid.New(), nil)
	withInvoice, _ := store.Create(ctx, uuid.New(), nil)
	if _, err := store.Update(ctx, withInvoice.SessionID, func(s *Selection) error {
		return s.SetInvoice(&vitalfit.Invoice{ID: uuid.New(), Status: enums.InvoiceStatusPending})
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	later := now.Add(2 * time.Hour)
	clock = &later

	removed := store.SweepExpired(ctx)
	if removed != 1 {
		t.Fatalf("expected 1 session removed, got %d", removed)
	}
	if _, err := store.Get(ctx, expired.SessionID); err == nil {
		t.Fatal("expected expired session to be gone")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session retained, got %d", store.Len())
	}
}

func TestStoreSweepDuringInFlightUpdateCompletes(t *testing.T) {
	var mu sync.Mutex
	now := time.Now()
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
	store, err := NewStore(StoreParams{
		TTL:    time.Hour,
		Logger: testLogger(),
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	sel, err := store.Create(ctx, uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	updateDone := make(chan error, 1)
	go func() {
		_, err := store.Update(ctx, sel.SessionID, func(s *Selection) error {
			close(entered)
			<-release
			s.SetBranch(uuid.New())
			return nil
		})
		updateDone <- err
	}()

	// The update is past lookup and holding the session lock when the TTL
	// boundary passes and the sweep fires.
	<-entered
	advance(2 * time.Hour)

	sweepDone := make(chan int, 1)
	go func() { sweepDone <- store.SweepExpired(ctx) }()

	time.Sleep(10 * time.Millisecond)
	close(release)

	select {
	case err := <-updateDone:
		if err != nil {
			t.Fatalf("unexpected update error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("update did not complete while a sweep was running")
	}
	select {
	case <-sweepDone:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not complete while an update was in flight")
	}
}

func TestStoreGetUnknownSession(t *testing.T) {
	store, err := NewStore(StoreParams{Logger: testLogger()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected unknown session to fail")
	}
}

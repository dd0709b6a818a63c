package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/helioworks/storefront/internal/domain"
)

type fakeMutator struct {
	mu    sync.Mutex
	calls int
	err   error

	// hold keeps UpdateOrderStatus pending until closed; started is closed
	// once the call is in flight.
	hold    chan struct{}
	started chan struct{}
}

func (f *fakeMutator) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.hold != nil {
		f.mu.Lock()
		if f.started != nil {
			close(f.started)
			f.started = nil
		}
		f.mu.Unlock()
		<-f.hold
	}
	return f.err
}

func (f *fakeMutator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStatusUpdater_Update(t *testing.T) {
	t.Run("target equals current is a no-op with zero calls", func(t *testing.T) {
		mutator := &fakeMutator{}
		u := NewStatusUpdater(mutator, discardLogger())

		var changes int
		u.Observe(func(string, domain.OrderStatus) { changes++ })

		if err := u.Update(context.Background(), "ord-1", domain.OrderStatusPending, domain.OrderStatusPending); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mutator.callCount() != 0 {
			t.Errorf("expected zero network calls, got %d", mutator.callCount())
		}
		if changes != 0 {
			t.Errorf("expected no observer notifications, got %d", changes)
		}
	})

	t.Run("rejects a status outside the closed set", func(t *testing.T) {
		mutator := &fakeMutator{}
		u := NewStatusUpdater(mutator, discardLogger())

		err := u.Update(context.Background(), "ord-1", domain.OrderStatusPending, "shipped")
		if !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
		if mutator.callCount() != 0 {
			t.Errorf("expected zero network calls, got %d", mutator.callCount())
		}
	})

	t.Run("success applies the target and keeps it", func(t *testing.T) {
		mutator := &fakeMutator{}
		u := NewStatusUpdater(mutator, discardLogger())

		var seen []domain.OrderStatus
		u.Observe(func(id string, status domain.OrderStatus) {
			if id == "ord-1" {
				seen = append(seen, status)
			}
		})

		if err := u.Update(context.Background(), "ord-1", domain.OrderStatusPending, domain.OrderStatusProcessing); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(seen) != 1 || seen[0] != domain.OrderStatusProcessing {
			t.Errorf("expected single optimistic apply of processing, got %v", seen)
		}
	})

	t.Run("failure reverts and notifies exactly once", func(t *testing.T) {
		mutator := &fakeMutator{err: errors.New("store rejected")}
		u := NewStatusUpdater(mutator, discardLogger())

		var seen []domain.OrderStatus
		u.Observe(func(id string, status domain.OrderStatus) {
			seen = append(seen, status)
		})

		var notifications int
		u.NotifyError(func(id string, err error) { notifications++ })

		err := u.Update(context.Background(), "ord-1", domain.OrderStatusPending, domain.OrderStatusProcessing)
		if err == nil {
			t.Fatal("expected error")
		}

		// Optimistic apply, then revert to the pre-request status.
		want := []domain.OrderStatus{domain.OrderStatusProcessing, domain.OrderStatusPending}
		if len(seen) != 2 || seen[0] != want[0] || seen[1] != want[1] {
			t.Errorf("expected %v, got %v", want, seen)
		}
		if notifications != 1 {
			t.Errorf("expected exactly one error notification, got %d", notifications)
		}
	})

	t.Run("second update for the same order is rejected while in flight", func(t *testing.T) {
		hold := make(chan struct{})
		started := make(chan struct{})
		mutator := &fakeMutator{hold: hold, started: started}
		u := NewStatusUpdater(mutator, discardLogger())

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = u.Update(context.Background(), "ord-1", domain.OrderStatusPending, domain.OrderStatusProcessing)
		}()

		<-started
		err := u.Update(context.Background(), "ord-1", domain.OrderStatusPending, domain.OrderStatusCompleted)
		if !errors.Is(err, ErrUpdateInFlight) {
			t.Errorf("expected ErrUpdateInFlight, got %v", err)
		}

		close(hold)
		wg.Wait()

		if mutator.callCount() != 1 {
			t.Errorf("expected one mutation call, got %d", mutator.callCount())
		}

		// Resolved now, so a new update goes through.
		if err := u.Update(context.Background(), "ord-1", domain.OrderStatusProcessing, domain.OrderStatusCompleted); err != nil {
			t.Errorf("expected update after resolution to succeed, got %v", err)
		}
	})

	t.Run("keeps list and detail views consistent", func(t *testing.T) {
		listSource := &fakeSource{pages: map[int]*domain.OrderPage{1: samplePage()}}
		list := NewListController(listSource, discardLogger())
		list.LoadPage(context.Background(), 1)

		detailSource := &fakeDetailSource{order: &domain.Order{ID: "ord-1", Status: domain.OrderStatusPending}}
		detail := NewDetailController(detailSource, discardLogger())
		detail.Load(context.Background(), "ord-1")

		mutator := &fakeMutator{}
		u := NewStatusUpdater(mutator, discardLogger())
		u.Observe(list.ApplyStatus)
		u.Observe(detail.ApplyStatus)

		if err := u.Update(context.Background(), "ord-1", domain.OrderStatusPending, domain.OrderStatusCompleted); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := detail.Order().Status; got != domain.OrderStatusCompleted {
			t.Errorf("detail view not reconciled: %s", got)
		}
		for _, order := range list.Filtered() {
			if order.ID == "ord-1" && order.Status != domain.OrderStatusCompleted {
				t.Errorf("list view not reconciled: %s", order.Status)
			}
		}
	})
}

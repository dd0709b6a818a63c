package view

import (
	"context"
	"errors"
	"testing"

	"github.com/helioworks/storefront/internal/domain"
)

type fakeDetailSource struct {
	order *domain.Order
	err   error
	calls int
}

func (f *fakeDetailSource) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	f.calls++
	return f.order, f.err
}

func TestDetailController_Load(t *testing.T) {
	t.Run("loads an existing order", func(t *testing.T) {
		source := &fakeDetailSource{order: &domain.Order{
			ID:     "ord-1",
			Number: "SO-1001",
			Status: domain.OrderStatusPending,
			Items: []domain.LineItem{
				{ProductID: "panel-400w", ProductName: "400W Mono Panel", UnitPrice: 18000, Quantity: 4, Total: 72000},
			},
		}}
		c := NewDetailController(source, discardLogger())

		c.Load(context.Background(), "ord-1")

		order := c.Order()
		if order == nil {
			t.Fatal("expected an order")
		}
		if order.Number != "SO-1001" || len(order.Items) != 1 {
			t.Errorf("unexpected order: %+v", order)
		}
		if c.NotFound() || c.Err() != "" || c.Loading() {
			t.Errorf("unexpected state: notFound=%v err=%q loading=%v", c.NotFound(), c.Err(), c.Loading())
		}
	})

	t.Run("absent record is not-found, not failure", func(t *testing.T) {
		source := &fakeDetailSource{}
		c := NewDetailController(source, discardLogger())

		c.Load(context.Background(), "ord-missing")

		if !c.NotFound() {
			t.Error("expected not-found state")
		}
		if c.Err() != "" {
			t.Errorf("expected no error message, got %q", c.Err())
		}
		if c.Order() != nil {
			t.Error("expected nil order")
		}
	})

	t.Run("fetch failure is failure, not not-found", func(t *testing.T) {
		source := &fakeDetailSource{err: errors.New("upstream down")}
		c := NewDetailController(source, discardLogger())

		c.Load(context.Background(), "ord-1")

		if c.NotFound() {
			t.Error("failure must not report not-found")
		}
		if c.Err() != DetailErrLoadFailed {
			t.Errorf("expected %q, got %q", DetailErrLoadFailed, c.Err())
		}
		if c.Loading() {
			t.Error("expected loading false after failure")
		}
	})

	t.Run("successful reload clears a previous failure", func(t *testing.T) {
		source := &fakeDetailSource{err: errors.New("boom")}
		c := NewDetailController(source, discardLogger())
		c.Load(context.Background(), "ord-1")

		source.err = nil
		source.order = &domain.Order{ID: "ord-1", Status: domain.OrderStatusCompleted}
		c.Load(context.Background(), "ord-1")

		if c.Err() != "" || c.NotFound() {
			t.Errorf("expected clean state, got err=%q notFound=%v", c.Err(), c.NotFound())
		}
		if c.Order() == nil {
			t.Fatal("expected an order")
		}
	})
}

func TestDetailController_ApplyStatus(t *testing.T) {
	source := &fakeDetailSource{order: &domain.Order{ID: "ord-1", Status: domain.OrderStatusPending}}
	c := NewDetailController(source, discardLogger())
	c.Load(context.Background(), "ord-1")

	c.ApplyStatus("ord-1", domain.OrderStatusProcessing)
	if got := c.Order().Status; got != domain.OrderStatusProcessing {
		t.Errorf("expected processing, got %s", got)
	}

	// A change for a different order leaves this view alone.
	c.ApplyStatus("ord-2", domain.OrderStatusCancelled)
	if got := c.Order().Status; got != domain.OrderStatusProcessing {
		t.Errorf("expected processing, got %s", got)
	}
}

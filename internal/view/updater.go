package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/helioworks/storefront/internal/domain"
)

// StatusMutator sends the status-change request to the order store.
type StatusMutator interface {
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

var (
	// ErrUpdateInFlight rejects a second mutation for an order whose
	// previous one has not resolved yet.
	ErrUpdateInFlight = errors.New("status update already in flight")

	ErrInvalidStatus = errors.New("invalid order status")
)

// StatusUpdater performs optimistic status transitions: observers see the
// target status before the store confirms it, and see the pre-request status
// again if the store refuses. The optimistic value is never durable until
// acknowledged.
type StatusUpdater struct {
	mutator StatusMutator
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]bool

	onChange []func(orderID string, status domain.OrderStatus)
	onError  []func(orderID string, err error)
}

func NewStatusUpdater(mutator StatusMutator, logger *slog.Logger) *StatusUpdater {
	return &StatusUpdater{
		mutator:  mutator,
		logger:   logger,
		inflight: make(map[string]bool),
	}
}

// Observe registers a status observer, e.g. a list or detail controller's
// ApplyStatus. Observers receive both the optimistic apply and any revert.
func (u *StatusUpdater) Observe(fn func(orderID string, status domain.OrderStatus)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.onChange = append(u.onChange, fn)
}

// NotifyError registers a non-fatal failure notification, fired exactly once
// per failed mutation.
func (u *StatusUpdater) NotifyError(fn func(orderID string, err error)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.onError = append(u.onError, fn)
}

// Update requests the transition current -> target for one order. Equal
// current and target is an idempotent no-op with zero network calls. While a
// mutation for the order is unresolved, further calls fail with
// ErrUpdateInFlight.
func (u *StatusUpdater) Update(ctx context.Context, orderID string, current, target domain.OrderStatus) error {
	if target == current {
		return nil
	}
	if !target.Valid() {
		return ErrInvalidStatus
	}

	u.mu.Lock()
	if u.inflight[orderID] {
		u.mu.Unlock()
		return ErrUpdateInFlight
	}
	u.inflight[orderID] = true
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		delete(u.inflight, orderID)
		u.mu.Unlock()
	}()

	u.notifyChange(orderID, target)

	if err := u.mutator.UpdateOrderStatus(ctx, orderID, target); err != nil {
		u.logger.Error("failed to update order status", "error", err, "order_id", orderID, "target", target)
		u.notifyChange(orderID, current)
		u.notifyFailure(orderID, err)
		return err
	}

	u.logger.Info("order status updated", "order_id", orderID, "status", target)
	return nil
}

func (u *StatusUpdater) notifyChange(orderID string, status domain.OrderStatus) {
	u.mu.Lock()
	observers := make([]func(string, domain.OrderStatus), len(u.onChange))
	copy(observers, u.onChange)
	u.mu.Unlock()

	for _, fn := range observers {
		fn(orderID, status)
	}
}

func (u *StatusUpdater) notifyFailure(orderID string, err error) {
	u.mu.Lock()
	listeners := make([]func(string, error), len(u.onError))
	copy(listeners, u.onError)
	u.mu.Unlock()

	for _, fn := range listeners {
		fn(orderID, err)
	}
}

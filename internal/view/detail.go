package view

import (
	"context"
	"log/slog"
	"sync"

	"github.com/helioworks/storefront/internal/domain"
)

// DetailSource fetches a single order by identifier, returning (nil, nil)
// when the record does not exist.
type DetailSource interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

// DetailErrLoadFailed is shown when the fetch itself failed; the not-found
// state renders its own distinct panel instead.
const DetailErrLoadFailed = "failed to load order"

type DetailController struct {
	source DetailSource
	logger *slog.Logger

	mu       sync.Mutex
	order    *domain.Order
	notFound bool
	loading  bool
	errMsg   string
}

func NewDetailController(source DetailSource, logger *slog.Logger) *DetailController {
	return &DetailController{
		source: source,
		logger: logger,
	}
}

// Load fetches one order and resolves into exactly one of three states:
// loaded, not found (fetch succeeded, record absent), or failed. All three
// are non-fatal; loading ends false on every path.
func (c *DetailController) Load(ctx context.Context, id string) {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	order, err := c.source.GetOrder(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if err != nil {
		c.logger.Error("failed to load order", "error", err, "order_id", id)
		c.order = nil
		c.notFound = false
		c.errMsg = DetailErrLoadFailed
		return
	}

	if order == nil {
		c.order = nil
		c.notFound = true
		c.errMsg = ""
		return
	}

	c.order = order
	c.notFound = false
	c.errMsg = ""
}

// Order returns the loaded order, nil unless the last Load succeeded with a
// present record.
func (c *DetailController) Order() *domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order
}

func (c *DetailController) NotFound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notFound
}

func (c *DetailController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *DetailController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ApplyStatus reconciles a confirmed status change into the held order, so a
// detail view observing the updater stays consistent without a refetch.
func (c *DetailController) ApplyStatus(orderID string, status domain.OrderStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.order != nil && c.order.ID == orderID {
		c.order.Status = status
	}
}

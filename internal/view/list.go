// Package view holds the order view state: the paginated list, the single
// order detail, and the status updater with its optimistic apply/revert
// cycle. Each controller owns its state exclusively; filtering and counts
// are derived from the last fetched page without refetching.
package view

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/helioworks/storefront/internal/domain"
)

// OrderSource fetches one page of orders for the controller's actor scope
// (the backend client in admin or self scope).
type OrderSource interface {
	ListUserOrders(ctx context.Context, page int) (*domain.OrderPage, error)
}

// ListErrLoadFailed is the single user-visible message for any transport or
// server failure on a page fetch.
const ListErrLoadFailed = "failed to load orders"

type ListController struct {
	source OrderSource
	logger *slog.Logger

	mu           sync.Mutex
	seq          uint64
	orders       []domain.Order
	page         int
	totalPages   int
	loading      bool
	errMsg       string
	statusFilter domain.OrderStatus
	query        string
}

func NewListController(source OrderSource, logger *slog.Logger) *ListController {
	return &ListController{
		source: source,
		logger: logger,
		page:   1,
	}
}

// LoadPage fetches the given 1-based page, clamped to the known page range.
// On failure the list is cleared and a single error message set. A response
// that arrives after a newer request was issued is discarded so stale pages
// never overwrite newer state; the loser also leaves the loading flag to the
// request that superseded it.
func (c *ListController) LoadPage(ctx context.Context, page int) {
	c.mu.Lock()
	if page < 1 {
		page = 1
	}
	if c.totalPages > 0 && page > c.totalPages {
		page = c.totalPages
	}
	c.seq++
	req := c.seq
	c.loading = true
	c.mu.Unlock()

	result, err := c.source.ListUserOrders(ctx, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if req != c.seq {
		return
	}
	defer func() { c.loading = false }()

	if err != nil {
		c.logger.Error("failed to load order page", "error", err, "page", page)
		c.orders = nil
		c.errMsg = ListErrLoadFailed
		return
	}

	c.errMsg = ""
	c.orders = result.Orders
	c.page = page
	c.totalPages = result.TotalPages
}

// NextPage advances to the following page, refetching. A no-op on the last
// page: no request is issued.
func (c *ListController) NextPage(ctx context.Context) {
	c.mu.Lock()
	if c.page >= c.totalPages {
		c.mu.Unlock()
		return
	}
	next := c.page + 1
	c.mu.Unlock()

	c.LoadPage(ctx, next)
}

// PrevPage moves to the preceding page, refetching. A no-op on page 1.
func (c *ListController) PrevPage(ctx context.Context) {
	c.mu.Lock()
	if c.page <= 1 {
		c.mu.Unlock()
		return
	}
	prev := c.page - 1
	c.mu.Unlock()

	c.LoadPage(ctx, prev)
}

// SetStatusFilter sets the exact-match status criterion. The empty value
// disables filtering on this axis.
func (c *ListController) SetStatusFilter(status domain.OrderStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusFilter = status
}

// SetQuery sets the case-insensitive customer substring criterion, matched
// against name or email. The empty string disables this axis.
func (c *ListController) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
}

// ResetFilters clears both criteria, restoring the full fetched page.
func (c *ListController) ResetFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusFilter = ""
	c.query = ""
}

// Filtered derives the visible order list from the last fetched page and the
// current criteria. It never refetches and never mutates the fetched page.
func (c *ListController) Filtered() []domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return FilterOrders(c.orders, c.statusFilter, c.query)
}

// Counts reports the filtered and total sizes for the "N (out of M)" label.
func (c *ListController) Counts() (filtered, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(FilterOrders(c.orders, c.statusFilter, c.query)), len(c.orders)
}

func (c *ListController) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *ListController) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the current user-visible error message, empty after the last
// successful fetch.
func (c *ListController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ApplyStatus reconciles a confirmed status change into the fetched page so
// the list stays consistent with the detail view without a refetch. Intended
// as a StatusUpdater observer.
func (c *ListController) ApplyStatus(orderID string, status domain.OrderStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.orders {
		if c.orders[i].ID == orderID {
			c.orders[i].Status = status
			return
		}
	}
}

// FilterOrders is the pure derivation behind the list view: exact status
// match and case-insensitive substring match over customer name or email,
// each axis skipped when its criterion is empty. Relative order is
// preserved and the input slice is never modified.
func FilterOrders(orders []domain.Order, status domain.OrderStatus, query string) []domain.Order {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if status != "" && order.Status != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(order.Customer.Name), query) &&
			!strings.Contains(strings.ToLower(order.Customer.Email), query) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}

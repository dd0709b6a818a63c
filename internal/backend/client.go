// Package backend is the REST client for the remote order store. All
// persistent order state lives behind it; this application only reads
// orders and requests status transitions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/helioworks/storefront/internal/domain"
)

// StatusError reports a non-2xx response from the order store.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order store returned status %d", e.StatusCode)
}

type Client struct {
	baseURL string
	client  *http.Client
	token   string
}

func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{
		baseURL: baseURL,
		client:  client,
	}
}

// WithAuth returns a shallow copy of the client that sends the given
// Authorization header value on every request.
func (c *Client) WithAuth(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Wire envelopes. The store wraps every payload in a "data" member; list
// responses nest a second "data" next to the pagination block.
type listEnvelope struct {
	Data struct {
		Data       []domain.Order `json:"data"`
		Pagination struct {
			TotalPages int `json:"total_pages"`
		} `json:"pagination"`
	} `json:"data"`
}

type orderEnvelope struct {
	Data *domain.Order `json:"data"`
}

// ListUserOrders fetches one page of the authenticated customer's orders.
// The page index is 1-based; the backend's ordering is preserved.
func (c *Client) ListUserOrders(ctx context.Context, page int) (*domain.OrderPage, error) {
	resp, err := c.do(ctx, http.MethodGet, "/orders/user?page="+strconv.Itoa(page), nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}

	orders := envelope.Data.Data
	for i := range orders {
		normalize(&orders[i])
	}

	return &domain.OrderPage{
		Orders:     orders,
		TotalPages: envelope.Data.Pagination.TotalPages,
	}, nil
}

// GetUserOrder fetches a single order in the customer's own scope. A nil
// order with a nil error means the record does not exist.
func (c *Client) GetUserOrder(ctx context.Context, id string) (*domain.Order, error) {
	return c.getOrder(ctx, "/orders/user/"+id)
}

// GetAdminOrder fetches a single order in admin scope, any customer.
func (c *Client) GetAdminOrder(ctx context.Context, id string) (*domain.Order, error) {
	return c.getOrder(ctx, "/admin/orders/"+id)
}

func (c *Client) getOrder(ctx context.Context, path string) (*domain.Order, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var envelope orderEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}

	// A 200 with an absent record is the store's other not-found shape.
	if envelope.Data == nil {
		return nil, nil
	}

	normalize(envelope.Data)
	return envelope.Data, nil
}

// UpdateOrderStatus requests a status transition for one order. The response
// body only acknowledges success or failure and is not otherwise consumed.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	body, err := json.Marshal(map[string]domain.OrderStatus{"status": status})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/admin/orders/"+id+"/status", body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	return c.client.Do(req)
}

// normalize clamps a decoded order's discount to zero or above; the store
// has been seen sending negative discounts.
func normalize(order *domain.Order) {
	if order.Discount < 0 {
		order.Discount = 0
	}
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/helioworks/storefront/internal/domain"
)

func TestClient_ListUserOrders(t *testing.T) {
	t.Run("decodes nested envelope and pagination", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders/user" {
				t.Errorf("expected /orders/user, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("page") != "2" {
				t.Errorf("expected page=2, got %s", r.URL.Query().Get("page"))
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"data":[{"id":"ord-1","status":"pending"},{"id":"ord-2","status":"completed"}],"pagination":{"total_pages":7}}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		page, err := client.ListUserOrders(context.Background(), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(page.Orders) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(page.Orders))
		}
		if page.Orders[0].ID != "ord-1" || page.Orders[1].ID != "ord-2" {
			t.Errorf("order sequence not preserved: %v", page.Orders)
		}
		if page.TotalPages != 7 {
			t.Errorf("expected 7 total pages, got %d", page.TotalPages)
		}
	})

	t.Run("clamps negative discount to zero", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"data":[{"id":"ord-1","discount":-500}],"pagination":{"total_pages":1}}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		page, err := client.ListUserOrders(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Orders[0].Discount != 0 {
			t.Errorf("expected discount 0, got %d", page.Orders[0].Discount)
		}
	})

	t.Run("surfaces server errors as StatusError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		_, err := client.ListUserOrders(context.Background(), 1)

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", statusErr.StatusCode)
		}
	})

	t.Run("forwards authorization header", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				t.Errorf("expected Authorization header, got %q", r.Header.Get("Authorization"))
			}
			_, _ = w.Write([]byte(`{"data":{"data":[],"pagination":{"total_pages":1}}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client()).WithAuth("Bearer tok-123")
		if _, err := client.ListUserOrders(context.Background(), 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestClient_GetAdminOrder(t *testing.T) {
	t.Run("decodes order envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/admin/orders/ord-9" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{"data":{"id":"ord-9","number":"SO-1042","status":"processing","total":250000}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		order, err := client.GetAdminOrder(context.Background(), "ord-9")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order == nil {
			t.Fatal("expected an order")
		}
		if order.Number != "SO-1042" || order.Status != domain.OrderStatusProcessing {
			t.Errorf("unexpected order: %+v", order)
		}
	})

	t.Run("404 means not found, not error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		order, err := client.GetAdminOrder(context.Background(), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order != nil {
			t.Errorf("expected nil order, got %+v", order)
		}
	})

	t.Run("200 with null record means not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":null}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		order, err := client.GetUserOrder(context.Background(), "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order != nil {
			t.Errorf("expected nil order, got %+v", order)
		}
	})

	t.Run("transport failure is an error", func(t *testing.T) {
		client := NewClient("http://localhost:1", &http.Client{})
		_, err := client.GetAdminOrder(context.Background(), "ord-1")
		if err == nil {
			t.Fatal("expected error for unreachable store")
		}
	})
}

func TestClient_UpdateOrderStatus(t *testing.T) {
	t.Run("posts status body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != "/admin/orders/ord-1/status" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			var req map[string]string
			if err := json.Unmarshal(body, &req); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if req["status"] != "completed" {
				t.Errorf("expected status completed, got %s", req["status"])
			}
			_, _ = w.Write([]byte(`{"data":{"acknowledged":true}}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		if err := client.UpdateOrderStatus(context.Background(), "ord-1", domain.OrderStatusCompleted); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		err := client.UpdateOrderStatus(context.Background(), "ord-1", domain.OrderStatusCancelled)
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(server.URL, server.Client())
		if err := client.UpdateOrderStatus(ctx, "ord-1", domain.OrderStatusCompleted); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

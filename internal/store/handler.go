package store

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/helioworks/storefront/internal/domain"
	"github.com/helioworks/storefront/internal/messaging"
)

type Handler struct {
	repo     *OrderRepository
	producer *messaging.Producer
	logger   *slog.Logger
}

func NewHandler(repo *OrderRepository, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// Wire envelopes: every payload sits under "data", list payloads nest the
// collection and pagination one level deeper.
type listPayload struct {
	Data       []domain.Order `json:"data"`
	Pagination struct {
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

type envelope struct {
	Data any `json:"data"`
}

// HandleListUserOrders serves GET /orders/user?page=N for the customer
// identified by the fronting infrastructure.
func (h *Handler) HandleListUserOrders(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get("X-Customer-ID")
	if customerID == "" {
		h.writeError(w, http.StatusUnauthorized, "missing customer identity")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "invalid page number")
			return
		}
		page = parsed
	}

	orders, totalPages, err := h.repo.ListByCustomer(r.Context(), customerID, page)
	if err != nil {
		h.logger.Error("failed to list orders", "error", err, "customer_id", customerID)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var payload listPayload
	payload.Data = orders
	payload.Pagination.TotalPages = totalPages

	h.logger.Info("orders listed", "customer_id", customerID, "page", page, "count", len(orders))
	h.writeJSON(w, http.StatusOK, envelope{Data: payload})
}

// HandleGetUserOrder serves GET /orders/user/{id}; an order owned by another
// customer reads as absent.
func (h *Handler) HandleGetUserOrder(w http.ResponseWriter, r *http.Request) {
	customerID := r.Header.Get("X-Customer-ID")
	if customerID == "" {
		h.writeError(w, http.StatusUnauthorized, "missing customer identity")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByIDForCustomer(r.Context(), id, customerID)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Absence is a successful response with a null record, not a 404: the
	// storefront renders a distinct not-found panel for it.
	h.logger.Info("order retrieved", "order_id", id, "found", order != nil)
	h.writeJSON(w, http.StatusOK, envelope{Data: order})
}

// HandleGetAdminOrder serves GET /admin/orders/{id}, any customer's order.
func (h *Handler) HandleGetAdminOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, envelope{Data: order})
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type statusAck struct {
	Acknowledged bool `json:"acknowledged"`
}

// HandleUpdateStatus serves POST /admin/orders/{id}/status. On success an
// orders.status-changed event is published for downstream consumers; the
// response body only acknowledges the mutation.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		h.writeError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	current, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if current == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	oldStatus := current.Status

	order, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Error("failed to update order status", "error", err, "order_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	if h.producer != nil && oldStatus != order.Status {
		event := domain.OrderStatusChangedEvent{
			OrderID:       order.ID,
			OrderNumber:   order.Number,
			CustomerName:  order.Customer.Name,
			CustomerEmail: order.Customer.Email,
			OldStatus:     oldStatus,
			NewStatus:     order.Status,
			Timestamp:     time.Now().UTC(),
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish status changed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order status updated", "order_id", order.ID, "from", oldStatus, "to", order.Status)
	h.writeJSON(w, http.StatusOK, envelope{Data: statusAck{Acknowledged: true}})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

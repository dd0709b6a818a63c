// Package storefront is the HTTP facade the web frontend talks to. Order
// reads go through the view controllers over the order store client; status
// mutations go through the optimistic updater; authentication is proxied to
// the identity service untouched.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/helioworks/storefront/internal/backend"
	"github.com/helioworks/storefront/internal/domain"
	"github.com/helioworks/storefront/internal/view"
)

type Handler struct {
	store     *backend.Client
	updater   *view.StatusUpdater
	authProxy *AuthProxy
	logger    *slog.Logger
}

func NewHandler(store *backend.Client, updater *view.StatusUpdater, authProxy *AuthProxy, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		updater:   updater,
		authProxy: authProxy,
		logger:    logger,
	}
}

type paginationResponse struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

type listResponse struct {
	Data struct {
		Data       []domain.Order     `json:"data"`
		Pagination paginationResponse `json:"pagination"`
	} `json:"data"`
	Meta struct {
		Filtered int `json:"filtered"`
		Total    int `json:"total"`
	} `json:"meta"`
}

type orderResponse struct {
	Data *domain.Order `json:"data"`
}

// HandleListUserOrders serves one page of the caller's orders with optional
// derived filtering. The status and q criteria apply to the fetched page
// only; they never change what is requested from the store.
func (h *Handler) HandleListUserOrders(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid page number")
			return
		}
		page = parsed
	}

	client := h.store.WithAuth(r.Header.Get("Authorization"))
	list := view.NewListController(client, h.logger)
	list.LoadPage(r.Context(), page)

	if msg := list.Err(); msg != "" {
		h.writeError(w, http.StatusBadGateway, msg)
		return
	}

	list.SetStatusFilter(domain.OrderStatus(r.URL.Query().Get("status")))
	list.SetQuery(r.URL.Query().Get("q"))

	var resp listResponse
	resp.Data.Data = list.Filtered()
	resp.Data.Pagination = paginationResponse{
		CurrentPage: list.Page(),
		TotalPages:  list.TotalPages(),
	}
	resp.Meta.Filtered, resp.Meta.Total = list.Counts()

	h.logger.Info("orders listed", "page", list.Page(), "filtered", resp.Meta.Filtered, "total", resp.Meta.Total)
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleGetUserOrder serves one order in the caller's own scope.
func (h *Handler) HandleGetUserOrder(w http.ResponseWriter, r *http.Request) {
	client := h.store.WithAuth(r.Header.Get("Authorization"))
	h.serveOrderDetail(w, r, detailSourceFunc(client.GetUserOrder))
}

// HandleGetAdminOrder serves one order in admin scope, any customer.
func (h *Handler) HandleGetAdminOrder(w http.ResponseWriter, r *http.Request) {
	client := h.store.WithAuth(r.Header.Get("Authorization"))
	h.serveOrderDetail(w, r, detailSourceFunc(client.GetAdminOrder))
}

func (h *Handler) serveOrderDetail(w http.ResponseWriter, r *http.Request, source view.DetailSource) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	detail := view.NewDetailController(source, h.logger)
	detail.Load(r.Context(), id)

	// Failure and absence are distinct, each with its own panel.
	if msg := detail.Err(); msg != "" {
		h.writeError(w, http.StatusBadGateway, msg)
		return
	}
	if detail.NotFound() {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("order retrieved", "order_id", id)
	h.writeJSON(w, http.StatusOK, orderResponse{Data: detail.Order()})
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// HandleUpdateStatus requests a status transition through the optimistic
// updater. Same target as current is acknowledged without touching the
// store; an unresolved prior mutation for the order yields a conflict.
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

	client := h.store.WithAuth(r.Header.Get("Authorization"))
	order, err := client.GetAdminOrder(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to fetch order for status update", "error", err, "order_id", id)
		h.writeError(w, http.StatusBadGateway, "order store unavailable")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	if err := h.updater.Update(r.Context(), id, order.Status, req.Status); err != nil {
		switch {
		case errors.Is(err, view.ErrUpdateInFlight):
			h.writeError(w, http.StatusConflict, "status update already in flight")
		default:
			h.writeError(w, http.StatusBadGateway, "failed to update order status")
		}
		return
	}

	order.Status = req.Status
	h.writeJSON(w, http.StatusOK, orderResponse{Data: order})
}

// HandleAuth forwards login, registration and password-reset calls to the
// identity service, preserving status and body.
func (h *Handler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.authProxy.Forward(r.Context(), r, r.URL.Path)
	if err != nil {
		h.logger.Error("failed to forward auth request", "error", err, "path", r.URL.Path)
		h.writeError(w, http.StatusBadGateway, "identity service unavailable")
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	w.WriteHeader(resp.StatusCode)

	h.logger.Info("auth request proxied", "method", r.Method, "path", r.URL.Path, "status", resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		h.logger.Error("failed to copy auth response body", "error", err)
	}
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

type detailSourceFunc func(ctx context.Context, id string) (*domain.Order, error)

func (f detailSourceFunc) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return f(ctx, id)
}

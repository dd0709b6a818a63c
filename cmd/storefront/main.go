package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/helioworks/storefront/internal/backend"
	"github.com/helioworks/storefront/internal/domain"
	"github.com/helioworks/storefront/internal/storefront"
	"github.com/helioworks/storefront/internal/telemetry"
	"github.com/helioworks/storefront/internal/view"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	tel, err := telemetry.Init(ctx, "storefront", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = tel.Shutdown(ctx) }()

	orderStoreURL := os.Getenv("ORDER_STORE_URL")
	if orderStoreURL == "" {
		logger.Error("ORDER_STORE_URL environment variable is required")
		os.Exit(1)
	}

	identityServiceURL := os.Getenv("IDENTITY_SERVICE_URL")
	if identityServiceURL == "" {
		logger.Error("IDENTITY_SERVICE_URL environment variable is required")
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	store := backend.NewClient(orderStoreURL, httpClient)
	updater := view.NewStatusUpdater(store, logger)
	updater.Observe(func(orderID string, status domain.OrderStatus) {
		logger.Info("order status applied", "order_id", orderID, "status", status)
	})
	updater.NotifyError(func(orderID string, err error) {
		logger.Warn("order status reverted", "order_id", orderID, "error", err)
	})

	authProxy := storefront.NewAuthProxy(identityServiceURL, httpClient)
	handler := storefront.NewHandler(store, updater, authProxy, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /orders/user", telemetry.WithHTTPRoute(handler.HandleListUserOrders))
	mux.HandleFunc("GET /orders/user/{id}", telemetry.WithHTTPRoute(handler.HandleGetUserOrder))
	mux.HandleFunc("GET /admin/orders/{id}", telemetry.WithHTTPRoute(handler.HandleGetAdminOrder))
	mux.HandleFunc("POST /admin/orders/{id}/status", telemetry.WithHTTPRoute(handler.HandleUpdateStatus))
	mux.HandleFunc("POST /auth/login", telemetry.WithHTTPRoute(handler.HandleAuth))
	mux.HandleFunc("POST /auth/register", telemetry.WithHTTPRoute(handler.HandleAuth))
	mux.HandleFunc("POST /auth/reset", telemetry.WithHTTPRoute(handler.HandleAuth))
	mux.Handle("GET /metrics", tel.MetricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "storefront",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

// Package notifier turns order status-change events into customer emails.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/helioworks/storefront/internal/domain"
)

type StatusHandler struct {
	mailerURL  string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewStatusHandler(mailerURL string, client *http.Client, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		mailerURL:  mailerURL,
		httpClient: client,
		logger:     logger,
	}
}

// Handle consumes one orders.status-changed event and sends the matching
// customer email. Unknown statuses still produce a generic update mail; the
// event is never dropped for an unrecognized value.
func (h *StatusHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderStatusChangedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal status changed event: %w", err)
	}

	h.logger.Info("processing status changed event",
		"order_id", event.OrderID, "from", event.OldStatus, "to", event.NewStatus)

	subject, body := composeStatusEmail(event)

	if err := h.sendEmail(ctx, event.CustomerEmail, subject, body); err != nil {
		h.logger.Error("failed to send status email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send status email: %w", err)
	}

	h.logger.Info("status email sent", "order_id", event.OrderID, "to", event.CustomerEmail)
	return nil
}

func composeStatusEmail(event domain.OrderStatusChangedEvent) (subject, body string) {
	switch event.NewStatus {
	case domain.OrderStatusProcessing:
		subject = "Your order " + event.OrderNumber + " is being processed"
		body = fmt.Sprintf("Hi %s, we have started processing your order %s.", event.CustomerName, event.OrderNumber)
	case domain.OrderStatusCompleted:
		subject = "Your order " + event.OrderNumber + " is complete"
		body = fmt.Sprintf("Hi %s, your order %s has been completed. Thank you for choosing us.", event.CustomerName, event.OrderNumber)
	case domain.OrderStatusCancelled:
		subject = "Your order " + event.OrderNumber + " was cancelled"
		body = fmt.Sprintf("Hi %s, your order %s has been cancelled. Contact support if this is unexpected.", event.CustomerName, event.OrderNumber)
	case domain.OrderStatusRefunded:
		subject = "Your order " + event.OrderNumber + " was refunded"
		body = fmt.Sprintf("Hi %s, your order %s has been refunded. The amount will reach you within a few business days.", event.CustomerName, event.OrderNumber)
	default:
		subject = "Update on your order " + event.OrderNumber
		body = fmt.Sprintf("Hi %s, the status of your order %s is now %s.", event.CustomerName, event.OrderNumber, event.NewStatus.Label())
	}
	return subject, body
}

func (h *StatusHandler) sendEmail(ctx context.Context, to, subject, body string) error {
	payload := map[string]string{
		"to":      to,
		"subject": subject,
		"body":    body,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.mailerURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailer returned status %d", resp.StatusCode)
	}

	return nil
}

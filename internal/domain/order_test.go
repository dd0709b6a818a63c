package domain

import (
	"testing"
	"time"
)

func TestOrderStatus_Label(t *testing.T) {
	t.Run("maps every valid status", func(t *testing.T) {
		want := map[OrderStatus]string{
			OrderStatusPending:    "Pending",
			OrderStatusProcessing: "Processing",
			OrderStatusCompleted:  "Completed",
			OrderStatusCancelled:  "Cancelled",
			OrderStatusRefunded:   "Refunded",
		}

		for _, status := range Statuses() {
			if got := status.Label(); got != want[status] {
				t.Errorf("Label(%q) = %q, want %q", status, got, want[status])
			}
		}
	})

	t.Run("falls back for unrecognized values", func(t *testing.T) {
		for _, status := range []OrderStatus{"", "shipped", "PENDING", "unknown"} {
			if got := status.Label(); got != StatusLabelUnknown {
				t.Errorf("Label(%q) = %q, want %q", status, got, StatusLabelUnknown)
			}
			if status.Valid() {
				t.Errorf("Valid(%q) = true, want false", status)
			}
		}
	})
}

func TestOrder_EffectiveDiscount(t *testing.T) {
	tests := []struct {
		name     string
		discount int64
		want     int64
	}{
		{"positive discount kept", 1500, 1500},
		{"zero discount kept", 0, 0},
		{"negative discount treated as zero", -250, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := Order{Discount: tt.discount}
			if got := order.EffectiveDiscount(); got != tt.want {
				t.Errorf("EffectiveDiscount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "USD 0.00"},
		{5, "USD 0.05"},
		{1234, "USD 12.34"},
		{123456, "USD 1,234.56"},
		{100000000, "USD 1,000,000.00"},
		{-123456, "USD -1,234.56"},
	}

	for _, tt := range tests {
		if got := FormatMoney(tt.cents); got != tt.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 14, 30, 0, 0, time.UTC)
	if got := FormatDate(ts); got != "March 7, 2025 at 2:30 PM" {
		t.Errorf("FormatDate() = %q", got)
	}
}

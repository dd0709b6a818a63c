package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// statusLabels is the display mapping for the closed status set.
var statusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Pending",
	OrderStatusProcessing: "Processing",
	OrderStatusCompleted:  "Completed",
	OrderStatusCancelled:  "Cancelled",
	OrderStatusRefunded:   "Refunded",
}

// StatusLabelUnknown is rendered for any status value outside the closed set.
const StatusLabelUnknown = "Unknown"

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label for s, falling back to StatusLabelUnknown
// for values the backend sends that this client does not recognize.
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return StatusLabelUnknown
}

// Statuses returns the closed set of valid order statuses.
func Statuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusCompleted,
		OrderStatusCancelled,
		OrderStatusRefunded,
	}
}

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodOther PaymentMethod = "other"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// LineItem carries a denormalized product snapshot captured at order time.
// The snapshot never changes after the order exists, even if the live
// product does.
type LineItem struct {
	ProductID          string `json:"product_id"`
	ProductName        string `json:"product_name"`
	ProductImage       string `json:"product_image"`
	ProductDescription string `json:"product_description"`
	UnitPrice          int64  `json:"unit_price"`
	Quantity           int    `json:"quantity"`
	Total              int64  `json:"total"`
}

// Order is the backend's purchase record. All monetary fields are integer
// cents and are computed by the backend; the client never recomputes them.
type Order struct {
	ID            string        `json:"id"`
	Number        string        `json:"number"`
	CustomerID    string        `json:"customer_id"`
	Customer      Customer      `json:"customer"`
	Items         []LineItem    `json:"items"`
	Subtotal      int64         `json:"subtotal"`
	Discount      int64         `json:"discount"`
	Total         int64         `json:"total"`
	CouponCode    string        `json:"coupon_code,omitempty"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// EffectiveDiscount treats a negative or missing discount as zero. The
// backend payload is never validated on this field, so display code must
// not trust its sign.
func (o *Order) EffectiveDiscount() int64 {
	if o.Discount < 0 {
		return 0
	}
	return o.Discount
}

// OrderPage is one page of an order collection plus pagination metadata.
type OrderPage struct {
	Orders     []Order `json:"orders"`
	TotalPages int     `json:"total_pages"`
}

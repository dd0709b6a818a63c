// Package store is the reference order store: the Postgres-backed REST
// backend the storefront's client talks to. Orders are created and owned
// here; the storefront only reads them and requests status transitions.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/helioworks/storefront/internal/domain"
)

// PageSize is the fixed page length for order collections.
const PageSize = 10

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `
	o.id, o.number, o.customer_id, o.status, o.payment_method, o.payment_status,
	o.subtotal, o.discount, o.total, o.coupon_code, o.notes, o.created_at,
	c.name, c.email, c.phone
`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	order := &domain.Order{}
	var couponCode, notes, phone sql.NullString

	err := row.Scan(
		&order.ID, &order.Number, &order.CustomerID, &order.Status,
		&order.PaymentMethod, &order.PaymentStatus,
		&order.Subtotal, &order.Discount, &order.Total,
		&couponCode, &notes, &order.CreatedAt,
		&order.Customer.Name, &order.Customer.Email, &phone,
	)
	if err != nil {
		return nil, err
	}

	order.CouponCode = couponCode.String
	order.Notes = notes.String
	order.Customer.Phone = phone.String
	order.Items = []domain.LineItem{}
	return order, nil
}

// ListByCustomer returns one fixed-size page of a customer's orders, newest
// first, plus the total page count (at least 1). Line items are loaded in a
// single batch query.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, page int) ([]domain.Order, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE customer_id = $1
	`, customerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (total + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.customer_id = $1
		ORDER BY o.created_at DESC
		LIMIT $2 OFFSET $3
	`, customerID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orderMap[order.ID] = order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, totalPages, nil
	}

	if err := r.loadItems(ctx, orderMap, orderIDs); err != nil {
		return nil, 0, err
	}

	orders := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, totalPages, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderMap map[string]*domain.Order, orderIDs []string) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, product_name, product_image, product_description,
		       unit_price, quantity, total
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY position
	`, pq.Array(orderIDs))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var orderID string
		var item domain.LineItem
		err := rows.Scan(
			&orderID, &item.ProductID, &item.ProductName, &item.ProductImage,
			&item.ProductDescription, &item.UnitPrice, &item.Quantity, &item.Total,
		)
		if err != nil {
			return err
		}
		order := orderMap[orderID]
		order.Items = append(order.Items, item)
	}

	return rows.Err()
}

// GetByID fetches one order in admin scope. Returns (nil, nil) when the
// order does not exist.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOne(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`, id)
}

// GetByIDForCustomer fetches one order only if it belongs to the given
// customer; another customer's order reads as absent, never as forbidden.
func (r *OrderRepository) GetByIDForCustomer(ctx context.Context, id, customerID string) (*domain.Order, error) {
	return r.getOne(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1 AND o.customer_id = $2
	`, id, customerID)
}

func (r *OrderRepository) getOne(ctx context.Context, query string, args ...any) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	orderMap := map[string]*domain.Order{order.ID: order}
	if err := r.loadItems(ctx, orderMap, []string{order.ID}); err != nil {
		return nil, err
	}

	return order, nil
}

// UpdateStatus applies a status transition and returns the updated order, or
// (nil, nil) when the order does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// CreateCustomer inserts a customer record and returns its id.
func (r *OrderRepository) CreateCustomer(ctx context.Context, customer domain.Customer) (string, error) {
	id := uuid.New().String()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone)
		VALUES ($1, $2, $3, NULLIF($4, ''))
	`, id, customer.Name, customer.Email, customer.Phone)
	if err != nil {
		return "", fmt.Errorf("insert customer: %w", err)
	}

	return id, nil
}

// Create inserts an order with its line items. The caller supplies the
// monetary fields; nothing is recomputed here.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	order.ID = uuid.New().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, number, customer_id, status, payment_method, payment_status,
		                    subtotal, discount, total, coupon_code, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), $12, $12)
	`, order.ID, order.Number, order.CustomerID, order.Status,
		order.PaymentMethod, order.PaymentStatus,
		order.Subtotal, order.Discount, order.Total,
		order.CouponCode, order.Notes, order.CreatedAt)
	if err != nil {
		return err
	}

	for position, item := range order.Items {
		itemID := uuid.New().String()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, position, product_id, product_name,
			                         product_image, product_description, unit_price, quantity, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, itemID, order.ID, position, item.ProductID, item.ProductName,
			item.ProductImage, item.ProductDescription, item.UnitPrice, item.Quantity, item.Total)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

const (
	opTimeout = 5 * time.Second

	sessionIndexName = "orders_gateway_session_id_key"
)

const orderColumns = `
	id, customer_id, customer_email, total_amount, currency,
	shipping_full_name, shipping_address_line1, shipping_address_line2,
	shipping_city, shipping_state, shipping_postal_code, shipping_country,
	payment_method, payment_status, order_status, is_paid, paid_at, delivered_at,
	gateway_session_id, gateway_payment_intent_id, version, created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) (err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	addr := order.ShippingAddress
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`,
		order.ID, order.CustomerID, order.CustomerEmail, order.TotalAmount, order.Currency,
		addr.FullName, addr.AddressLine1, addr.AddressLine2,
		addr.City, addr.State, addr.PostalCode, addr.Country,
		string(order.PaymentMethod), string(order.PaymentStatus), string(order.OrderStatus),
		order.IsPaid, nullTime(order.PaidAt), nullTime(order.DeliveredAt),
		sessionID(order.Transaction), paymentIntentID(order.Transaction),
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for pos, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, position, product_id, product_name, sku, color, size,
				unit_price, quantity, discount_percentage, line_total
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			order.ID, pos, item.ProductID, item.ProductName, item.SKU, item.Color, string(item.Size),
			item.UnitPrice, item.Quantity, item.DiscountPercentage, item.LineTotal,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE gateway_session_id = $1`, sessionID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, arg string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) List(ctx context.Context, page, limit int) (domain.OrderPage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	result := domain.OrderPage{Page: page, Limit: limit, Orders: []domain.Order{}}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&result.TotalItems); err != nil {
		return domain.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}
	if page < 1 || limit < 1 {
		return result, nil
	}

	orders, err := r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`, limit, (page-1)*limit)
	if err != nil {
		return domain.OrderPage{}, err
	}
	result.Orders = orders

	return result, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`

	if limit > 0 {
		return r.queryOrders(ctx, query+" LIMIT $2", customerID, limit)
	}
	return r.queryOrders(ctx, query, customerID)
}

// Save обновляет только изменяемые поля: статусы, отметки времени и данные транзакции шлюза.
func (r *orderRepository) Save(ctx context.Context, order domain.Order) (err error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1,
		    order_status = $2,
		    is_paid = $3,
		    paid_at = $4,
		    delivered_at = $5,
		    gateway_session_id = $6,
		    gateway_payment_intent_id = $7,
		    version = version + 1,
		    updated_at = $8
		WHERE id = $9
		  AND version = $10
	`,
		string(order.PaymentStatus),
		string(order.OrderStatus),
		order.IsPaid,
		nullTime(order.PaidAt),
		nullTime(order.DeliveredAt),
		sessionID(order.Transaction),
		paymentIntentID(order.Transaction),
		order.UpdatedAt,
		order.ID,
		order.Version,
	)
	if err != nil {
		if isUniqueViolationOn(err, sessionIndexName) {
			return domain.ErrSessionAlreadyBound
		}
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, existsErr := r.orderExistsTx(ctx, tx, order.ID)
		if existsErr != nil {
			err = existsErr
			return err
		}
		if !exists {
			err = domain.ErrOrderNotFound
			return err
		}
		err = domain.ErrOrderVersionConflict
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save order: %w", err)
	}

	return nil
}

func (r *orderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	rows.Close()

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, product_name, sku, color, size,
		       unit_price, quantity, discount_percentage, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var (
			item domain.LineItem
			size string
		)
		if err := rows.Scan(
			&item.ProductID, &item.ProductName, &item.SKU, &item.Color, &size,
			&item.UnitPrice, &item.Quantity, &item.DiscountPercentage, &item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.Size = domain.Size(size)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) orderExistsTx(ctx context.Context, tx *sql.Tx, orderID string) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order                        domain.Order
		paymentMethod, paymentStatus string
		orderStatus                  string
		paidAt, deliveredAt          sql.NullTime
		session, intent              sql.NullString
	)

	addr := &order.ShippingAddress
	if err := row.Scan(
		&order.ID, &order.CustomerID, &order.CustomerEmail, &order.TotalAmount, &order.Currency,
		&addr.FullName, &addr.AddressLine1, &addr.AddressLine2,
		&addr.City, &addr.State, &addr.PostalCode, &addr.Country,
		&paymentMethod, &paymentStatus, &orderStatus, &order.IsPaid, &paidAt, &deliveredAt,
		&session, &intent, &order.Version, &order.CreatedAt, &order.UpdatedAt,
	); err != nil {
		return domain.Order{}, err
	}

	order.PaymentMethod = domain.PaymentMethod(paymentMethod)
	order.PaymentStatus = domain.PaymentStatus(paymentStatus)
	order.OrderStatus = domain.OrderStatus(orderStatus)
	if paidAt.Valid {
		at := paidAt.Time.UTC()
		order.PaidAt = &at
	}
	if deliveredAt.Valid {
		at := deliveredAt.Time.UTC()
		order.DeliveredAt = &at
	}
	if session.Valid {
		order.Transaction = &domain.GatewayTransaction{SessionID: session.String, PaymentIntentID: intent.String}
	}
	order.CreatedAt = order.CreatedAt.UTC()
	order.UpdatedAt = order.UpdatedAt.UTC()

	return order, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func sessionID(tx *domain.GatewayTransaction) sql.NullString {
	if tx == nil || tx.SessionID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: tx.SessionID, Valid: true}
}

func paymentIntentID(tx *domain.GatewayTransaction) sql.NullString {
	if tx == nil || tx.PaymentIntentID == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: tx.PaymentIntentID, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isUniqueViolationOn(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)

package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mesworks/prodorder/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService enforces production order business rules: order number
// uniqueness, product existence, status and date consistency.
type OrderService struct {
	orders   OrderRepository
	products ProductRepository
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderRepository, products ProductRepository) *OrderService {
	return &OrderService{orders: orders, products: products}
}

// CreateOrderInput carries the caller-supplied fields for a new order.
type CreateOrderInput struct {
	OrderNumber     string
	ProductCode     string
	QuantityPlanned int
	Status          domain.OrderStatus // defaults to Planned when empty
	StartDate       time.Time          // defaults to now when zero
}

// UpdateOrderInput carries partial fields for an order update. Only non-nil
// fields are applied; QuantityPlanned and QuantityProduced are never touched.
type UpdateOrderInput struct {
	OrderNumber *string
	ProductCode *string
	Status      *domain.OrderStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// Statuses returns the recognized order status names.
func (s *OrderService) Statuses() []string {
	return domain.OrderStatusNames()
}

// List returns all orders.
func (s *OrderService) List(ctx context.Context) ([]*domain.ProductionOrder, error) {
	rows, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, storeErr(err, "failed to list orders")
	}
	return rows, nil
}

// Get returns one order by ID.
func (s *OrderService) Get(ctx context.Context, id int64) (*domain.ProductionOrder, error) {
	if id <= 0 {
		return nil, invalidf("order ID must be greater than zero, got %d", id)
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order "+itoa(id)+" not found")
	}
	return order, nil
}

// ListByStatus returns all orders with the given status. An empty result is
// not an error.
func (s *OrderService) ListByStatus(ctx context.Context, status string) ([]*domain.ProductionOrder, error) {
	parsed, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, invalidf("status %q is not recognized, valid statuses: %s",
			status, strings.Join(domain.OrderStatusNames(), ", "))
	}
	rows, err := s.orders.ListByStatus(ctx, parsed)
	if err != nil {
		return nil, storeErr(err, "failed to list orders by status")
	}
	return rows, nil
}

// Create validates and persists a new production order. QuantityProduced is
// forced to zero regardless of input.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*domain.ProductionOrder, error) {
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
	in.ProductCode = strings.TrimSpace(in.ProductCode)

	if in.OrderNumber == "" {
		return nil, invalidf("order number is required")
	}
	if in.ProductCode == "" {
		return nil, invalidf("product code is required")
	}
	if in.QuantityPlanned <= 0 {
		return nil, invalidf("planned quantity must be greater than zero, got %d", in.QuantityPlanned)
	}

	if err := s.checkOrderNumberFree(ctx, in.OrderNumber, 0); err != nil {
		return nil, err
	}
	if err := s.checkProductExists(ctx, in.ProductCode); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.OrderPlanned
	}
	if !status.Valid() {
		return nil, invalidf("status %q is not recognized, valid statuses: %s",
			string(status), strings.Join(domain.OrderStatusNames(), ", "))
	}

	startDate := in.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	order := &domain.ProductionOrder{
		OrderNumber:      in.OrderNumber,
		ProductCode:      in.ProductCode,
		QuantityPlanned:  in.QuantityPlanned,
		QuantityProduced: 0,
		Status:           status,
		StartDate:        startDate,
	}

	if status == domain.OrderFinished {
		now := time.Now()
		if dateOnly(startDate).After(dateOnly(now)) {
			return nil, conflictf("cannot finish order: start date (%s) is after current date (%s)",
				dateOnly(startDate).Format("2006-01-02"), dateOnly(now).Format("2006-01-02"))
		}
		order.EndDate = &now
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, storeErr(err, "failed to create order "+in.OrderNumber)
	}

	zap.L().Info("production order created",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("product_code", order.ProductCode),
		zap.Int("quantity_planned", order.QuantityPlanned),
	)
	return order, nil
}

// Update applies the supplied fields to an existing order and re-validates
// the result. Quantity fields are never altered here.
func (s *OrderService) Update(ctx context.Context, id int64, in UpdateOrderInput) (*domain.ProductionOrder, error) {
	if id <= 0 {
		return nil, invalidf("order ID must be greater than zero, got %d", id)
	}

	// Date conflict precheck runs before any mutation.
	if in.StartDate != nil && in.EndDate != nil && dateOnly(*in.StartDate).After(dateOnly(*in.EndDate)) {
		return nil, invalidf("start date (%s) cannot be after end date (%s)",
			dateOnly(*in.StartDate).Format("2006-01-02"), dateOnly(*in.EndDate).Format("2006-01-02"))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "order "+itoa(id)+" not found")
	}

	if in.OrderNumber != nil {
		if number := strings.TrimSpace(*in.OrderNumber); number != "" {
			order.OrderNumber = number
		}
	}
	if in.ProductCode != nil {
		if code := strings.TrimSpace(*in.ProductCode); code != "" {
			order.ProductCode = code
		}
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalidf("status %q is not recognized, valid statuses: %s",
				string(*in.Status), strings.Join(domain.OrderStatusNames(), ", "))
		}
		order.Status = *in.Status
	}
	if in.StartDate != nil {
		order.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		endDate := *in.EndDate
		order.EndDate = &endDate
	}

	if err := s.checkOrderNumberFree(ctx, order.OrderNumber, order.ID); err != nil {
		return nil, err
	}
	if err := s.checkProductExists(ctx, order.ProductCode); err != nil {
		return nil, err
	}

	// A plan cannot carry a finish date.
	if order.Status == domain.OrderPlanned && order.EndDate != nil {
		order.EndDate = nil
	}

	if order.Status == domain.OrderFinished {
		now := time.Now()
		if dateOnly(order.StartDate).After(dateOnly(now)) {
			return nil, conflictf("cannot finish order: start date (%s) is after current date (%s)",
				dateOnly(order.StartDate).Format("2006-01-02"), dateOnly(now).Format("2006-01-02"))
		}
		order.EndDate = &now
	}

	if order.EndDate != nil && dateOnly(*order.EndDate).Before(dateOnly(order.StartDate)) {
		return nil, invalidf("start date (%s) cannot be after end date (%s)",
			dateOnly(order.StartDate).Format("2006-01-02"), dateOnly(*order.EndDate).Format("2006-01-02"))
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, storeErr(err, "failed to update order "+itoa(id))
	}

	zap.L().Info("production order updated",
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)),
	)
	return order, nil
}

// Delete removes an order and its logs.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalidf("order ID must be greater than zero, got %d", id)
	}
	if _, err := s.orders.GetByID(ctx, id); err != nil {
		return storeErr(err, "order "+itoa(id)+" not found")
	}
	if err := s.orders.Delete(ctx, id); err != nil {
		return storeErr(err, "failed to delete order "+itoa(id))
	}
	zap.L().Info("production order deleted", zap.Int64("order_id", id))
	return nil
}

func (s *OrderService) checkOrderNumberFree(ctx context.Context, number string, excludeID int64) error {
	existing, err := s.orders.GetByOrderNumber(ctx, number, excludeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return storeErr(err, "failed to check order number "+number)
	}
	if existing != nil {
		return conflictf("a production order with number %q already exists", number)
	}
	return nil
}

func (s *OrderService) checkProductExists(ctx context.Context, code string) error {
	exists, err := s.products.ExistsByCode(ctx, code)
	if err != nil {
		return storeErr(err, "failed to check product code "+code)
	}
	if !exists {
		return conflictf("product code %q does not exist", code)
	}
	return nil
}

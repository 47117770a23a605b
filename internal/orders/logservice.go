package orders

import (
	"context"
	"errors"
	"time"

	"github.com/mesworks/prodorder/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event topics published by the log service.
const (
	TopicOrderProduced  = "order.produced"
	TopicOrderCompleted = "order.completed"
)

// EventBus is the publish side of the application event bus.
type EventBus interface {
	Publish(topic string, args ...interface{})
}

// ProducedEvent is published after every successful log append.
type ProducedEvent struct {
	OrderID     int64
	OrderNumber string
	Quantity    int
	Produced    int
	Planned     int
}

// LogService enforces production log validity and keeps the owning order's
// produced quantity in lockstep with the sum of its logs.
type LogService struct {
	db        *gorm.DB
	logs      LogRepository
	orders    OrderRepository
	resources ResourceRepository
	bus       EventBus
}

// NewLogService creates a new production log service. bus may be nil.
func NewLogService(db *gorm.DB, logs LogRepository, orders OrderRepository, resources ResourceRepository, bus EventBus) *LogService {
	return &LogService{db: db, logs: logs, orders: orders, resources: resources, bus: bus}
}

// AppendLogInput carries the caller-supplied fields for a new log.
type AppendLogInput struct {
	ProductionOrderID int64
	ResourceID        *int64
	Quantity          int
}

// Append validates and persists a production log, incrementing the owning
// order's produced quantity in the same transaction. The log row and the
// order increment are all-or-nothing.
func (s *LogService) Append(ctx context.Context, in AppendLogInput) (*domain.ProductionLog, error) {
	if _, err := s.orders.GetByID(ctx, in.ProductionOrderID); err != nil {
		return nil, storeErr(err, "production order with ID "+itoa(in.ProductionOrderID)+" not found")
	}

	if in.ResourceID != nil {
		exists, err := s.resources.ExistsByID(ctx, *in.ResourceID)
		if err != nil {
			return nil, storeErr(err, "failed to check resource "+itoa(*in.ResourceID))
		}
		if !exists {
			return nil, notFoundf("resource with ID %d not found", *in.ResourceID)
		}
	}

	if in.Quantity <= 0 {
		return nil, invalidf("quantity must be greater than zero, got %d", in.Quantity)
	}

	log := &domain.ProductionLog{
		ProductionOrderID: in.ProductionOrderID,
		ResourceID:        in.ResourceID,
		Quantity:          in.Quantity,
	}

	var event ProducedEvent

	// The read-modify-write on the order row is the critical section: the
	// overproduction check and both writes run under one transaction, with a
	// row lock where the dialect supports it.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var order domain.ProductionOrder
		if err := q.First(&order, in.ProductionOrderID).Error; err != nil {
			return err
		}

		if order.QuantityProduced+in.Quantity > order.QuantityPlanned {
			return conflictf("quantity exceeds planned. Planned: %d, Already produced: %d, Attempting to add: %d",
				order.QuantityPlanned, order.QuantityProduced, in.Quantity)
		}

		log.Timestamp = time.Now()
		if err := tx.Create(log).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.ProductionOrder{}).
			Where("id = ?", order.ID).
			Update("quantity_produced", gorm.Expr("quantity_produced + ?", in.Quantity)).Error; err != nil {
			return err
		}

		event = ProducedEvent{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Quantity:    in.Quantity,
			Produced:    order.QuantityProduced + in.Quantity,
			Planned:     order.QuantityPlanned,
		}
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, err
		}
		return nil, storeErr(err, "failed to append production log")
	}

	zap.L().Info("production log appended",
		zap.Int64("log_id", log.ID),
		zap.Int64("order_id", event.OrderID),
		zap.Int("quantity", in.Quantity),
		zap.Int("produced", event.Produced),
		zap.Int("planned", event.Planned),
	)

	if s.bus != nil {
		s.bus.Publish(TopicOrderProduced, event)
		if event.Produced == event.Planned {
			s.bus.Publish(TopicOrderCompleted, event)
		}
	}
	return log, nil
}

// List returns all production logs.
func (s *LogService) List(ctx context.Context) ([]*domain.ProductionLog, error) {
	rows, err := s.logs.ListAll(ctx)
	if err != nil {
		return nil, storeErr(err, "failed to list production logs")
	}
	return rows, nil
}

// ListByOrder returns all logs for one order. An empty result is not an
// error; the presentation layer decides how to report it.
func (s *LogService) ListByOrder(ctx context.Context, orderID int64) ([]*domain.ProductionLog, error) {
	if orderID <= 0 {
		return nil, invalidf("order ID must be greater than zero, got %d", orderID)
	}
	rows, err := s.logs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "failed to list logs for order "+itoa(orderID))
	}
	return rows, nil
}

// Get returns one log by ID.
func (s *LogService) Get(ctx context.Context, id int64) (*domain.ProductionLog, error) {
	if id <= 0 {
		return nil, invalidf("log ID must be greater than zero, got %d", id)
	}
	log, err := s.logs.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "production log "+itoa(id)+" not found")
	}
	return log, nil
}

package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mesworks/prodorder/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database migrated and seeded with the
// demo catalog.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	products := []domain.Product{
		{Code: "PROD-001", Description: "SMT circuit board"},
		{Code: "PROD-002", Description: "Injection molded housing"},
		{Code: "PROD-003", Description: "Assembled electronic module"},
	}
	require.NoError(t, db.Create(&products).Error)

	resources := []domain.Resource{
		{Code: "RES-001", Description: "SMT line 01", Status: domain.ResourceAvailable},
		{Code: "RES-002", Description: "Injection line 02", Status: domain.ResourceInUse},
	}
	require.NoError(t, db.Create(&resources).Error)

	return db
}

type capturedEvents struct {
	topics []string
	events []ProducedEvent
}

func (c *capturedEvents) Publish(topic string, args ...interface{}) {
	c.topics = append(c.topics, topic)
	if len(args) == 1 {
		if ev, ok := args[0].(ProducedEvent); ok {
			c.events = append(c.events, ev)
		}
	}
}

func newServices(t *testing.T) (*OrderService, *LogService, *gorm.DB, *capturedEvents) {
	t.Helper()
	db := newTestDB(t)
	bus := &capturedEvents{}
	orderSvc := NewOrderService(NewGormOrderRepository(db), NewGormProductRepository(db))
	logSvc := NewLogService(db, NewGormLogRepository(db), NewGormOrderRepository(db), NewGormResourceRepository(db), bus)
	return orderSvc, logSvc, db, bus
}

func mustCreateOrder(t *testing.T, svc *OrderService, number string, planned int) *domain.ProductionOrder {
	t.Helper()
	order, err := svc.Create(context.Background(), CreateOrderInput{
		OrderNumber:     number,
		ProductCode:     "PROD-001",
		QuantityPlanned: planned,
		Status:          domain.OrderPlanned,
		StartDate:       time.Now(),
	})
	require.NoError(t, err)
	return order
}

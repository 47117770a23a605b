package orders

import (
	"context"
	"testing"

	"github.com/mesworks/prodorder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLog(t *testing.T) {
	orderSvc, logSvc, _, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 1000)

	log, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 250})
	require.NoError(t, err)
	assert.NotZero(t, log.ID)
	assert.False(t, log.Timestamp.IsZero())
	assert.Nil(t, log.ResourceID)

	got, err := orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, got.QuantityProduced)
}

func TestAppendLogWithResource(t *testing.T) {
	orderSvc, logSvc, db, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 1000)

	var res domain.Resource
	require.NoError(t, db.Where("code = ?", "RES-001").First(&res).Error)

	log, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, ResourceID: &res.ID, Quantity: 10})
	require.NoError(t, err)
	require.NotNil(t, log.ResourceID)
	assert.Equal(t, res.ID, *log.ResourceID)
}

func TestAppendLogValidation(t *testing.T) {
	orderSvc, logSvc, _, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 1000)

	_, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: 9999, Quantity: 10})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	missing := int64(9999)
	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, ResourceID: &missing, Quantity: 10})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 0})
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: -3})
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestAppendLogOverproduction(t *testing.T) {
	orderSvc, logSvc, _, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 1000)

	_, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 250})
	require.NoError(t, err)

	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 800})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	// The rejection reports planned, already-produced and attempted values.
	assert.Contains(t, err.Error(), "1000")
	assert.Contains(t, err.Error(), "250")
	assert.Contains(t, err.Error(), "800")
}

func TestAppendLogBoundary(t *testing.T) {
	orderSvc, logSvc, _, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 100)

	_, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 99})
	require.NoError(t, err)

	// Reaching exactly the planned quantity succeeds.
	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 1})
	require.NoError(t, err)

	got, err := orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, got.QuantityPlanned, got.QuantityProduced)

	// One unit past the plan is rejected.
	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 1})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestAppendLogSumProperty(t *testing.T) {
	orderSvc, logSvc, _, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 1000)

	quantities := []int{10, 25, 5, 300, 160}
	sum := 0
	for _, q := range quantities {
		_, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: q})
		require.NoError(t, err)
		sum += q
	}

	got, err := orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, sum, got.QuantityProduced)

	logs, err := logSvc.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, logs, len(quantities))
}

// A rejected append must leave no partial state: no log row, no quantity
// change.
func TestAppendLogAtomicity(t *testing.T) {
	orderSvc, logSvc, db, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 100)

	_, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 90})
	require.NoError(t, err)

	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 20})
	require.Error(t, err)

	var logCount int64
	require.NoError(t, db.Model(&domain.ProductionLog{}).Where("production_order_id = ?", order.ID).Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)

	got, err := orderSvc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 90, got.QuantityProduced)
}

func TestAppendLogEvents(t *testing.T) {
	orderSvc, logSvc, _, bus := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 100)

	_, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 60})
	require.NoError(t, err)
	assert.Equal(t, []string{TopicOrderProduced}, bus.topics)

	_, err = logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 40})
	require.NoError(t, err)
	assert.Equal(t, []string{TopicOrderProduced, TopicOrderProduced, TopicOrderCompleted}, bus.topics)

	last := bus.events[len(bus.events)-1]
	assert.Equal(t, order.ID, last.OrderID)
	assert.Equal(t, 100, last.Produced)
	assert.Equal(t, 100, last.Planned)
}

func TestLogReads(t *testing.T) {
	orderSvc, logSvc, _, _ := newServices(t)
	ctx := context.Background()
	order := mustCreateOrder(t, orderSvc, "ORD-1001", 1000)

	created, err := logSvc.Append(ctx, AppendLogInput{ProductionOrderID: order.ID, Quantity: 50})
	require.NoError(t, err)

	got, err := logSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = logSvc.Get(ctx, 0)
	assert.True(t, IsInvalidArgument(err))
	_, err = logSvc.Get(ctx, 9999)
	assert.True(t, IsNotFound(err))

	all, err := logSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// No logs for an order is an empty result, not an error.
	other := mustCreateOrder(t, orderSvc, "ORD-1002", 10)
	rows, err := logSvc.ListByOrder(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

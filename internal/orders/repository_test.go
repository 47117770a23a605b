package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mesworks/prodorder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOrderRepositoryGetByOrderNumber(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := &domain.ProductionOrder{
		OrderNumber:     "ORD-5001",
		ProductCode:     "PROD-001",
		QuantityPlanned: 10,
		Status:          domain.OrderPlanned,
		StartDate:       time.Now(),
	}
	require.NoError(t, repo.Create(ctx, order))

	found, err := repo.GetByOrderNumber(ctx, "ORD-5001", 0)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Excluding the row's own ID makes the lookup miss, which is how update
	// uniqueness checks skip the order being edited.
	_, err = repo.GetByOrderNumber(ctx, "ORD-5001", order.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.GetByOrderNumber(ctx, "ORD-9999", 0)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCatalogRepositories(t *testing.T) {
	db := newTestDB(t)
	products := NewGormProductRepository(db)
	resources := NewGormResourceRepository(db)
	ctx := context.Background()

	p, err := products.GetByCode(ctx, "PROD-001")
	require.NoError(t, err)
	assert.Equal(t, "PROD-001", p.Code)

	exists, err := products.ExistsByCode(ctx, "PROD-404")
	require.NoError(t, err)
	assert.False(t, exists)

	all, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	res, err := resources.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, res)

	exists, err = resources.ExistsByID(ctx, res[0].ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

package orders

import (
	"context"

	"github.com/mesworks/prodorder/internal/domain"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for production orders
type OrderRepository interface {
	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id int64) (*domain.ProductionOrder, error)

	// GetByOrderNumber retrieves an order by its order number, optionally
	// excluding one order ID (used for uniqueness checks on update)
	GetByOrderNumber(ctx context.Context, number string, excludeID int64) (*domain.ProductionOrder, error)

	// Create inserts a new order
	Create(ctx context.Context, order *domain.ProductionOrder) error

	// Update persists all mutable fields of an existing order
	Update(ctx context.Context, order *domain.ProductionOrder) error

	// ListAll retrieves all orders
	ListAll(ctx context.Context) ([]*domain.ProductionOrder, error)

	// ListByStatus retrieves all orders with the given status
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.ProductionOrder, error)

	// Delete removes an order and its logs
	Delete(ctx context.Context, id int64) error
}

// LogRepository handles database operations for production logs
type LogRepository interface {
	// Create inserts a new log record
	Create(ctx context.Context, log *domain.ProductionLog) error

	// GetByID retrieves a log by ID
	GetByID(ctx context.Context, id int64) (*domain.ProductionLog, error)

	// ListAll retrieves all logs
	ListAll(ctx context.Context) ([]*domain.ProductionLog, error)

	// ListByOrder retrieves all logs for one order
	ListByOrder(ctx context.Context, orderID int64) ([]*domain.ProductionLog, error)
}

// ProductRepository provides catalog lookups for products
type ProductRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Product, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]*domain.Product, error)
}

// ResourceRepository provides catalog lookups for resources
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*domain.Resource, error)
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.ProductionOrder, error) {
	var order domain.ProductionOrder
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) GetByOrderNumber(ctx context.Context, number string, excludeID int64) (*domain.ProductionOrder, error) {
	query := r.db.WithContext(ctx).Where("order_number = ?", number)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var order domain.ProductionOrder
	err := query.First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.ProductionOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) Update(ctx context.Context, order *domain.ProductionOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *GormOrderRepository) ListAll(ctx context.Context) ([]*domain.ProductionOrder, error) {
	var rows []*domain.ProductionOrder
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormOrderRepository) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]*domain.ProductionOrder, error) {
	var rows []*domain.ProductionOrder
	err := r.db.WithContext(ctx).
		Where("status = ?", status.StoredName()).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// Delete removes the order and its logs in one transaction. Cascades are
// expressed here explicitly rather than assumed from the storage schema.
func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("production_order_id = ?", id).Delete(&domain.ProductionLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.ProductionOrder{}, id).Error
	})
}

// GormLogRepository is the GORM implementation of LogRepository
type GormLogRepository struct {
	db *gorm.DB
}

// NewGormLogRepository creates a new GORM-based log repository
func NewGormLogRepository(db *gorm.DB) *GormLogRepository {
	return &GormLogRepository{db: db}
}

func (r *GormLogRepository) Create(ctx context.Context, log *domain.ProductionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *GormLogRepository) GetByID(ctx context.Context, id int64) (*domain.ProductionLog, error) {
	var log domain.ProductionLog
	err := r.db.WithContext(ctx).First(&log, id).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *GormLogRepository) ListAll(ctx context.Context) ([]*domain.ProductionLog, error) {
	var rows []*domain.ProductionLog
	err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *GormLogRepository) ListByOrder(ctx context.Context, orderID int64) ([]*domain.ProductionLog, error) {
	var rows []*domain.ProductionLog
	err := r.db.WithContext(ctx).
		Where("production_order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GormProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var rows []*domain.Product
	err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error
	return rows, err
}

// GormResourceRepository is the GORM implementation of ResourceRepository
type GormResourceRepository struct {
	db *gorm.DB
}

// NewGormResourceRepository creates a new GORM-based resource repository
func NewGormResourceRepository(db *gorm.DB) *GormResourceRepository {
	return &GormResourceRepository{db: db}
}

func (r *GormResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	var res domain.Resource
	err := r.db.WithContext(ctx).First(&res, id).Error
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *GormResourceRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Resource{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GormResourceRepository) List(ctx context.Context) ([]*domain.Resource, error) {
	var rows []*domain.Resource
	err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error
	return rows, err
}

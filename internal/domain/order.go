package domain

import "time"

// ProductionOrder is a planned production run for a product. QuantityProduced
// starts at zero and only grows through production logs; it never exceeds
// QuantityPlanned.
type ProductionOrder struct {
	ID               int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber      string      `gorm:"uniqueIndex;size:64" json:"order_number" form:"order_number"`
	ProductCode      string      `gorm:"index;size:64" json:"product_code" form:"product_code"`
	QuantityPlanned  int         `json:"quantity_planned" form:"quantity_planned"`
	QuantityProduced int         `json:"quantity_produced"`
	Status           OrderStatus `gorm:"size:32;index" json:"status" form:"status"`
	StartDate        time.Time   `json:"start_date" form:"start_date"`
	EndDate          *time.Time  `json:"end_date" form:"end_date"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// TableName Specify table name
func (ProductionOrder) TableName() string {
	return "production_order"
}

// Remaining returns the quantity still to be produced.
func (o *ProductionOrder) Remaining() int {
	return o.QuantityPlanned - o.QuantityProduced
}

// ProductionLog is a single recorded production event. Logs are append-only:
// each successful append increments the owning order's produced quantity
// exactly once.
type ProductionLog struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductionOrderID int64     `gorm:"index" json:"production_order_id" form:"production_order_id"`
	ResourceID        *int64    `gorm:"index" json:"resource_id" form:"resource_id"`
	Quantity          int       `json:"quantity" form:"quantity"`
	Timestamp         time.Time `json:"timestamp"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName Specify table name
func (ProductionLog) TableName() string {
	return "production_log"
}

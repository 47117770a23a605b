package domain

import "time"

// Catalog module related models

// Product is a catalog item referenced by production orders via its code.
// Orders and logs never mutate products.
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string    `gorm:"uniqueIndex;size:64" json:"code" form:"code"`
	Description string    `gorm:"size:255" json:"description" form:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "product"
}

// Resource is a production line, station or equipment unit that may be
// associated with a production log.
type Resource struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string         `gorm:"uniqueIndex;size:64" json:"code" form:"code"`
	Description string         `gorm:"size:255" json:"description" form:"description"`
	Status      ResourceStatus `gorm:"size:32" json:"status" form:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TableName Specify table name
func (Resource) TableName() string {
	return "resource"
}

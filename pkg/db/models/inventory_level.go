package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLevel tracks on-hand stock for a product (optionally a variant) at
// one location. ReservedQty may transiently exceed Quantity while concurrent
// reservations race; the transactional store reconciles that, not this layer.
type InventoryLevel struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Product      *Product        `gorm:"foreignKey:ProductID"`
	VariantID    *uuid.UUID      `gorm:"column:variant_id;type:uuid"`
	Variant      *ProductVariant `gorm:"foreignKey:VariantID"`
	LocationID   uuid.UUID       `gorm:"column:location_id;type:uuid;not null"`
	Location     *Location       `gorm:"foreignKey:LocationID"`
	Quantity     int             `gorm:"column:quantity;not null;default:0"`
	ReservedQty  int             `gorm:"column:reserved_qty;not null;default:0"`
	ReorderPoint int             `gorm:"column:reorder_point;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

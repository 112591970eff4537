package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/solerahq/boutique-backoffice/pkg/db/types"
)

// ProductVariant is a sellable variation of a product (size, color, ...).
type ProductVariant struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	ProductID uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	SKU       string            `gorm:"column:sku;not null"`
	Options   dbtypes.StringMap `gorm:"column:options;type:text;not null;default:'{}'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

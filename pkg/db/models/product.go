package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/solerahq/boutique-backoffice/pkg/db/types"
)

// Product is the authoritative catalog row. The image URL is produced by the
// upload pipeline and consumed here as an opaque string.
type Product struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	Description  *string            `gorm:"column:description"`
	SKU          string             `gorm:"column:sku;not null"`
	Barcode      string             `gorm:"column:barcode;not null"`
	CategoryID   uuid.UUID          `gorm:"column:category_id;type:uuid;not null"`
	Category     *Category          `gorm:"foreignKey:CategoryID"`
	SupplierID   uuid.UUID          `gorm:"column:supplier_id;type:uuid;not null"`
	Supplier     *Supplier          `gorm:"foreignKey:SupplierID"`
	CostPrice    decimal.Decimal    `gorm:"column:cost_price;type:numeric(12,2);not null"`
	SellingPrice decimal.Decimal    `gorm:"column:selling_price;type:numeric(12,2);not null"`
	Tags         dbtypes.StringList `gorm:"column:tags;type:text;not null;default:'[]'"`
	IsActive     bool               `gorm:"column:is_active;not null;default:true"`
	HasVariants  bool               `gorm:"column:has_variants;not null;default:false"`
	ImageURL     *string            `gorm:"column:image_url"`
	Variants     []ProductVariant   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

package index

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductRecord is the denormalized product shape published to the index.
// Field names are the wire contract shared with the index store and the
// presentation layer.
type ProductRecord struct {
	ObjectID     string          `json:"objectID"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Tags         []string        `json:"tags,omitempty"`
	IsActive     bool            `json:"is_active"`
	HasVariants  bool            `json:"has_variants"`
	ImageURL     string          `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CustomerRecord struct {
	ObjectID      string          `json:"objectID"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	City          string          `json:"city,omitempty"`
	TotalOrders   int             `json:"total_orders"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	LoyaltyPoints int             `json:"loyalty_points"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
}

type SupplierRecord struct {
	ObjectID      string    `json:"objectID"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	PaymentTerms  string    `json:"payment_terms,omitempty"`
	LeadTimeDays  int       `json:"lead_time_days,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// InventoryRecord is one product (or variant) at one location. Available may
// be negative: reservations can transiently exceed on-hand stock.
type InventoryRecord struct {
	ObjectID         string            `json:"objectID"`
	ProductID        string            `json:"product_id"`
	ProductName      string            `json:"product_name"`
	SKU              string            `json:"sku"`
	Barcode          string            `json:"barcode,omitempty"`
	VariantID        string            `json:"variant_id,omitempty"`
	VariantSKU       string            `json:"variant_sku,omitempty"`
	VariantOptions   map[string]string `json:"variant_options,omitempty"`
	LocationID       string            `json:"location_id"`
	LocationName     string            `json:"location_name"`
	Quantity         int               `json:"quantity"`
	ReservedQuantity int               `json:"reserved_quantity"`
	ReorderPoint     int               `json:"reorder_point"`
	Available        int               `json:"available"`
	IsLowStock       bool              `json:"is_low_stock"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// InventoryObjectID derives the composite key for an inventory record.
// The variant segment is present only for variant-level rows.
func InventoryObjectID(productID, variantID, locationID string) string {
	if variantID == "" {
		return fmt.Sprintf("%s:%s", productID, locationID)
	}
	return fmt.Sprintf("%s:%s:%s", productID, variantID, locationID)
}

// SplitInventoryObjectID reverses InventoryObjectID.
func SplitInventoryObjectID(objectID string) (productID, variantID, locationID string, err error) {
	parts := strings.Split(objectID, ":")
	switch len(parts) {
	case 2:
		return parts[0], "", parts[1], nil
	case 3:
		return parts[0], parts[1], parts[2], nil
	default:
		return "", "", "", fmt.Errorf("malformed inventory objectID %q", objectID)
	}
}

// ToRecord converts a typed record into the generic map form the index store
// protocol carries, via its JSON representation.
func ToRecord(typed any) (map[string]any, error) {
	raw, err := json.Marshal(typed)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}

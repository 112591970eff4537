package projector

import (
	"fmt"

	"github.com/solerahq/boutique-backoffice/internal/index"
	"github.com/solerahq/boutique-backoffice/internal/stock"
	"github.com/solerahq/boutique-backoffice/pkg/db/models"
)

func buildProductRecord(product *models.Product) index.ProductRecord {
	record := index.ProductRecord{
		ObjectID:     product.ID.String(),
		Name:         product.Name,
		Description:  deref(product.Description),
		SKU:          product.SKU,
		Barcode:      product.Barcode,
		CostPrice:    product.CostPrice,
		SellingPrice: product.SellingPrice,
		Tags:         product.Tags,
		IsActive:     product.IsActive,
		HasVariants:  product.HasVariants,
		ImageURL:     deref(product.ImageURL),
		CreatedAt:    product.CreatedAt.UTC(),
		UpdatedAt:    product.UpdatedAt.UTC(),
	}
	if product.Category != nil {
		record.CategoryID = product.Category.ID.String()
		record.CategoryName = product.Category.Name
	}
	if product.Supplier != nil {
		record.SupplierID = product.Supplier.ID.String()
		record.SupplierName = product.Supplier.Name
	}
	return record
}

func buildCustomerRecord(customer *models.Customer) index.CustomerRecord {
	return index.CustomerRecord{
		ObjectID:      customer.ID.String(),
		FirstName:     customer.FirstName,
		LastName:      customer.LastName,
		FullName:      fmt.Sprintf("%s %s", customer.FirstName, customer.LastName),
		Email:         deref(customer.Email),
		Phone:         deref(customer.Phone),
		City:          deref(customer.City),
		TotalOrders:   customer.TotalOrders,
		TotalSpent:    customer.TotalSpent,
		LoyaltyPoints: customer.LoyaltyPoints,
		IsActive:      customer.IsActive,
		CreatedAt:     customer.CreatedAt.UTC(),
	}
}

func buildSupplierRecord(supplier *models.Supplier) index.SupplierRecord {
	record := index.SupplierRecord{
		ObjectID:      supplier.ID.String(),
		Name:          supplier.Name,
		ContactPerson: deref(supplier.ContactPerson),
		Email:         deref(supplier.Email),
		Phone:         deref(supplier.Phone),
		Address:       deref(supplier.Address),
		PaymentTerms:  deref(supplier.PaymentTerms),
		IsActive:      supplier.IsActive,
		CreatedAt:     supplier.CreatedAt.UTC(),
	}
	if supplier.LeadTimeDays != nil {
		record.LeadTimeDays = *supplier.LeadTimeDays
	}
	return record
}

// buildInventoryRecord derives availability for one stock row. The second
// return reports an oversell window (reserved exceeding on-hand).
func buildInventoryRecord(level *models.InventoryLevel) (index.InventoryRecord, bool) {
	availability := stock.Resolve(level.Quantity, level.ReservedQty, level.ReorderPoint)

	variantID := ""
	if level.VariantID != nil {
		variantID = level.VariantID.String()
	}
	record := index.InventoryRecord{
		ObjectID:         index.InventoryObjectID(level.ProductID.String(), variantID, level.LocationID.String()),
		ProductID:        level.ProductID.String(),
		LocationID:       level.LocationID.String(),
		Quantity:         level.Quantity,
		ReservedQuantity: level.ReservedQty,
		ReorderPoint:     level.ReorderPoint,
		Available:        availability.Available,
		IsLowStock:       availability.IsLowStock,
		UpdatedAt:        level.UpdatedAt.UTC(),
	}
	if level.Product != nil {
		record.ProductName = level.Product.Name
		record.SKU = level.Product.SKU
		record.Barcode = level.Product.Barcode
	}
	if level.Variant != nil {
		record.VariantID = level.Variant.ID.String()
		record.VariantSKU = level.Variant.SKU
		record.VariantOptions = level.Variant.Options
	}
	if level.Location != nil {
		record.LocationName = level.Location.Name
	}
	return record, level.ReservedQty > level.Quantity
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

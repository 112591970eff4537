package index

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solerahq/boutique-backoffice/pkg/errors"
)

func validProductRecord(t *testing.T) map[string]any {
	t.Helper()
	record, err := ToRecord(ProductRecord{
		ObjectID:     "p-1",
		Name:         "Linen Shirt",
		SKU:          "LIN-001",
		CategoryID:   "c-1",
		CategoryName: "Shirts",
		CostPrice:    decimal.NewFromFloat(12.50),
		SellingPrice: decimal.NewFromFloat(29.99),
		Tags:         []string{"summer", "linen"},
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return record
}

func TestValidateAcceptsWellFormedProduct(t *testing.T) {
	require.NoError(t, Validate(CollectionProducts, validProductRecord(t)))
}

func TestValidateMissingRequiredField(t *testing.T) {
	record := validProductRecord(t)
	delete(record, "sku")

	err := Validate(CollectionProducts, record)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSchemaViolation))
}

func TestValidateTypeMismatch(t *testing.T) {
	record := validProductRecord(t)
	record["is_active"] = "yes"
	record["cost_price"] = "not-a-number"

	err := Validate(CollectionProducts, record)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeSchemaViolation))

	details, ok := errors.As(err).Details().([]string)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestValidateNegativeQuantity(t *testing.T) {
	record, err := ToRecord(InventoryRecord{
		ObjectID:         "p-1:l-1",
		ProductID:        "p-1",
		ProductName:      "Linen Shirt",
		SKU:              "LIN-001",
		LocationID:       "l-1",
		LocationName:     "Main Store",
		Quantity:         -4,
		ReservedQuantity: 0,
		ReorderPoint:     3,
		Available:        -4,
		IsLowStock:       true,
		UpdatedAt:        time.Now().UTC(),
	})
	require.NoError(t, err)

	verr := Validate(CollectionInventory, record)
	require.Error(t, verr)
	assert.True(t, errors.IsCode(verr, errors.CodeSchemaViolation))
}

func TestValidateNegativeAvailableAllowed(t *testing.T) {
	record, err := ToRecord(InventoryRecord{
		ObjectID:         "p-1:l-1",
		ProductID:        "p-1",
		ProductName:      "Linen Shirt",
		SKU:              "LIN-001",
		LocationID:       "l-1",
		LocationName:     "Main Store",
		Quantity:         2,
		ReservedQuantity: 5,
		ReorderPoint:     3,
		Available:        -3,
		IsLowStock:       true,
		UpdatedAt:        time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, Validate(CollectionInventory, record))
}

func TestValidateUnknownCollection(t *testing.T) {
	err := Validate(Collection("orders"), map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidArgument))
}

func TestFacetAttributes(t *testing.T) {
	facets := FacetAttributes(CollectionProducts)
	assert.Contains(t, facets, "category_name")
	assert.Contains(t, facets, "supplier_name")
	assert.Contains(t, facets, "is_active")
	assert.NotContains(t, facets, "name")
}

func TestInventoryObjectID(t *testing.T) {
	assert.Equal(t, "p-1:l-1", InventoryObjectID("p-1", "", "l-1"))
	assert.Equal(t, "p-1:v-9:l-1", InventoryObjectID("p-1", "v-9", "l-1"))

	productID, variantID, locationID, err := SplitInventoryObjectID("p-1:v-9:l-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", productID)
	assert.Equal(t, "v-9", variantID)
	assert.Equal(t, "l-1", locationID)

	_, _, _, err = SplitInventoryObjectID("bogus")
	require.Error(t, err)
}

func TestDecimalAcceptsStringAndNumber(t *testing.T) {
	record := validProductRecord(t)
	record["cost_price"] = "12.50"
	require.NoError(t, Validate(CollectionProducts, record))

	record["cost_price"] = 12.5
	require.NoError(t, Validate(CollectionProducts, record))
}

package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/solerahq/boutique-backoffice/pkg/db/models"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:source_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Category{},
		&models.Supplier{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Customer{},
		&models.Location{},
		&models.InventoryLevel{},
	))
	return conn
}

func seedProduct(t *testing.T, conn *gorm.DB, supplierID, categoryID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		Name:       "Linen Shirt",
		SKU:        "LIN-001",
		Barcode:    "0001",
		CategoryID: categoryID,
		SupplierID: supplierID,
		IsActive:   true,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestProductLoadsReferences(t *testing.T) {
	conn := openTestDB(t)
	reader, err := NewReader(conn)
	require.NoError(t, err)

	category := &models.Category{ID: uuid.New(), Name: "Shirts"}
	supplier := &models.Supplier{ID: uuid.New(), Name: "Milano Textiles", IsActive: true}
	require.NoError(t, conn.Create(category).Error)
	require.NoError(t, conn.Create(supplier).Error)
	product := seedProduct(t, conn, supplier.ID, category.ID)

	loaded, err := reader.Product(context.Background(), product.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Category)
	require.NotNil(t, loaded.Supplier)
	require.Equal(t, "Shirts", loaded.Category.Name)
	require.Equal(t, "Milano Textiles", loaded.Supplier.Name)
}

func TestProductNotFound(t *testing.T) {
	conn := openTestDB(t)
	reader, err := NewReader(conn)
	require.NoError(t, err)

	_, err = reader.Product(context.Background(), uuid.New())
	require.Error(t, err)
	require.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestProductIDsBySupplierPagesInOrder(t *testing.T) {
	conn := openTestDB(t)
	reader, err := NewReader(conn)
	require.NoError(t, err)

	category := &models.Category{ID: uuid.New(), Name: "Shirts"}
	supplier := &models.Supplier{ID: uuid.New(), Name: "Milano Textiles", IsActive: true}
	other := &models.Supplier{ID: uuid.New(), Name: "Other", IsActive: true}
	require.NoError(t, conn.Create(category).Error)
	require.NoError(t, conn.Create(supplier).Error)
	require.NoError(t, conn.Create(other).Error)

	for i := 0; i < 5; i++ {
		seedProduct(t, conn, supplier.ID, category.ID)
	}
	seedProduct(t, conn, other.ID, category.ID)

	ctx := context.Background()
	var collected []uuid.UUID
	after := uuid.Nil
	for {
		batch, err := reader.ProductIDsBySupplier(ctx, supplier.ID, after, 2)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		collected = append(collected, batch...)
		after = batch[len(batch)-1]
	}
	require.Len(t, collected, 5)
	for i := 1; i < len(collected); i++ {
		require.True(t, collected[i-1].String() < collected[i].String())
	}
}

func TestInventoryLevelLoadsJoins(t *testing.T) {
	conn := openTestDB(t)
	reader, err := NewReader(conn)
	require.NoError(t, err)

	category := &models.Category{ID: uuid.New(), Name: "Shirts"}
	supplier := &models.Supplier{ID: uuid.New(), Name: "Milano Textiles", IsActive: true}
	require.NoError(t, conn.Create(category).Error)
	require.NoError(t, conn.Create(supplier).Error)
	product := seedProduct(t, conn, supplier.ID, category.ID)
	location := &models.Location{ID: uuid.New(), Name: "Main Store"}
	require.NoError(t, conn.Create(location).Error)

	level := &models.InventoryLevel{
		ID:           uuid.New(),
		ProductID:    product.ID,
		LocationID:   location.ID,
		Quantity:     5,
		ReservedQty:  2,
		ReorderPoint: 3,
	}
	require.NoError(t, conn.Create(level).Error)

	loaded, err := reader.InventoryLevel(context.Background(), level.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Product)
	require.NotNil(t, loaded.Location)
	require.Equal(t, "Linen Shirt", loaded.Product.Name)
	require.Equal(t, "Main Store", loaded.Location.Name)
	require.Nil(t, loaded.Variant)
}

// Package source reads authoritative entities for projection. It is the only
// path from this layer into the transactional store, and it never writes.
package source

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/solerahq/boutique-backoffice/pkg/db/models"
	"github.com/solerahq/boutique-backoffice/pkg/errors"
)

type Reader struct {
	conn *gorm.DB
}

func NewReader(conn *gorm.DB) (*Reader, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &Reader{conn: conn}, nil
}

func (r *Reader) Product(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.conn.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Preload("Variants").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, readErr("product", id, err)
	}
	return &product, nil
}

func (r *Reader) Customer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.conn.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, readErr("customer", id, err)
	}
	return &customer, nil
}

func (r *Reader) Supplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.conn.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, readErr("supplier", id, err)
	}
	return &supplier, nil
}

func (r *Reader) InventoryLevel(ctx context.Context, id uuid.UUID) (*models.InventoryLevel, error) {
	var level models.InventoryLevel
	err := r.conn.WithContext(ctx).
		Preload("Product").
		Preload("Variant").
		Preload("Location").
		First(&level, "id = ?", id).Error
	if err != nil {
		return nil, readErr("inventory level", id, err)
	}
	return &level, nil
}

// ProductIDsBySupplier enumerates products denormalizing the supplier, in
// batches ordered by id. Used by the rename fanout.
func (r *Reader) ProductIDsBySupplier(ctx context.Context, supplierID uuid.UUID, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.productIDs(ctx, "supplier_id = ?", supplierID, afterID, limit)
}

// ProductIDsByCategory enumerates products denormalizing the category.
func (r *Reader) ProductIDsByCategory(ctx context.Context, categoryID uuid.UUID, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.productIDs(ctx, "category_id = ?", categoryID, afterID, limit)
}

func (r *Reader) productIDs(ctx context.Context, where string, refID uuid.UUID, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.conn.WithContext(ctx).
		Model(&models.Product{}).
		Where(where, refID).
		Order("id asc").
		Limit(limit)
	if afterID != uuid.Nil {
		query = query.Where("id > ?", afterID)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "enumerate dependent products")
	}
	return ids, nil
}

// InventoryLevelIDsByProduct enumerates inventory rows denormalizing the
// product's name/sku.
func (r *Reader) InventoryLevelIDsByProduct(ctx context.Context, productID uuid.UUID, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.inventoryLevelIDs(ctx, "product_id = ?", productID, afterID, limit)
}

// InventoryLevelIDsByLocation enumerates inventory rows denormalizing the
// location's name.
func (r *Reader) InventoryLevelIDsByLocation(ctx context.Context, locationID uuid.UUID, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.inventoryLevelIDs(ctx, "location_id = ?", locationID, afterID, limit)
}

func (r *Reader) inventoryLevelIDs(ctx context.Context, where string, refID uuid.UUID, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.conn.WithContext(ctx).
		Model(&models.InventoryLevel{}).
		Where(where, refID).
		Order("id asc").
		Limit(limit)
	if afterID != uuid.Nil {
		query = query.Where("id > ?", afterID)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "enumerate dependent inventory levels")
	}
	return ids, nil
}

// ProductIDs pages through every product id. Used by full reindex.
func (r *Reader) ProductIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.allIDs(ctx, &models.Product{}, afterID, limit)
}

func (r *Reader) CustomerIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.allIDs(ctx, &models.Customer{}, afterID, limit)
}

func (r *Reader) SupplierIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.allIDs(ctx, &models.Supplier{}, afterID, limit)
}

func (r *Reader) InventoryLevelIDs(ctx context.Context, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	return r.allIDs(ctx, &models.InventoryLevel{}, afterID, limit)
}

func (r *Reader) allIDs(ctx context.Context, model any, afterID uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.conn.WithContext(ctx).
		Model(model).
		Order("id asc").
		Limit(limit)
	if afterID != uuid.Nil {
		query = query.Where("id > ?", afterID)
	}
	if err := query.Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "enumerate entity ids")
	}
	return ids, nil
}

func readErr(entity string, id uuid.UUID, err error) error {
	if stdErrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(errors.CodeNotFound, err, fmt.Sprintf("%s %s not found", entity, id))
	}
	return errors.Wrap(errors.CodeDependency, err, fmt.Sprintf("load %s %s", entity, id))
}

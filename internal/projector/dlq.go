package projector

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/solerahq/boutique-backoffice/pkg/db/models"
)

// DLQ journals abandoned projections.
type DLQ interface {
	Insert(ctx context.Context, entry *models.ProjectionDLQ) error
}

// GormDLQ persists entries to the projection_dlq table.
type GormDLQ struct {
	conn *gorm.DB
}

func NewGormDLQ(conn *gorm.DB) (*GormDLQ, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &GormDLQ{conn: conn}, nil
}

func (d *GormDLQ) Insert(ctx context.Context, entry *models.ProjectionDLQ) error {
	if err := d.conn.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert projection dlq entry: %w", err)
	}
	return nil
}

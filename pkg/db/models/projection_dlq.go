package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/solerahq/boutique-backoffice/pkg/enums"
)

// ProjectionDLQ captures projections that were abandoned after exhausting
// retries or failing schema validation. The authoritative store stays
// correct; rows here mean the index is degraded until reprojected.
type ProjectionDLQ struct {
	ID           uuid.UUID                 `gorm:"column:id;type:uuid;default:(gen_random_uuid());primaryKey"`
	Collection   string                    `gorm:"column:collection;not null"`
	ObjectID     string                    `gorm:"column:object_id;not null"`
	EntityKind   enums.EntityKind          `gorm:"column:entity_kind;not null"`
	EntityID     uuid.UUID                 `gorm:"column:entity_id;type:uuid;not null"`
	ChangeType   enums.ChangeType          `gorm:"column:change_type;not null"`
	Record       json.RawMessage           `gorm:"column:record_json;type:text"`
	ErrorReason  enums.ProjectionDLQReason `gorm:"column:error_reason;not null"`
	ErrorMessage *string                   `gorm:"column:error_message"`
	AttemptCount int                       `gorm:"column:attempt_count;not null;default:0"`
	FailedAt     time.Time                 `gorm:"column:failed_at;autoCreateTime"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
}

func (ProjectionDLQ) TableName() string {
	return "projection_dlq"
}

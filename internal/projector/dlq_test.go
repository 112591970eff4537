package projector

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/solerahq/boutique-backoffice/pkg/db/models"
	"github.com/solerahq/boutique-backoffice/pkg/enums"
)

func TestGormDLQInsert(t *testing.T) {
	dsn := fmt.Sprintf("file:dlq_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.ProjectionDLQ{}))

	dlq, err := NewGormDLQ(conn)
	require.NoError(t, err)

	message := "index store unavailable"
	entry := &models.ProjectionDLQ{
		ID:           uuid.New(),
		Collection:   "products",
		ObjectID:     "p-1",
		EntityKind:   enums.EntityKindProduct,
		EntityID:     uuid.New(),
		ChangeType:   enums.ChangeTypeUpdate,
		ErrorReason:  enums.ProjectionDLQReasonMaxAttempts,
		ErrorMessage: &message,
		AttemptCount: 6,
	}
	require.NoError(t, dlq.Insert(context.Background(), entry))

	var loaded models.ProjectionDLQ
	require.NoError(t, conn.First(&loaded, "object_id = ?", "p-1").Error)
	assert.Equal(t, enums.ProjectionDLQReasonMaxAttempts, loaded.ErrorReason)
	assert.Equal(t, 6, loaded.AttemptCount)
}

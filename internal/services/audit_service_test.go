// internal/services/audit_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omstudio/studio-ops/internal/models"
	"github.com/omstudio/studio-ops/internal/utils"
)

func TestAuditQueryIsNewestFirst(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	asset := e.createAsset(t, creatorActor, models.DivisionProse, "Essay", 1, 1)
	_, err := e.assets.SubmitForReview(ctx, creatorActor, asset.AssetID)
	require.NoError(t, err)
	_, err = e.assets.Sign(ctx, adminActor, asset.AssetID, nil)
	require.NoError(t, err)

	entries, total, err := e.audit.Query(ctx, AuditFilter{TargetType: TargetAsset, TargetID: asset.AssetID})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	assert.Equal(t, models.AuditActionSignAsset, entries[0].Action)
	assert.Equal(t, models.AuditActionSubmitAsset, entries[1].Action)
	assert.Equal(t, models.AuditActionCreateAsset, entries[2].Action)
	assert.Contains(t, entries[0].Details, "contract_id")

	page, _, err := e.audit.Query(ctx, AuditFilter{PaginationParams: utils.PaginationParams{Page: 2, Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, models.AuditActionCreateAsset, page[0].Action)

	entries, _, err = e.audit.Query(ctx, AuditFilter{PerformedBy: adminActor.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestAuditAppendStoresStringDetailsVerbatim(t *testing.T) {
	e := newTestEngine(t)

	entry, err := e.audit.Append(context.Background(), nil, models.AuditActionResizePool, TargetPool, "1", adminActor.ID, "manual note")
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	var stored []models.AuditLogEntry
	require.NoError(t, e.db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "manual note", stored[0].Details)
}

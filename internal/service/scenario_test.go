package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrain94/remote-config-api/internal/api/dto"
	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository/composite"
	"github.com/kingrain94/remote-config-api/internal/repository/postgres"
	"github.com/kingrain94/remote-config-api/internal/testutil"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

// Runs the console workflow end to end against a real (SQLite) database.
func TestDraftPublishWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := composite.New(postgres.NewFromDB(testutil.OpenSQLite(t)), nil)
	log := logger.NewNopLogger()

	tenants := NewTenantService(repo, nil, nil, log)
	configs := NewAppConfigService(repo, nil, nil, log)
	clock := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	configs.SetClock(func() time.Time { return clock })

	tenant, err := tenants.Create(ctx, dto.CreateTenantRequest{Name: "Mobile App"})
	require.NoError(t, err)

	cfg, err := configs.Create(ctx, dto.CreateConfigRequest{TenantID: tenant.ID, KeyName: "homepage_flags"})
	require.NoError(t, err)
	assert.False(t, cfg.Published)

	_, err = configs.GetPublished(ctx, tenant.ID, "homepage_flags")
	assert.ErrorIs(t, err, ErrNotPublished, "unpublished configs are not served")

	_, err = configs.SaveDraft(ctx, cfg.ID, []byte(`{"enabled":true}`))
	require.NoError(t, err)

	got, err := configs.GetByID(ctx, cfg.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true}`, string(got.DraftJSON))
	assert.JSONEq(t, `{}`, string(got.PublishedJSON))

	first, err := configs.Publish(ctx, cfg.ID)
	require.NoError(t, err)
	require.NotNil(t, first.LastPublishedAt)
	assert.JSONEq(t, `{"enabled":true}`, string(first.PublishedJSON))

	served, err := configs.GetPublished(ctx, tenant.ID, "homepage_flags")
	require.NoError(t, err)
	assert.JSONEq(t, `{"enabled":true}`, string(served.PublishedJSON))
	assert.Equal(t, int64(1), served.RequestCount)

	// Second draft and publish replace the first wholesale.
	_, err = configs.SaveDraft(ctx, cfg.ID, []byte(`{"variant":"b"}`))
	require.NoError(t, err)
	clock = clock.Add(time.Minute)
	second, err := configs.Publish(ctx, cfg.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"variant":"b"}`, string(second.PublishedJSON))
	assert.False(t, second.LastPublishedAt.Before(*first.LastPublishedAt))

	// A clock that runs backwards never moves the stamp back.
	clock = clock.Add(-time.Hour)
	third, err := configs.Publish(ctx, cfg.ID)
	require.NoError(t, err)
	assert.False(t, third.LastPublishedAt.Before(*second.LastPublishedAt))

	_, err = configs.SaveDraft(ctx, cfg.ID, []byte(`{"enabled":`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	require.NoError(t, tenants.Delete(ctx, tenant.ID))
	_, err = configs.GetByID(ctx, cfg.ID)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	remaining, err := configs.List(ctx, domain.AppConfigFilter{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

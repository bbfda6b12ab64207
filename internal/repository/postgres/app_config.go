package postgres

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
)

type AppConfigRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewAppConfigRepository(writerDB, readerDB *gorm.DB) *AppConfigRepository {
	return &AppConfigRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

// withTenant selects configs joined with the owning tenant's name.
func withTenant(db *gorm.DB) *gorm.DB {
	return db.Model(&domain.AppConfig{}).
		Select("app_configs.*, tenants.name AS tenant_name").
		Joins("JOIN tenants ON tenants.id = app_configs.tenant_id")
}

func (r *AppConfigRepository) Create(ctx context.Context, cfg *domain.AppConfig) (*domain.AppConfig, error) {
	if err := r.writerDB.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, mapError(err)
	}
	return cfg, nil
}

func (r *AppConfigRepository) GetByID(ctx context.Context, id string) (*domain.AppConfigWithTenant, error) {
	var cfg domain.AppConfigWithTenant
	if err := withTenant(r.readerDB.WithContext(ctx)).
		Where("app_configs.id = ?", id).
		Take(&cfg).Error; err != nil {
		return nil, mapError(err)
	}
	return &cfg, nil
}

func (r *AppConfigRepository) List(ctx context.Context, filter domain.AppConfigFilter) ([]domain.AppConfigWithTenant, error) {
	db := withTenant(r.readerDB.WithContext(ctx))

	if filter.TenantID != "" {
		db = db.Where("app_configs.tenant_id = ?", filter.TenantID)
	}
	if filter.Published != nil {
		if *filter.Published {
			db = db.Where("app_configs.last_published_at IS NOT NULL")
		} else {
			db = db.Where("app_configs.last_published_at IS NULL")
		}
	}
	if !filter.UpdatedSince.IsZero() {
		db = db.Where("app_configs.updated_at >= ?", filter.UpdatedSince)
	}
	if filter.Query != "" {
		db = db.Where("LOWER(app_configs.key_name) LIKE ?", "%"+strings.ToLower(filter.Query)+"%")
	}

	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		db = db.Offset(filter.Offset)
	}

	configs := make([]domain.AppConfigWithTenant, 0)
	if err := db.Order("app_configs.updated_at DESC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *AppConfigRepository) UpdateKeyName(ctx context.Context, id, keyName string) (*domain.AppConfig, error) {
	return r.update(ctx, id, map[string]any{
		"key_name":   keyName,
		"updated_at": time.Now().UTC(),
	})
}

func (r *AppConfigRepository) SaveDraft(ctx context.Context, id string, draft []byte) (*domain.AppConfig, error) {
	return r.update(ctx, id, map[string]any{
		"draft_json": datatypes.JSON(draft),
		"updated_at": time.Now().UTC(),
	})
}

func (r *AppConfigRepository) update(ctx context.Context, id string, values map[string]any) (*domain.AppConfig, error) {
	var cfg domain.AppConfig
	err := r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.AppConfig{}).Where("id = ?", id).Updates(values)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return tx.Take(&cfg, "id = ?", id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &cfg, nil
}

// Publish reads the row and writes its draft verbatim into published_json.
// There is no version check: two concurrent publishes both succeed and the
// later commit wins.
func (r *AppConfigRepository) Publish(ctx context.Context, id string, now time.Time) (*domain.AppConfig, error) {
	var cfg domain.AppConfig
	err := r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&cfg, "id = ?", id).Error; err != nil {
			return err
		}

		publishedAt := now.UTC()
		if cfg.LastPublishedAt != nil && cfg.LastPublishedAt.After(publishedAt) {
			publishedAt = cfg.LastPublishedAt.UTC()
		}

		published := make(datatypes.JSON, len(cfg.DraftJSON))
		copy(published, cfg.DraftJSON)

		if err := tx.Model(&domain.AppConfig{}).Where("id = ?", id).Updates(map[string]any{
			"published_json":    published,
			"last_published_at": publishedAt,
			"updated_at":        now.UTC(),
		}).Error; err != nil {
			return err
		}

		cfg.PublishedJSON = published
		cfg.LastPublishedAt = &publishedAt
		cfg.UpdatedAt = now.UTC()
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &cfg, nil
}

func (r *AppConfigRepository) Delete(ctx context.Context, id string) (*domain.AppConfig, error) {
	var cfg domain.AppConfig
	err := r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&cfg, "id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.AppConfig{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &cfg, nil
}

func (r *AppConfigRepository) FindPublished(ctx context.Context, tenantID, keyName string) (*domain.AppConfig, error) {
	var cfg domain.AppConfig
	if err := r.readerDB.WithContext(ctx).
		Where("tenant_id = ? AND key_name = ? AND last_published_at IS NOT NULL", tenantID, keyName).
		Take(&cfg).Error; err != nil {
		return nil, mapError(err)
	}
	return &cfg, nil
}

// IncrementRequestCount leaves updated_at untouched; reads are not edits.
func (r *AppConfigRepository) IncrementRequestCount(ctx context.Context, id string) error {
	return r.writerDB.WithContext(ctx).
		Model(&domain.AppConfig{}).
		Where("id = ?", id).
		UpdateColumn("request_count", gorm.Expr("request_count + ?", 1)).Error
}

func (r *AppConfigRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	if err := r.readerDB.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM app_configs) AS total_configs,
			(SELECT COALESCE(SUM(request_count), 0) FROM app_configs) AS total_requests,
			(SELECT COUNT(*) FROM tenants) AS active_tenants`).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/kingrain94/remote-config-api/internal/domain"
	"github.com/kingrain94/remote-config-api/internal/repository"
)

type TenantRepository struct {
	writerDB *gorm.DB
	readerDB *gorm.DB
}

func NewTenantRepository(writerDB, readerDB *gorm.DB) *TenantRepository {
	return &TenantRepository{
		writerDB: writerDB,
		readerDB: readerDB,
	}
}

func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	if err := r.writerDB.WithContext(ctx).Create(tenant).Error; err != nil {
		return nil, mapError(err)
	}
	return tenant, nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.readerDB.WithContext(ctx).Take(&tenant, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &tenant, nil
}

func (r *TenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	result := r.writerDB.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]any{
			"name":       tenant.Name,
			"api_key":    tenant.APIKey,
			"updated_at": tenant.UpdatedAt,
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the tenant's configs before the tenant itself, inside one
// transaction, so the cascade holds even where foreign keys are not enforced.
func (r *TenantRepository) Delete(ctx context.Context, id string) error {
	return r.writerDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", id).Delete(&domain.AppConfig{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&domain.Tenant{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *TenantRepository) List(ctx context.Context) ([]domain.Tenant, error) {
	tenants := make([]domain.Tenant, 0)
	if err := r.readerDB.WithContext(ctx).Order("created_at DESC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

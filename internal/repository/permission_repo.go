package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
)

// ModulePermissionRepository 板块权限数据访问接口
type ModulePermissionRepository interface {
	GetByModuleName(ctx context.Context, moduleName string) (*model.ModulePermission, error)
	List(ctx context.Context) ([]model.ModulePermission, error)
	Update(ctx context.Context, perm *model.ModulePermission) error
}

type modulePermissionRepo struct {
	db *gorm.DB
}

// NewModulePermissionRepo 创建 ModulePermissionRepository 实例
func NewModulePermissionRepo(db *gorm.DB) ModulePermissionRepository {
	return &modulePermissionRepo{db: db}
}

func (r *modulePermissionRepo) GetByModuleName(ctx context.Context, moduleName string) (*model.ModulePermission, error) {
	var perm model.ModulePermission
	err := r.db.WithContext(ctx).
		Where("module_name = ?", moduleName).
		First(&perm).Error
	if err != nil {
		return nil, err
	}
	return &perm, nil
}

func (r *modulePermissionRepo) List(ctx context.Context) ([]model.ModulePermission, error) {
	var perms []model.ModulePermission
	err := r.db.WithContext(ctx).
		Order("module_name ASC").
		Find(&perms).Error
	return perms, err
}

func (r *modulePermissionRepo) Update(ctx context.Context, perm *model.ModulePermission) error {
	result := r.db.WithContext(ctx).
		Model(&model.ModulePermission{}).
		Where("module_name = ?", perm.ModuleName).
		Updates(map[string]interface{}{
			"module_label":  perm.ModuleLabel,
			"allowed_roles": perm.AllowedRoles,
			"is_active":     perm.IsActive,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

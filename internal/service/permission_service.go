package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

// ── 板块权限业务错误 ──

var (
	ErrModuleNotFound  = errors.New("板块不存在")
	ErrModuleForbidden = errors.New("当前角色无此板块的编辑权限")
)

// PermissionService 板块权限业务接口
// CheckEdit 是各写操作入口处显式调用的守卫：读操作全员放行，
// 写操作要求角色在板块的 allowed_roles 中（admin 始终放行）
type PermissionService interface {
	CheckEdit(ctx context.Context, moduleName, role string) error
	List(ctx context.Context) ([]dto.ModulePermissionResponse, error)
	Update(ctx context.Context, moduleName string, req *dto.UpdateModulePermissionRequest) (*dto.ModulePermissionResponse, error)
}

type permissionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPermissionService 创建 PermissionService 实例
func NewPermissionService(repo *repository.Repository, logger *zap.Logger) PermissionService {
	return &permissionService{repo: repo, logger: logger}
}

// CheckEdit 校验角色对板块的编辑权限
// 板块未登记或被停用时按禁止处理；admin 不受限制
func (s *permissionService) CheckEdit(ctx context.Context, moduleName, role string) error {
	if role == model.RoleAdmin {
		return nil
	}

	perm, err := s.repo.ModulePermission.GetByModuleName(ctx, moduleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModuleForbidden
		}
		s.logger.Error("查询板块权限失败", zap.Error(err), zap.String("module", moduleName))
		return err
	}
	if !perm.IsActive || !perm.CanEdit(role) {
		return ErrModuleForbidden
	}
	return nil
}

func (s *permissionService) List(ctx context.Context) ([]dto.ModulePermissionResponse, error) {
	perms, err := s.repo.ModulePermission.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]dto.ModulePermissionResponse, 0, len(perms))
	for i := range perms {
		list = append(list, toPermissionResponse(&perms[i]))
	}
	return list, nil
}

func (s *permissionService) Update(ctx context.Context, moduleName string, req *dto.UpdateModulePermissionRequest) (*dto.ModulePermissionResponse, error) {
	perm, err := s.repo.ModulePermission.GetByModuleName(ctx, moduleName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleNotFound
		}
		return nil, err
	}

	if req.ModuleLabel != nil {
		perm.ModuleLabel = *req.ModuleLabel
	}
	if req.AllowedRoles != nil {
		raw, err := json.Marshal(*req.AllowedRoles)
		if err != nil {
			return nil, err
		}
		perm.AllowedRoles = raw
	}
	if req.IsActive != nil {
		perm.IsActive = *req.IsActive
	}
	if err := s.repo.ModulePermission.Update(ctx, perm); err != nil {
		return nil, err
	}

	s.logger.Info("板块权限更新", zap.String("module", moduleName))
	resp := toPermissionResponse(perm)
	return &resp, nil
}

func toPermissionResponse(p *model.ModulePermission) dto.ModulePermissionResponse {
	var roles []string
	_ = json.Unmarshal(p.AllowedRoles, &roles)
	return dto.ModulePermissionResponse{
		ID:           p.ModulePermissionID,
		ModuleName:   p.ModuleName,
		ModuleLabel:  p.ModuleLabel,
		AllowedRoles: roles,
		IsActive:     p.IsActive,
	}
}

package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// ModulePermission 板块权限表 — 对应 module_permissions
// allowed_roles 为 JSON 角色数组，如 ["admin", "anchor"]
type ModulePermission struct {
	ModulePermissionID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"module_permission_id"`
	ModuleName         string         `gorm:"type:varchar(50);not null;uniqueIndex"          json:"module_name"`
	ModuleLabel        string         `gorm:"type:varchar(100);not null"                     json:"module_label"`
	AllowedRoles       datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"               json:"allowed_roles"`
	IsActive           bool           `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (ModulePermission) TableName() string { return "module_permissions" }

// CanEdit 检查角色是否在允许列表中
func (p *ModulePermission) CanEdit(role string) bool {
	var roles []string
	if err := json.Unmarshal(p.AllowedRoles, &roles); err != nil {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

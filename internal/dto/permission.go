package dto

// ── 板块权限 DTO ──

// UpdateModulePermissionRequest 更新板块权限请求
type UpdateModulePermissionRequest struct {
	ModuleLabel  *string   `json:"module_label"  binding:"omitempty,min=1,max=100"`
	AllowedRoles *[]string `json:"allowed_roles" binding:"omitempty,dive,oneof=admin anchor himalaya"`
	IsActive     *bool     `json:"is_active"`
}

// ModulePermissionResponse 板块权限响应
type ModulePermissionResponse struct {
	ID           string   `json:"id"`
	ModuleName   string   `json:"module_name"`
	ModuleLabel  string   `json:"module_label"`
	AllowedRoles []string `json:"allowed_roles"`
	IsActive     bool     `json:"is_active"`
}

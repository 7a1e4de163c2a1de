package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应
type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	RealName   string `json:"real_name"`
	StudentID  string `json:"student_id"`
	Phone      string `json:"phone,omitempty"`
	Wechat     string `json:"wechat,omitempty"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Bio        string `json:"bio,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// UserBrief 用户简要信息（嵌入排班/预约响应）
type UserBrief struct {
	ID       string `json:"id"`
	RealName string `json:"real_name"`
}

// UpdateUserRequest 更新用户资料请求
type UpdateUserRequest struct {
	RealName   *string `json:"real_name"  binding:"omitempty,min=2,max=50"`
	Phone      *string `json:"phone"      binding:"omitempty,max=20"`
	Wechat     *string `json:"wechat"     binding:"omitempty,max=50"`
	Department *string `json:"department" binding:"omitempty,oneof=broadcast himalaya both"`
	Bio        *string `json:"bio"        binding:"omitempty,max=1000"`
}

// AssignRoleRequest 分配角色请求（仅管理员）
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin anchor himalaya"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	Page       int    `form:"page"       binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size"  binding:"omitempty,min=1,max=100"`
	Role       string `form:"role"       binding:"omitempty,oneof=admin anchor himalaya"`
	Department string `form:"department" binding:"omitempty,oneof=broadcast himalaya both"`
}

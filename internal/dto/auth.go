package dto

// ── 认证模块 DTO ──

// RegisterRequest 邀请码注册请求
type RegisterRequest struct {
	Username   string `json:"username"    binding:"required,min=3,max=50"`
	Password   string `json:"password"    binding:"required,min=8,max=72"`
	RealName   string `json:"real_name"   binding:"required,min=2,max=50"`
	StudentID  string `json:"student_id"  binding:"required,min=5,max=20"`
	InviteCode string `json:"invite_code" binding:"required"`
	Department string `json:"department"  binding:"required,oneof=broadcast himalaya both"`
	Phone      string `json:"phone"       binding:"omitempty,max=20"`
	Wechat     string `json:"wechat"      binding:"omitempty,max=50"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username   string `json:"username"    binding:"required"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RefreshRequest 刷新 Token 请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// GenerateInviteRequest 生成邀请码请求
type GenerateInviteRequest struct {
	Count int `json:"count" binding:"required,min=1,max=20"`
}

// TokenResponse 登录/刷新成功响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// InviteCodeResponse 邀请码信息
type InviteCodeResponse struct {
	Code      string `json:"code"`
	IsUsed    bool   `json:"is_used"`
	CreatedAt string `json:"created_at"`
	UsedAt    string `json:"used_at,omitempty"`
}

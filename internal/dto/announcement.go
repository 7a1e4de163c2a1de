package dto

// ── 公告模块 DTO ──

// CreateAnnouncementRequest 发布公告请求
type CreateAnnouncementRequest struct {
	Title            string  `json:"title"             binding:"required,min=1,max=200"`
	Content          string  `json:"content"           binding:"required"`
	Type             string  `json:"type"              binding:"omitempty,oneof=notice urgent activity schedule_change"`
	IsPinned         bool    `json:"is_pinned"`
	TargetDepartment string  `json:"target_department" binding:"omitempty,oneof=all broadcast himalaya"`
	ExpireTime       *string `json:"expire_time"` // RFC3339，空表示永不过期
}

// UpdateAnnouncementRequest 更新公告请求
type UpdateAnnouncementRequest struct {
	Title            *string `json:"title"             binding:"omitempty,min=1,max=200"`
	Content          *string `json:"content"`
	Type             *string `json:"type"              binding:"omitempty,oneof=notice urgent activity schedule_change"`
	IsPinned         *bool   `json:"is_pinned"`
	TargetDepartment *string `json:"target_department" binding:"omitempty,oneof=all broadcast himalaya"`
	ExpireTime       *string `json:"expire_time"`
}

// AnnouncementListRequest 公告列表查询参数
type AnnouncementListRequest struct {
	Page     int    `form:"page"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Type     string `form:"type"      binding:"omitempty,oneof=notice urgent activity schedule_change"`
}

// AnnouncementResponse 公告信息响应
type AnnouncementResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Type             string     `json:"type"`
	IsPinned         bool       `json:"is_pinned"`
	TargetDepartment string     `json:"target_department"`
	Publisher        *UserBrief `json:"publisher,omitempty"`
	PublishTime      string     `json:"publish_time"`
	ExpireTime       string     `json:"expire_time,omitempty"`
	IsExpired        bool       `json:"is_expired"`
	IsRead           bool       `json:"is_read"`
}

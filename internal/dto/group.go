package dto

// ── 分组模块 DTO ──

// CreateGroupRequest 创建分组请求
type CreateGroupRequest struct {
	Name      string   `json:"name"       binding:"required,min=2,max=50"`
	Weekday   int      `json:"weekday"    binding:"required,oneof=1 2 3 4 5 7"`
	LeaderID  *string  `json:"leader_id"  binding:"omitempty,uuid"`
	MemberIDs []string `json:"member_ids" binding:"omitempty,dive,uuid"`
}

// UpdateGroupRequest 更新分组请求
// MemberIDs 非 nil 时整体替换组员集合
type UpdateGroupRequest struct {
	Name      *string   `json:"name"       binding:"omitempty,min=2,max=50"`
	LeaderID  *string   `json:"leader_id"  binding:"omitempty,uuid"`
	MemberIDs *[]string `json:"member_ids" binding:"omitempty,dive,uuid"`
}

// GroupResponse 分组信息响应
type GroupResponse struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Weekday int         `json:"weekday"`
	Leader  *UserBrief  `json:"leader,omitempty"`
	Members []UserBrief `json:"members"`
}

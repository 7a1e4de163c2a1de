package model

import "time"

// 用户角色
const (
	RoleAdmin    = "admin"
	RoleAnchor   = "anchor"
	RoleHimalaya = "himalaya"
)

// 所属部门
const (
	DepartmentBroadcast = "broadcast"
	DepartmentHimalaya  = "himalaya"
	DepartmentBoth      = "both"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	RealName     string `gorm:"type:varchar(50);not null"                      json:"real_name"`
	StudentID    string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"student_id"`
	Phone        string `gorm:"type:varchar(20);not null;default:''"           json:"phone,omitempty"`
	Wechat       string `gorm:"type:varchar(50);not null;default:''"           json:"wechat,omitempty"`
	Department   string `gorm:"type:varchar(20);not null;default:'broadcast'"  json:"department"`
	Role         string `gorm:"type:varchar(20);not null;default:'anchor'"     json:"role"`
	Bio          string `gorm:"type:text;not null;default:''"                  json:"bio,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// InviteCode 邀请码表 — 对应 invite_codes
type InviteCode struct {
	InviteCodeID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"invite_code_id"`
	Code         string     `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	CreatedBy    *string    `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UsedBy       *string    `gorm:"type:uuid"                                      json:"used_by,omitempty"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
	IsUsed       bool       `gorm:"not null;default:false"                         json:"is_used"`
}

// TableName 指定表名
func (InviteCode) TableName() string { return "invite_codes" }

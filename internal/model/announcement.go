package model

import "time"

// 公告类型
const (
	AnnouncementTypeNotice         = "notice"
	AnnouncementTypeUrgent         = "urgent"
	AnnouncementTypeActivity       = "activity"
	AnnouncementTypeScheduleChange = "schedule_change"
)

// Announcement 公告表 — 对应 announcements
type Announcement struct {
	AnnouncementID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"announcement_id"`
	Title            string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Content          string     `gorm:"type:text;not null"                             json:"content"`
	Type             string     `gorm:"type:varchar(20);not null;default:'notice'"     json:"type"`
	IsPinned         bool       `gorm:"not null;default:false"                         json:"is_pinned"`
	TargetDepartment string     `gorm:"type:varchar(20);not null;default:'all'"        json:"target_department"` // all | broadcast | himalaya
	PublisherID      string     `gorm:"type:uuid;not null"                             json:"publisher_id"`
	PublishTime      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"publish_time"`
	ExpireTime       *time.Time `json:"expire_time,omitempty"`
	UpdatedAt        time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`

	// 关联
	Publisher *User  `gorm:"foreignKey:PublisherID;references:UserID"                                       json:"publisher,omitempty"`
	ReadBy    []User `gorm:"many2many:announcement_reads;joinForeignKey:AnnouncementID;joinReferences:UserID" json:"-"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }

// IsExpired 检查是否已过期
func (a *Announcement) IsExpired(now time.Time) bool {
	return a.ExpireTime != nil && now.After(*a.ExpireTime)
}

package model

import "time"

// 预约状态
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// ActiveBookingStatuses 参与冲突检测的状态集合（cancelled 永久移出冲突集）
var ActiveBookingStatuses = []string{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
}

// StudioBooking 录音室预约表 — 对应 studio_bookings
// 时间区间为左闭右开 [start, end)，同日活跃预约不得重叠；
// 应用层先校验，数据库排他约束兜底并发竞争
type StudioBooking struct {
	BookingID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime string    `gorm:"type:time;not null"                             json:"start_time"` // "HH:MM"
	EndTime   string    `gorm:"type:time;not null"                             json:"end_time"`   // "HH:MM"
	UserID    string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Purpose   string    `gorm:"type:varchar(200);not null"                     json:"purpose"`
	Status    string    `gorm:"type:varchar(20);not null;default:'confirmed'"  json:"status"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (StudioBooking) TableName() string { return "studio_bookings" }

// IsActive 是否参与冲突检测
func (b *StudioBooking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// Overlaps 判断与另一 "HH:MM" 区间是否重叠（双侧严格不等：首尾相接不算冲突）
// 仅适用于同为 "HH:MM" 格式的区间；从库里读回的 "HH:MM:SS" 需先归一化
func (b *StudioBooking) Overlaps(start, end string) bool {
	return b.StartTime < end && start < b.EndTime
}

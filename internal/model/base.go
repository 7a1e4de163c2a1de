package model

import "time"

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DateLayout 业务日期统一格式
const DateLayout = "2006-01-02"

// TimeLayout 业务时刻统一格式（time 列以 "HH:MM" 文本承载）
const TimeLayout = "15:04"

package model

import "time"

// NewsItem 新闻播报表 — 对应 news_items
type NewsItem struct {
	NewsItemID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"news_item_id"`
	Date       time.Time `gorm:"type:date;not null;index"                       json:"date"`
	Title      string    `gorm:"type:varchar(200);not null"                     json:"title"`
	AudioURL   string    `gorm:"type:varchar(500);not null;default:''"          json:"audio_url,omitempty"`
	ScriptText string    `gorm:"type:text;not null;default:''"                  json:"script_text,omitempty"`
	ReporterID string    `gorm:"type:uuid;not null"                             json:"reporter_id"`
	BaseModel

	// 关联
	Reporter *User `gorm:"foreignKey:ReporterID;references:UserID" json:"reporter,omitempty"`
}

// TableName 指定表名
func (NewsItem) TableName() string { return "news_items" }

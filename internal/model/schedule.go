package model

import "time"

// DailySchedule 日程安排表 — 对应 daily_schedules
// 每个日期至多一行（date 唯一约束），首次访问时"查无则建"
type DailySchedule struct {
	ScheduleID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"date"`
	IsLive     bool      `gorm:"not null;default:false"                         json:"is_live"` // 16:00-18:00 直播标记
	CreatedBy  *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel

	// 关联（Program/Song 随日程级联删除）
	Anchors  []User    `gorm:"many2many:daily_schedule_anchors;joinForeignKey:ScheduleID;joinReferences:UserID" json:"anchors,omitempty"`
	Programs []Program `gorm:"foreignKey:ScheduleID"                                                            json:"programs,omitempty"`
	Songs    []Song    `gorm:"foreignKey:ScheduleID"                                                            json:"songs,omitempty"`
}

// TableName 指定表名
func (DailySchedule) TableName() string { return "daily_schedules" }

// Program 节目表 — 对应 programs
type Program struct {
	ProgramID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	ScheduleID string `gorm:"type:uuid;not null"                             json:"schedule_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	TimeSlot   string `gorm:"type:varchar(50);not null"                      json:"time_slot"` // 自由文本时间段，如 "07:00-07:30"
	SortOrder  int    `gorm:"column:sort_order;not null;default:0"           json:"sort_order"`
}

// TableName 指定表名
func (Program) TableName() string { return "programs" }

// Song 歌曲表 — 对应 songs
// audio_file 为当日上传的本地文件路径，每晚由清理任务清除；
// 跨日复制只复制元数据，不复制音频
type Song struct {
	SongID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"song_id"`
	ScheduleID string  `gorm:"type:uuid;not null"                             json:"schedule_id"`
	Title      string  `gorm:"type:varchar(100);not null"                     json:"title"`
	Artist     string  `gorm:"type:varchar(100);not null;default:''"          json:"artist,omitempty"`
	AudioFile  *string `gorm:"type:varchar(500)"                              json:"audio_file,omitempty"`
	SortOrder  int     `gorm:"column:sort_order;not null;default:0"           json:"sort_order"`
}

// TableName 指定表名
func (Song) TableName() string { return "songs" }

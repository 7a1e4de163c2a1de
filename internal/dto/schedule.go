package dto

// ── 日程模块 DTO ──

// AddProgramRequest 添加节目请求
type AddProgramRequest struct {
	Name      string `json:"name"       binding:"required,min=1,max=100"`
	TimeSlot  string `json:"time_slot"  binding:"required,max=50"`
	SortOrder int    `json:"sort_order" binding:"omitempty,min=0"`
}

// AddSongRequest 添加歌曲请求
type AddSongRequest struct {
	Title     string `json:"title"      binding:"required,min=1,max=100"`
	Artist    string `json:"artist"     binding:"omitempty,max=100"`
	SortOrder int    `json:"sort_order" binding:"omitempty,min=0"`
}

// ProgramResponse 节目信息
type ProgramResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TimeSlot  string `json:"time_slot"`
	SortOrder int    `json:"sort_order"`
}

// SongResponse 歌曲信息
type SongResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist,omitempty"`
	AudioFile string `json:"audio_file,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// ScheduleResponse 日程信息响应
type ScheduleResponse struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"`
	Weekday   int               `json:"weekday"` // ISO: 1=周一 … 7=周日
	IsLive    bool              `json:"is_live"`
	Anchors   []UserBrief       `json:"anchors"`
	Programs  []ProgramResponse `json:"programs"`
	Songs     []SongResponse    `json:"songs"`
	CreatedAt string            `json:"created_at"`
}

// 批量操作软结果标识
const (
	FillOutcomeFilled      = "filled"
	FillOutcomeNoGroup     = "no_group_for_weekday"
	CopyOutcomeCopied      = "copied"
	CopyOutcomeNoSource    = "no_source_schedule"
	WeekDayOutcomeCreated  = "created"
	WeekDayOutcomeExisted  = "existed"
)

// FillFromGroupResult 从分组填充播音员的结果
// 缺分组是可报告的无操作结果，不是错误
type FillFromGroupResult struct {
	Outcome     string `json:"outcome"` // filled | no_group_for_weekday
	GroupName   string `json:"group_name,omitempty"`
	Weekday     int    `json:"weekday"`
	AnchorCount int    `json:"anchor_count"`
}

// CopyPreviousDayResult 复制前一日的结果
type CopyPreviousDayResult struct {
	Outcome      string `json:"outcome"` // copied | no_source_schedule
	SourceDate   string `json:"source_date"`
	AnchorCount  int    `json:"anchor_count"`
	ProgramCount int    `json:"program_count"`
	SongCount    int    `json:"song_count"`
}

// CreateWeekDayResult 批量建周中单日的结果
type CreateWeekDayResult struct {
	Date       string `json:"date"`
	Outcome    string `json:"outcome"` // created | existed
	FillResult string `json:"fill_result"` // filled | no_group_for_weekday
}

// CreateWeekRequest 批量创建一周日程请求
type CreateWeekRequest struct {
	StartDate string `json:"start_date" binding:"required"` // "2006-01-02"
}

// CreateWeekResult 批量建周结果
// CreatedCount 只统计新建的日程行；既有日程被覆盖填充但不计数
type CreateWeekResult struct {
	CreatedCount int                   `json:"created_count"`
	Days         []CreateWeekDayResult `json:"days"`
}

// ToggleLiveResult 直播标记切换结果
type ToggleLiveResult struct {
	Date   string `json:"date"`
	IsLive bool   `json:"is_live"`
}

// TodayPlaylistResponse 今日歌单（迷你播放器）
type TodayPlaylistResponse struct {
	Date  string         `json:"date"`
	Songs []SongResponse `json:"songs"`
}

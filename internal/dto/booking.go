package dto

// ── 预约模块 DTO ──

// CreateBookingRequest 创建预约请求
type CreateBookingRequest struct {
	Date      string `json:"date"       binding:"required"` // "2006-01-02"
	StartTime string `json:"start_time" binding:"required"` // "HH:MM"
	EndTime   string `json:"end_time"   binding:"required"` // "HH:MM"
	Purpose   string `json:"purpose"    binding:"required,min=1,max=200"`
}

// BookingResponse 预约信息响应
type BookingResponse struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	StartTime string     `json:"start_time"`
	EndTime   string     `json:"end_time"`
	Purpose   string     `json:"purpose"`
	Status    string     `json:"status"`
	User      *UserBrief `json:"user,omitempty"`
	CreatedAt string     `json:"created_at"`
}

// MyBookingsResponse 我的预约列表（含状态统计）
type MyBookingsResponse struct {
	List           []BookingResponse `json:"list"`
	ConfirmedCount int               `json:"confirmed_count"`
	PendingCount   int               `json:"pending_count"`
	CompletedCount int               `json:"completed_count"`
}

// TimelineBlock 时间轴渲染块
// OffsetPct/WidthPct 为相对营业窗口（默认 08:00-22:00）的百分比，已截断到可见范围；
// 完全落在窗口外的预约表现为贴边零宽块，OutOfWindow 置 true 且保留原始起止时刻；
// IsLive 标记 16:00-18:00 直播伪块，与真实预约区分
type TimelineBlock struct {
	BookingID   string  `json:"booking_id,omitempty"`
	Title       string  `json:"title"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Status      string  `json:"status,omitempty"`
	IsLive      bool    `json:"is_live"`
	OutOfWindow bool    `json:"out_of_window,omitempty"`
	OffsetPct   float64 `json:"offset_pct"`
	WidthPct    float64 `json:"width_pct"`
	Color       string  `json:"color"`
}

// DayDetailResponse 录音室日详情（日程 + 预约 + 时间轴）
type DayDetailResponse struct {
	Schedule ScheduleResponse  `json:"schedule"`
	Bookings []BookingResponse `json:"bookings"`
	Timeline []TimelineBlock   `json:"timeline"`
}

package dto

// ── 日历读模型 DTO ──

// CalendarEventsRequest 日历事件范围查询参数
type CalendarEventsRequest struct {
	Start string `form:"start" binding:"required"` // "2006-01-02"
	End   string `form:"end"   binding:"required"` // "2006-01-02"
}

// 事件类型
const (
	CalendarEventSchedule = "schedule"
	CalendarEventBooking  = "booking"
)

// CalendarEvent 日历事件
// 日程事件标题内嵌播音员姓名与直播标识；预约事件带起止时刻
type CalendarEvent struct {
	Type      string `json:"type"` // schedule | booking
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	IsLive    bool   `json:"is_live,omitempty"`
	URL       string `json:"url,omitempty"`
}

package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// CalendarHandler 日历读模型 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ListEvents 日历事件（日程 + 活跃预约合并视图）
// GET /api/v1/calendar/events?start=2026-09-01&end=2026-09-30
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	start, end, ok := h.bindRange(c)
	if !ok {
		return
	}

	events, err := h.calendarSvc.Events(c.Request.Context(), start, end)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	response.OK(c, events)
}

// ExportICS 导出 iCalendar 订阅文件
// GET /api/v1/calendar/export.ics?start=2026-09-01&end=2026-09-30
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	start, end, ok := h.bindRange(c)
	if !ok {
		return
	}

	data, filename, err := h.calendarSvc.ExportICS(c.Request.Context(), start, end)
	if err != nil {
		h.handleCalendarError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func (h *CalendarHandler) bindRange(c *gin.Context) (time.Time, time.Time, bool) {
	var req dto.CalendarEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return time.Time{}, time.Time{}, false
	}

	start, err := time.Parse(model.DateLayout, req.Start)
	if err != nil {
		response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse(model.DateLayout, req.End)
	if err != nil {
		response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *CalendarHandler) handleCalendarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCalendarRangeInvalid):
		response.BadRequest(c, 32001, "日历范围非法")
	case errors.Is(err, service.ErrCalendarRangeTooWide):
		response.BadRequest(c, 32002, "日历范围过大")
	default:
		response.InternalError(c)
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

// ── 日历模块业务错误 ──

var (
	ErrCalendarRangeInvalid = errors.New("日历范围非法")
	ErrCalendarRangeTooWide = errors.New("日历范围过大")
)

// 单次查询允许的最大跨度
const calendarMaxRangeDays = 92

// CalendarService 日历读模型业务接口
// 把日程与预约归并为按日事件流，供前端月/周视图与 ICS 订阅消费
type CalendarService interface {
	Events(ctx context.Context, start, end time.Time) ([]dto.CalendarEvent, error)
	ExportICS(ctx context.Context, start, end time.Time) ([]byte, string, error)
}

type calendarService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{cfg: cfg, repo: repo, logger: logger}
}

func (s *calendarService) Events(ctx context.Context, start, end time.Time) ([]dto.CalendarEvent, error) {
	if err := validateCalendarRange(start, end); err != nil {
		return nil, err
	}

	schedules, err := s.repo.Schedule.ListByDateRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询日程范围失败", zap.Error(err))
		return nil, err
	}
	bookings, err := s.repo.Booking.ListActiveByDateRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询预约范围失败", zap.Error(err))
		return nil, err
	}

	events := make([]dto.CalendarEvent, 0, len(schedules)+len(bookings))
	for i := range schedules {
		events = append(events, scheduleToEvent(&schedules[i]))
	}
	for i := range bookings {
		events = append(events, bookingToEvent(&bookings[i]))
	}
	return events, nil
}

// ExportICS 把范围内的日程与预约导出为 iCalendar (RFC 5545)
func (s *calendarService) ExportICS(ctx context.Context, start, end time.Time) ([]byte, string, error) {
	if err := validateCalendarRange(start, end); err != nil {
		return nil, "", err
	}

	schedules, err := s.repo.Schedule.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, "", err
	}
	bookings, err := s.repo.Booking.ListActiveByDateRange(ctx, start, end)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//campus-radio//portal//ZH")

	for i := range schedules {
		sch := &schedules[i]
		evt := cal.AddEvent("schedule-" + sch.ScheduleID + "@campus-radio")
		evt.SetSummary(scheduleToEvent(sch).Title)
		// 日程为全天事件
		evt.SetAllDayStartAt(sch.Date)
		evt.SetAllDayEndAt(sch.Date.AddDate(0, 0, 1))
		evt.SetDtStampTime(time.Now())
	}

	for i := range bookings {
		b := &bookings[i]
		startAt, endAt, ok := bookingInterval(b)
		if !ok {
			continue
		}
		evt := cal.AddEvent("booking-" + b.BookingID + "@campus-radio")
		evt.SetSummary(bookingToEvent(b).Title)
		evt.SetStartAt(startAt)
		evt.SetEndAt(endAt)
		evt.SetDtStampTime(time.Now())
	}

	filename := fmt.Sprintf("radio_%s_%s.ics",
		start.Format(model.DateLayout), end.Format(model.DateLayout))
	return []byte(cal.Serialize()), filename, nil
}

func validateCalendarRange(start, end time.Time) error {
	if end.Before(start) {
		return ErrCalendarRangeInvalid
	}
	if end.Sub(start) > calendarMaxRangeDays*24*time.Hour {
		return ErrCalendarRangeTooWide
	}
	return nil
}

func scheduleToEvent(sch *model.DailySchedule) dto.CalendarEvent {
	names := make([]string, 0, len(sch.Anchors))
	for i := range sch.Anchors {
		names = append(names, sch.Anchors[i].RealName)
	}
	title := "播音: " + strings.Join(names, "、")
	if len(names) == 0 {
		title = "播音: 待定"
	}
	if sch.IsLive {
		title += " [直播]"
	}
	return dto.CalendarEvent{
		Type:   dto.CalendarEventSchedule,
		Title:  title,
		Date:   sch.Date.Format(model.DateLayout),
		IsLive: sch.IsLive,
	}
}

func bookingToEvent(b *model.StudioBooking) dto.CalendarEvent {
	title := "录音室: " + b.Purpose
	if b.User != nil {
		title = "录音室: " + b.User.RealName + " · " + b.Purpose
	}
	return dto.CalendarEvent{
		Type:      dto.CalendarEventBooking,
		Title:     title,
		Date:      b.Date.Format(model.DateLayout),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}

// bookingInterval 把日期 + "HH:MM" 起止换算为绝对时刻
func bookingInterval(b *model.StudioBooking) (time.Time, time.Time, bool) {
	s := parseMinutes(b.StartTime)
	e := parseMinutes(b.EndTime)
	if s < 0 || e < 0 || e <= s {
		return time.Time{}, time.Time{}, false
	}
	day := b.Date
	return day.Add(time.Duration(s) * time.Minute),
		day.Add(time.Duration(e) * time.Minute), true
}

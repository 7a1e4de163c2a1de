package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

func setupCalendarService(t *testing.T) (CalendarService, *repository.Repository) {
	repo, userRepo, scheduleRepo, bookingRepo, _ := testRepository()
	userRepo.put(&model.User{UserID: "user-a", Username: "zhangsan", RealName: "张三", StudentID: "2024001"})

	// 9月7日：日程（直播）+ 预约
	date := mustDate(t, "2026-09-07")
	schedule, _, err := scheduleRepo.GetOrCreate(context.Background(), date, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := scheduleRepo.ReplaceAnchors(context.Background(), schedule.ScheduleID, []string{"user-a"}); err != nil {
		t.Fatal(err)
	}
	if err := scheduleRepo.SetLive(context.Background(), schedule.ScheduleID, true); err != nil {
		t.Fatal(err)
	}
	if err := bookingRepo.Create(context.Background(), &model.StudioBooking{
		Date: date, StartTime: "10:00", EndTime: "12:00",
		UserID: "user-a", Purpose: "录音", Status: model.BookingStatusConfirmed,
		User: &model.User{UserID: "user-a", RealName: "张三"},
	}); err != nil {
		t.Fatal(err)
	}
	// 已取消的预约不应出现在日历中
	if err := bookingRepo.Create(context.Background(), &model.StudioBooking{
		Date: mustDate(t, "2026-09-08"), StartTime: "10:00", EndTime: "12:00",
		UserID: "user-a", Purpose: "取消的", Status: model.BookingStatusCancelled,
	}); err != nil {
		t.Fatal(err)
	}

	svc := NewCalendarService(testConfig(), repo, zap.NewNop())
	return svc, repo
}

func TestCalendarEvents_MergesSchedulesAndBookings(t *testing.T) {
	svc, _ := setupCalendarService(t)

	events, err := svc.Events(context.Background(), mustDate(t, "2026-09-01"), mustDate(t, "2026-09-30"))
	if err != nil {
		t.Fatalf("Events 应成功: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("期望 2 个事件（已取消预约除外），实际=%d", len(events))
	}

	var schEvent, bookEvent *dto.CalendarEvent
	for i := range events {
		switch events[i].Type {
		case dto.CalendarEventSchedule:
			schEvent = &events[i]
		case dto.CalendarEventBooking:
			bookEvent = &events[i]
		}
	}
	if schEvent == nil || bookEvent == nil {
		t.Fatal("应同时含日程事件与预约事件")
	}
	if !schEvent.IsLive {
		t.Error("日程事件应带直播标记")
	}
	if !strings.Contains(schEvent.Title, "[直播]") {
		t.Errorf("直播日标题应含标识，实际=%s", schEvent.Title)
	}
	if bookEvent.StartTime != "10:00" || bookEvent.EndTime != "12:00" {
		t.Errorf("预约事件起止不符: %s-%s", bookEvent.StartTime, bookEvent.EndTime)
	}
}

func TestCalendarEvents_RangeValidation(t *testing.T) {
	svc, _ := setupCalendarService(t)

	_, err := svc.Events(context.Background(), mustDate(t, "2026-09-30"), mustDate(t, "2026-09-01"))
	if !errors.Is(err, ErrCalendarRangeInvalid) {
		t.Errorf("起止颠倒应报错，实际: %v", err)
	}

	_, err = svc.Events(context.Background(), mustDate(t, "2026-01-01"), mustDate(t, "2026-12-31"))
	if !errors.Is(err, ErrCalendarRangeTooWide) {
		t.Errorf("超宽范围应报错，实际: %v", err)
	}
}

func TestExportICS_ContainsEvents(t *testing.T) {
	svc, _ := setupCalendarService(t)

	data, filename, err := svc.ExportICS(context.Background(), mustDate(t, "2026-09-01"), mustDate(t, "2026-09-30"))
	if err != nil {
		t.Fatalf("ExportICS 应成功: %v", err)
	}
	if filename == "" {
		t.Error("应返回建议文件名")
	}

	ics := string(data)
	if !strings.Contains(ics, "BEGIN:VCALENDAR") || !strings.Contains(ics, "END:VCALENDAR") {
		t.Error("输出应为合法 iCalendar 骨架")
	}
	if !strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("输出应包含事件")
	}
	if !strings.Contains(ics, "booking-") {
		t.Error("输出应包含预约事件 UID")
	}
	if !strings.Contains(ics, "schedule-") {
		t.Error("输出应包含日程事件 UID")
	}
}

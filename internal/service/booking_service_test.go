package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-test-secret-test-secret",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
		Studio: config.StudioConfig{
			OpenHour:      8,
			CloseHour:     22,
			LiveStartHour: 16,
			LiveEndHour:   18,
		},
		Media: config.MediaConfig{
			Root:        "/tmp/radio-media",
			CleanupCron: "0 23 * * *",
		},
	}
}

func testRepository() (*repository.Repository, *mockUserRepo, *mockScheduleRepo, *mockBookingRepo, *mockGroupRepo) {
	userRepo := newMockUserRepo()
	scheduleRepo := newMockScheduleRepo()
	bookingRepo := newMockBookingRepo()
	groupRepo := newMockGroupRepo()
	bookingRepo.users = userRepo
	repo := &repository.Repository{
		User:             userRepo,
		InviteCode:       newMockInviteCodeRepo(),
		Group:            groupRepo,
		Schedule:         scheduleRepo,
		Booking:          bookingRepo,
		ModulePermission: newMockPermissionRepo(),
	}
	return repo, userRepo, scheduleRepo, bookingRepo, groupRepo
}

func setupBookingService() (BookingService, *repository.Repository, *mockBookingRepo) {
	repo, userRepo, _, bookingRepo, _ := testRepository()
	userRepo.put(&model.User{UserID: "user-a", Username: "zhangsan", RealName: "张三", StudentID: "2024001"})
	userRepo.put(&model.User{UserID: "user-b", Username: "lisi", RealName: "李四", StudentID: "2024002"})
	svc := NewBookingService(testConfig(), repo, zap.NewNop())
	return svc, repo, bookingRepo
}

// ── 区间校验 ──

func TestValidateRange_OK(t *testing.T) {
	if err := ValidateRange("08:00", "10:00", 8, 22); err != nil {
		t.Errorf("合法区间不应报错: %v", err)
	}
	if err := ValidateRange("21:00", "22:00", 8, 22); err != nil {
		t.Errorf("贴着闭店的区间应合法: %v", err)
	}
}

func TestValidateRange_Invalid(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"起止相同", "10:00", "10:00"},
		{"起晚于止", "12:00", "10:00"},
		{"早于开门", "07:00", "09:00"},
		{"晚于闭店", "21:00", "23:00"},
		{"格式非法", "abc", "10:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateRange(tc.start, tc.end, 8, 22); !errors.Is(err, ErrInvalidTimeRange) {
				t.Errorf("期望 ErrInvalidTimeRange，实际: %v", err)
			}
		})
	}
}

// ── 冲突判定 ──

func TestFindConflict_Overlap(t *testing.T) {
	existing := []model.StudioBooking{
		{BookingID: "b1", StartTime: "10:00", EndTime: "12:00", Status: model.BookingStatusConfirmed},
	}

	if c := FindConflict(existing, "11:00", "13:00"); c == nil {
		t.Error("部分重叠应判为冲突")
	}
	if c := FindConflict(existing, "09:00", "13:00"); c == nil {
		t.Error("完全包住应判为冲突")
	}
	if c := FindConflict(existing, "10:30", "11:30"); c == nil {
		t.Error("被包住应判为冲突")
	}
}

func TestFindConflict_BackToBack(t *testing.T) {
	existing := []model.StudioBooking{
		{BookingID: "b1", StartTime: "10:00", EndTime: "12:00", Status: model.BookingStatusConfirmed},
	}

	if c := FindConflict(existing, "12:00", "14:00"); c != nil {
		t.Error("首尾相接（前接后）不应判为冲突")
	}
	if c := FindConflict(existing, "08:00", "10:00"); c != nil {
		t.Error("首尾相接（后接前）不应判为冲突")
	}
}

func TestFindConflict_SecondsFormat(t *testing.T) {
	// 数据库 time 列回读为 "HH:MM:SS"
	existing := []model.StudioBooking{
		{BookingID: "b1", StartTime: "10:00:00", EndTime: "12:00:00", Status: model.BookingStatusConfirmed},
	}

	if c := FindConflict(existing, "12:00", "14:00"); c != nil {
		t.Error("回读带秒时首尾相接仍不应判为冲突")
	}
	if c := FindConflict(existing, "11:00", "13:00"); c == nil {
		t.Error("回读带秒时重叠仍应判为冲突")
	}
}

// ── 创建预约 ──

func TestCreateBooking_Success(t *testing.T) {
	svc, _, _ := setupBookingService()

	result, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date:      "2026-09-07",
		StartTime: "10:00",
		EndTime:   "12:00",
		Purpose:   "录制节目",
	})

	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Status != model.BookingStatusConfirmed {
		t.Errorf("期望 status=confirmed，实际=%s", result.Status)
	}
	if result.StartTime != "10:00" || result.EndTime != "12:00" {
		t.Errorf("起止时刻不符: %s-%s", result.StartTime, result.EndTime)
	}
}

func TestCreateBooking_Conflict(t *testing.T) {
	svc, _, _ := setupBookingService()

	_, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	})
	if err != nil {
		t.Fatalf("首个预约应成功: %v", err)
	}

	_, err = svc.Create(context.Background(), "user-b", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "11:00", EndTime: "13:00", Purpose: "混音",
	})

	var conflict *BookingConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 BookingConflictError，实际: %v", err)
	}
	if conflict.Conflicting.StartTime != "10:00" {
		t.Errorf("冲突方起始时刻应为 10:00，实际=%s", conflict.Conflicting.StartTime)
	}
	if !strings.Contains(conflict.Error(), "张三") {
		t.Errorf("冲突提示应包含占用者姓名，实际: %q", conflict.Error())
	}
}

func TestCreateBooking_BackToBackAllowed(t *testing.T) {
	svc, _, _ := setupBookingService()

	if _, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	}); err != nil {
		t.Fatalf("首个预约应成功: %v", err)
	}

	if _, err := svc.Create(context.Background(), "user-b", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "12:00", EndTime: "14:00", Purpose: "剪辑",
	}); err != nil {
		t.Errorf("首尾相接的预约应被允许: %v", err)
	}
}

func TestCreateBooking_OtherDayNoConflict(t *testing.T) {
	svc, _, _ := setupBookingService()

	if _, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	}); err != nil {
		t.Fatalf("首个预约应成功: %v", err)
	}

	if _, err := svc.Create(context.Background(), "user-b", &dto.CreateBookingRequest{
		Date: "2026-09-08", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	}); err != nil {
		t.Errorf("不同日期的同时段不应冲突: %v", err)
	}
}

func TestCreateBooking_CancelledFreesSlot(t *testing.T) {
	svc, _, _ := setupBookingService()

	first, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	})
	if err != nil {
		t.Fatalf("首个预约应成功: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), first.ID, "user-a", false); err != nil {
		t.Fatalf("取消应成功: %v", err)
	}

	if _, err := svc.Create(context.Background(), "user-b", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "补录",
	}); err != nil {
		t.Errorf("取消后的时段应可再次预约: %v", err)
	}
}

// 并发兜底：应用层预检通过但落库撞排他约束时，返回冲突而非内部错误
func TestCreateBooking_ExclusionBackstop(t *testing.T) {
	repo, userRepo, _, bookingRepo, _ := testRepository()
	userRepo.put(&model.User{UserID: "user-a", Username: "zhangsan", RealName: "张三", StudentID: "2024001"})
	svc := NewBookingService(testConfig(), repo, zap.NewNop())

	// 对手方直接落库，绕过 service 预检
	date, _ := time.Parse(model.DateLayout, "2026-09-07")
	rival := &model.StudioBooking{
		Date: date, StartTime: "10:00", EndTime: "12:00",
		UserID: "user-b", Purpose: "抢先", Status: model.BookingStatusConfirmed,
	}
	if err := bookingRepo.Create(context.Background(), rival); err != nil {
		t.Fatalf("预置对手预约失败: %v", err)
	}

	_, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "11:00", EndTime: "13:00", Purpose: "录音",
	})

	var conflict *BookingConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 BookingConflictError，实际: %v", err)
	}
}

// ── 取消预约 ──

func TestCancelBooking_OwnerOnly(t *testing.T) {
	svc, _, _ := setupBookingService()

	booking, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), booking.ID, "user-b", false); !errors.Is(err, ErrCancelForbidden) {
		t.Errorf("非本人非管理员取消应被拒，实际: %v", err)
	}

	result, err := svc.Cancel(context.Background(), booking.ID, "user-b", true)
	if err != nil {
		t.Fatalf("管理员取消应成功: %v", err)
	}
	if result.Status != model.BookingStatusCancelled {
		t.Errorf("期望 status=cancelled，实际=%s", result.Status)
	}
}

func TestCancelBooking_NotFound(t *testing.T) {
	svc, _, _ := setupBookingService()

	if _, err := svc.Cancel(context.Background(), "nonexistent", "user-a", false); !errors.Is(err, ErrBookingNotFound) {
		t.Errorf("期望 ErrBookingNotFound，实际: %v", err)
	}
}

func TestCancelBooking_Idempotent(t *testing.T) {
	svc, _, _ := setupBookingService()

	booking, _ := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	})

	if _, err := svc.Cancel(context.Background(), booking.ID, "user-a", false); err != nil {
		t.Fatalf("首次取消应成功: %v", err)
	}
	result, err := svc.Cancel(context.Background(), booking.ID, "user-a", false)
	if err != nil {
		t.Fatalf("重复取消应幂等: %v", err)
	}
	if result.Status != model.BookingStatusCancelled {
		t.Errorf("期望 status=cancelled，实际=%s", result.Status)
	}
}

// ── 我的预约 ──

func TestMyBookings_Counts(t *testing.T) {
	svc, _, bookingRepo := setupBookingService()

	mk := func(start, end string) *dto.BookingResponse {
		b, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
			Date: "2026-09-07", StartTime: start, EndTime: end, Purpose: "录音",
		})
		if err != nil {
			t.Fatalf("Create 应成功: %v", err)
		}
		return b
	}

	b1 := mk("08:00", "09:00")
	mk("09:00", "10:00")
	b3 := mk("10:00", "11:00")

	_ = bookingRepo.UpdateStatus(context.Background(), b1.ID, model.BookingStatusCompleted)
	if _, err := svc.Cancel(context.Background(), b3.ID, "user-a", false); err != nil {
		t.Fatalf("取消应成功: %v", err)
	}

	result, err := svc.MyBookings(context.Background(), "user-a")
	if err != nil {
		t.Fatalf("MyBookings 应成功: %v", err)
	}
	if len(result.List) != 3 {
		t.Errorf("期望列表含 3 条（含已取消），实际=%d", len(result.List))
	}
	if result.ConfirmedCount != 1 || result.CompletedCount != 1 || result.PendingCount != 0 {
		t.Errorf("状态统计不符: confirmed=%d completed=%d pending=%d",
			result.ConfirmedCount, result.CompletedCount, result.PendingCount)
	}
}

// ── 日详情 ──

func TestDayDetail_NoSchedule(t *testing.T) {
	svc, _, _ := setupBookingService()

	if _, err := svc.Create(context.Background(), "user-a", &dto.CreateBookingRequest{
		Date: "2026-09-07", StartTime: "10:00", EndTime: "12:00", Purpose: "录音",
	}); err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	date, _ := time.Parse(model.DateLayout, "2026-09-07")
	detail, err := svc.DayDetail(context.Background(), date)
	if err != nil {
		t.Fatalf("DayDetail 应成功: %v", err)
	}
	if len(detail.Bookings) != 1 {
		t.Errorf("期望 1 条预约，实际=%d", len(detail.Bookings))
	}
	if detail.Schedule.ID != "" {
		t.Error("无日程时不应隐式建行")
	}
	if len(detail.Timeline) != 1 {
		t.Errorf("期望 1 个时间轴块，实际=%d", len(detail.Timeline))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
	pkgerrors "github.com/fengzishiyi/campus-radio/pkg/errors"
)

// ── 预约模块业务错误 ──

var (
	ErrInvalidTimeRange = errors.New("时间区间非法或超出录音室开放时段")
	ErrInvalidDate      = errors.New("日期格式非法")
	ErrBookingNotFound  = errors.New("预约不存在")
	ErrCancelForbidden  = errors.New("仅本人或管理员可取消预约")
)

// BookingConflictError 预约时段冲突，携带撞上的既有预约
type BookingConflictError struct {
	Conflicting *model.StudioBooking
}

func (e *BookingConflictError) Error() string {
	if e.Conflicting.User != nil && e.Conflicting.User.RealName != "" {
		return fmt.Sprintf("时间冲突: %s-%s 已被 %s 预约",
			e.Conflicting.StartTime, e.Conflicting.EndTime, e.Conflicting.User.RealName)
	}
	return fmt.Sprintf("时段已被占用: %s-%s", e.Conflicting.StartTime, e.Conflicting.EndTime)
}

// BookingService 录音室预约业务接口
type BookingService interface {
	Create(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, bookingID, callerID string, callerIsAdmin bool) (*dto.BookingResponse, error)
	MyBookings(ctx context.Context, userID string) (*dto.MyBookingsResponse, error)
	DayDetail(ctx context.Context, date time.Time) (*dto.DayDetailResponse, error)
}

type bookingService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) BookingService {
	return &bookingService{cfg: cfg, repo: repo, logger: logger}
}

// ValidateRange 校验时间区间格式与营业窗口
// 区间为左闭右开，必须完整落在 [openHour:00, closeHour:00) 内
func ValidateRange(start, end string, openHour, closeHour int) error {
	s := parseMinutes(start)
	e := parseMinutes(end)
	if s < 0 || e < 0 || s >= e {
		return ErrInvalidTimeRange
	}
	if s < openHour*60 || e > closeHour*60 {
		return ErrInvalidTimeRange
	}
	return nil
}

// FindConflict 在活跃预约集合中找出与 [start, end) 重叠的第一条
// 首尾相接（a.end == b.start）不算冲突；无冲突返回 nil
// 按分钟值比较，兼容数据库回读的 "HH:MM:SS" 格式
func FindConflict(bookings []model.StudioBooking, start, end string) *model.StudioBooking {
	s, e := parseMinutes(start), parseMinutes(end)
	for i := range bookings {
		bs, be := parseMinutes(bookings[i].StartTime), parseMinutes(bookings[i].EndTime)
		if bs < e && s < be {
			return &bookings[i]
		}
	}
	return nil
}

// Create 创建预约
// 先在应用层做冲突预检给出友好错误；数据库排他约束兜底并发竞争，
// 撞约束后重读当日预约定位冲突方，统一返回 BookingConflictError
func (s *bookingService) Create(ctx context.Context, userID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if err := ValidateRange(req.StartTime, req.EndTime, s.cfg.Studio.OpenHour, s.cfg.Studio.CloseHour); err != nil {
		return nil, err
	}

	active, err := s.repo.Booking.ListActiveByDate(ctx, date)
	if err != nil {
		s.logger.Error("查询当日预约失败", zap.Error(err))
		return nil, err
	}
	if conflict := FindConflict(active, req.StartTime, req.EndTime); conflict != nil {
		return nil, &BookingConflictError{Conflicting: conflict}
	}

	booking := &model.StudioBooking{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		UserID:    userID,
		Purpose:   req.Purpose,
		Status:    model.BookingStatusConfirmed,
	}

	err = pkgerrors.WithRetry(3, func() error {
		return s.repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrExclusionViolation) {
			// 并发对手先落库，重读定位冲突方
			active, rerr := s.repo.Booking.ListActiveByDate(ctx, date)
			if rerr == nil {
				if conflict := FindConflict(active, req.StartTime, req.EndTime); conflict != nil {
					return nil, &BookingConflictError{Conflicting: conflict}
				}
			}
			return nil, &BookingConflictError{Conflicting: &model.StudioBooking{
				Date: date, StartTime: req.StartTime, EndTime: req.EndTime,
			}}
		}
		s.logger.Error("创建预约失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("预约创建",
		zap.String("booking_id", booking.BookingID),
		zap.String("user_id", userID),
		zap.String("date", req.Date),
		zap.String("slot", req.StartTime+"-"+req.EndTime))

	full, err := s.repo.Booking.GetByID(ctx, booking.BookingID)
	if err != nil {
		full = booking
	}
	resp := toBookingResponse(full)
	return &resp, nil
}

// Cancel 取消预约；仅本人或管理员可操作，取消后永久退出冲突集
func (s *bookingService) Cancel(ctx context.Context, bookingID, callerID string, callerIsAdmin bool) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if booking.UserID != callerID && !callerIsAdmin {
		return nil, ErrCancelForbidden
	}
	if booking.Status == model.BookingStatusCancelled {
		resp := toBookingResponse(booking)
		return &resp, nil
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = model.BookingStatusCancelled

	s.logger.Info("预约取消",
		zap.String("booking_id", bookingID),
		zap.String("caller_id", callerID))
	resp := toBookingResponse(booking)
	return &resp, nil
}

func (s *bookingService) MyBookings(ctx context.Context, userID string) (*dto.MyBookingsResponse, error) {
	bookings, err := s.repo.Booking.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MyBookingsResponse{List: make([]dto.BookingResponse, 0, len(bookings))}
	for i := range bookings {
		resp.List = append(resp.List, toBookingResponse(&bookings[i]))
		switch bookings[i].Status {
		case model.BookingStatusConfirmed:
			resp.ConfirmedCount++
		case model.BookingStatusPending:
			resp.PendingCount++
		case model.BookingStatusCompleted:
			resp.CompletedCount++
		}
	}
	return resp, nil
}

// DayDetail 录音室日详情：当日日程、活跃预约与渲染时间轴
// 日程行不存在时返回空日程占位，不隐式建行
func (s *bookingService) DayDetail(ctx context.Context, date time.Time) (*dto.DayDetailResponse, error) {
	bookings, err := s.repo.Booking.ListActiveByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	resp := &dto.DayDetailResponse{
		Bookings: make([]dto.BookingResponse, 0, len(bookings)),
	}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(&bookings[i]))
	}

	isLive := false
	schedule, err := s.repo.Schedule.GetByDate(ctx, date)
	switch {
	case err == nil:
		isLive = schedule.IsLive
		resp.Schedule = toScheduleResponse(schedule)
	case errors.Is(err, gorm.ErrRecordNotFound):
		resp.Schedule = dto.ScheduleResponse{
			Date:     date.Format(model.DateLayout),
			Weekday:  isoWeekday(date),
			Anchors:  []dto.UserBrief{},
			Programs: []dto.ProgramResponse{},
			Songs:    []dto.SongResponse{},
		}
	default:
		return nil, err
	}

	resp.Timeline = ComputeTimeline(bookings, isLive,
		s.cfg.Studio.OpenHour, s.cfg.Studio.CloseHour,
		s.cfg.Studio.LiveStartHour, s.cfg.Studio.LiveEndHour)
	return resp, nil
}

func toBookingResponse(b *model.StudioBooking) dto.BookingResponse {
	resp := dto.BookingResponse{
		ID:        b.BookingID,
		Date:      b.Date.Format(model.DateLayout),
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Purpose:   b.Purpose,
		Status:    b.Status,
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
	if b.User != nil {
		brief := toUserBrief(b.User)
		resp.User = &brief
	}
	return resp
}

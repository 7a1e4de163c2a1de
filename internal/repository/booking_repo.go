package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
	pkgerrors "github.com/fengzishiyi/campus-radio/pkg/errors"
)

// BookingRepository 录音室预约数据访问接口
type BookingRepository interface {
	// Create 写入预约；撞数据库排他约束时返回 pkg/errors.ErrExclusionViolation
	Create(ctx context.Context, booking *model.StudioBooking) error
	GetByID(ctx context.Context, id string) (*model.StudioBooking, error)
	ListActiveByDate(ctx context.Context, date time.Time) ([]model.StudioBooking, error)
	ListActiveByDateRange(ctx context.Context, from, to time.Time) ([]model.StudioBooking, error)
	ListByUser(ctx context.Context, userID string) ([]model.StudioBooking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.StudioBooking) error {
	err := r.db.WithContext(ctx).Create(booking).Error
	if err != nil && pkgerrors.IsExclusionViolation(err) {
		return pkgerrors.ErrExclusionViolation
	}
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.StudioBooking, error) {
	var booking model.StudioBooking
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("booking_id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListActiveByDate 取某日全部活跃预约（已取消的不参与冲突检测），按开始时间排序
func (r *bookingRepo) ListActiveByDate(ctx context.Context, date time.Time) ([]model.StudioBooking, error) {
	var bookings []model.StudioBooking
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("date = ? AND status IN ?", date, model.ActiveBookingStatuses).
		Order("start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListActiveByDateRange(ctx context.Context, from, to time.Time) ([]model.StudioBooking, error) {
	var bookings []model.StudioBooking
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("date >= ? AND date <= ? AND status IN ?", from, to, model.ActiveBookingStatuses).
		Order("date ASC, start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

// ListByUser 取某用户的全部预约（含已取消），供"我的预约"页展示
func (r *bookingRepo) ListByUser(ctx context.Context, userID string) ([]model.StudioBooking, error) {
	var bookings []model.StudioBooking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, start_time DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.StudioBooking{}).
		Where("booking_id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

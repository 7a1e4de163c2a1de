package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// BookingHandler 录音室预约模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
	permSvc    service.PermissionService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService, permSvc service.PermissionService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, permSvc: permSvc}
}

// CreateBooking 创建预约
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "booking") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.Created(c, booking)
}

// CancelBooking 取消预约（本人或管理员；取消后释放时段）
// DELETE /api/v1/bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Cancel(c.Request.Context(), c.Param("id"), userID, role == model.RoleAdmin)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// MyBookings 我的预约列表（含状态统计）
// GET /api/v1/bookings/my
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.bookingSvc.MyBookings(c.Request.Context(), userID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, result)
}

// DayDetail 录音室日详情（日程 + 预约 + 渲染时间轴）
// GET /api/v1/studio/days/:date
func (h *BookingHandler) DayDetail(c *gin.Context) {
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	detail, err := h.bookingSvc.DayDetail(c.Request.Context(), date)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, detail)
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	var conflict *service.BookingConflictError
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 30001, "时间区间非法或超出录音室开放时段")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
	case errors.As(err, &conflict):
		response.Conflict(c, 30002, conflict.Error())
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 30003, "预约不存在")
	case errors.Is(err, service.ErrCancelForbidden):
		response.Forbidden(c, 30004, "仅本人或管理员可取消预约")
	default:
		response.InternalError(c)
	}
}

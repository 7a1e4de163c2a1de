package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// AnnouncementHandler 公告模块 HTTP 处理器
type AnnouncementHandler struct {
	announcementSvc service.AnnouncementService
	permSvc         service.PermissionService
	userSvc         service.UserService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(announcementSvc service.AnnouncementService, permSvc service.PermissionService, userSvc service.UserService) *AnnouncementHandler {
	return &AnnouncementHandler{announcementSvc: announcementSvc, permSvc: permSvc, userSvc: userSvc}
}

// CreateAnnouncement 发布公告
// POST /api/v1/announcements
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "announcements") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	announcement, err := h.announcementSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.Created(c, announcement)
}

// GetAnnouncement 查询公告详情
// GET /api/v1/announcements/:id
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	announcement, err := h.announcementSvc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.OK(c, announcement)
}

// ListAnnouncements 公告列表（置顶优先；按查看者部门过滤）
// GET /api/v1/announcements?page=1&page_size=20&type=notice
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AnnouncementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 部门过滤依赖查看者的归属部门
	viewer, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	list, total, err := h.announcementSvc.List(c.Request.Context(), userID, viewer.Department, &req)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	response.OKPage(c, list, total, page, pageSize)
}

// UpdateAnnouncement 更新公告
// PUT /api/v1/announcements/:id
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "announcements") {
		return
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	announcement, err := h.announcementSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.OK(c, announcement)
}

// DeleteAnnouncement 删除公告
// DELETE /api/v1/announcements/:id
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "announcements") {
		return
	}

	if err := h.announcementSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.OK(c, nil)
}

// MarkRead 标记公告已读（幂等）
// POST /api/v1/announcements/:id/read
func (h *AnnouncementHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.announcementSvc.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleAnnouncementError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AnnouncementHandler) handleAnnouncementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnnouncementNotFound):
		response.NotFound(c, 34001, "公告不存在")
	case errors.Is(err, service.ErrExpireTimeInvalid):
		response.BadRequest(c, 34002, "过期时间格式非法")
	default:
		response.InternalError(c)
	}
}

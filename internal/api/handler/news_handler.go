package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// NewsHandler 新闻播报模块 HTTP 处理器
type NewsHandler struct {
	newsSvc service.NewsService
	permSvc service.PermissionService
}

// NewNewsHandler 创建 NewsHandler
func NewNewsHandler(newsSvc service.NewsService, permSvc service.PermissionService) *NewsHandler {
	return &NewsHandler{newsSvc: newsSvc, permSvc: permSvc}
}

// CreateNews 创建新闻条目
// POST /api/v1/news
func (h *NewsHandler) CreateNews(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "news") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	item, err := h.newsSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleNewsError(c, err)
		return
	}

	response.Created(c, item)
}

// GetNews 查询新闻详情
// GET /api/v1/news/:id
func (h *NewsHandler) GetNews(c *gin.Context) {
	item, err := h.newsSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleNewsError(c, err)
		return
	}

	response.OK(c, item)
}

// ListNews 新闻列表（缺省最近 30 天）
// GET /api/v1/news?page=1&page_size=20&start=2026-08-01&end=2026-08-31
func (h *NewsHandler) ListNews(c *gin.Context) {
	var req dto.NewsListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.newsSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleNewsError(c, err)
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

// UpdateNews 更新新闻
// PUT /api/v1/news/:id
func (h *NewsHandler) UpdateNews(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "news") {
		return
	}

	var req dto.UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	item, err := h.newsSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleNewsError(c, err)
		return
	}

	response.OK(c, item)
}

// DeleteNews 删除新闻
// DELETE /api/v1/news/:id
func (h *NewsHandler) DeleteNews(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "news") {
		return
	}

	if err := h.newsSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleNewsError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *NewsHandler) handleNewsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNewsNotFound):
		response.NotFound(c, 36001, "新闻不存在")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// AlbumHandler 长音频目录 HTTP 处理器
type AlbumHandler struct {
	albumSvc service.AlbumService
	permSvc  service.PermissionService
}

// NewAlbumHandler 创建 AlbumHandler
func NewAlbumHandler(albumSvc service.AlbumService, permSvc service.PermissionService) *AlbumHandler {
	return &AlbumHandler{albumSvc: albumSvc, permSvc: permSvc}
}

// CreateAlbum 创建专辑
// POST /api/v1/albums
func (h *AlbumHandler) CreateAlbum(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "himalaya") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	album, err := h.albumSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.Created(c, album)
}

// GetAlbum 查询专辑详情（含音频与文稿）
// GET /api/v1/albums/:id
func (h *AlbumHandler) GetAlbum(c *gin.Context) {
	album, err := h.albumSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.OK(c, album)
}

// ListAlbums 专辑列表
// GET /api/v1/albums?page=1&page_size=20
func (h *AlbumHandler) ListAlbums(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	albums, total, err := h.albumSvc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, albums, total, page, pageSize)
}

// UpdateAlbum 更新专辑
// PUT /api/v1/albums/:id
func (h *AlbumHandler) UpdateAlbum(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "himalaya") {
		return
	}

	var req dto.UpdateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	album, err := h.albumSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.OK(c, album)
}

// DeleteAlbum 删除专辑
// DELETE /api/v1/albums/:id
func (h *AlbumHandler) DeleteAlbum(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "himalaya") {
		return
	}

	if err := h.albumSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.OK(c, nil)
}

// AddTrack 向专辑追加音频（外链）
// POST /api/v1/albums/:id/tracks
func (h *AlbumHandler) AddTrack(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "himalaya") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	track, err := h.albumSvc.AddTrack(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.Created(c, track)
}

// DeleteTrack 删除音频
// DELETE /api/v1/albums/tracks/:id
func (h *AlbumHandler) DeleteTrack(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "himalaya") {
		return
	}

	if err := h.albumSvc.DeleteTrack(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.OK(c, nil)
}

// RecordPlay 播放计数 +1
// POST /api/v1/albums/tracks/:id/play
func (h *AlbumHandler) RecordPlay(c *gin.Context) {
	if err := h.albumSvc.RecordPlay(c.Request.Context(), c.Param("id")); err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.OK(c, nil)
}

// SaveScript 保存音频文稿（新建或覆盖）
// PUT /api/v1/albums/tracks/:id/script
func (h *AlbumHandler) SaveScript(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "himalaya") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SaveScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	script, err := h.albumSvc.SaveScript(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleAlbumError(c, err)
		return
	}

	response.OK(c, script)
}

func (h *AlbumHandler) handleAlbumError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlbumNotFound):
		response.NotFound(c, 35001, "专辑不存在")
	case errors.Is(err, service.ErrTrackNotFound):
		response.NotFound(c, 35002, "音频不存在")
	default:
		response.InternalError(c)
	}
}

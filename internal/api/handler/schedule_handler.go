package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// 歌曲音频允许的扩展名
var allowedAudioExts = map[string]bool{
	".mp3": true, ".m4a": true, ".wav": true, ".flac": true, ".ogg": true,
}

// ScheduleHandler 日程模块 HTTP 处理器
type ScheduleHandler struct {
	cfg         *config.Config
	scheduleSvc service.ScheduleService
	permSvc     service.PermissionService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(cfg *config.Config, scheduleSvc service.ScheduleService, permSvc service.PermissionService) *ScheduleHandler {
	return &ScheduleHandler{cfg: cfg, scheduleSvc: scheduleSvc, permSvc: permSvc}
}

// GetSchedule 查询指定日期的日程（只读，不隐式创建）
// GET /api/v1/schedules/:date
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.GetByDate(c.Request.Context(), date)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// EnsureSchedule 按日期获取或创建日程（幂等）
// POST /api/v1/schedules/:date
func (h *ScheduleHandler) EnsureSchedule(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	schedule, err := h.scheduleSvc.GetOrCreateByDate(c.Request.Context(), date, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// ReplaceAnchors 整体替换当日播音员
// PUT /api/v1/schedules/:date/anchors
func (h *ScheduleHandler) ReplaceAnchors(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	var req struct {
		AnchorIDs []string `json:"anchor_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	schedule, err := h.scheduleSvc.ReplaceAnchors(c.Request.Context(), date, req.AnchorIDs, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// FillFromGroup 从当周轮值分组填充播音员
// 缺分组返回 200 软结果（outcome=no_group_for_weekday），不创建日程
// POST /api/v1/schedules/:date/fill-from-group
func (h *ScheduleHandler) FillFromGroup(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	result, err := h.scheduleSvc.FillFromGroup(c.Request.Context(), date, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// CopyPreviousDay 复制前一日的日程内容（音频文件不随副本传播）
// POST /api/v1/schedules/:date/copy-previous
func (h *ScheduleHandler) CopyPreviousDay(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	result, err := h.scheduleSvc.CopyPreviousDay(c.Request.Context(), date, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateWeek 批量创建一周日程并逐日填充
// POST /api/v1/schedules/week
func (h *ScheduleHandler) CreateWeek(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	startDate, err := time.Parse(model.DateLayout, req.StartDate)
	if err != nil {
		response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
		return
	}

	result, err := h.scheduleSvc.CreateWeek(c.Request.Context(), startDate, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// ToggleLive 切换当日直播标记
// POST /api/v1/schedules/:date/toggle-live
func (h *ScheduleHandler) ToggleLive(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	result, err := h.scheduleSvc.ToggleLive(c.Request.Context(), date, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// AddProgram 向当日节目单追加节目
// POST /api/v1/schedules/:date/programs
func (h *ScheduleHandler) AddProgram(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	var req dto.AddProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	program, err := h.scheduleSvc.AddProgram(c.Request.Context(), date, &req, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, program)
}

// DeleteProgram 删除节目
// DELETE /api/v1/schedules/programs/:id
func (h *ScheduleHandler) DeleteProgram(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}

	if err := h.scheduleSvc.DeleteProgram(c.Request.Context(), c.Param("id")); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// AddSong 向当日歌单追加歌曲（排序号缺省追加到末尾）
// POST /api/v1/schedules/:date/songs
func (h *ScheduleHandler) AddSong(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	date, ok := MustParseDateParam(c, "date")
	if !ok {
		return
	}

	var req dto.AddSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	song, err := h.scheduleSvc.AddSong(c.Request.Context(), date, &req, userID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, song)
}

// UploadSongAudio 上传歌曲音频文件
// POST /api/v1/schedules/songs/:id/audio  (multipart/form-data, field=file)
func (h *ScheduleHandler) UploadSongAudio(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}
	if h.cfg.Media.MaxUploadSize > 0 && file.Size > h.cfg.Media.MaxUploadSize {
		response.BadRequest(c, 31101, "音频文件超出大小限制")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAudioExts[ext] {
		response.BadRequest(c, 31102, "不支持的音频格式")
		return
	}

	// 落盘文件名与原始文件名解耦，避免路径穿越
	songID := c.Param("id")
	stored := fmt.Sprintf("%s_%s%s", songID, uuid.New().String()[:8], ext)
	dst := filepath.Join(h.cfg.Media.Root, stored)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		response.InternalError(c)
		return
	}

	song, err := h.scheduleSvc.AttachSongAudio(c.Request.Context(), songID, stored)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, song)
}

// DeleteSong 删除歌曲
// DELETE /api/v1/schedules/songs/:id
func (h *ScheduleHandler) DeleteSong(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "schedule") {
		return
	}

	if err := h.scheduleSvc.DeleteSong(c.Request.Context(), c.Param("id")); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// TodayPlaylist 今日歌单（迷你播放器，带 Redis 缓存）
// GET /api/v1/playlist/today
func (h *ScheduleHandler) TodayPlaylist(c *gin.Context) {
	playlist, err := h.scheduleSvc.TodayPlaylist(c.Request.Context(), time.Now())
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, playlist)
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 31010, "日程不存在")
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 31011, "节目不存在")
	case errors.Is(err, service.ErrSongNotFound):
		response.NotFound(c, 31012, "歌曲不存在")
	case errors.Is(err, service.ErrAnchorInvalid):
		response.BadRequest(c, 31013, "主播列表中存在无效用户")
	default:
		response.InternalError(c)
	}
}

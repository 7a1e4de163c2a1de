package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// GroupHandler 周轮值分组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
	permSvc  service.PermissionService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService, permSvc service.PermissionService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc, permSvc: permSvc}
}

// CreateGroup 创建分组
// POST /api/v1/groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "groups") {
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	group, err := h.groupSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.Created(c, group)
}

// GetGroup 查询分组详情
// GET /api/v1/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	group, err := h.groupSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

// ListGroups 分组列表（周一到周五、周日，至多六组）
// GET /api/v1/groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, groups)
}

// UpdateGroup 更新分组（member_ids 非空时整体替换组员）
// PUT /api/v1/groups/:id
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	if !MustCheckModuleEdit(c, h.permSvc, "groups") {
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	group, err := h.groupSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 31001, "分组不存在")
	case errors.Is(err, service.ErrGroupWeekdayTaken):
		response.Conflict(c, 31002, "该星期已有分组")
	case errors.Is(err, service.ErrGroupMemberInvalid):
		response.BadRequest(c, 31003, "组员中存在无效用户")
	default:
		response.InternalError(c)
	}
}

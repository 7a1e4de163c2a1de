package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// PermissionHandler 板块权限 HTTP 处理器
type PermissionHandler struct {
	permSvc service.PermissionService
}

// NewPermissionHandler 创建 PermissionHandler
func NewPermissionHandler(permSvc service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permSvc: permSvc}
}

// ListPermissions 板块权限列表
// GET /api/v1/permissions
func (h *PermissionHandler) ListPermissions(c *gin.Context) {
	perms, err := h.permSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, perms)
}

// UpdatePermission 更新板块权限（仅管理员）
// PUT /api/v1/permissions/:module
func (h *PermissionHandler) UpdatePermission(c *gin.Context) {
	var req dto.UpdateModulePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	perm, err := h.permSvc.Update(c.Request.Context(), c.Param("module"), &req)
	if err != nil {
		if errors.Is(err, service.ErrModuleNotFound) {
			response.NotFound(c, 37001, "板块不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, perm)
}

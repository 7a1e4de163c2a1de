package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustCheckModuleEdit 板块编辑权限守卫。
// 提取当前角色并查询板块权限表，无权限时写入 403 响应并返回 false。
func MustCheckModuleEdit(c *gin.Context, permSvc service.PermissionService, moduleName string) bool {
	role, ok := MustGetRole(c)
	if !ok {
		return false
	}
	if err := permSvc.CheckEdit(c.Request.Context(), moduleName, role); err != nil {
		response.Forbidden(c, 10003, "当前角色无此板块的编辑权限")
		return false
	}
	return true
}

// MustParseDateParam 解析路径参数中的日期（"2006-01-02"）。
// 格式非法时写入 400 响应并返回 false。
func MustParseDateParam(c *gin.Context, name string) (time.Time, bool) {
	d, err := time.Parse(model.DateLayout, c.Param(name))
	if err != nil {
		response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

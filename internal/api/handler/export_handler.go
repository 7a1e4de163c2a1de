package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/service"
	"github.com/fengzishiyi/campus-radio/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeek 导出周播音表（Excel）
// GET /api/v1/export/week?start=2026-09-07
func (h *ExportHandler) ExportWeek(c *gin.Context) {
	startStr := c.Query("start")
	if startStr == "" {
		response.BadRequest(c, 10001, "start 不能为空")
		return
	}
	startDate, err := time.Parse(model.DateLayout, startStr)
	if err != nil {
		response.BadRequest(c, 10001, "日期格式非法，应为 YYYY-MM-DD")
		return
	}

	buf, filename, err := h.exportSvc.ExportWeek(c.Request.Context(), startDate)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoSchedules):
		response.NotFound(c, 33001, "该周暂无日程")
	default:
		response.InternalError(c)
	}
}

package handler

import (
	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Group        *GroupHandler
	Schedule     *ScheduleHandler
	Booking      *BookingHandler
	Calendar     *CalendarHandler
	Export       *ExportHandler
	Announcement *AnnouncementHandler
	Album        *AlbumHandler
	News         *NewsHandler
	Permission   *PermissionHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Group:        NewGroupHandler(svc.Group, svc.Permission),
		Schedule:     NewScheduleHandler(cfg, svc.Schedule, svc.Permission),
		Booking:      NewBookingHandler(svc.Booking, svc.Permission),
		Calendar:     NewCalendarHandler(svc.Calendar),
		Export:       NewExportHandler(svc.Export),
		Announcement: NewAnnouncementHandler(svc.Announcement, svc.Permission, svc.User),
		Album:        NewAlbumHandler(svc.Album, svc.Permission),
		News:         NewNewsHandler(svc.News, svc.Permission),
		Permission:   NewPermissionHandler(svc.Permission),
	}
}

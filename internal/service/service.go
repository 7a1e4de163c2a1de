package service

import (
	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/repository"
	"github.com/fengzishiyi/campus-radio/pkg/jwt"
	"github.com/fengzishiyi/campus-radio/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Permission   PermissionService
	Group        GroupService
	Schedule     ScheduleService
	Booking      BookingService
	Calendar     CalendarService
	Export       ExportService
	Announcement AnnouncementService
	Album        AlbumService
	News         NewsService
	Cleanup      *CleanupService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Permission:   NewPermissionService(repo, logger),
		Group:        NewGroupService(repo, logger),
		Schedule:     NewScheduleService(cfg, repo, rdb, logger),
		Booking:      NewBookingService(cfg, repo, logger),
		Calendar:     NewCalendarService(cfg, repo, logger),
		Export:       NewExportService(repo, logger),
		Announcement: NewAnnouncementService(repo, logger),
		Album:        NewAlbumService(repo, logger),
		News:         NewNewsService(repo, logger),
		Cleanup:      NewCleanupService(cfg, repo, logger),
	}
}

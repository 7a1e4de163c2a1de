package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/api/handler"
	"github.com/fengzishiyi/campus-radio/internal/api/middleware"
	"github.com/fengzishiyi/campus-radio/pkg/jwt"
	"github.com/fengzishiyi/campus-radio/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.BodyLimit(cfg.Media.MaxUploadSize + 1<<20))
	{
		// 认证模块（无需认证；登录注册带速率限制）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)
			authorized.POST("/auth/invites", middleware.RoleAuth("admin"), h.Auth.GenerateInvites)
			authorized.GET("/auth/invites", middleware.RoleAuth("admin"), h.Auth.ListInvites)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser) // admin 或本人（Handler 层鉴权）
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
			}

			// 周轮值分组模块
			groups := authorized.Group("/groups")
			{
				groups.GET("", h.Group.ListGroups)
				groups.GET("/:id", h.Group.GetGroup)
				groups.POST("", h.Group.CreateGroup)
				groups.PUT("/:id", h.Group.UpdateGroup)
			}

			// 日程模块（写操作经板块权限守卫）
			schedules := authorized.Group("/schedules")
			{
				schedules.POST("/week", h.Schedule.CreateWeek)
				schedules.DELETE("/programs/:id", h.Schedule.DeleteProgram)
				schedules.POST("/songs/:id/audio", h.Schedule.UploadSongAudio)
				schedules.DELETE("/songs/:id", h.Schedule.DeleteSong)
				schedules.GET("/:date", h.Schedule.GetSchedule)
				schedules.POST("/:date", h.Schedule.EnsureSchedule)
				schedules.PUT("/:date/anchors", h.Schedule.ReplaceAnchors)
				schedules.POST("/:date/fill-from-group", h.Schedule.FillFromGroup)
				schedules.POST("/:date/copy-previous", h.Schedule.CopyPreviousDay)
				schedules.POST("/:date/toggle-live", h.Schedule.ToggleLive)
				schedules.POST("/:date/programs", h.Schedule.AddProgram)
				schedules.POST("/:date/songs", h.Schedule.AddSong)
			}
			authorized.GET("/playlist/today", h.Schedule.TodayPlaylist)

			// 录音室预约模块
			bookings := authorized.Group("/bookings")
			{
				bookings.POST("", h.Booking.CreateBooking)
				bookings.GET("/my", h.Booking.MyBookings)
				bookings.DELETE("/:id", h.Booking.CancelBooking)
			}
			authorized.GET("/studio/days/:date", h.Booking.DayDetail)

			// 日历读模型
			calendar := authorized.Group("/calendar")
			{
				calendar.GET("/events", h.Calendar.ListEvents)
				calendar.GET("/export.ics", h.Calendar.ExportICS)
			}

			// 导出模块
			authorized.GET("/export/week", middleware.RoleAuth("admin", "anchor"), h.Export.ExportWeek)

			// 公告模块
			announcements := authorized.Group("/announcements")
			{
				announcements.GET("", h.Announcement.ListAnnouncements)
				announcements.GET("/:id", h.Announcement.GetAnnouncement)
				announcements.POST("", h.Announcement.CreateAnnouncement)
				announcements.PUT("/:id", h.Announcement.UpdateAnnouncement)
				announcements.DELETE("/:id", h.Announcement.DeleteAnnouncement)
				announcements.POST("/:id/read", h.Announcement.MarkRead)
			}

			// 长音频目录（喜马拉雅板块）
			albums := authorized.Group("/albums")
			{
				albums.GET("", h.Album.ListAlbums)
				albums.GET("/:id", h.Album.GetAlbum)
				albums.POST("", h.Album.CreateAlbum)
				albums.PUT("/:id", h.Album.UpdateAlbum)
				albums.DELETE("/:id", h.Album.DeleteAlbum)
				albums.POST("/:id/tracks", h.Album.AddTrack)
				albums.DELETE("/tracks/:id", h.Album.DeleteTrack)
				albums.POST("/tracks/:id/play", h.Album.RecordPlay)
				albums.PUT("/tracks/:id/script", h.Album.SaveScript)
			}

			// 新闻播报模块
			news := authorized.Group("/news")
			{
				news.GET("", h.News.ListNews)
				news.GET("/:id", h.News.GetNews)
				news.POST("", h.News.CreateNews)
				news.PUT("/:id", h.News.UpdateNews)
				news.DELETE("/:id", h.News.DeleteNews)
			}

			// 板块权限
			permissions := authorized.Group("/permissions")
			{
				permissions.GET("", h.Permission.ListPermissions)
				permissions.PUT("/:module", middleware.RoleAuth("admin"), h.Permission.UpdatePermission)
			}
		}
	}

	return r
}

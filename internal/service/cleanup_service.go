package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

// CleanupService 音频清理任务
// 歌曲音频仅当日有效：每晚按 cron 表达式扫描早于当日的挂载音频，
// 删除磁盘文件并置空数据库路径
type CleanupService struct {
	cfg    *config.Config
	repo   *repository.Repository
	cron   *cron.Cron
	logger *zap.Logger
}

// NewCleanupService 创建 CleanupService 实例
func NewCleanupService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		cfg:    cfg,
		repo:   repo,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start 注册并启动定时任务
func (s *CleanupService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.Media.CleanupCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.PurgeExpiredAudio(ctx, time.Now()); err != nil {
			s.logger.Error("音频清理任务失败", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("音频清理任务已启动", zap.String("cron", s.cfg.Media.CleanupCron))
	return nil
}

// Stop 停止定时任务，等待在途执行结束
func (s *CleanupService) Stop() {
	<-s.cron.Stop().Done()
}

// PurgeExpiredAudio 清理 now 当日之前的歌曲音频
// 文件删除失败不阻断数据库清理：磁盘残留可重试，悬空路径不可见即可
func (s *CleanupService) PurgeExpiredAudio(ctx context.Context, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	songs, err := s.repo.Schedule.ListSongsWithAudioByDate(ctx, today)
	if err != nil {
		return err
	}
	if len(songs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(songs))
	for i := range songs {
		ids = append(ids, songs[i].SongID)
		if songs[i].AudioFile == nil {
			continue
		}
		path := *songs[i].AudioFile
		// 只删除媒体根目录内的文件
		if !s.withinMediaRoot(path) {
			s.logger.Warn("跳过媒体目录外的音频路径", zap.String("path", path))
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("删除音频文件失败", zap.Error(err), zap.String("path", path))
		}
	}

	if err := s.repo.Schedule.ClearSongAudio(ctx, ids); err != nil {
		return err
	}

	s.logger.Info("音频清理完成", zap.Int("count", len(ids)))
	return nil
}

func (s *CleanupService) withinMediaRoot(path string) bool {
	root, err := filepath.Abs(s.cfg.Media.Root)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(abs, root+string(filepath.Separator))
}

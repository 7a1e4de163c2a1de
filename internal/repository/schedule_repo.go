package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
	pkgerrors "github.com/fengzishiyi/campus-radio/pkg/errors"
)

// ScheduleRepository 日程数据访问接口
type ScheduleRepository interface {
	// GetOrCreate 按日期取日程，不存在则创建；返回值第二项表示本次是否新建
	GetOrCreate(ctx context.Context, date time.Time, createdBy *string) (*model.DailySchedule, bool, error)
	GetByID(ctx context.Context, id string) (*model.DailySchedule, error)
	GetByDate(ctx context.Context, date time.Time) (*model.DailySchedule, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.DailySchedule, error)
	ReplaceAnchors(ctx context.Context, scheduleID string, userIDs []string) error
	SetLive(ctx context.Context, scheduleID string, isLive bool) error
	ReplaceDay(ctx context.Context, scheduleID string, anchorIDs []string, programs []model.Program, songs []model.Song) error

	AddProgram(ctx context.Context, program *model.Program) error
	GetProgram(ctx context.Context, programID string) (*model.Program, error)
	DeleteProgram(ctx context.Context, programID string) error

	AddSong(ctx context.Context, song *model.Song) error
	GetSong(ctx context.Context, songID string) (*model.Song, error)
	UpdateSong(ctx context.Context, song *model.Song) error
	DeleteSong(ctx context.Context, songID string) error
	MaxSongOrder(ctx context.Context, scheduleID string) (int, error)

	ListSongsWithAudioByDate(ctx context.Context, before time.Time) ([]model.Song, error)
	ClearSongAudio(ctx context.Context, songIDs []string) error
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

// GetOrCreate 查无则建。并发下两个请求同时插入时，
// 后到者撞 date 唯一约束，改为读取对方已建的行
func (r *scheduleRepo) GetOrCreate(ctx context.Context, date time.Time, createdBy *string) (*model.DailySchedule, bool, error) {
	existing, err := r.GetByDate(ctx, date)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	schedule := &model.DailySchedule{
		Date:      date,
		CreatedBy: createdBy,
	}
	err = r.db.WithContext(ctx).Create(schedule).Error
	if err == nil {
		return schedule, true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || pkgerrors.IsUniqueViolation(err) {
		existing, rerr := r.GetByDate(ctx, date)
		if rerr != nil {
			return nil, false, rerr
		}
		return existing, false, nil
	}
	return nil, false, err
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.DailySchedule, error) {
	var schedule model.DailySchedule
	err := r.db.WithContext(ctx).
		Preload("Anchors").
		Preload("Programs", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("schedule_id = ?", id).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepo) GetByDate(ctx context.Context, date time.Time) (*model.DailySchedule, error) {
	var schedule model.DailySchedule
	err := r.db.WithContext(ctx).
		Preload("Anchors").
		Preload("Programs", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Songs", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("date = ?", date).
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// ListByDateRange 按日期区间取日程（含两端），预加载主播用于日历展示
func (r *scheduleRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.DailySchedule, error) {
	var schedules []model.DailySchedule
	err := r.db.WithContext(ctx).
		Preload("Anchors").
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&schedules).Error
	return schedules, err
}

// ReplaceAnchors 整体替换当日主播集合（仅操作连接表）
func (r *scheduleRepo) ReplaceAnchors(ctx context.Context, scheduleID string, userIDs []string) error {
	users := make([]model.User, 0, len(userIDs))
	for _, id := range userIDs {
		users = append(users, model.User{UserID: id})
	}
	return r.db.WithContext(ctx).
		Model(&model.DailySchedule{ScheduleID: scheduleID}).
		Association("Anchors").
		Replace(users)
}

func (r *scheduleRepo) SetLive(ctx context.Context, scheduleID string, isLive bool) error {
	result := r.db.WithContext(ctx).
		Model(&model.DailySchedule{}).
		Where("schedule_id = ?", scheduleID).
		Update("is_live", isLive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceDay 整体替换某日的主播、节目与歌曲（单事务，跨日复制用）
// 任一步失败则全部回滚，目标日维持原状
func (r *scheduleRepo) ReplaceDay(ctx context.Context, scheduleID string, anchorIDs []string, programs []model.Program, songs []model.Song) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		anchors := make([]model.User, 0, len(anchorIDs))
		for _, id := range anchorIDs {
			anchors = append(anchors, model.User{UserID: id})
		}
		if err := tx.Model(&model.DailySchedule{ScheduleID: scheduleID}).
			Association("Anchors").
			Replace(anchors); err != nil {
			return err
		}

		if err := tx.Where("schedule_id = ?", scheduleID).Delete(&model.Program{}).Error; err != nil {
			return err
		}
		if err := tx.Where("schedule_id = ?", scheduleID).Delete(&model.Song{}).Error; err != nil {
			return err
		}

		for i := range programs {
			programs[i].ProgramID = ""
			programs[i].ScheduleID = scheduleID
		}
		if len(programs) > 0 {
			if err := tx.Create(&programs).Error; err != nil {
				return err
			}
		}
		for i := range songs {
			songs[i].SongID = ""
			songs[i].ScheduleID = scheduleID
		}
		if len(songs) > 0 {
			if err := tx.Create(&songs).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ── 节目 ──

func (r *scheduleRepo) AddProgram(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *scheduleRepo) GetProgram(ctx context.Context, programID string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		First(&program).Error
	if err != nil {
		return nil, err
	}
	return &program, nil
}

func (r *scheduleRepo) DeleteProgram(ctx context.Context, programID string) error {
	result := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Delete(&model.Program{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── 歌曲 ──

func (r *scheduleRepo) AddSong(ctx context.Context, song *model.Song) error {
	return r.db.WithContext(ctx).Create(song).Error
}

func (r *scheduleRepo) GetSong(ctx context.Context, songID string) (*model.Song, error) {
	var song model.Song
	err := r.db.WithContext(ctx).
		Where("song_id = ?", songID).
		First(&song).Error
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *scheduleRepo) UpdateSong(ctx context.Context, song *model.Song) error {
	return r.db.WithContext(ctx).
		Model(song).
		Where("song_id = ?", song.SongID).
		Updates(map[string]interface{}{
			"title":      song.Title,
			"artist":     song.Artist,
			"audio_file": song.AudioFile,
			"sort_order": song.SortOrder,
		}).Error
}

func (r *scheduleRepo) DeleteSong(ctx context.Context, songID string) error {
	result := r.db.WithContext(ctx).
		Where("song_id = ?", songID).
		Delete(&model.Song{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MaxSongOrder 当日歌曲的最大排序号，无歌曲时为 0
func (r *scheduleRepo) MaxSongOrder(ctx context.Context, scheduleID string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Song{}).
		Where("schedule_id = ?", scheduleID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// ListSongsWithAudioByDate 取指定日期之前（不含当日）仍挂着音频文件的歌曲，供清理任务使用
func (r *scheduleRepo) ListSongsWithAudioByDate(ctx context.Context, before time.Time) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.WithContext(ctx).
		Joins("JOIN daily_schedules ON daily_schedules.schedule_id = songs.schedule_id").
		Where("daily_schedules.date < ? AND songs.audio_file IS NOT NULL", before).
		Find(&songs).Error
	return songs, err
}

// ClearSongAudio 批量置空音频路径
func (r *scheduleRepo) ClearSongAudio(ctx context.Context, songIDs []string) error {
	if len(songIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Song{}).
		Where("song_id IN ?", songIDs).
		Update("audio_file", nil).Error
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
	"github.com/fengzishiyi/campus-radio/pkg/redis"
)

// ── 日程模块业务错误 ──

var (
	ErrScheduleNotFound = errors.New("日程不存在")
	ErrProgramNotFound  = errors.New("节目不存在")
	ErrSongNotFound     = errors.New("歌曲不存在")
	ErrAnchorInvalid    = errors.New("主播列表中存在无效用户")
)

// ScheduleService 日程业务接口
// 日程按日期"查无则建"；填充、复制、建周均为幂等的整体替换语义
type ScheduleService interface {
	GetOrCreateByDate(ctx context.Context, date time.Time, callerID string) (*dto.ScheduleResponse, error)
	GetByDate(ctx context.Context, date time.Time) (*dto.ScheduleResponse, error)
	ReplaceAnchors(ctx context.Context, date time.Time, anchorIDs []string, callerID string) (*dto.ScheduleResponse, error)
	FillFromGroup(ctx context.Context, date time.Time, callerID string) (*dto.FillFromGroupResult, error)
	CopyPreviousDay(ctx context.Context, date time.Time, callerID string) (*dto.CopyPreviousDayResult, error)
	CreateWeek(ctx context.Context, startDate time.Time, callerID string) (*dto.CreateWeekResult, error)
	ToggleLive(ctx context.Context, date time.Time, callerID string) (*dto.ToggleLiveResult, error)

	AddProgram(ctx context.Context, date time.Time, req *dto.AddProgramRequest, callerID string) (*dto.ProgramResponse, error)
	DeleteProgram(ctx context.Context, programID string) error
	AddSong(ctx context.Context, date time.Time, req *dto.AddSongRequest, callerID string) (*dto.SongResponse, error)
	AttachSongAudio(ctx context.Context, songID, filePath string) (*dto.SongResponse, error)
	DeleteSong(ctx context.Context, songID string) error
	TodayPlaylist(ctx context.Context, now time.Time) (*dto.TodayPlaylistResponse, error)
}

type scheduleService struct {
	cfg    *config.Config
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(cfg *config.Config, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) ScheduleService {
	return &scheduleService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

// isoWeekday ISO 星期值: 1=周一 … 7=周日
func isoWeekday(d time.Time) int {
	return (int(d.Weekday())+6)%7 + 1
}

func (s *scheduleService) GetOrCreateByDate(ctx context.Context, date time.Time, callerID string) (*dto.ScheduleResponse, error) {
	schedule, created, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
	if err != nil {
		s.logger.Error("取日程失败", zap.Error(err), zap.Time("date", date))
		return nil, err
	}
	if created {
		s.logger.Info("日程创建", zap.String("schedule_id", schedule.ScheduleID), zap.Time("date", date))
	}
	resp := toScheduleResponse(schedule)
	return &resp, nil
}

func (s *scheduleService) GetByDate(ctx context.Context, date time.Time) (*dto.ScheduleResponse, error) {
	schedule, err := s.repo.Schedule.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	resp := toScheduleResponse(schedule)
	return &resp, nil
}

// ReplaceAnchors 整体替换当日主播
func (s *scheduleService) ReplaceAnchors(ctx context.Context, date time.Time, anchorIDs []string, callerID string) (*dto.ScheduleResponse, error) {
	schedule, _, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
	if err != nil {
		return nil, err
	}

	anchorIDs = uniqueStrings(anchorIDs)
	if len(anchorIDs) > 0 {
		users, err := s.repo.User.GetByIDs(ctx, anchorIDs)
		if err != nil {
			return nil, err
		}
		if len(users) != len(anchorIDs) {
			return nil, ErrAnchorInvalid
		}
	}

	if err := s.repo.Schedule.ReplaceAnchors(ctx, schedule.ScheduleID, anchorIDs); err != nil {
		s.logger.Error("替换主播失败", zap.Error(err))
		return nil, err
	}
	return s.GetByDate(ctx, date)
}

// FillFromGroup 按星期解析轮值分组并整体填充当日主播
// 组长排第一位，组员按组内顺序跟随，重复成员去重；
// 当天星期没有分组时返回软结果，不报错
func (s *scheduleService) FillFromGroup(ctx context.Context, date time.Time, callerID string) (*dto.FillFromGroupResult, error) {
	weekday := isoWeekday(date)

	group, err := s.repo.Group.GetByWeekday(ctx, weekday)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.FillFromGroupResult{
				Outcome: dto.FillOutcomeNoGroup,
				Weekday: weekday,
			}, nil
		}
		return nil, err
	}

	schedule, _, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
	if err != nil {
		return nil, err
	}

	anchorIDs := make([]string, 0, len(group.Members)+1)
	if group.LeaderID != nil {
		anchorIDs = append(anchorIDs, *group.LeaderID)
	}
	for i := range group.Members {
		anchorIDs = append(anchorIDs, group.Members[i].UserID)
	}
	anchorIDs = uniqueStrings(anchorIDs)

	if err := s.repo.Schedule.ReplaceAnchors(ctx, schedule.ScheduleID, anchorIDs); err != nil {
		s.logger.Error("填充主播失败", zap.Error(err), zap.String("group_id", group.GroupID))
		return nil, err
	}

	return &dto.FillFromGroupResult{
		Outcome:     dto.FillOutcomeFilled,
		GroupName:   group.Name,
		Weekday:     weekday,
		AnchorCount: len(anchorIDs),
	}, nil
}

// CopyPreviousDay 把前一日的主播、节目、歌曲整体复制到指定日期
// 目标日既有内容被整体覆盖（单事务，失败则目标日维持原状）；
// 歌曲只复制元数据，音频文件绝不跨日携带
func (s *scheduleService) CopyPreviousDay(ctx context.Context, date time.Time, callerID string) (*dto.CopyPreviousDayResult, error) {
	sourceDate := date.AddDate(0, 0, -1)

	source, err := s.repo.Schedule.GetByDate(ctx, sourceDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CopyPreviousDayResult{
				Outcome:    dto.CopyOutcomeNoSource,
				SourceDate: sourceDate.Format(model.DateLayout),
			}, nil
		}
		return nil, err
	}

	target, _, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
	if err != nil {
		return nil, err
	}

	anchorIDs := make([]string, 0, len(source.Anchors))
	for i := range source.Anchors {
		anchorIDs = append(anchorIDs, source.Anchors[i].UserID)
	}

	programs := make([]model.Program, 0, len(source.Programs))
	for _, p := range source.Programs {
		programs = append(programs, model.Program{
			Name:      p.Name,
			TimeSlot:  p.TimeSlot,
			SortOrder: p.SortOrder,
		})
	}
	songs := make([]model.Song, 0, len(source.Songs))
	for _, song := range source.Songs {
		songs = append(songs, model.Song{
			Title:     song.Title,
			Artist:    song.Artist,
			SortOrder: song.SortOrder,
			// AudioFile 置空: 音频为当日有效资源
		})
	}

	if err := s.repo.Schedule.ReplaceDay(ctx, target.ScheduleID, anchorIDs, programs, songs); err != nil {
		s.logger.Error("跨日复制失败", zap.Error(err),
			zap.Time("source", sourceDate), zap.Time("target", date))
		return nil, err
	}

	s.invalidatePlaylist(ctx, date)
	s.logger.Info("跨日复制完成",
		zap.String("source", sourceDate.Format(model.DateLayout)),
		zap.String("target", date.Format(model.DateLayout)))

	return &dto.CopyPreviousDayResult{
		Outcome:      dto.CopyOutcomeCopied,
		SourceDate:   sourceDate.Format(model.DateLayout),
		AnchorCount:  len(anchorIDs),
		ProgramCount: len(programs),
		SongCount:    len(songs),
	}, nil
}

// CreateWeek 从起始日期连建 7 天日程并逐日按分组填充
// 尽力而为：单日失败不影响其余日；CreatedCount 只统计本次新建的行
func (s *scheduleService) CreateWeek(ctx context.Context, startDate time.Time, callerID string) (*dto.CreateWeekResult, error) {
	result := &dto.CreateWeekResult{Days: make([]dto.CreateWeekDayResult, 0, 7)}

	for i := 0; i < 7; i++ {
		date := startDate.AddDate(0, 0, i)
		day := dto.CreateWeekDayResult{Date: date.Format(model.DateLayout)}

		_, created, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
		if err != nil {
			s.logger.Warn("建周单日失败", zap.Error(err), zap.Time("date", date))
			continue
		}
		if created {
			day.Outcome = dto.WeekDayOutcomeCreated
			result.CreatedCount++
		} else {
			day.Outcome = dto.WeekDayOutcomeExisted
		}

		fill, err := s.FillFromGroup(ctx, date, callerID)
		if err != nil {
			s.logger.Warn("建周填充失败", zap.Error(err), zap.Time("date", date))
		} else {
			day.FillResult = fill.Outcome
		}

		result.Days = append(result.Days, day)
	}

	return result, nil
}

// ToggleLive 切换当日直播标记
func (s *scheduleService) ToggleLive(ctx context.Context, date time.Time, callerID string) (*dto.ToggleLiveResult, error) {
	schedule, _, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
	if err != nil {
		return nil, err
	}

	newState := !schedule.IsLive
	if err := s.repo.Schedule.SetLive(ctx, schedule.ScheduleID, newState); err != nil {
		return nil, err
	}

	s.logger.Info("直播标记切换",
		zap.String("date", date.Format(model.DateLayout)),
		zap.Bool("is_live", newState))
	return &dto.ToggleLiveResult{
		Date:   date.Format(model.DateLayout),
		IsLive: newState,
	}, nil
}

// ── 节目 ──

func (s *scheduleService) AddProgram(ctx context.Context, date time.Time, req *dto.AddProgramRequest, callerID string) (*dto.ProgramResponse, error) {
	schedule, _, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
	if err != nil {
		return nil, err
	}

	program := &model.Program{
		ScheduleID: schedule.ScheduleID,
		Name:       req.Name,
		TimeSlot:   req.TimeSlot,
		SortOrder:  req.SortOrder,
	}
	if err := s.repo.Schedule.AddProgram(ctx, program); err != nil {
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}

func (s *scheduleService) DeleteProgram(ctx context.Context, programID string) error {
	err := s.repo.Schedule.DeleteProgram(ctx, programID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProgramNotFound
	}
	return err
}

// ── 歌曲 ──

// AddSong 添加歌曲；未指定排序号时排到当日末尾
func (s *scheduleService) AddSong(ctx context.Context, date time.Time, req *dto.AddSongRequest, callerID string) (*dto.SongResponse, error) {
	schedule, _, err := s.repo.Schedule.GetOrCreate(ctx, date, &callerID)
	if err != nil {
		return nil, err
	}

	sortOrder := req.SortOrder
	if sortOrder == 0 {
		max, err := s.repo.Schedule.MaxSongOrder(ctx, schedule.ScheduleID)
		if err != nil {
			return nil, err
		}
		sortOrder = max + 1
	}

	song := &model.Song{
		ScheduleID: schedule.ScheduleID,
		Title:      req.Title,
		Artist:     req.Artist,
		SortOrder:  sortOrder,
	}
	if err := s.repo.Schedule.AddSong(ctx, song); err != nil {
		return nil, err
	}

	s.invalidatePlaylist(ctx, date)
	resp := toSongResponse(song)
	return &resp, nil
}

// AttachSongAudio 给歌曲挂当日音频文件
func (s *scheduleService) AttachSongAudio(ctx context.Context, songID, filePath string) (*dto.SongResponse, error) {
	song, err := s.repo.Schedule.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSongNotFound
		}
		return nil, err
	}

	song.AudioFile = &filePath
	if err := s.repo.Schedule.UpdateSong(ctx, song); err != nil {
		return nil, err
	}

	if schedule, serr := s.repo.Schedule.GetByID(ctx, song.ScheduleID); serr == nil {
		s.invalidatePlaylist(ctx, schedule.Date)
	}
	resp := toSongResponse(song)
	return &resp, nil
}

func (s *scheduleService) DeleteSong(ctx context.Context, songID string) error {
	song, err := s.repo.Schedule.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSongNotFound
		}
		return err
	}
	if err := s.repo.Schedule.DeleteSong(ctx, songID); err != nil {
		return err
	}
	if schedule, serr := s.repo.Schedule.GetByID(ctx, song.ScheduleID); serr == nil {
		s.invalidatePlaylist(ctx, schedule.Date)
	}
	return nil
}

// TodayPlaylist 今日歌单，走 Redis 缓存（当日内短 TTL，写操作时失效）
func (s *scheduleService) TodayPlaylist(ctx context.Context, now time.Time) (*dto.TodayPlaylistResponse, error) {
	dateStr := now.Format(model.DateLayout)

	if s.rdb != nil {
		if raw, err := s.rdb.GetDailyPlaylist(ctx, dateStr); err == nil && raw != nil {
			var cached dto.TodayPlaylistResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	resp := &dto.TodayPlaylistResponse{Date: dateStr, Songs: []dto.SongResponse{}}

	date, _ := time.Parse(model.DateLayout, dateStr)
	schedule, err := s.repo.Schedule.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		for i := range schedule.Songs {
			resp.Songs = append(resp.Songs, toSongResponse(&schedule.Songs[i]))
		}
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			ttl := time.Until(date.AddDate(0, 0, 1))
			if ttl > 0 {
				if cerr := s.rdb.SetDailyPlaylist(ctx, dateStr, raw, ttl); cerr != nil {
					s.logger.Warn("歌单缓存写入失败", zap.Error(cerr))
				}
			}
		}
	}
	return resp, nil
}

func (s *scheduleService) invalidatePlaylist(ctx context.Context, date time.Time) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.InvalidateDailyPlaylist(ctx, date.Format(model.DateLayout)); err != nil {
		s.logger.Warn("歌单缓存失效失败", zap.Error(err))
	}
}

// ── DTO 转换 ──

func toScheduleResponse(m *model.DailySchedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ID:        m.ScheduleID,
		Date:      m.Date.Format(model.DateLayout),
		Weekday:   isoWeekday(m.Date),
		IsLive:    m.IsLive,
		Anchors:   toUserBriefs(m.Anchors),
		Programs:  make([]dto.ProgramResponse, 0, len(m.Programs)),
		Songs:     make([]dto.SongResponse, 0, len(m.Songs)),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	for i := range m.Programs {
		resp.Programs = append(resp.Programs, toProgramResponse(&m.Programs[i]))
	}
	for i := range m.Songs {
		resp.Songs = append(resp.Songs, toSongResponse(&m.Songs[i]))
	}
	return resp
}

func toProgramResponse(p *model.Program) dto.ProgramResponse {
	return dto.ProgramResponse{
		ID:        p.ProgramID,
		Name:      p.Name,
		TimeSlot:  p.TimeSlot,
		SortOrder: p.SortOrder,
	}
}

func toSongResponse(song *model.Song) dto.SongResponse {
	resp := dto.SongResponse{
		ID:        song.SongID,
		Title:     song.Title,
		Artist:    song.Artist,
		SortOrder: song.SortOrder,
	}
	if song.AudioFile != nil {
		resp.AudioFile = *song.AudioFile
	}
	return resp
}

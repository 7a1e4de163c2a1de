package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

// ── 长音频目录业务错误 ──

var (
	ErrAlbumNotFound = errors.New("专辑不存在")
	ErrTrackNotFound = errors.New("音频不存在")
)

// AlbumService 长音频目录业务接口（喜马拉雅部内容库）
// 音频为外链，站内只维护目录、文稿与播放计数
type AlbumService interface {
	Create(ctx context.Context, creatorID string, req *dto.CreateAlbumRequest) (*dto.AlbumResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AlbumResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.AlbumResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateAlbumRequest) (*dto.AlbumResponse, error)
	Delete(ctx context.Context, id string) error

	AddTrack(ctx context.Context, albumID, uploaderID string, req *dto.AddTrackRequest) (*dto.TrackResponse, error)
	DeleteTrack(ctx context.Context, trackID string) error
	RecordPlay(ctx context.Context, trackID string) error
	SaveScript(ctx context.Context, trackID, authorID string, req *dto.SaveScriptRequest) (*dto.ScriptResponse, error)
}

type albumService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAlbumService 创建 AlbumService 实例
func NewAlbumService(repo *repository.Repository, logger *zap.Logger) AlbumService {
	return &albumService{repo: repo, logger: logger}
}

func (s *albumService) Create(ctx context.Context, creatorID string, req *dto.CreateAlbumRequest) (*dto.AlbumResponse, error) {
	album := &model.Album{
		Title:         req.Title,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		CreatedBy:     creatorID,
	}
	if err := s.repo.Album.Create(ctx, album); err != nil {
		s.logger.Error("创建专辑失败", zap.Error(err))
		return nil, err
	}
	resp := toAlbumResponse(album)
	return &resp, nil
}

func (s *albumService) GetByID(ctx context.Context, id string) (*dto.AlbumResponse, error) {
	album, err := s.repo.Album.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	resp := toAlbumResponse(album)
	return &resp, nil
}

func (s *albumService) List(ctx context.Context, page, pageSize int) ([]dto.AlbumResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	albums, total, err := s.repo.Album.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.AlbumResponse, 0, len(albums))
	for i := range albums {
		list = append(list, toAlbumResponse(&albums[i]))
	}
	return list, total, nil
}

func (s *albumService) Update(ctx context.Context, id string, req *dto.UpdateAlbumRequest) (*dto.AlbumResponse, error) {
	album, err := s.repo.Album.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		album.Title = *req.Title
	}
	if req.Description != nil {
		album.Description = *req.Description
	}
	if req.CoverImageURL != nil {
		album.CoverImageURL = *req.CoverImageURL
	}
	if err := s.repo.Album.Update(ctx, album); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *albumService) Delete(ctx context.Context, id string) error {
	err := s.repo.Album.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAlbumNotFound
	}
	return err
}

// AddTrack 添加音频轨道；未指定排序号时排到专辑末尾
func (s *albumService) AddTrack(ctx context.Context, albumID, uploaderID string, req *dto.AddTrackRequest) (*dto.TrackResponse, error) {
	if _, err := s.repo.Album.GetByID(ctx, albumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}

	sortOrder := req.SortOrder
	if sortOrder == 0 {
		max, err := s.repo.Album.MaxTrackOrder(ctx, albumID)
		if err != nil {
			return nil, err
		}
		sortOrder = max + 1
	}

	track := &model.AudioTrack{
		AlbumID:     albumID,
		Title:       req.Title,
		AudioSource: req.AudioSource,
		AudioURL:    req.AudioURL,
		Duration:    req.Duration,
		SortOrder:   sortOrder,
		UploadedBy:  uploaderID,
		UploadedAt:  time.Now(),
	}
	if err := s.repo.Album.AddTrack(ctx, track); err != nil {
		s.logger.Error("添加音频失败", zap.Error(err), zap.String("album_id", albumID))
		return nil, err
	}
	resp := toTrackResponse(track)
	return &resp, nil
}

func (s *albumService) DeleteTrack(ctx context.Context, trackID string) error {
	err := s.repo.Album.DeleteTrack(ctx, trackID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTrackNotFound
	}
	return err
}

func (s *albumService) RecordPlay(ctx context.Context, trackID string) error {
	if _, err := s.repo.Album.GetTrack(ctx, trackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrackNotFound
		}
		return err
	}
	return s.repo.Album.IncrementPlayCount(ctx, trackID)
}

// SaveScript 保存音频文稿（新建或覆盖，1:1）
func (s *albumService) SaveScript(ctx context.Context, trackID, authorID string, req *dto.SaveScriptRequest) (*dto.ScriptResponse, error) {
	if _, err := s.repo.Album.GetTrack(ctx, trackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, err
	}

	script := &model.Script{
		TrackID:  trackID,
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := s.repo.Album.UpsertScript(ctx, script); err != nil {
		s.logger.Error("保存文稿失败", zap.Error(err), zap.String("track_id", trackID))
		return nil, err
	}

	saved, err := s.repo.Album.GetScriptByTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	resp := toScriptResponse(saved)
	return &resp, nil
}

func toAlbumResponse(a *model.Album) dto.AlbumResponse {
	resp := dto.AlbumResponse{
		ID:            a.AlbumID,
		Title:         a.Title,
		Description:   a.Description,
		CoverImageURL: a.CoverImageURL,
		TrackCount:    len(a.Tracks),
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
	for i := range a.Tracks {
		resp.Tracks = append(resp.Tracks, toTrackResponse(&a.Tracks[i]))
	}
	return resp
}

func toTrackResponse(t *model.AudioTrack) dto.TrackResponse {
	resp := dto.TrackResponse{
		ID:          t.TrackID,
		Title:       t.Title,
		AudioSource: t.AudioSource,
		AudioURL:    t.AudioURL,
		Duration:    t.Duration,
		SortOrder:   t.SortOrder,
		PlayCount:   t.PlayCount,
	}
	if t.Script != nil {
		script := toScriptResponse(t.Script)
		resp.Script = &script
	}
	return resp
}

func toScriptResponse(sc *model.Script) dto.ScriptResponse {
	return dto.ScriptResponse{
		ID:      sc.ScriptID,
		Title:   sc.Title,
		Content: sc.Content,
	}
}

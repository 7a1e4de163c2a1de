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

// ── 公告模块业务错误 ──

var (
	ErrAnnouncementNotFound = errors.New("公告不存在")
	ErrExpireTimeInvalid    = errors.New("过期时间格式非法")
)

// AnnouncementService 公告业务接口
type AnnouncementService interface {
	Create(ctx context.Context, publisherID string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	GetByID(ctx context.Context, id, viewerID string) (*dto.AnnouncementResponse, error)
	List(ctx context.Context, viewerID, viewerDepartment string, req *dto.AnnouncementListRequest) ([]dto.AnnouncementResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id, userID string) error
}

type announcementService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(repo *repository.Repository, logger *zap.Logger) AnnouncementService {
	return &announcementService{repo: repo, logger: logger}
}

func (s *announcementService) Create(ctx context.Context, publisherID string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	expire, err := parseExpireTime(req.ExpireTime)
	if err != nil {
		return nil, err
	}

	announcement := &model.Announcement{
		Title:            req.Title,
		Content:          req.Content,
		Type:             defaultString(req.Type, model.AnnouncementTypeNotice),
		IsPinned:         req.IsPinned,
		TargetDepartment: defaultString(req.TargetDepartment, "all"),
		PublisherID:      publisherID,
		PublishTime:      time.Now(),
		ExpireTime:       expire,
	}
	if err := s.repo.Announcement.Create(ctx, announcement); err != nil {
		s.logger.Error("发布公告失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("公告发布",
		zap.String("announcement_id", announcement.AnnouncementID),
		zap.String("type", announcement.Type))
	return s.GetByID(ctx, announcement.AnnouncementID, publisherID)
}

func (s *announcementService) GetByID(ctx context.Context, id, viewerID string) (*dto.AnnouncementResponse, error) {
	announcement, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	read := false
	if viewerID != "" {
		readMap, err := s.repo.Announcement.ReadIDsByUser(ctx, viewerID, []string{id})
		if err == nil {
			read = readMap[id]
		}
	}
	resp := toAnnouncementResponse(announcement, read)
	return &resp, nil
}

// List 公告列表；按查看者部门过滤目标部门，并附带该用户的已读标记
func (s *announcementService) List(ctx context.Context, viewerID, viewerDepartment string, req *dto.AnnouncementListRequest) ([]dto.AnnouncementResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	dept := viewerDepartment
	if dept == model.DepartmentBoth {
		dept = "" // 两部门兼任的看全部
	}

	announcements, total, err := s.repo.Announcement.List(ctx, dept, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(announcements))
	for i := range announcements {
		ids = append(ids, announcements[i].AnnouncementID)
	}
	readMap := map[string]bool{}
	if viewerID != "" {
		if m, err := s.repo.Announcement.ReadIDsByUser(ctx, viewerID, ids); err == nil {
			readMap = m
		}
	}

	list := make([]dto.AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		a := &announcements[i]
		list = append(list, toAnnouncementResponse(a, readMap[a.AnnouncementID]))
	}
	return list, total, nil
}

func (s *announcementService) Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	announcement, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Content != nil {
		announcement.Content = *req.Content
	}
	if req.Type != nil {
		announcement.Type = *req.Type
	}
	if req.IsPinned != nil {
		announcement.IsPinned = *req.IsPinned
	}
	if req.TargetDepartment != nil {
		announcement.TargetDepartment = *req.TargetDepartment
	}
	if req.ExpireTime != nil {
		expire, err := parseExpireTime(req.ExpireTime)
		if err != nil {
			return nil, err
		}
		announcement.ExpireTime = expire
	}

	if err := s.repo.Announcement.Update(ctx, announcement); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id, "")
}

func (s *announcementService) Delete(ctx context.Context, id string) error {
	err := s.repo.Announcement.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAnnouncementNotFound
	}
	return err
}

func (s *announcementService) MarkRead(ctx context.Context, id, userID string) error {
	if _, err := s.repo.Announcement.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	return s.repo.Announcement.MarkRead(ctx, id, userID)
}

func toAnnouncementResponse(a *model.Announcement, read bool) dto.AnnouncementResponse {
	resp := dto.AnnouncementResponse{
		ID:               a.AnnouncementID,
		Title:            a.Title,
		Content:          a.Content,
		Type:             a.Type,
		IsPinned:         a.IsPinned,
		TargetDepartment: a.TargetDepartment,
		PublishTime:      a.PublishTime.Format(time.RFC3339),
		IsExpired:        a.IsExpired(time.Now()),
		IsRead:           read,
	}
	if a.Publisher != nil {
		brief := toUserBrief(a.Publisher)
		resp.Publisher = &brief
	}
	if a.ExpireTime != nil {
		resp.ExpireTime = a.ExpireTime.Format(time.RFC3339)
	}
	return resp
}

func parseExpireTime(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, ErrExpireTimeInvalid
	}
	return &t, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

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

// ── 新闻播报业务错误 ──

var ErrNewsNotFound = errors.New("新闻不存在")

// NewsService 新闻播报业务接口
type NewsService interface {
	Create(ctx context.Context, reporterID string, req *dto.CreateNewsRequest) (*dto.NewsResponse, error)
	GetByID(ctx context.Context, id string) (*dto.NewsResponse, error)
	List(ctx context.Context, req *dto.NewsListRequest) ([]dto.NewsResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateNewsRequest) (*dto.NewsResponse, error)
	Delete(ctx context.Context, id string) error
}

type newsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNewsService 创建 NewsService 实例
func NewNewsService(repo *repository.Repository, logger *zap.Logger) NewsService {
	return &newsService{repo: repo, logger: logger}
}

func (s *newsService) Create(ctx context.Context, reporterID string, req *dto.CreateNewsRequest) (*dto.NewsResponse, error) {
	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	item := &model.NewsItem{
		Date:       date,
		Title:      req.Title,
		AudioURL:   req.AudioURL,
		ScriptText: req.ScriptText,
		ReporterID: reporterID,
	}
	if err := s.repo.News.Create(ctx, item); err != nil {
		s.logger.Error("创建新闻失败", zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, item.NewsItemID)
}

func (s *newsService) GetByID(ctx context.Context, id string) (*dto.NewsResponse, error) {
	item, err := s.repo.News.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}
	resp := toNewsResponse(item)
	return &resp, nil
}

// List 新闻列表；未给范围时默认取最近 30 天
func (s *newsService) List(ctx context.Context, req *dto.NewsListRequest) ([]dto.NewsResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	from := now.AddDate(0, 0, -30)
	to := now
	if req.Start != "" {
		if t, err := time.Parse(model.DateLayout, req.Start); err == nil {
			from = t
		}
	}
	if req.End != "" {
		if t, err := time.Parse(model.DateLayout, req.End); err == nil {
			to = t
		}
	}

	items, total, err := s.repo.News.ListByDateRange(ctx, from, to, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.NewsResponse, 0, len(items))
	for i := range items {
		list = append(list, toNewsResponse(&items[i]))
	}
	return list, total, nil
}

func (s *newsService) Update(ctx context.Context, id string, req *dto.UpdateNewsRequest) (*dto.NewsResponse, error) {
	item, err := s.repo.News.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.AudioURL != nil {
		item.AudioURL = *req.AudioURL
	}
	if req.ScriptText != nil {
		item.ScriptText = *req.ScriptText
	}
	if err := s.repo.News.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *newsService) Delete(ctx context.Context, id string) error {
	err := s.repo.News.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNewsNotFound
	}
	return err
}

func toNewsResponse(n *model.NewsItem) dto.NewsResponse {
	resp := dto.NewsResponse{
		ID:         n.NewsItemID,
		Date:       n.Date.Format(model.DateLayout),
		Title:      n.Title,
		AudioURL:   n.AudioURL,
		ScriptText: n.ScriptText,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
	if n.Reporter != nil {
		brief := toUserBrief(n.Reporter)
		resp.Reporter = &brief
	}
	return resp
}

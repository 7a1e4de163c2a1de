package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
)

// NewsRepository 新闻播报数据访问接口
type NewsRepository interface {
	Create(ctx context.Context, item *model.NewsItem) error
	GetByID(ctx context.Context, id string) (*model.NewsItem, error)
	ListByDateRange(ctx context.Context, from, to time.Time, offset, limit int) ([]model.NewsItem, int64, error)
	Update(ctx context.Context, item *model.NewsItem) error
	Delete(ctx context.Context, id string) error
}

type newsRepo struct {
	db *gorm.DB
}

// NewNewsRepo 创建 NewsRepository 实例
func NewNewsRepo(db *gorm.DB) NewsRepository {
	return &newsRepo{db: db}
}

func (r *newsRepo) Create(ctx context.Context, item *model.NewsItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *newsRepo) GetByID(ctx context.Context, id string) (*model.NewsItem, error) {
	var item model.NewsItem
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Where("news_item_id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *newsRepo) ListByDateRange(ctx context.Context, from, to time.Time, offset, limit int) ([]model.NewsItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.NewsItem{}).
		Where("date >= ? AND date <= ?", from, to)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.NewsItem
	err := query.
		Preload("Reporter").
		Order("date DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, total, err
}

func (r *newsRepo) Update(ctx context.Context, item *model.NewsItem) error {
	return r.db.WithContext(ctx).
		Model(item).
		Where("news_item_id = ?", item.NewsItemID).
		Updates(map[string]interface{}{
			"date":        item.Date,
			"title":       item.Title,
			"audio_url":   item.AudioURL,
			"script_text": item.ScriptText,
		}).Error
}

func (r *newsRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("news_item_id = ?", id).
		Delete(&model.NewsItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

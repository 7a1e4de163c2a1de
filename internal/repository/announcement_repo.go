package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *model.Announcement) error
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	// List 分页取公告，置顶优先；department 过滤目标部门（含 all），空串不过滤
	List(ctx context.Context, department string, offset, limit int) ([]model.Announcement, int64, error)
	Update(ctx context.Context, announcement *model.Announcement) error
	Delete(ctx context.Context, id string) error
	MarkRead(ctx context.Context, announcementID, userID string) error
	ReadIDsByUser(ctx context.Context, userID string, announcementIDs []string) (map[string]bool, error)
}

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) Create(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var announcement model.Announcement
	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Where("announcement_id = ?", id).
		First(&announcement).Error
	if err != nil {
		return nil, err
	}
	return &announcement, nil
}

func (r *announcementRepo) List(ctx context.Context, department string, offset, limit int) ([]model.Announcement, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Announcement{})
	if department != "" {
		query = query.Where("target_department IN ?", []string{"all", department})
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var announcements []model.Announcement
	err := query.
		Preload("Publisher").
		Order("is_pinned DESC, publish_time DESC").
		Offset(offset).
		Limit(limit).
		Find(&announcements).Error
	return announcements, total, err
}

func (r *announcementRepo) Update(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).
		Model(announcement).
		Where("announcement_id = ?", announcement.AnnouncementID).
		Updates(map[string]interface{}{
			"title":             announcement.Title,
			"content":           announcement.Content,
			"type":              announcement.Type,
			"is_pinned":         announcement.IsPinned,
			"target_department": announcement.TargetDepartment,
			"expire_time":       announcement.ExpireTime,
		}).Error
}

func (r *announcementRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("announcement_id = ?", id).
		Delete(&model.Announcement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkRead 记录已读，重复标记静默忽略
func (r *announcementRepo) MarkRead(ctx context.Context, announcementID, userID string) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO announcement_reads (announcement_id, user_id)
		      VALUES (?, ?) ON CONFLICT DO NOTHING`, announcementID, userID).Error
}

// ReadIDsByUser 查询用户对一批公告的已读情况
func (r *announcementRepo) ReadIDsByUser(ctx context.Context, userID string, announcementIDs []string) (map[string]bool, error) {
	read := make(map[string]bool, len(announcementIDs))
	if len(announcementIDs) == 0 {
		return read, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Table("announcement_reads").
		Where("user_id = ? AND announcement_id IN ?", userID, announcementIDs).
		Pluck("announcement_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		read[id] = true
	}
	return read, nil
}

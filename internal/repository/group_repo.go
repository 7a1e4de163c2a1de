package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/model"
)

// GroupRepository 周轮值分组数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.BroadcastGroup) error
	GetByID(ctx context.Context, id string) (*model.BroadcastGroup, error)
	GetByWeekday(ctx context.Context, weekday int) (*model.BroadcastGroup, error)
	List(ctx context.Context) ([]model.BroadcastGroup, error)
	Update(ctx context.Context, group *model.BroadcastGroup) error
	ReplaceMembers(ctx context.Context, groupID string, userIDs []string) error
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.BroadcastGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.BroadcastGroup, error) {
	var group model.BroadcastGroup
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members").
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) GetByWeekday(ctx context.Context, weekday int) (*model.BroadcastGroup, error) {
	var group model.BroadcastGroup
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members").
		Where("weekday = ?", weekday).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]model.BroadcastGroup, error) {
	var groups []model.BroadcastGroup
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Preload("Members").
		Order("weekday ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.BroadcastGroup) error {
	return r.db.WithContext(ctx).
		Model(group).
		Where("group_id = ?", group.GroupID).
		Updates(map[string]interface{}{
			"name":      group.Name,
			"leader_id": group.LeaderID,
		}).Error
}

// ReplaceMembers 整体替换组员集合（仅操作连接表）
func (r *groupRepo) ReplaceMembers(ctx context.Context, groupID string, userIDs []string) error {
	users := make([]model.User, 0, len(userIDs))
	for _, id := range userIDs {
		users = append(users, model.User{UserID: id})
	}
	return r.db.WithContext(ctx).
		Model(&model.BroadcastGroup{GroupID: groupID}).
		Association("Members").
		Replace(users)
}

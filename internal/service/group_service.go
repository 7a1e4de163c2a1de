package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
)

// ── 分组模块业务错误 ──

var (
	ErrGroupNotFound      = errors.New("分组不存在")
	ErrGroupWeekdayTaken  = errors.New("该星期已有分组")
	ErrGroupMemberInvalid = errors.New("组员中存在无效用户")
)

// GroupService 周轮值分组业务接口
// 每个星期（周六除外）至多一个分组，组长可与组员重合
type GroupService interface {
	Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetByID(ctx context.Context, id string) (*dto.GroupResponse, error)
	List(ctx context.Context) ([]dto.GroupResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error)
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

func (s *groupService) Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if _, err := s.repo.Group.GetByWeekday(ctx, req.Weekday); err == nil {
		return nil, ErrGroupWeekdayTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.validateMembers(ctx, req.MemberIDs); err != nil {
		return nil, err
	}

	group := &model.BroadcastGroup{
		Name:     req.Name,
		Weekday:  req.Weekday,
		LeaderID: req.LeaderID,
	}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrGroupWeekdayTaken
		}
		s.logger.Error("创建分组失败", zap.Error(err))
		return nil, err
	}

	if len(req.MemberIDs) > 0 {
		if err := s.repo.Group.ReplaceMembers(ctx, group.GroupID, req.MemberIDs); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, group.GroupID)
}

func (s *groupService) GetByID(ctx context.Context, id string) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	resp := toGroupResponse(group)
	return &resp, nil
}

func (s *groupService) List(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		list = append(list, toGroupResponse(&groups[i]))
	}
	return list, nil
}

// Update 更新分组；MemberIDs 非 nil 时整体替换组员集合
func (s *groupService) Update(ctx context.Context, id string, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.LeaderID != nil {
		group.LeaderID = req.LeaderID
	}
	if err := s.repo.Group.Update(ctx, group); err != nil {
		return nil, err
	}

	if req.MemberIDs != nil {
		if err := s.validateMembers(ctx, *req.MemberIDs); err != nil {
			return nil, err
		}
		if err := s.repo.Group.ReplaceMembers(ctx, id, *req.MemberIDs); err != nil {
			s.logger.Error("替换组员失败", zap.Error(err), zap.String("group_id", id))
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *groupService) validateMembers(ctx context.Context, memberIDs []string) error {
	if len(memberIDs) == 0 {
		return nil
	}
	users, err := s.repo.User.GetByIDs(ctx, memberIDs)
	if err != nil {
		return err
	}
	if len(users) != len(uniqueStrings(memberIDs)) {
		return ErrGroupMemberInvalid
	}
	return nil
}

func toGroupResponse(g *model.BroadcastGroup) dto.GroupResponse {
	resp := dto.GroupResponse{
		ID:      g.GroupID,
		Name:    g.Name,
		Weekday: g.Weekday,
		Members: toUserBriefs(g.Members),
	}
	if g.Leader != nil {
		brief := toUserBrief(g.Leader)
		resp.Leader = &brief
	}
	return resp
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

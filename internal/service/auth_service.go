package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fengzishiyi/campus-radio/config"
	"github.com/fengzishiyi/campus-radio/internal/dto"
	"github.com/fengzishiyi/campus-radio/internal/model"
	"github.com/fengzishiyi/campus-radio/internal/repository"
	"github.com/fengzishiyi/campus-radio/pkg/jwt"
	"github.com/fengzishiyi/campus-radio/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameTaken      = errors.New("用户名已被占用")
	ErrStudentIDTaken     = errors.New("学号已注册")
	ErrInviteCodeInvalid  = errors.New("邀请码无效")
	ErrInviteCodeUsed     = errors.New("邀请码已被使用")
	ErrWrongPassword      = errors.New("原密码错误")
	ErrTokenNotRefresh    = errors.New("非刷新类型 token")
	ErrTokenRevoked       = errors.New("token 已失效")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	GenerateInvites(ctx context.Context, creatorID string, count int) ([]dto.InviteCodeResponse, error)
	ListInvites(ctx context.Context, offset, limit int) ([]dto.InviteCodeResponse, int64, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// Register 邀请码注册
// 邀请码核销与用户创建在同一事务内完成，并发抢用同一邀请码时后到者失败
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	// 1. 校验邀请码
	invite, err := s.repo.InviteCode.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(req.InviteCode)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteCodeInvalid
		}
		s.logger.Error("查询邀请码失败", zap.Error(err))
		return nil, err
	}
	if invite.IsUsed {
		return nil, ErrInviteCodeUsed
	}

	// 2. 唯一性检查（数据库唯一约束兜底）
	if _, err := s.repo.User.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.User.GetByStudentID(ctx, req.StudentID); err == nil {
		return nil, ErrStudentIDTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 3. 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		RealName:     req.RealName,
		StudentID:    req.StudentID,
		Phone:        req.Phone,
		Wechat:       req.Wechat,
		Department:   req.Department,
		Role:         model.RoleAnchor,
	}

	// 4. 创建用户并核销邀请码（单事务）
	if err := s.repo.User.CreateWithInvite(ctx, user, invite.InviteCodeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteCodeUsed
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("注册用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新用户注册",
		zap.String("user_id", user.UserID),
		zap.String("username", user.Username))

	return s.issueTokens(user, false)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user, req.RememberMe)
}

// Refresh 用 refresh token 换新 token 对
func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrTokenNotRefresh
	}

	blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("黑名单检查失败", zap.Error(err))
	} else if blacklisted {
		return nil, ErrTokenRevoked
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user, claims.RememberMe)
}

// Logout 将当前 token 拉黑至其自然过期
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.BlacklistToken(ctx, claims.ID, ttl)
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.repo.User.Update(ctx, user)
}

// GenerateInvites 批量生成邀请码（仅管理员调用）
func (s *authService) GenerateInvites(ctx context.Context, creatorID string, count int) ([]dto.InviteCodeResponse, error) {
	result := make([]dto.InviteCodeResponse, 0, count)
	for i := 0; i < count; i++ {
		code := &model.InviteCode{
			Code:      newInviteCode(),
			CreatedBy: &creatorID,
		}
		if err := s.repo.InviteCode.Create(ctx, code); err != nil {
			s.logger.Error("生成邀请码失败", zap.Error(err))
			return nil, err
		}
		result = append(result, dto.InviteCodeResponse{
			Code:      code.Code,
			IsUsed:    false,
			CreatedAt: code.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *authService) ListInvites(ctx context.Context, offset, limit int) ([]dto.InviteCodeResponse, int64, error) {
	codes, total, err := s.repo.InviteCode.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	list := make([]dto.InviteCodeResponse, 0, len(codes))
	for _, c := range codes {
		resp := dto.InviteCodeResponse{
			Code:      c.Code,
			IsUsed:    c.IsUsed,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		}
		if c.UsedAt != nil {
			resp.UsedAt = c.UsedAt.Format(time.RFC3339)
		}
		list = append(list, resp)
	}
	return list, total, nil
}

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// newInviteCode 生成 8 位大写邀请码
func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:8])
}

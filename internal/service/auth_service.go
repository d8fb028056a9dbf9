package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/heixs21/production-management-system/internal/config"
	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/middleware"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const refreshTokenKeyPrefix = "refresh_token:"

// AuthService 认证与用户管理服务
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      *config.Config
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg}
}

// TokenPair Token对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login 用户名密码登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, *entity.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("用户名或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("用户名或密码错误")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh 用Refresh Token换取新的Token对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	val, err := s.rdb.Get(ctx, refreshTokenKeyPrefix+refreshToken).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("refresh token 无效或已过期")
	}
	if err != nil {
		return nil, fmt.Errorf("读取refresh token失败: %w", err)
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("refresh token 数据损坏")
	}
	user, err := s.userRepo.GetByID(uint(userID))
	if err != nil {
		return nil, fmt.Errorf("用户不存在: %w", err)
	}

	// 旧refresh token一次性使用
	s.rdb.Del(ctx, refreshTokenKeyPrefix+refreshToken)

	return s.issueTokens(ctx, user)
}

// Logout 注销，吊销refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.rdb.Del(ctx, refreshTokenKeyPrefix+refreshToken).Err()
}

func (s *AuthService) issueTokens(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()
	expire := s.cfg.JWT.AccessTokenExpire
	if expire <= 0 {
		expire = 2 * time.Hour
	}

	claims := middleware.JWTClaims{
		UserID:          user.ID,
		Username:        user.Username,
		Role:            user.Role,
		AllowedMachines: user.AllowedMachines,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("签发token失败: %w", err)
	}

	refreshExpire := s.cfg.JWT.RefreshTokenExpire
	if refreshExpire <= 0 {
		refreshExpire = 7 * 24 * time.Hour
	}
	refreshToken := uuid.New().String()
	if err := s.rdb.Set(ctx, refreshTokenKeyPrefix+refreshToken,
		strconv.FormatUint(uint64(user.ID), 10), refreshExpire).Err(); err != nil {
		return nil, fmt.Errorf("存储refresh token失败: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(expire.Seconds()),
	}, nil
}

type UserRequest struct {
	Username        string   `json:"username" binding:"required"`
	Password        string   `json:"password"`
	Role            string   `json:"role"`
	Permissions     []string `json:"permissions"`
	AllowedMachines []string `json:"allowedMachines"`
}

// CreateUser 创建用户（管理员）
func (s *AuthService) CreateUser(req UserRequest) (*entity.User, error) {
	if req.Password == "" {
		return nil, fmt.Errorf("密码不能为空")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}
	user := &entity.User{
		Username:        req.Username,
		Password:        string(hash),
		Role:            role,
		Permissions:     req.Permissions,
		AllowedMachines: req.AllowedMachines,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// UpdateUser 更新用户（管理员），密码为空表示不修改
func (s *AuthService) UpdateUser(id uint, req UserRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("用户不存在: %w", err)
	}

	user.Username = req.Username
	if req.Role != "" {
		user.Role = req.Role
	}
	user.Permissions = req.Permissions
	user.AllowedMachines = req.AllowedMachines
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("密码加密失败: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}
	return user, nil
}

// DeleteUser 删除用户（管理员）
func (s *AuthService) DeleteUser(id uint) error {
	return s.userRepo.Delete(id)
}

// ListUsers 用户列表（管理员）
func (s *AuthService) ListUsers() ([]entity.User, error) {
	return s.userRepo.List()
}

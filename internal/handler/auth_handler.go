package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/heixs21/production-management-system/internal/service"
)

// AuthHandler 认证与用户管理处理器
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "用户名和密码不能为空")
		return
	}

	tokens, user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		Error(c, 40102, err.Error())
		return
	}

	Success(c, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         user,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh 刷新令牌
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "缺少刷新令牌")
		return
	}
	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Error(c, 40103, err.Error())
		return
	}
	Success(c, gin.H{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    tokens.ExpiresIn,
	})
}

// Logout 退出登录
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		_ = h.svc.Logout(c.Request.Context(), req.RefreshToken)
	}
	Success(c, nil)
}

// ListUsers 用户列表（管理员）
// GET /api/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, users)
}

// CreateUser 创建用户（管理员）
// POST /api/users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req service.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	user, err := h.svc.CreateUser(req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, user)
}

// UpdateUser 更新用户（管理员）
// PUT /api/users/:id
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	var req service.UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	user, err := h.svc.UpdateUser(id, req)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, user)
}

// DeleteUser 删除用户（管理员）
// DELETE /api/users/:id
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(id); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

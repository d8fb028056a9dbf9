package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/heixs21/production-management-system/internal/config"
	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/service"
)

// Handlers 处理器集合
type Handlers struct {
	Auth     *AuthHandler
	Order    *OrderHandler
	Machine  *MachineHandler
	Material *MaterialHandler
	Report   *ReportHandler
	Schedule *ScheduleHandler
	SSE      *SSEHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(svc.Auth),
		Order:    NewOrderHandler(svc.Order, svc.Image),
		Machine:  NewMachineHandler(svc.Machine),
		Material: NewMaterialHandler(svc.Material),
		Report:   NewReportHandler(svc.Report),
		Schedule: NewScheduleHandler(svc.Schedule),
		SSE:      NewSSEHandler(),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 服务器内部错误
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID 从上下文获取当前用户ID
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUsername 从上下文获取当前用户名
func GetUsername(c *gin.Context) string {
	return c.GetString("username")
}

// GetRole 从上下文获取当前用户角色
func GetRole(c *gin.Context) string {
	return c.GetString("role")
}

// GetAllowedMachines 从上下文获取当前用户机台权限
func GetAllowedMachines(c *gin.Context) entity.StringList {
	if v, ok := c.Get("allowed_machines"); ok {
		if machines, ok := v.([]string); ok {
			return entity.StringList(machines)
		}
	}
	return nil
}

// ParseID 解析路径中的数字ID
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "无效的ID")
		return 0, false
	}
	return uint(id), true
}

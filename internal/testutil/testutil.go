package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const JWTSecret = "pms-test-jwt-secret"

// SetupTestDB 每个测试使用独立的内存库，测试结束自动释放
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Machine{},
		&entity.Shift{},
		&entity.WorkOrder{},
		&entity.Material{},
		&entity.ProductionReport{},
		&entity.OrderImage{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter 创建测试用gin路由
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup 带JWT认证的测试路由组
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken 生成测试JWT
func GenerateTestToken(userID uint, username, role string, allowedMachines []string) string {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:          userID,
		Username:        username,
		Role:            role,
		AllowedMachines: allowedMachines,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "production-management-system",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken 默认管理员测试令牌
func DefaultTestToken() string {
	return GenerateTestToken(1, "admin", entity.RoleAdmin, nil)
}

// DoRequest 对测试路由发起HTTP请求
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse 解析JSON响应体
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedMachine 创建测试机台
func SeedMachine(t *testing.T, db *gorm.DB, name string) *entity.Machine {
	t.Helper()
	m := &entity.Machine{
		Name:             name,
		Status:           entity.MachineStatusNormal,
		OEE:              0.85,
		Coefficient:      1,
		AutoAdjustOrders: true,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to seed machine: %v", err)
	}
	return m
}

// SeedOrder 创建测试工单
func SeedOrder(t *testing.T, db *gorm.DB, machine, orderNo string, start, expectedEnd time.Time) *entity.WorkOrder {
	t.Helper()
	o := &entity.WorkOrder{
		Machine:         machine,
		OrderNo:         orderNo,
		MaterialNo:      "M-" + orderNo,
		MaterialName:    "金加工 025滚子",
		Quantity:        100,
		Priority:        1,
		StartDate:       start,
		ExpectedEndDate: &expectedEnd,
		Status:          entity.OrderStatusNotStarted,
		DailyReports:    entity.DailyReports{},
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return o
}

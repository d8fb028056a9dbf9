package service

import (
	"github.com/heixs21/production-management-system/internal/config"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
)

// Services 服务集合
type Services struct {
	Auth     *AuthService
	Order    *OrderService
	Machine  *MachineService
	Material *MaterialService
	Report   *ReportService
	Schedule *ScheduleService
	Image    *ImageService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	// MinIO 未配置时图片上传功能退化为只读空列表
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err == nil {
			minioClient = client
		}
	}

	machineSvc := NewMachineService(repos.Machine)
	orderSvc := NewOrderService(repos.Order, repos.Machine)

	return &Services{
		Auth:     NewAuthService(repos.User, rdb, cfg),
		Order:    orderSvc,
		Machine:  machineSvc,
		Material: NewMaterialService(repos.Material),
		Report:   NewReportService(repos.Report, repos.Order),
		Schedule: NewScheduleService(repos.Order, repos.Machine),
		Image:    NewImageService(repos.Report, minioClient, cfg.MinIO.Bucket),
	}
}

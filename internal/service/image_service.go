package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/minio/minio-go/v7"
)

// ImageService 工单图片服务，文件存MinIO，元数据入库
type ImageService struct {
	reportRepo *repository.ReportRepository
	client     *minio.Client
	bucket     string
}

func NewImageService(reportRepo *repository.ReportRepository, client *minio.Client, bucket string) *ImageService {
	return &ImageService{reportRepo: reportRepo, client: client, bucket: bucket}
}

// Upload 上传工单图片
func (s *ImageService) Upload(ctx context.Context, orderID uint, fileName string, size int64, contentType string, reader io.Reader, uploadedBy string) (*entity.OrderImage, error) {
	if s.client == nil {
		return nil, fmt.Errorf("图片存储未配置")
	}

	objectKey := fmt.Sprintf("orders/%d/%s%s", orderID, uuid.New().String(), path.Ext(fileName))
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("上传图片失败: %w", err)
	}

	img := &entity.OrderImage{
		OrderID:    orderID,
		FileName:   fileName,
		ObjectKey:  objectKey,
		FileSize:   size,
		UploadedBy: uploadedBy,
	}
	if err := s.reportRepo.CreateImage(img); err != nil {
		return nil, fmt.Errorf("保存图片记录失败: %w", err)
	}
	return img, nil
}

// ImageInfo 图片元数据及临时访问地址
type ImageInfo struct {
	entity.OrderImage
	URL string `json:"url"`
}

// List 工单图片列表，附带1小时有效的预签名地址
func (s *ImageService) List(ctx context.Context, orderID uint) ([]ImageInfo, error) {
	images, err := s.reportRepo.ListImages(orderID)
	if err != nil {
		return nil, fmt.Errorf("读取图片列表失败: %w", err)
	}

	infos := make([]ImageInfo, 0, len(images))
	for _, img := range images {
		info := ImageInfo{OrderImage: img}
		if s.client != nil {
			u, err := s.client.PresignedGetObject(ctx, s.bucket, img.ObjectKey, time.Hour, nil)
			if err == nil {
				info.URL = u.String()
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

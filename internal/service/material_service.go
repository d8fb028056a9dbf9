package service

import (
	"fmt"
	"strings"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/heixs21/production-management-system/internal/scheduling"
)

// MaterialService 物料服务
type MaterialService struct {
	materialRepo *repository.MaterialRepository
}

func NewMaterialService(materialRepo *repository.MaterialRepository) *MaterialService {
	return &MaterialService{materialRepo: materialRepo}
}

// MaterialRequest 创建/更新物料请求
type MaterialRequest struct {
	MaterialNo     string `json:"materialNo"`
	MaterialName   string `json:"materialName"`
	Category       string `json:"category"`
	Feature        string `json:"feature"`
	ModelThickness string `json:"modelThickness"`
	ActualTakt     int    `json:"actualTakt"` // 秒/件
}

func (r *MaterialRequest) validate() error {
	if strings.TrimSpace(r.MaterialName) == "" {
		return fmt.Errorf("物料名称不能为空")
	}
	return nil
}

// Create 创建物料，分类/特征留空时按物料名称自动识别
func (s *MaterialService) Create(req MaterialRequest) (*entity.Material, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	m := &entity.Material{
		MaterialNo:     req.MaterialNo,
		MaterialName:   req.MaterialName,
		Category:       req.Category,
		Feature:        req.Feature,
		ModelThickness: req.ModelThickness,
		ActualTakt:     req.ActualTakt,
	}
	if m.Category == "" {
		m.Category = scheduling.IdentifyMaterialType(m.MaterialName)
	}
	if m.Feature == "" && m.Category == "内外板" {
		m.Feature = scheduling.IdentifyHoleType(m.MaterialName)
	}
	if err := s.materialRepo.Create(m); err != nil {
		return nil, fmt.Errorf("创建物料失败: %w", err)
	}
	return m, nil
}

// Update 更新物料
func (s *MaterialService) Update(id uint, req MaterialRequest) (*entity.Material, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	m, err := s.materialRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("物料不存在: %w", err)
	}
	m.MaterialNo = req.MaterialNo
	m.MaterialName = req.MaterialName
	m.Category = req.Category
	m.Feature = req.Feature
	m.ModelThickness = req.ModelThickness
	m.ActualTakt = req.ActualTakt
	if err := s.materialRepo.Update(m); err != nil {
		return nil, fmt.Errorf("更新物料失败: %w", err)
	}
	return m, nil
}

// Delete 删除物料
func (s *MaterialService) Delete(id uint) error {
	if err := s.materialRepo.Delete(id); err != nil {
		return fmt.Errorf("删除物料失败: %w", err)
	}
	return nil
}

// List 物料列表
func (s *MaterialService) List() ([]entity.Material, error) {
	return s.materialRepo.List()
}

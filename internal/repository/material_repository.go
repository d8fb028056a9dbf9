package repository

import (
	"errors"

	"github.com/heixs21/production-management-system/internal/entity"
	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(m *entity.Material) error {
	return r.db.Create(m).Error
}

func (r *MaterialRepository) GetByID(id uint) (*entity.Material, error) {
	var m entity.Material
	err := r.db.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *MaterialRepository) Update(m *entity.Material) error {
	return r.db.Save(m).Error
}

func (r *MaterialRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Material{}, id).Error
}

func (r *MaterialRepository) List() ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.Order("id ASC").Find(&materials).Error
	return materials, err
}

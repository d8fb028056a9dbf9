package repository

import (
	"errors"

	"github.com/heixs21/production-management-system/internal/entity"
	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(m *entity.Machine) error {
	return r.db.Create(m).Error
}

func (r *MachineRepository) GetByID(id uint) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *MachineRepository) GetByName(name string) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.Where("name = ?", name).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *MachineRepository) Update(m *entity.Machine) error {
	return r.db.Save(m).Error
}

func (r *MachineRepository) Delete(id uint) error {
	return r.db.Delete(&entity.Machine{}, id).Error
}

func (r *MachineRepository) List() ([]entity.Machine, error) {
	var machines []entity.Machine
	err := r.db.Order("id ASC").Find(&machines).Error
	return machines, err
}

// CreateShift 创建班次
func (r *MachineRepository) CreateShift(s *entity.Shift) error {
	return r.db.Create(s).Error
}

func (r *MachineRepository) DeleteShift(machineID, shiftID uint) error {
	return r.db.Where("machine_id = ?", machineID).Delete(&entity.Shift{}, shiftID).Error
}

// ListShifts 指定机台的班次，按排序号
func (r *MachineRepository) ListShifts(machineID uint) ([]entity.Shift, error) {
	var shifts []entity.Shift
	err := r.db.Where("machine_id = ?", machineID).Order("sort_order ASC, name ASC").Find(&shifts).Error
	return shifts, err
}

// NextShiftSortOrder 下一个班次排序号
func (r *MachineRepository) NextShiftSortOrder(machineID uint) (int, error) {
	var result struct{ Next int }
	err := r.db.Raw(
		"SELECT COALESCE(MAX(sort_order), 0) + 1 AS next FROM shifts WHERE machine_id = ?", machineID,
	).Scan(&result).Error
	return result.Next, err
}

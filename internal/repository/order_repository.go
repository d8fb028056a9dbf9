package repository

import (
	"errors"

	"github.com/heixs21/production-management-system/internal/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *entity.WorkOrder) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id uint) (*entity.WorkOrder, error) {
	var o entity.WorkOrder
	err := r.db.First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *OrderRepository) Update(o *entity.WorkOrder) error {
	return r.db.Save(o).Error
}

func (r *OrderRepository) Delete(id uint) error {
	return r.db.Delete(&entity.WorkOrder{}, id).Error
}

// List 全部工单，机台、开始日期、优先级升序
func (r *OrderRepository) List() ([]entity.WorkOrder, error) {
	var orders []entity.WorkOrder
	err := r.db.Order("machine ASC, start_date ASC, priority ASC").Find(&orders).Error
	return orders, err
}

// ListByMachine 指定机台的全部工单，开始日期升序
func (r *OrderRepository) ListByMachine(machine string) ([]entity.WorkOrder, error) {
	var orders []entity.WorkOrder
	err := r.db.Where("machine = ?", machine).Order("start_date ASC, priority ASC").Find(&orders).Error
	return orders, err
}

// ExistsByOrderNo 工单号是否已存在（excludeID 排除自身，0表示不排除）
func (r *OrderRepository) ExistsByOrderNo(orderNo string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.Model(&entity.WorkOrder{}).Where("order_no = ?", orderNo)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// DB 返回底层db用于事务
func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}

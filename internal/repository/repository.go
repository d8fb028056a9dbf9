package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Order    *OrderRepository
	Machine  *MachineRepository
	Material *MaterialRepository
	User     *UserRepository
	Report   *ReportRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:    NewOrderRepository(db),
		Machine:  NewMachineRepository(db),
		Material: NewMaterialRepository(db),
		User:     NewUserRepository(db),
		Report:   NewReportRepository(db),
	}
}

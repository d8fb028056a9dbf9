package entity

import (
	"time"
)

// MachineStatus 机台状态
const (
	MachineStatusNormal      = "正常"
	MachineStatusMaintenance = "维修"
	MachineStatusStopped     = "停机"
)

// Machine 机台
type Machine struct {
	ID                       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                     string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	MachineGroup             string    `json:"machineGroup" gorm:"size:255"`
	LineCode                 string    `json:"lineCode" gorm:"size:255"`
	Status                   string    `json:"status" gorm:"size:50;default:正常"`
	OEE                      float64   `json:"oee" gorm:"type:decimal(3,2);default:0.85"`
	Coefficient              float64   `json:"coefficient" gorm:"type:decimal(5,2);default:1.00"`
	RequiresProductionReport bool      `json:"requiresProductionReport" gorm:"default:false"`
	// AutoAdjustOrders 关闭后，工单完工不再自动顺延同机台后续工单。
	// 默认值由服务层设置，列上不挂default，否则关闭状态在插入时会被回填为开启。
	AutoAdjustOrders bool      `json:"autoAdjustOrders"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	Shifts []Shift `json:"shifts,omitempty" gorm:"foreignKey:MachineID"`
}

func (Machine) TableName() string {
	return "machines"
}

// Shift 机台班次
type Shift struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MachineID uint      `json:"machineId" gorm:"not null;index;uniqueIndex:uk_machine_shift"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:uk_machine_shift"`
	StartTime string    `json:"startTime" gorm:"size:5"` // HH:MM
	EndTime   string    `json:"endTime" gorm:"size:5"`
	SortOrder int       `json:"sortOrder" gorm:"default:0"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Shift) TableName() string {
	return "shifts"
}

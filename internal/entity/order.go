package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus 工单状态
const (
	OrderStatusNotStarted   = "未开始"
	OrderStatusInProduction = "生产中"
	OrderStatusUrgent       = "紧急生产"
	OrderStatusCompleted    = "正常完成"
	OrderStatusDelayed      = "延期完成"
	OrderStatusPaused       = "暂停中"
	OrderStatusPausedDone   = "暂停完成"
)

// DailyReports 按日期（YYYY-MM-DD）记录的报工数量
type DailyReports map[string]int

func (d DailyReports) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	return string(b), err
}

func (d *DailyReports) Scan(value interface{}) error {
	if value == nil {
		*d = DailyReports{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type for DailyReports: %T", value)
	}
	if len(b) == 0 {
		*d = DailyReports{}
		return nil
	}
	return json.Unmarshal(b, d)
}

// WorkOrder 生产工单
//
// Status 是派生缓存，由 scheduling 包在每次变更后重算，不作为真实状态来源。
type WorkOrder struct {
	ID                     uint         `json:"id" gorm:"primaryKey;autoIncrement"`
	Machine                string       `json:"machine" gorm:"size:255;not null;index"`
	OrderNo                string       `json:"orderNo" gorm:"size:255;not null"`
	MaterialNo             string       `json:"materialNo" gorm:"size:255"`
	MaterialName           string       `json:"materialName" gorm:"size:255;not null"`
	Quantity               int          `json:"quantity" gorm:"not null"`
	ReportedQuantity       int          `json:"reportedQuantity" gorm:"default:0"`
	// Priority 0 保留给紧急工单。列上不挂default，否则紧急工单的0在插入时会被回填；
	// 非紧急工单的0由服务层归一为1。
	Priority               int          `json:"priority"`
	IsUrgent               bool         `json:"isUrgent" gorm:"default:false"`
	StartDate              time.Time    `json:"startDate" gorm:"type:date;not null;index"`
	ExpectedEndDate        *time.Time   `json:"expectedEndDate" gorm:"type:date"`
	DelayedExpectedEndDate *time.Time   `json:"delayedExpectedEndDate" gorm:"type:date"`
	ActualEndDate          *time.Time   `json:"actualEndDate" gorm:"type:date"`
	IsPaused               bool         `json:"isPaused" gorm:"default:false"`
	PausedDate             *time.Time   `json:"pausedDate" gorm:"type:date"`
	ResumedDate            *time.Time   `json:"resumedDate" gorm:"type:date"`
	ProducedDays           int          `json:"producedDays" gorm:"default:0"`
	RemainingDays          int          `json:"remainingDays" gorm:"default:0"`
	OriginalOrderID        *uint        `json:"originalOrderId"`
	DelayReason            string       `json:"delayReason" gorm:"type:text"`
	DailyReports           DailyReports `json:"dailyReports" gorm:"type:json"`
	Status                 string       `json:"status" gorm:"size:50;default:未开始"`
	OrderComponent         string       `json:"orderComponent" gorm:"size:255"`
	ComponentDescription   string       `json:"componentDescription" gorm:"size:255"`
	IsSubmitted            bool         `json:"isSubmitted" gorm:"default:false"`
	CreatedAt              time.Time    `json:"createdAt"`
	UpdatedAt              time.Time    `json:"updatedAt"`
}

func (WorkOrder) TableName() string {
	return "orders"
}

// IsOpen 是否为未完成工单
func (o *WorkOrder) IsOpen() bool {
	return o.ActualEndDate == nil
}

package entity

import (
	"time"
)

// Material 物料节拍配置
type Material struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MaterialNo     string    `json:"materialNo" gorm:"size:255"`
	MaterialName   string    `json:"materialName" gorm:"size:255;not null"`
	Category       string    `json:"category" gorm:"size:255;not null"`
	Feature        string    `json:"feature" gorm:"size:255"`
	ModelThickness string    `json:"modelThickness" gorm:"size:255"`
	ActualTakt     int       `json:"actualTakt" gorm:"default:0"` // 秒/件
	CreatedAt      time.Time `json:"createdAt"`
}

func (Material) TableName() string {
	return "materials"
}

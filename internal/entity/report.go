package entity

import (
	"time"
)

// ProductionReport 班次产量上报记录，(orderId, shiftName, reportDate) 唯一
type ProductionReport struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID    uint      `json:"orderId" gorm:"not null;index;uniqueIndex:uk_report"`
	ShiftName  string    `json:"shiftName" gorm:"size:50;not null;uniqueIndex:uk_report"`
	ReportDate time.Time `json:"reportDate" gorm:"type:date;not null;uniqueIndex:uk_report"`
	Quantity   int       `json:"quantity" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (ProductionReport) TableName() string {
	return "production_reports"
}

// OrderImage 工单图片附件，文件存储在MinIO
type OrderImage struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID    uint      `json:"orderId" gorm:"not null;index"`
	FileName   string    `json:"fileName" gorm:"size:255;not null"`
	ObjectKey  string    `json:"objectKey" gorm:"size:512;not null"`
	FileSize   int64     `json:"fileSize"`
	UploadedBy string    `json:"uploadedBy" gorm:"size:50"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (OrderImage) TableName() string {
	return "order_images"
}

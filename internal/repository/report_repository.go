package repository

import (
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Upsert 产量上报，(orderId, shiftName, reportDate) 冲突时覆盖数量
func (r *ReportRepository) Upsert(report *entity.ProductionReport) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "order_id"}, {Name: "shift_name"}, {Name: "report_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(report).Error
}

// ListByOrder 工单的全部上报记录，日期倒序
func (r *ReportRepository) ListByOrder(orderID uint) ([]entity.ProductionReport, error) {
	var reports []entity.ProductionReport
	err := r.db.Where("order_id = ?", orderID).
		Order("report_date DESC, shift_name ASC").Find(&reports).Error
	return reports, err
}

// ReportSummary 工单上报汇总
type ReportSummary struct {
	ReportCount   int `json:"reportCount"`
	TotalQuantity int `json:"totalQuantity"`
}

// Summarize 工单的有效上报汇总（仅数量大于0的记录）
func (r *ReportRepository) Summarize(orderID uint) (*ReportSummary, error) {
	var s ReportSummary
	err := r.db.Model(&entity.ProductionReport{}).
		Select("COUNT(*) AS report_count, COALESCE(SUM(quantity), 0) AS total_quantity").
		Where("order_id = ? AND quantity > 0", orderID).
		Scan(&s).Error
	return &s, err
}

// SummarizeByDate 工单在指定日期的有效上报汇总
func (r *ReportRepository) SummarizeByDate(orderID uint, date time.Time) (*ReportSummary, error) {
	var s ReportSummary
	err := r.db.Model(&entity.ProductionReport{}).
		Select("COUNT(*) AS report_count, COALESCE(SUM(quantity), 0) AS total_quantity").
		Where("order_id = ? AND report_date = ? AND quantity > 0", orderID, date).
		Scan(&s).Error
	return &s, err
}

// CreateImage 保存工单图片记录
func (r *ReportRepository) CreateImage(img *entity.OrderImage) error {
	return r.db.Create(img).Error
}

// ListImages 工单的图片记录
func (r *ReportRepository) ListImages(orderID uint) ([]entity.OrderImage, error) {
	var images []entity.OrderImage
	err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&images).Error
	return images, err
}

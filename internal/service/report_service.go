package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ReportService 报工服务
type ReportService struct {
	reportRepo *repository.ReportRepository
	orderRepo  *repository.OrderRepository
}

func NewReportService(reportRepo *repository.ReportRepository, orderRepo *repository.OrderRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, orderRepo: orderRepo}
}

// ReportRequest 班次报工请求
type ReportRequest struct {
	OrderID    uint   `json:"orderId"`
	ShiftName  string `json:"shiftName"`
	ReportDate string `json:"reportDate"`
	Quantity   int    `json:"quantity"`
}

// Submit 提交班次产量，同班次同日期重复提交覆盖数量，
// 并同步累加工单报工总量。
func (s *ReportService) Submit(req ReportRequest) (*entity.ProductionReport, error) {
	if req.ShiftName == "" {
		return nil, fmt.Errorf("班次名称不能为空")
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("产量不能为负数")
	}
	date, err := parseDate(req.ReportDate)
	if err != nil || date == nil {
		return nil, fmt.Errorf("无效的报工日期")
	}
	order, err := s.orderRepo.GetByID(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}

	report := &entity.ProductionReport{
		OrderID:    req.OrderID,
		ShiftName:  req.ShiftName,
		ReportDate: *date,
		Quantity:   req.Quantity,
	}
	if err := s.reportRepo.Upsert(report); err != nil {
		return nil, fmt.Errorf("报工失败: %w", err)
	}

	summary, err := s.reportRepo.Summarize(req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("汇总报工失败: %w", err)
	}
	order.ReportedQuantity = summary.TotalQuantity
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("更新工单报工数量失败: %w", err)
	}
	return report, nil
}

// ListByOrder 工单报工明细
func (s *ReportService) ListByOrder(orderID uint) ([]entity.ProductionReport, error) {
	return s.reportRepo.ListByOrder(orderID)
}

// Check 检查工单是否有过有效报工
func (s *ReportService) Check(orderID uint) (*repository.ReportSummary, error) {
	return s.reportRepo.Summarize(orderID)
}

// CheckByDate 检查工单指定日期是否有过有效报工
func (s *ReportService) CheckByDate(orderID uint, date string) (*repository.ReportSummary, error) {
	d, err := parseDate(date)
	if err != nil || d == nil {
		return nil, fmt.Errorf("无效的日期")
	}
	return s.reportRepo.SummarizeByDate(orderID, *d)
}

var exportHeaders = []string{
	"机台", "工单号", "物料号", "物料名称", "数量", "报工数量",
	"优先级", "开始日期", "预计结束", "实际结束", "状态",
}

// ExportOrders 导出工单到Excel
func (s *ReportService) ExportOrders() (*bytes.Buffer, error) {
	orders, err := s.orderRepo.List()
	if err != nil {
		return nil, fmt.Errorf("读取工单失败: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "工单列表"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	fmtDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for i, o := range orders {
		row := i + 2
		values := []interface{}{
			o.Machine, o.OrderNo, o.MaterialNo, o.MaterialName,
			o.Quantity, o.ReportedQuantity, o.Priority,
			o.StartDate.Format("2006-01-02"),
			fmtDate(o.ExpectedEndDate), fmtDate(o.ActualEndDate),
			o.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成Excel失败: %w", err)
	}
	return buf, nil
}

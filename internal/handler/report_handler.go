package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/heixs21/production-management-system/internal/service"
)

// ReportHandler 报工处理器
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Submit 班次报工
// POST /api/reports
func (h *ReportHandler) Submit(c *gin.Context) {
	var req service.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "无效的请求参数: "+err.Error())
		return
	}
	report, err := h.svc.Submit(req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, report)
}

// ListByOrder 工单报工明细
// GET /api/reports/order/:id
func (h *ReportHandler) ListByOrder(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	reports, err := h.svc.ListByOrder(id)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, reports)
}

// Check 检查工单是否报过工
// GET /api/reports/order/:id/check
func (h *ReportHandler) Check(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.Check(id)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{
		"hasReport":     summary.ReportCount > 0,
		"totalQuantity": summary.TotalQuantity,
	})
}

// CheckByDate 检查工单指定日期是否报过工
// GET /api/reports/order/:id/check-date?date=YYYY-MM-DD
func (h *ReportHandler) CheckByDate(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	if date == "" {
		BadRequest(c, "缺少日期参数")
		return
	}
	summary, err := h.svc.CheckByDate(id, date)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{
		"hasReport":     summary.ReportCount > 0,
		"totalQuantity": summary.TotalQuantity,
	})
}

// ExportOrders 导出工单Excel
// GET /api/reports/export
func (h *ReportHandler) ExportOrders(c *gin.Context) {
	buf, err := h.svc.ExportOrders()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

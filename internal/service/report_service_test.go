package service

import (
	"testing"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/heixs21/production-management-system/internal/testutil"
	"gorm.io/gorm"
)

func newReportService(t *testing.T) (*ReportService, *gorm.DB, *entity.WorkOrder) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	testutil.SeedMachine(t, db, "M1")
	order := testutil.SeedOrder(t, db, "M1", "WO-R1",
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	return NewReportService(repos.Report, repos.Order), db, order
}

func TestSubmitReportUpdatesOrderTotal(t *testing.T) {
	svc, db, order := newReportService(t)

	if _, err := svc.Submit(ReportRequest{OrderID: order.ID, ShiftName: "白班", ReportDate: "2026-02-10", Quantity: 30}); err != nil {
		t.Fatalf("day shift report failed: %v", err)
	}
	if _, err := svc.Submit(ReportRequest{OrderID: order.ID, ShiftName: "夜班", ReportDate: "2026-02-10", Quantity: 20}); err != nil {
		t.Fatalf("night shift report failed: %v", err)
	}

	var reloaded entity.WorkOrder
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.ReportedQuantity != 50 {
		t.Errorf("reportedQuantity = %d, want 50", reloaded.ReportedQuantity)
	}

	// 同班次同日期重复提交覆盖数量
	if _, err := svc.Submit(ReportRequest{OrderID: order.ID, ShiftName: "白班", ReportDate: "2026-02-10", Quantity: 45}); err != nil {
		t.Fatalf("override report failed: %v", err)
	}
	if err := db.First(&reloaded, order.ID).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.ReportedQuantity != 65 {
		t.Errorf("reportedQuantity after override = %d, want 65", reloaded.ReportedQuantity)
	}
}

func TestReportSummaryIgnoresZeroQuantity(t *testing.T) {
	svc, _, order := newReportService(t)

	if _, err := svc.Submit(ReportRequest{OrderID: order.ID, ShiftName: "白班", ReportDate: "2026-02-10", Quantity: 0}); err != nil {
		t.Fatalf("zero report failed: %v", err)
	}
	summary, err := svc.Check(order.ID)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if summary.ReportCount != 0 || summary.TotalQuantity != 0 {
		t.Errorf("summary = %+v, want empty for zero-quantity reports", summary)
	}

	if _, err := svc.Submit(ReportRequest{OrderID: order.ID, ShiftName: "夜班", ReportDate: "2026-02-10", Quantity: 15}); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	summary, err = svc.CheckByDate(order.ID, "2026-02-10")
	if err != nil {
		t.Fatalf("check by date failed: %v", err)
	}
	if summary.ReportCount != 1 || summary.TotalQuantity != 15 {
		t.Errorf("summary = %+v, want 1 report of 15", summary)
	}
}

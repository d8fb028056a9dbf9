package service

import (
	"strings"
	"testing"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/heixs21/production-management-system/internal/testutil"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewOrderService(repos.Order, repos.Machine)
	svc.now = func() time.Time {
		return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc, db
}

func orderReq(machine, orderNo, start, expectedEnd string) OrderRequest {
	return OrderRequest{
		Machine:         machine,
		OrderNo:         orderNo,
		MaterialNo:      "M-" + orderNo,
		MaterialName:    "金加工 025滚子",
		Quantity:        100,
		Priority:        1,
		StartDate:       start,
		ExpectedEndDate: expectedEnd,
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := newOrderService(t)

	_, err := svc.Create(OrderRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty request")
	}
	if !strings.Contains(err.Error(), "机台不能为空") {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = svc.Create(OrderRequest{
		Machine:       "M1",
		OrderNo:       "WO-1",
		MaterialName:  "金加工 025滚子",
		Quantity:      10,
		StartDate:     "2026-02-15",
		ActualEndDate: "2026-02-14",
	})
	if err == nil || !strings.Contains(err.Error(), "实际结束日期不能早于开始日期") {
		t.Errorf("expected actual-before-start error, got %v", err)
	}
}

func TestCreateOrderDuplicateOrderNo(t *testing.T) {
	svc, db := newOrderService(t)
	testutil.SeedMachine(t, db, "M1")

	if _, err := svc.Create(orderReq("M1", "WO-1", "2026-02-10", "2026-02-14")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(orderReq("M1", "WO-1", "2026-02-15", "2026-02-20"))
	if err == nil || !strings.Contains(err.Error(), "工单号已存在") {
		t.Errorf("expected duplicate order number error, got %v", err)
	}
}

func TestUpdateFinishCascade(t *testing.T) {
	svc, db := newOrderService(t)
	testutil.SeedMachine(t, db, "M1")

	a, err := svc.Create(orderReq("M1", "WO-A", "2026-02-10", "2026-02-14"))
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(orderReq("M1", "WO-B", "2026-02-15", "2026-02-20"))
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}
	c, err := svc.Create(orderReq("M1", "WO-C", "2026-02-21", "2026-02-23"))
	if err != nil {
		t.Fatalf("create C failed: %v", err)
	}

	req := orderReq("M1", "WO-A", "2026-02-10", "2026-02-14")
	req.ActualEndDate = "2026-02-11"
	updated, adjustments, err := svc.Update(a.ID, req)
	if err != nil {
		t.Fatalf("finish update failed: %v", err)
	}
	if updated.ActualEndDate == nil {
		t.Fatal("expected actual end date to be set")
	}
	if len(adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(adjustments))
	}

	var gotB, gotC entity.WorkOrder
	if err := db.First(&gotB, b.ID).Error; err != nil {
		t.Fatalf("reload B: %v", err)
	}
	if err := db.First(&gotC, c.ID).Error; err != nil {
		t.Fatalf("reload C: %v", err)
	}

	wantBStart := time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC)
	wantBEnd := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	if !sameDay(gotB.StartDate, wantBStart) || gotB.ExpectedEndDate == nil || !sameDay(*gotB.ExpectedEndDate, wantBEnd) {
		t.Errorf("B rescheduled to %v..%v, want %v..%v",
			gotB.StartDate, gotB.ExpectedEndDate, wantBStart, wantBEnd)
	}

	wantCStart := time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC)
	wantCEnd := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	if !sameDay(gotC.StartDate, wantCStart) || gotC.ExpectedEndDate == nil || !sameDay(*gotC.ExpectedEndDate, wantCEnd) {
		t.Errorf("C rescheduled to %v..%v, want %v..%v",
			gotC.StartDate, gotC.ExpectedEndDate, wantCStart, wantCEnd)
	}
}

func TestUpdateFinishCascadeDisabled(t *testing.T) {
	svc, db := newOrderService(t)
	m := testutil.SeedMachine(t, db, "M1")
	m.AutoAdjustOrders = false
	if err := db.Save(m).Error; err != nil {
		t.Fatalf("update machine: %v", err)
	}

	a, err := svc.Create(orderReq("M1", "WO-A", "2026-02-10", "2026-02-14"))
	if err != nil {
		t.Fatalf("create A failed: %v", err)
	}
	b, err := svc.Create(orderReq("M1", "WO-B", "2026-02-15", "2026-02-20"))
	if err != nil {
		t.Fatalf("create B failed: %v", err)
	}

	req := orderReq("M1", "WO-A", "2026-02-10", "2026-02-14")
	req.ActualEndDate = "2026-02-11"
	_, adjustments, err := svc.Update(a.ID, req)
	if err != nil {
		t.Fatalf("finish update failed: %v", err)
	}
	if len(adjustments) != 0 {
		t.Fatalf("expected no adjustments when auto adjust is off, got %d", len(adjustments))
	}

	var gotB entity.WorkOrder
	if err := db.First(&gotB, b.ID).Error; err != nil {
		t.Fatalf("reload B: %v", err)
	}
	if !sameDay(gotB.StartDate, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("B start moved to %v, want unchanged", gotB.StartDate)
	}
}

func TestPauseAndResume(t *testing.T) {
	svc, db := newOrderService(t)
	testutil.SeedMachine(t, db, "M1")

	o, err := svc.Create(orderReq("M1", "WO-P", "2026-03-01", "2026-03-10"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	paused, err := svc.Pause(o.ID, "2026-03-04")
	if err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if !paused.IsPaused || paused.Status != entity.OrderStatusPaused {
		t.Errorf("order not paused: paused=%v status=%s", paused.IsPaused, paused.Status)
	}
	if paused.ProducedDays != 4 {
		t.Errorf("producedDays = %d, want 4", paused.ProducedDays)
	}
	if paused.RemainingDays != 6 {
		t.Errorf("remainingDays = %d, want 6", paused.RemainingDays)
	}

	result, err := svc.Resume(o.ID, "2026-03-15")
	if err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	cont := result.NewOrder
	if cont.OrderNo != "WO-P-续" {
		t.Errorf("continuation order number = %s, want WO-P-续", cont.OrderNo)
	}
	if !sameDay(cont.StartDate, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("continuation start = %v, want 2026-03-15", cont.StartDate)
	}
	if cont.ExpectedEndDate == nil || !sameDay(*cont.ExpectedEndDate, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("continuation end = %v, want 2026-03-20", cont.ExpectedEndDate)
	}
	if cont.OriginalOrderID == nil || *cont.OriginalOrderID != o.ID {
		t.Errorf("continuation originalOrderId = %v, want %d", cont.OriginalOrderID, o.ID)
	}

	var closed entity.WorkOrder
	if err := db.First(&closed, o.ID).Error; err != nil {
		t.Fatalf("reload original: %v", err)
	}
	if closed.Status != entity.OrderStatusPausedDone {
		t.Errorf("original status = %s, want %s", closed.Status, entity.OrderStatusPausedDone)
	}
	if closed.ActualEndDate == nil || !sameDay(*closed.ActualEndDate, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("original actual end = %v, want pause date", closed.ActualEndDate)
	}

	// 终态不参与状态重算
	orders, err := svc.List(entity.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, got := range orders {
		if got.ID == o.ID && got.Status != entity.OrderStatusPausedDone {
			t.Errorf("closed order status recomputed to %s", got.Status)
		}
	}
}

func TestAddUrgentPausesOverlapping(t *testing.T) {
	svc, db := newOrderService(t)
	testutil.SeedMachine(t, db, "M1")

	running, err := svc.Create(orderReq("M1", "WO-R", "2026-02-08", "2026-02-14"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	later, err := svc.Create(orderReq("M1", "WO-L", "2026-02-20", "2026-02-25"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.AddUrgent(orderReq("M1", "WO-U", "2026-02-10", "2026-02-12"), "M1", "2026-02-10")
	if err != nil {
		t.Fatalf("urgent insert failed: %v", err)
	}
	if !result.NewOrder.IsUrgent || result.NewOrder.Priority != 0 {
		t.Errorf("urgent order: isUrgent=%v priority=%d", result.NewOrder.IsUrgent, result.NewOrder.Priority)
	}

	// 优先级0必须按原样入库，不能被列默认值回填
	var persisted entity.WorkOrder
	if err := db.First(&persisted, result.NewOrder.ID).Error; err != nil {
		t.Fatalf("reload urgent order: %v", err)
	}
	if persisted.Priority != 0 {
		t.Errorf("persisted urgent priority = %d, want 0", persisted.Priority)
	}
	if len(result.PausedOrders) != 1 || result.PausedOrders[0].ID != running.ID {
		t.Fatalf("paused orders = %+v, want only the running order", result.PausedOrders)
	}

	var gotLater entity.WorkOrder
	if err := db.First(&gotLater, later.ID).Error; err != nil {
		t.Fatalf("reload later order: %v", err)
	}
	if gotLater.IsPaused {
		t.Error("order outside insert window should not be paused")
	}
}

func TestReportWorkAccumulates(t *testing.T) {
	svc, db := newOrderService(t)
	testutil.SeedMachine(t, db, "M1")

	o, err := svc.Create(orderReq("M1", "WO-W", "2026-02-10", "2026-02-14"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.ReportWork(o.ID, "2026-02-10", 30, ""); err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	got, err := svc.ReportWork(o.ID, "2026-02-11", 25, "设备故障")
	if err != nil {
		t.Fatalf("second report failed: %v", err)
	}
	if got.ReportedQuantity != 55 {
		t.Errorf("reportedQuantity = %d, want 55", got.ReportedQuantity)
	}
	if got.DelayReason != "设备故障" {
		t.Errorf("delayReason = %s", got.DelayReason)
	}

	// 同日重复报工覆盖当日产量
	got, err = svc.ReportWork(o.ID, "2026-02-11", 40, "")
	if err != nil {
		t.Fatalf("override report failed: %v", err)
	}
	if got.ReportedQuantity != 70 {
		t.Errorf("reportedQuantity after override = %d, want 70", got.ReportedQuantity)
	}

	var reloaded entity.WorkOrder
	if err := db.First(&reloaded, o.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.DailyReports["2026-02-11"] != 40 {
		t.Errorf("dailyReports[2026-02-11] = %d, want 40", reloaded.DailyReports["2026-02-11"])
	}
}

func TestImportOrders(t *testing.T) {
	svc, db := newOrderService(t)
	testutil.SeedMachine(t, db, "M1")

	data := "M1\tWO-I1\tMN1\t金加工 025滚子\t100\t1\t2026-02-10\t2026-02-14\n" +
		"M1\tWO-I2\tMN2\t金加工 025套筒\t50\t2\t2026-02-15\t2026-02-18"
	count, err := svc.Import(data)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if count != 2 {
		t.Errorf("imported = %d, want 2", count)
	}

	_, err = svc.Import("M1\tWO-I3")
	if err == nil || !strings.Contains(err.Error(), "至少8列") {
		t.Errorf("expected column count error, got %v", err)
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

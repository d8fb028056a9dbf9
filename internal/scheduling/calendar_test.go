package scheduling

import (
	"testing"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
)

func TestOrdersOnCellMembershipAndOrdering(t *testing.T) {
	orders := []entity.WorkOrder{
		{ID: 1, Machine: "CNC-01", Priority: 1, StartDate: date(2025, 5, 1), ExpectedEndDate: datePtr(2025, 5, 10)},
		{ID: 2, Machine: "CNC-01", Priority: 5, IsUrgent: true, StartDate: date(2025, 5, 3), ExpectedEndDate: datePtr(2025, 5, 8)},
		{ID: 3, Machine: "CNC-02", Priority: 1, StartDate: date(2025, 5, 1), ExpectedEndDate: datePtr(2025, 5, 10)},
		{ID: 4, Machine: "CNC-01", Priority: 2, StartDate: date(2025, 5, 6), ExpectedEndDate: datePtr(2025, 5, 12)},
	}

	cell := OrdersOnCell(orders, "CNC-01", date(2025, 5, 5))
	if len(cell) != 2 {
		t.Fatalf("expected 2 orders in cell, got %d", len(cell))
	}
	// 紧急工单排最前，即使优先级数字更大
	if cell[0].ID != 2 {
		t.Errorf("expected urgent order first, got order %d", cell[0].ID)
	}
	if cell[1].ID != 1 {
		t.Errorf("expected order 1 second, got order %d", cell[1].ID)
	}

	// 未开始的日期不属于单元格
	if got := OrdersOnCell(orders, "CNC-01", date(2025, 4, 30)); len(got) != 0 {
		t.Errorf("expected empty cell before any start date, got %d orders", len(got))
	}
}

func TestOrdersOnCellEndDatePrecedence(t *testing.T) {
	orders := []entity.WorkOrder{
		// 实际结束日期截断了延期计划
		{ID: 1, Machine: "CNC-01", StartDate: date(2025, 5, 1),
			ExpectedEndDate:        datePtr(2025, 5, 10),
			DelayedExpectedEndDate: datePtr(2025, 5, 15),
			ActualEndDate:          datePtr(2025, 5, 12)},
	}
	if got := OrdersOnCell(orders, "CNC-01", date(2025, 5, 12)); len(got) != 1 {
		t.Errorf("expected order on actual end date, got %d", len(got))
	}
	if got := OrdersOnCell(orders, "CNC-01", date(2025, 5, 13)); len(got) != 0 {
		t.Errorf("expected no order after actual end date, got %d", len(got))
	}

	// 无预计结束日期按单日工单
	single := []entity.WorkOrder{{ID: 2, Machine: "CNC-01", StartDate: date(2025, 5, 1)}}
	if got := OrdersOnCell(single, "CNC-01", date(2025, 5, 1)); len(got) != 1 {
		t.Errorf("expected single-day order on its start date, got %d", len(got))
	}
	if got := OrdersOnCell(single, "CNC-01", date(2025, 5, 2)); len(got) != 0 {
		t.Errorf("expected no order past single-day window, got %d", len(got))
	}
}

func TestIsInDelayedPortion(t *testing.T) {
	o := entity.WorkOrder{
		StartDate:              date(2025, 3, 1),
		ExpectedEndDate:        datePtr(2025, 3, 10),
		DelayedExpectedEndDate: datePtr(2025, 3, 15),
	}
	tests := []struct {
		day  int
		want bool
	}{
		{9, false},
		{10, false},
		{11, true},
		{15, true},
		{16, false},
	}
	for _, tt := range tests {
		if got := IsInDelayedPortion(&o, date(2025, 3, tt.day)); got != tt.want {
			t.Errorf("2025-03-%02d: expected %v, got %v", tt.day, tt.want, got)
		}
	}
}

func TestIsInDelayedPortionFinishedOrder(t *testing.T) {
	o := entity.WorkOrder{
		StartDate:       date(2025, 3, 1),
		ExpectedEndDate: datePtr(2025, 3, 10),
		ActualEndDate:   datePtr(2025, 3, 13),
	}
	if !IsInDelayedPortion(&o, date(2025, 3, 12)) {
		t.Error("expected delayed portion between expected and actual end")
	}
	if IsInDelayedPortion(&o, date(2025, 3, 14)) {
		t.Error("expected no delayed portion after actual end")
	}

	// 没有预计结束日期无从判断延期
	noExpected := entity.WorkOrder{StartDate: date(2025, 3, 1), ActualEndDate: datePtr(2025, 3, 13)}
	if IsInDelayedPortion(&noExpected, date(2025, 3, 12)) {
		t.Error("expected false without expected end date")
	}
}

func TestIsInDelayedPortionOpenOrderWithoutDelayedPlan(t *testing.T) {
	o := entity.WorkOrder{
		StartDate:       date(2025, 3, 1),
		ExpectedEndDate: datePtr(2025, 3, 10),
	}
	if IsInDelayedPortion(&o, date(2025, 3, 10)) {
		t.Error("on expected end date is not delayed")
	}
	if !IsInDelayedPortion(&o, date(2025, 3, 11)) {
		t.Error("past expected end without delayed plan counts as delayed")
	}
}

func TestGenerateDateRange(t *testing.T) {
	orders := []entity.WorkOrder{
		{StartDate: date(2025, 6, 5), ExpectedEndDate: datePtr(2025, 6, 8)},
		{StartDate: date(2025, 6, 3), ExpectedEndDate: datePtr(2025, 6, 6), DelayedExpectedEndDate: datePtr(2025, 6, 10)},
	}
	dates := GenerateDateRange(orders)
	if len(dates) == 0 {
		t.Fatal("expected non-empty range")
	}
	if !dates[0].Equal(date(2025, 6, 1)) {
		t.Errorf("expected range to start 2025-06-01 (min start - 2), got %v", dates[0])
	}
	last := dates[len(dates)-1]
	if !last.Equal(date(2025, 6, 12)) {
		t.Errorf("expected range to end 2025-06-12 (max effective end + 2), got %v", last)
	}
	// 逐日连续
	for i := 1; i < len(dates); i++ {
		if DaysBetween(dates[i-1], dates[i]) != 1 {
			t.Fatalf("dates not contiguous at index %d", i)
		}
	}
}

func TestGenerateDateRangeMixedTimezones(t *testing.T) {
	cst := time.FixedZone("CST", 8*3600)
	end := time.Date(2025, 6, 8, 6, 0, 0, 0, cst)
	orders := []entity.WorkOrder{
		{StartDate: time.Date(2025, 6, 5, 23, 30, 0, 0, cst), ExpectedEndDate: &end},
		{StartDate: date(2025, 6, 3), ExpectedEndDate: datePtr(2025, 6, 6)},
	}
	dates := GenerateDateRange(orders)
	if len(dates) == 0 {
		t.Fatal("expected non-empty range")
	}
	for i, d := range dates {
		if d.Location() != time.UTC {
			t.Fatalf("date %d not normalized to UTC: %v", i, d)
		}
		if i > 0 && DaysBetween(dates[i-1], d) != 1 {
			t.Fatalf("dates not contiguous at index %d", i)
		}
	}
	if !dates[0].Equal(date(2025, 6, 1)) {
		t.Errorf("expected range to start 2025-06-01, got %v", dates[0])
	}
	if !dates[len(dates)-1].Equal(date(2025, 6, 10)) {
		t.Errorf("expected range to end 2025-06-10, got %v", dates[len(dates)-1])
	}
}

func TestGenerateDateRangeFallback(t *testing.T) {
	dates := GenerateDateRange(nil)
	if len(dates) == 0 {
		t.Fatal("expected fallback range, got empty")
	}
	if !dates[0].Equal(date(2025, 8, 26)) {
		t.Errorf("expected fallback start 2025-08-26, got %v", dates[0])
	}
	if !dates[len(dates)-1].Equal(date(2025, 9, 7)) {
		t.Errorf("expected fallback end 2025-09-07, got %v", dates[len(dates)-1])
	}
}

func TestOrderDisplayInfo(t *testing.T) {
	o := entity.WorkOrder{
		Priority:        1,
		StartDate:       date(2025, 7, 1),
		ExpectedEndDate: datePtr(2025, 7, 10),
		ActualEndDate:   datePtr(2025, 7, 13),
	}
	info := OrderDisplayInfo(&o)
	if !info.IsCompleted || !info.IsDelayed {
		t.Errorf("expected completed+delayed, got %+v", info)
	}
	if info.DelayedDays != 3 {
		t.Errorf("expected 3 delayed days, got %d", info.DelayedDays)
	}
	if info.BaseColor != "bg-gray-400" {
		t.Errorf("completed order should render gray, got %s", info.BaseColor)
	}
	if !info.EndDate.Equal(date(2025, 7, 13)) {
		t.Errorf("display end should be actual end, got %v", info.EndDate)
	}

	urgent := entity.WorkOrder{IsUrgent: true, Priority: 0, StartDate: date(2025, 7, 1)}
	if got := OrderDisplayInfo(&urgent); got.BaseColor != "bg-red-600" {
		t.Errorf("urgent order should render red, got %s", got.BaseColor)
	}
	paused := entity.WorkOrder{IsPaused: true, Priority: 2, StartDate: date(2025, 7, 1)}
	if got := OrderDisplayInfo(&paused); got.BaseColor != "bg-orange-400" {
		t.Errorf("paused order should render orange, got %s", got.BaseColor)
	}
}

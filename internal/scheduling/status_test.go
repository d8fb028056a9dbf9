package scheduling

import (
	"testing"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestDeriveStatusPausedWinsOverEverything(t *testing.T) {
	// 暂停状态优先于完工、未开始、紧急等一切组合
	orders := []entity.WorkOrder{
		{IsPaused: true},
		{IsPaused: true, ActualEndDate: datePtr(2025, 1, 12), ExpectedEndDate: datePtr(2025, 1, 10)},
		{IsPaused: true, IsUrgent: true, StartDate: date(2025, 1, 1)},
		{IsPaused: true, StartDate: date(2025, 6, 1)},
	}
	for i, o := range orders {
		if got := DeriveStatus(&o, nil, date(2025, 1, 5)); got != entity.OrderStatusPaused {
			t.Errorf("order %d: expected %s, got %s", i, entity.OrderStatusPaused, got)
		}
	}
}

func TestDeriveStatusMachineMaintenanceOverride(t *testing.T) {
	machine := &entity.Machine{Name: "CNC-01", Status: entity.MachineStatusMaintenance}
	o := entity.WorkOrder{
		Machine:         "CNC-01",
		StartDate:       date(2025, 1, 1),
		ExpectedEndDate: datePtr(2025, 1, 10),
		ActualEndDate:   datePtr(2025, 1, 9),
	}
	// 维修覆盖优先于完工判断
	if got := DeriveStatus(&o, machine, date(2025, 1, 5)); got != entity.OrderStatusPaused {
		t.Errorf("expected %s, got %s", entity.OrderStatusPaused, got)
	}

	machine.Status = entity.MachineStatusNormal
	if got := DeriveStatus(&o, machine, date(2025, 1, 5)); got != entity.OrderStatusCompleted {
		t.Errorf("expected %s after maintenance ends, got %s", entity.OrderStatusCompleted, got)
	}
}

func TestDeriveStatusCompletionLateness(t *testing.T) {
	tests := []struct {
		name     string
		expected *time.Time
		actual   *time.Time
		want     string
	}{
		{"延期完成", datePtr(2025, 1, 10), datePtr(2025, 1, 12), entity.OrderStatusDelayed},
		{"按期完成", datePtr(2025, 1, 10), datePtr(2025, 1, 9), entity.OrderStatusCompleted},
		{"当天完成", datePtr(2025, 1, 10), datePtr(2025, 1, 10), entity.OrderStatusCompleted},
		{"无预计结束日期", nil, datePtr(2025, 1, 12), entity.OrderStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := entity.WorkOrder{
				StartDate:       date(2025, 1, 1),
				ExpectedEndDate: tt.expected,
				ActualEndDate:   tt.actual,
			}
			if got := DeriveStatus(&o, nil, date(2025, 1, 15)); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDeriveStatusCompletionIgnoresTimeOfDay(t *testing.T) {
	// 实际结束日期带时间部分也只按日历日比较
	actual := time.Date(2025, 1, 10, 23, 30, 0, 0, time.UTC)
	o := entity.WorkOrder{
		StartDate:       date(2025, 1, 1),
		ExpectedEndDate: datePtr(2025, 1, 10),
		ActualEndDate:   &actual,
	}
	if got := DeriveStatus(&o, nil, date(2025, 1, 15)); got != entity.OrderStatusCompleted {
		t.Errorf("expected %s, got %s", entity.OrderStatusCompleted, got)
	}
}

func TestDeriveStatusNotStarted(t *testing.T) {
	o := entity.WorkOrder{StartDate: date(2025, 1, 5)}
	if got := DeriveStatus(&o, nil, date(2025, 1, 1)); got != entity.OrderStatusNotStarted {
		t.Errorf("expected %s, got %s", entity.OrderStatusNotStarted, got)
	}
	// 开始当天即视为生产中
	if got := DeriveStatus(&o, nil, date(2025, 1, 5)); got != entity.OrderStatusInProduction {
		t.Errorf("expected %s on start date, got %s", entity.OrderStatusInProduction, got)
	}
}

func TestDeriveStatusUrgent(t *testing.T) {
	machine := &entity.Machine{Name: "CNC-01", Status: entity.MachineStatusNormal}
	o := entity.WorkOrder{Machine: "CNC-01", StartDate: date(2025, 1, 5), IsUrgent: true}
	if got := DeriveStatus(&o, machine, date(2025, 1, 5)); got != entity.OrderStatusUrgent {
		t.Errorf("expected %s, got %s", entity.OrderStatusUrgent, got)
	}
	o.IsUrgent = false
	if got := DeriveStatus(&o, machine, date(2025, 1, 5)); got != entity.OrderStatusInProduction {
		t.Errorf("expected %s, got %s", entity.OrderStatusInProduction, got)
	}
}

func TestStatusColorsCoverAllStatuses(t *testing.T) {
	colors := StatusColors()
	for _, status := range []string{
		entity.OrderStatusNotStarted,
		entity.OrderStatusInProduction,
		entity.OrderStatusUrgent,
		entity.OrderStatusCompleted,
		entity.OrderStatusDelayed,
		entity.OrderStatusPaused,
		entity.OrderStatusPausedDone,
	} {
		if _, ok := colors[status]; !ok {
			t.Errorf("missing color for status %s", status)
		}
	}
}

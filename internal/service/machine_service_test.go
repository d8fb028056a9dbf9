package service

import (
	"testing"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/heixs21/production-management-system/internal/testutil"
	"gorm.io/gorm"
)

func newMachineService(t *testing.T) (*MachineService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return NewMachineService(repos.Machine), db
}

func TestCreateMachineSeedsDefaultShifts(t *testing.T) {
	svc, db := newMachineService(t)

	m, err := svc.Create(MachineRequest{Name: "M1", OEE: 0.85, Coefficient: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !m.AutoAdjustOrders {
		t.Error("new machine should default to auto adjust on")
	}

	var shifts []entity.Shift
	if err := db.Where("machine_id = ?", m.ID).Order("sort_order ASC").Find(&shifts).Error; err != nil {
		t.Fatalf("load shifts: %v", err)
	}
	if len(shifts) != 2 {
		t.Fatalf("seeded %d shifts, want 2", len(shifts))
	}
	if shifts[0].Name != "白班" || shifts[0].StartTime != "08:00" || shifts[0].EndTime != "20:00" {
		t.Errorf("day shift = %+v", shifts[0])
	}
	if shifts[1].Name != "夜班" || shifts[1].StartTime != "20:00" || shifts[1].EndTime != "08:00" {
		t.Errorf("night shift = %+v", shifts[1])
	}
}

func TestCreateMachineAutoAdjustOffPersists(t *testing.T) {
	svc, db := newMachineService(t)

	off := false
	m, err := svc.Create(MachineRequest{Name: "M1", AutoAdjustOrders: &off})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// 关闭状态必须按原样入库，不能被列默认值回填
	var persisted entity.Machine
	if err := db.First(&persisted, m.ID).Error; err != nil {
		t.Fatalf("reload machine: %v", err)
	}
	if persisted.AutoAdjustOrders {
		t.Error("autoAdjustOrders persisted as on, want off")
	}
}

func TestAddAndDeleteShift(t *testing.T) {
	svc, db := newMachineService(t)

	m, err := svc.Create(MachineRequest{Name: "M1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	shift, err := svc.AddShift(m.ID, ShiftRequest{Name: "中班", StartTime: "14:00", EndTime: "22:00"})
	if err != nil {
		t.Fatalf("add shift failed: %v", err)
	}
	if shift.SortOrder != 3 {
		t.Errorf("sortOrder = %d, want 3 after two default shifts", shift.SortOrder)
	}

	if err := svc.DeleteShift(m.ID, shift.ID); err != nil {
		t.Fatalf("delete shift failed: %v", err)
	}
	var count int64
	db.Model(&entity.Shift{}).Where("machine_id = ?", m.ID).Count(&count)
	if count != 2 {
		t.Errorf("shift count after delete = %d, want 2", count)
	}
}

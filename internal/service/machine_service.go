package service

import (
	"fmt"
	"strings"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/heixs21/production-management-system/internal/sse"
)

// MachineService 机台服务
type MachineService struct {
	machineRepo *repository.MachineRepository
}

func NewMachineService(machineRepo *repository.MachineRepository) *MachineService {
	return &MachineService{machineRepo: machineRepo}
}

// MachineRequest 创建/更新机台请求
type MachineRequest struct {
	Name                     string  `json:"name"`
	Status                   string  `json:"status"`
	OEE                      float64 `json:"oee"`
	Coefficient              float64 `json:"coefficient"`
	AutoAdjustOrders         *bool   `json:"autoAdjustOrders"`
	MachineGroup             string  `json:"machineGroup"`
	LineCode                 string  `json:"lineCode"`
	RequiresProductionReport bool    `json:"requiresProductionReport"`
}

func (r *MachineRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("机台名称不能为空")
	}
	switch r.Status {
	case "", entity.MachineStatusNormal, entity.MachineStatusMaintenance, entity.MachineStatusStopped:
	default:
		return fmt.Errorf("无效的机台状态: %s", r.Status)
	}
	return nil
}

func (r *MachineRequest) apply(m *entity.Machine) {
	m.Name = r.Name
	if r.Status != "" {
		m.Status = r.Status
	}
	m.OEE = r.OEE
	m.Coefficient = r.Coefficient
	if r.AutoAdjustOrders != nil {
		m.AutoAdjustOrders = *r.AutoAdjustOrders
	}
	m.MachineGroup = r.MachineGroup
	m.LineCode = r.LineCode
	m.RequiresProductionReport = r.RequiresProductionReport
}

// Create 创建机台并预置白班/夜班两个默认班次
func (s *MachineService) Create(req MachineRequest) (*entity.Machine, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	m := &entity.Machine{
		Status:           entity.MachineStatusNormal,
		AutoAdjustOrders: true,
	}
	req.apply(m)
	if err := s.machineRepo.Create(m); err != nil {
		return nil, fmt.Errorf("创建机台失败: %w", err)
	}

	defaults := []entity.Shift{
		{MachineID: m.ID, Name: "白班", StartTime: "08:00", EndTime: "20:00", SortOrder: 1},
		{MachineID: m.ID, Name: "夜班", StartTime: "20:00", EndTime: "08:00", SortOrder: 2},
	}
	for i := range defaults {
		if err := s.machineRepo.CreateShift(&defaults[i]); err != nil {
			return nil, fmt.Errorf("创建默认班次失败: %w", err)
		}
	}
	m.Shifts = defaults

	sse.PublishMachineUpdate(m.Name, "created")
	return m, nil
}

// Update 更新机台
func (s *MachineService) Update(id uint, req MachineRequest) (*entity.Machine, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	m, err := s.machineRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("机台不存在: %w", err)
	}
	req.apply(m)
	if err := s.machineRepo.Update(m); err != nil {
		return nil, fmt.Errorf("更新机台失败: %w", err)
	}
	sse.PublishMachineUpdate(m.Name, "updated")
	return m, nil
}

// Delete 删除机台
func (s *MachineService) Delete(id uint) error {
	m, err := s.machineRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("机台不存在: %w", err)
	}
	if err := s.machineRepo.Delete(id); err != nil {
		return fmt.Errorf("删除机台失败: %w", err)
	}
	sse.PublishMachineUpdate(m.Name, "deleted")
	return nil
}

// List 机台列表，按机台权限过滤
func (s *MachineService) List(role string, allowedMachines entity.StringList) ([]entity.Machine, error) {
	machines, err := s.machineRepo.List()
	if err != nil {
		return nil, fmt.Errorf("读取机台失败: %w", err)
	}
	if role == entity.RoleAdmin || len(allowedMachines) == 0 || allowedMachines.Contains("all") {
		return machines, nil
	}
	filtered := machines[:0]
	for _, m := range machines {
		if allowedMachines.Contains(m.Name) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// GetByID 查询单个机台
func (s *MachineService) GetByID(id uint) (*entity.Machine, error) {
	return s.machineRepo.GetByID(id)
}

// ShiftRequest 班次请求
type ShiftRequest struct {
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AddShift 给机台添加班次，排序号自动递增
func (s *MachineService) AddShift(machineID uint, req ShiftRequest) (*entity.Shift, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("班次名称不能为空")
	}
	if _, err := s.machineRepo.GetByID(machineID); err != nil {
		return nil, fmt.Errorf("机台不存在: %w", err)
	}
	sortOrder, err := s.machineRepo.NextShiftSortOrder(machineID)
	if err != nil {
		return nil, fmt.Errorf("计算班次排序失败: %w", err)
	}
	shift := &entity.Shift{
		MachineID: machineID,
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		SortOrder: sortOrder,
	}
	if err := s.machineRepo.CreateShift(shift); err != nil {
		return nil, fmt.Errorf("创建班次失败: %w", err)
	}
	return shift, nil
}

// DeleteShift 删除班次
func (s *MachineService) DeleteShift(machineID, shiftID uint) error {
	if err := s.machineRepo.DeleteShift(machineID, shiftID); err != nil {
		return fmt.Errorf("删除班次失败: %w", err)
	}
	return nil
}

// ListShifts 机台班次列表
func (s *MachineService) ListShifts(machineID uint) ([]entity.Shift, error) {
	return s.machineRepo.ListShifts(machineID)
}

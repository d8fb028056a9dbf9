package service

import (
	"fmt"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/heixs21/production-management-system/internal/scheduling"
)

// ScheduleService 排产看板服务
type ScheduleService struct {
	orderRepo   *repository.OrderRepository
	machineRepo *repository.MachineRepository

	now func() time.Time
}

func NewScheduleService(orderRepo *repository.OrderRepository, machineRepo *repository.MachineRepository) *ScheduleService {
	return &ScheduleService{
		orderRepo:   orderRepo,
		machineRepo: machineRepo,
		now:         time.Now,
	}
}

// BoardOrder 看板中的工单，状态与展示信息已按当天重算
type BoardOrder struct {
	entity.WorkOrder
	Display scheduling.DisplayInfo `json:"display"`
}

// BoardRow 一台机台的看板行
type BoardRow struct {
	Machine entity.Machine `json:"machine"`
	Orders  []BoardOrder   `json:"orders"`
}

// Board 甘特看板
type Board struct {
	Dates []string   `json:"dates"`
	Rows  []BoardRow `json:"rows"`
}

// GetBoard 构建甘特看板：日期轴覆盖全部工单并前后各留两天，
// 每台机台的工单附带状态与颜色展示信息。
func (s *ScheduleService) GetBoard(role string, allowedMachines entity.StringList) (*Board, error) {
	machines, err := s.machineRepo.List()
	if err != nil {
		return nil, fmt.Errorf("读取机台失败: %w", err)
	}
	orders, err := s.orderRepo.List()
	if err != nil {
		return nil, fmt.Errorf("读取工单失败: %w", err)
	}

	canSee := func(machine string) bool {
		if role == entity.RoleAdmin || len(allowedMachines) == 0 || allowedMachines.Contains("all") {
			return true
		}
		return allowedMachines.Contains(machine)
	}

	today := s.now()
	dates := scheduling.GenerateDateRange(orders)
	dateStrings := make([]string, len(dates))
	for i, d := range dates {
		dateStrings[i] = d.Format("2006-01-02")
	}

	byMachine := make(map[string][]entity.WorkOrder)
	for _, o := range orders {
		byMachine[o.Machine] = append(byMachine[o.Machine], o)
	}

	var rows []BoardRow
	for _, m := range machines {
		if !canSee(m.Name) {
			continue
		}
		row := BoardRow{Machine: m}
		for _, o := range byMachine[m.Name] {
			if o.Status != entity.OrderStatusPausedDone {
				o.Status = scheduling.DeriveStatus(&o, &m, today)
			}
			row.Orders = append(row.Orders, BoardOrder{
				WorkOrder: o,
				Display:   scheduling.OrderDisplayInfo(&o),
			})
		}
		rows = append(rows, row)
	}

	return &Board{Dates: dateStrings, Rows: rows}, nil
}

// GetCell 某机台某天的单元格工单，紧急优先、再按优先级
func (s *ScheduleService) GetCell(machine, date string) ([]entity.WorkOrder, error) {
	d, err := parseDate(date)
	if err != nil || d == nil {
		return nil, fmt.Errorf("无效的日期")
	}
	orders, err := s.orderRepo.ListByMachine(machine)
	if err != nil {
		return nil, fmt.Errorf("读取机台工单失败: %w", err)
	}
	return scheduling.OrdersOnCell(orders, machine, *d), nil
}

// Estimate 按物料节拍与机台OEE估算生产时长
func (s *ScheduleService) Estimate(materialName string, quantity int, machineName string) (*scheduling.ProductionEstimate, error) {
	if materialName == "" {
		return nil, fmt.Errorf("物料名称不能为空")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("数量必须大于0")
	}
	var machine *entity.Machine
	if machineName != "" {
		m, err := s.machineRepo.GetByName(machineName)
		if err == nil {
			machine = m
		}
	}
	est := scheduling.EstimateProduction(materialName, quantity, machine)
	return &est, nil
}

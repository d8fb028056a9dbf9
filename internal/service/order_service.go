package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
	"github.com/heixs21/production-management-system/internal/repository"
	"github.com/heixs21/production-management-system/internal/scheduling"
	"github.com/heixs21/production-management-system/internal/sse"
	"gorm.io/gorm"
)

// OrderService 工单服务。完工级联顺延在单个事务中持久化，
// 并按机台串行化，避免同机台并发完工交错破坏排期。
type OrderService struct {
	orderRepo   *repository.OrderRepository
	machineRepo *repository.MachineRepository

	// 机台名 -> *sync.Mutex
	machineLocks sync.Map

	// 可注入的时钟，测试用
	now func() time.Time
}

func NewOrderService(orderRepo *repository.OrderRepository, machineRepo *repository.MachineRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		machineRepo: machineRepo,
		now:         time.Now,
	}
}

func (s *OrderService) lockMachine(machine string) *sync.Mutex {
	mu, _ := s.machineLocks.LoadOrStore(machine, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// parseDate 解析 YYYY-MM-DD 日期
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("无效的日期格式: %s", value)
	}
	return &t, nil
}

// OrderRequest 创建/更新工单请求，日期均为 YYYY-MM-DD
type OrderRequest struct {
	Machine                string `json:"machine"`
	OrderNo                string `json:"orderNo"`
	MaterialNo             string `json:"materialNo"`
	MaterialName           string `json:"materialName"`
	Quantity               int    `json:"quantity"`
	Priority               int    `json:"priority"`
	IsUrgent               bool   `json:"isUrgent"`
	StartDate              string `json:"startDate"`
	ExpectedEndDate        string `json:"expectedEndDate"`
	DelayedExpectedEndDate string `json:"delayedExpectedEndDate"`
	ActualEndDate          string `json:"actualEndDate"`
	ReportedQuantity       int    `json:"reportedQuantity"`
	DelayReason            string `json:"delayReason"`
	OrderComponent         string `json:"orderComponent"`
	ComponentDescription   string `json:"componentDescription"`
	IsSubmitted            bool   `json:"isSubmitted"`
}

func (r *OrderRequest) validate() error {
	var errs []string
	if strings.TrimSpace(r.Machine) == "" {
		errs = append(errs, "机台不能为空")
	}
	if strings.TrimSpace(r.OrderNo) == "" {
		errs = append(errs, "工单号不能为空")
	}
	if strings.TrimSpace(r.MaterialName) == "" {
		errs = append(errs, "物料名称不能为空")
	}
	if r.Quantity <= 0 {
		errs = append(errs, "数量必须大于0")
	}
	if r.StartDate == "" {
		errs = append(errs, "开始日期不能为空")
	}

	start, err := parseDate(r.StartDate)
	if err != nil {
		errs = append(errs, err.Error())
	}
	expected, err := parseDate(r.ExpectedEndDate)
	if err != nil {
		errs = append(errs, err.Error())
	}
	actual, err := parseDate(r.ActualEndDate)
	if err != nil {
		errs = append(errs, err.Error())
	}
	if start != nil && expected != nil && start.After(*expected) {
		errs = append(errs, "开始日期不能晚于预计结束日期")
	}
	if start != nil && actual != nil && actual.Before(*start) {
		errs = append(errs, "实际结束日期不能早于开始日期")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, ", "))
	}
	return nil
}

func (r *OrderRequest) apply(o *entity.WorkOrder) error {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return err
	}
	expected, err := parseDate(r.ExpectedEndDate)
	if err != nil {
		return err
	}
	delayed, err := parseDate(r.DelayedExpectedEndDate)
	if err != nil {
		return err
	}
	actual, err := parseDate(r.ActualEndDate)
	if err != nil {
		return err
	}

	o.Machine = r.Machine
	o.OrderNo = r.OrderNo
	o.MaterialNo = r.MaterialNo
	o.MaterialName = r.MaterialName
	o.Quantity = r.Quantity
	o.Priority = r.Priority
	o.IsUrgent = r.IsUrgent
	o.StartDate = *start
	o.ExpectedEndDate = expected
	o.DelayedExpectedEndDate = delayed
	o.ActualEndDate = actual
	o.ReportedQuantity = r.ReportedQuantity
	o.DelayReason = r.DelayReason
	o.OrderComponent = r.OrderComponent
	o.ComponentDescription = r.ComponentDescription
	o.IsSubmitted = r.IsSubmitted
	if o.DailyReports == nil {
		o.DailyReports = entity.DailyReports{}
	}
	return nil
}

// deriveStatus 按机台状态重算工单状态并写回缓存字段。
// 暂停完成是恢复拆单的终态，不参与重算。
func (s *OrderService) deriveStatus(o *entity.WorkOrder) {
	if o.Status == entity.OrderStatusPausedDone {
		return
	}
	machine, err := s.machineRepo.GetByName(o.Machine)
	if err != nil {
		machine = nil
	}
	o.Status = scheduling.DeriveStatus(o, machine, s.now())
}

// Create 创建工单
func (s *OrderService) Create(req OrderRequest) (*entity.WorkOrder, error) {
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("添加失败: %w", err)
	}
	exists, err := s.orderRepo.ExistsByOrderNo(req.OrderNo, 0)
	if err != nil {
		return nil, fmt.Errorf("检查工单号失败: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("工单号已存在，请使用不同的工单号")
	}

	o := &entity.WorkOrder{DailyReports: entity.DailyReports{}}
	if err := req.apply(o); err != nil {
		return nil, err
	}
	if req.Priority == 0 && !req.IsUrgent {
		o.Priority = 1
	}
	s.deriveStatus(o)

	if err := s.orderRepo.Create(o); err != nil {
		return nil, fmt.Errorf("创建工单失败: %w", err)
	}
	sse.PublishOrderUpdate(o.Machine, o.ID, "created")
	return o, nil
}

// Update 更新工单。工单首次写入实际结束日期视为完工事件，
// 按机台配置自动顺延同机台后续工单，所有日期调整与本次更新同事务提交。
func (s *OrderService) Update(id uint, req OrderRequest) (*entity.WorkOrder, []scheduling.Adjustment, error) {
	original, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, fmt.Errorf("工单不存在: %w", err)
	}
	if err := req.validate(); err != nil {
		return nil, nil, fmt.Errorf("保存失败: %w", err)
	}
	exists, err := s.orderRepo.ExistsByOrderNo(req.OrderNo, id)
	if err != nil {
		return nil, nil, fmt.Errorf("检查工单号失败: %w", err)
	}
	if exists {
		return nil, nil, fmt.Errorf("工单号已存在，请使用不同的工单号")
	}

	updated := *original
	if err := req.apply(&updated); err != nil {
		return nil, nil, err
	}

	finishEvent := updated.ActualEndDate != nil && original.ActualEndDate == nil
	if !finishEvent {
		s.deriveStatus(&updated)
		if err := s.orderRepo.Update(&updated); err != nil {
			return nil, nil, fmt.Errorf("更新工单失败: %w", err)
		}
		sse.PublishOrderUpdate(updated.Machine, updated.ID, "updated")
		return &updated, nil, nil
	}

	// 完工级联，按机台串行
	mu := s.lockMachine(updated.Machine)
	mu.Lock()
	defer mu.Unlock()

	machine, err := s.machineRepo.GetByName(updated.Machine)
	if err != nil {
		machine = nil
	}
	autoAdjust := machine != nil && machine.AutoAdjustOrders

	sameMachine, err := s.orderRepo.ListByMachine(updated.Machine)
	if err != nil {
		return nil, nil, fmt.Errorf("读取机台工单失败: %w", err)
	}

	// 候选筛选以完工工单的原开始日期为基准
	finished := *original
	finished.ActualEndDate = updated.ActualEndDate
	adjustments, err := scheduling.RescheduleDownstream(&finished, sameMachine, autoAdjust)
	if err != nil {
		return nil, nil, fmt.Errorf("顺延后续工单失败: %w", err)
	}

	updated.Status = scheduling.DeriveStatus(&updated, machine, s.now())

	err = s.orderRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		for _, adj := range adjustments {
			if err := tx.Model(&entity.WorkOrder{}).Where("id = ?", adj.OrderID).
				Updates(map[string]interface{}{
					"start_date":        adj.NewStartDate,
					"expected_end_date": adj.NewEndDate,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("更新工单失败: %w", err)
	}

	sse.PublishOrderUpdate(updated.Machine, updated.ID, "finished")
	for _, adj := range adjustments {
		sse.PublishOrderUpdate(updated.Machine, adj.OrderID, "rescheduled")
	}
	return &updated, adjustments, nil
}

// Delete 删除工单
func (s *OrderService) Delete(id uint) error {
	o, err := s.orderRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("工单不存在: %w", err)
	}
	if err := s.orderRepo.Delete(id); err != nil {
		return fmt.Errorf("删除工单失败: %w", err)
	}
	sse.PublishOrderUpdate(o.Machine, id, "deleted")
	return nil
}

// GetByID 查询单个工单
func (s *OrderService) GetByID(id uint) (*entity.WorkOrder, error) {
	return s.orderRepo.GetByID(id)
}

// List 工单列表。状态按当前机台状态与日期重算；
// 非管理员按机台权限过滤。
func (s *OrderService) List(role string, allowedMachines entity.StringList) ([]entity.WorkOrder, error) {
	orders, err := s.orderRepo.List()
	if err != nil {
		return nil, fmt.Errorf("读取工单失败: %w", err)
	}
	machines, err := s.machineRepo.List()
	if err != nil {
		return nil, fmt.Errorf("读取机台失败: %w", err)
	}
	byName := make(map[string]*entity.Machine, len(machines))
	for i := range machines {
		byName[machines[i].Name] = &machines[i]
	}

	today := s.now()
	result := orders[:0]
	for i := range orders {
		o := orders[i]
		if role != entity.RoleAdmin && len(allowedMachines) > 0 && !allowedMachines.Contains("all") &&
			!allowedMachines.Contains(o.Machine) {
			continue
		}
		if o.Status != entity.OrderStatusPausedDone {
			o.Status = scheduling.DeriveStatus(&o, byName[o.Machine], today)
		}
		result = append(result, o)
	}
	return result, nil
}

// Import 批量导入工单，粘贴的制表符分隔数据，每行至少8列：
// 机台 工单号 物料号 物料名称 数量 优先级 开始日期 预计结束 [实际结束] [报工数量]
func (s *OrderService) Import(pasteData string) (int, error) {
	lines := strings.Split(strings.TrimSpace(pasteData), "\n")
	var requests []OrderRequest
	var errs []string

	for i, line := range lines {
		cells := strings.Split(line, "\t")
		if len(cells) < 8 {
			errs = append(errs, fmt.Sprintf("第%d行: 数据格式不正确，需要至少8列数据", i+1))
			continue
		}
		get := func(idx int) string {
			if idx < len(cells) {
				return strings.TrimSpace(cells[idx])
			}
			return ""
		}
		quantity, _ := strconv.Atoi(get(4))
		priority, err := strconv.Atoi(get(5))
		if err != nil || priority == 0 {
			priority = 1
		}
		reported, _ := strconv.Atoi(get(9))

		req := OrderRequest{
			Machine:          get(0),
			OrderNo:          get(1),
			MaterialNo:       get(2),
			MaterialName:     get(3),
			Quantity:         quantity,
			Priority:         priority,
			StartDate:        get(6),
			ExpectedEndDate:  get(7),
			ActualEndDate:    get(8),
			ReportedQuantity: reported,
		}
		if err := req.validate(); err != nil {
			errs = append(errs, fmt.Sprintf("第%d行: %s", i+1, err.Error()))
			continue
		}
		requests = append(requests, req)
	}

	if len(errs) > 0 {
		return 0, fmt.Errorf("导入失败:\n%s", strings.Join(errs, "\n"))
	}
	if len(requests) == 0 {
		return 0, fmt.Errorf("没有找到有效的数据行")
	}

	count := 0
	for _, req := range requests {
		if _, err := s.Create(req); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// UrgentInsertResult 紧急插单结果
type UrgentInsertResult struct {
	NewOrder     *entity.WorkOrder  `json:"newOrder"`
	PausedOrders []entity.WorkOrder `json:"pausedOrders"`
}

// AddUrgent 紧急插单：新工单置为紧急（优先级0），
// 插单日在产的同机台工单全部暂停。
func (s *OrderService) AddUrgent(req OrderRequest, targetMachine, insertDate string) (*UrgentInsertResult, error) {
	insert, err := parseDate(insertDate)
	if err != nil || insert == nil {
		return nil, fmt.Errorf("无效的插单日期")
	}

	req.IsUrgent = true
	req.Priority = 0

	mu := s.lockMachine(targetMachine)
	mu.Lock()
	defer mu.Unlock()

	sameMachine, err := s.orderRepo.ListByMachine(targetMachine)
	if err != nil {
		return nil, fmt.Errorf("读取机台工单失败: %w", err)
	}

	newOrder, err := s.Create(req)
	if err != nil {
		return nil, fmt.Errorf("紧急插单失败: %w", err)
	}

	day := scheduling.Day(*insert)
	var paused []entity.WorkOrder
	for i := range sameMachine {
		o := sameMachine[i]
		if o.ActualEndDate != nil || o.ExpectedEndDate == nil {
			continue
		}
		if scheduling.Day(o.StartDate).After(day) || scheduling.Day(*o.ExpectedEndDate).Before(day) {
			continue
		}
		o.IsPaused = true
		o.PausedDate = &day
		o.Status = entity.OrderStatusPaused
		if err := s.orderRepo.Update(&o); err != nil {
			return nil, fmt.Errorf("暂停受影响工单失败: %w", err)
		}
		sse.PublishOrderUpdate(o.Machine, o.ID, "paused")
		paused = append(paused, o)
	}

	return &UrgentInsertResult{NewOrder: newOrder, PausedOrders: paused}, nil
}

// Pause 暂停工单，固化已生产/剩余天数供恢复拆单使用
func (s *OrderService) Pause(id uint, pauseDate string) (*entity.WorkOrder, error) {
	pause, err := parseDate(pauseDate)
	if err != nil || pause == nil {
		return nil, fmt.Errorf("无效的暂停日期")
	}
	o, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}

	produced, remaining := scheduling.PauseStats(o, *pause)
	day := scheduling.Day(*pause)
	o.IsPaused = true
	o.PausedDate = &day
	o.ProducedDays = produced
	o.RemainingDays = remaining
	o.Status = entity.OrderStatusPaused

	if err := s.orderRepo.Update(o); err != nil {
		return nil, fmt.Errorf("暂停工单失败: %w", err)
	}
	sse.PublishOrderUpdate(o.Machine, o.ID, "paused")
	return o, nil
}

// Resume 恢复暂停工单：拆分出承接剩余数量的续单，原单关闭为暂停完成。
// 两条写入同事务提交。
func (s *OrderService) Resume(id uint, newStartDate string) (*UrgentInsertResult, error) {
	resume, err := parseDate(newStartDate)
	if err != nil || resume == nil {
		return nil, fmt.Errorf("无效的恢复日期")
	}
	o, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}
	if !o.IsPaused {
		return nil, fmt.Errorf("工单未处于暂停状态")
	}

	cont := scheduling.ResumeSplit(o, *resume)
	if !scheduling.CloseForResume(o) {
		return nil, fmt.Errorf("工单缺少暂停日期，无法恢复")
	}

	err = s.orderRepo.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cont).Error; err != nil {
			return err
		}
		return tx.Save(o).Error
	})
	if err != nil {
		return nil, fmt.Errorf("恢复工单失败: %w", err)
	}

	sse.PublishOrderUpdate(cont.Machine, cont.ID, "resumed")
	sse.PublishOrderUpdate(o.Machine, o.ID, "closed")
	return &UrgentInsertResult{NewOrder: cont, PausedOrders: []entity.WorkOrder{*o}}, nil
}

// ReportWork 报工：记录指定日期的产量并累计报工数量
func (s *OrderService) ReportWork(id uint, date string, quantity int, delayReason string) (*entity.WorkOrder, error) {
	if _, err := parseDate(date); err != nil {
		return nil, err
	}
	o, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}

	if o.DailyReports == nil {
		o.DailyReports = entity.DailyReports{}
	}
	o.DailyReports[date] = quantity

	total := 0
	for _, qty := range o.DailyReports {
		total += qty
	}
	o.ReportedQuantity = total
	if delayReason != "" {
		o.DelayReason = delayReason
	}

	if err := s.orderRepo.Update(o); err != nil {
		return nil, fmt.Errorf("报工失败: %w", err)
	}
	sse.PublishOrderUpdate(o.Machine, o.ID, "reported")
	return o, nil
}

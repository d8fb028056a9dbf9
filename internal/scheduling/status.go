package scheduling

import (
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
)

// DeriveStatus 推导工单的显示状态。顺序匹配，先命中先返回：
// 暂停 > 机台维修 > 已完工（按期/延期） > 未开始 > 紧急生产 > 生产中。
// machine 可以为nil，表示无机台状态覆盖。
func DeriveStatus(o *entity.WorkOrder, machine *entity.Machine, today time.Time) string {
	if o.IsPaused {
		return entity.OrderStatusPaused
	}
	if machine != nil && machine.Status == entity.MachineStatusMaintenance {
		return entity.OrderStatusPaused
	}
	if o.ActualEndDate != nil {
		// 没有预计结束日期时无法判断延期
		if o.ExpectedEndDate == nil {
			return entity.OrderStatusCompleted
		}
		if Day(*o.ActualEndDate).After(Day(*o.ExpectedEndDate)) {
			return entity.OrderStatusDelayed
		}
		return entity.OrderStatusCompleted
	}
	if Day(today).Before(Day(o.StartDate)) {
		return entity.OrderStatusNotStarted
	}
	if o.IsUrgent {
		return entity.OrderStatusUrgent
	}
	return entity.OrderStatusInProduction
}

// StatusColors 工单状态对应的展示样式
func StatusColors() map[string]string {
	return map[string]string{
		entity.OrderStatusNotStarted:   "text-gray-600 bg-gray-100",
		entity.OrderStatusInProduction: "text-blue-600 bg-blue-100",
		entity.OrderStatusUrgent:       "text-red-600 bg-red-100",
		entity.OrderStatusCompleted:    "text-green-600 bg-green-100",
		entity.OrderStatusDelayed:      "text-red-600 bg-red-100",
		entity.OrderStatusPaused:       "text-orange-600 bg-orange-100",
		entity.OrderStatusPausedDone:   "text-orange-600 bg-orange-100",
	}
}

// MachineStatusColors 机台状态对应的展示样式
func MachineStatusColors() map[string]string {
	return map[string]string{
		entity.MachineStatusNormal:      "text-green-600 bg-green-100",
		entity.MachineStatusMaintenance: "text-red-600 bg-red-100",
		entity.MachineStatusStopped:     "text-gray-600 bg-gray-100",
	}
}

// PriorityColors 非紧急工单按优先级轮换的甘特条颜色
func PriorityColors() []string {
	return []string{
		"bg-blue-400",
		"bg-green-400",
		"bg-amber-400",
		"bg-purple-400",
		"bg-cyan-400",
		"bg-rose-400",
		"bg-indigo-400",
		"bg-emerald-400",
	}
}

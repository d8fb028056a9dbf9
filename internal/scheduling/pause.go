package scheduling

import (
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
)

// PauseStats 暂停时固化的进度：已生产天数与计划剩余天数。
// 已生产天数含暂停当日，剩余天数不会为负。
func PauseStats(o *entity.WorkOrder, pauseDate time.Time) (producedDays, remainingDays int) {
	producedDays = DaysBetween(o.StartDate, pauseDate) + 1
	totalDays := PlannedDurationDays(o) + 1
	remainingDays = totalDays - producedDays
	if remainingDays < 0 {
		remainingDays = 0
	}
	return producedDays, remainingDays
}

// ResumeSplit 恢复暂停工单时拆分出的续单。续单承接剩余数量，
// 从恢复日开始，按暂停时固化的剩余天数排期；originalOrderId 回指原单。
// 原单由调用方关闭：状态置为暂停完成，实际结束日期取暂停日期。
func ResumeSplit(o *entity.WorkOrder, resumeDate time.Time) *entity.WorkOrder {
	remaining := o.RemainingDays
	if remaining < 1 {
		remaining = 1
	}
	start := Day(resumeDate)
	end := start.AddDate(0, 0, remaining-1)
	originalID := o.ID

	return &entity.WorkOrder{
		Machine:          o.Machine,
		OrderNo:          o.OrderNo + "-续",
		MaterialNo:       o.MaterialNo,
		MaterialName:     o.MaterialName,
		Quantity:         o.Quantity - o.ReportedQuantity,
		Priority:         o.Priority,
		IsUrgent:         o.IsUrgent,
		StartDate:        start,
		ExpectedEndDate:  &end,
		ReportedQuantity: 0,
		DailyReports:     entity.DailyReports{},
		Status:           entity.OrderStatusInProduction,
		ResumedDate:      &start,
		DelayReason:      "从工单" + o.OrderNo + "恢复生产",
		OriginalOrderID:  &originalID,
	}
}

// CloseForResume 恢复拆单时关闭原单。返回false表示原单不处于暂停状态。
func CloseForResume(o *entity.WorkOrder) bool {
	if !o.IsPaused || o.PausedDate == nil {
		return false
	}
	end := Day(*o.PausedDate)
	o.ActualEndDate = &end
	o.Status = entity.OrderStatusPausedDone
	return true
}

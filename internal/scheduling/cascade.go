package scheduling

import (
	"sort"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
)

// Adjustment 级联顺延产生的单条日期调整，由调用方持久化
type Adjustment struct {
	OrderID      uint      `json:"orderId"`
	NewStartDate time.Time `json:"newStartDate"`
	NewEndDate   time.Time `json:"newEndDate"`
}

// RescheduleDownstream 工单完工后计算同机台后续工单的新日期。
//
// 候选条件：同机台、未完工、非本工单、开始日期不早于完工工单的原开始日期。
// 候选按开始日期升序（相同日期保持输入顺序），从实际结束日期的次日起
// 依次紧凑排列，每个工单保持原计划时长。
//
// autoAdjust 为机台级开关，关闭时不做任何调整。
// finished 没有实际结束日期属于调用方集成错误，返回 ErrNotFinished。
func RescheduleDownstream(finished *entity.WorkOrder, sameMachineOrders []entity.WorkOrder, autoAdjust bool) ([]Adjustment, error) {
	if finished.ActualEndDate == nil {
		return nil, ErrNotFinished
	}
	if !autoAdjust {
		return nil, nil
	}

	var candidates []entity.WorkOrder
	for _, o := range sameMachineOrders {
		if o.Machine != finished.Machine || o.ID == finished.ID {
			continue
		}
		if o.ActualEndDate != nil {
			continue
		}
		if Day(o.StartDate).Before(Day(finished.StartDate)) {
			continue
		}
		candidates = append(candidates, o)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return Day(candidates[i].StartDate).Before(Day(candidates[j].StartDate))
	})

	adjustments := make([]Adjustment, 0, len(candidates))
	cursor := Day(*finished.ActualEndDate)
	for i := range candidates {
		duration := PlannedDurationDays(&candidates[i])
		newStart := cursor.AddDate(0, 0, 1)
		newEnd := newStart.AddDate(0, 0, duration)
		adjustments = append(adjustments, Adjustment{
			OrderID:      candidates[i].ID,
			NewStartDate: newStart,
			NewEndDate:   newEnd,
		})
		cursor = newEnd
	}
	return adjustments, nil
}

package scheduling

import (
	"sort"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
)

// 空工单集时甘特图使用的兜底日期窗口
var (
	fallbackRangeStart = time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC)
	fallbackRangeEnd   = time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
)

// OrdersOnCell 指定机台在指定日期的工单，紧急工单在前，其余按优先级升序。
func OrdersOnCell(orders []entity.WorkOrder, machine string, date time.Time) []entity.WorkOrder {
	d := Day(date)
	var result []entity.WorkOrder
	for _, o := range orders {
		if o.Machine != machine {
			continue
		}
		if d.Before(Day(o.StartDate)) || d.After(EffectiveEnd(&o)) {
			continue
		}
		result = append(result, o)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsUrgent != result[j].IsUrgent {
			return result[i].IsUrgent
		}
		return result[i].Priority < result[j].Priority
	})
	return result
}

// IsInDelayedPortion 该日期是否处于工单的延期段：严格晚于原预计结束日期，
// 且不晚于有效结束日期。没有预计结束日期时无从判断延期，返回false。
func IsInDelayedPortion(o *entity.WorkOrder, date time.Time) bool {
	if o.ExpectedEndDate == nil {
		return false
	}
	d := Day(date)
	expected := Day(*o.ExpectedEndDate)

	if o.ActualEndDate != nil {
		return d.After(expected) && !d.After(Day(*o.ActualEndDate))
	}
	if o.DelayedExpectedEndDate != nil {
		return d.After(expected) && !d.After(Day(*o.DelayedExpectedEndDate))
	}
	return d.After(expected)
}

// GenerateDateRange 甘特图日期轴：所有工单的 [最早开始-2天, 最晚有效结束+2天]，
// 逐日枚举。工单为空时返回固定兜底窗口。
func GenerateDateRange(orders []entity.WorkOrder) []time.Time {
	var minDate, maxDate time.Time
	for i := range orders {
		start := Day(orders[i].StartDate)
		end := EffectiveEnd(&orders[i])
		if minDate.IsZero() || start.Before(minDate) {
			minDate = start
		}
		if maxDate.IsZero() || end.After(maxDate) {
			maxDate = end
		}
	}
	if minDate.IsZero() || maxDate.IsZero() {
		minDate = fallbackRangeStart
		maxDate = fallbackRangeEnd
	}

	minDate = minDate.AddDate(0, 0, -2)
	maxDate = maxDate.AddDate(0, 0, 2)

	var dates []time.Time
	for d := minDate; !d.After(maxDate); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// DisplayInfo 工单在甘特图中的展示信息
type DisplayInfo struct {
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	IsCompleted      bool      `json:"isCompleted"`
	IsDelayed        bool      `json:"isDelayed"`
	IsDelayedPlanned bool      `json:"isDelayedPlanned"`
	IsPaused         bool      `json:"isPaused"`
	IsUrgent         bool      `json:"isUrgent"`
	BaseColor        string    `json:"baseColor"`
	DelayedDays      int       `json:"delayedDays"`
}

// OrderDisplayInfo 计算工单甘特条的结束日期、颜色与延期信息
func OrderDisplayInfo(o *entity.WorkOrder) DisplayInfo {
	info := DisplayInfo{
		StartDate:        Day(o.StartDate),
		EndDate:          EffectiveEnd(o),
		IsCompleted:      o.ActualEndDate != nil,
		IsDelayedPlanned: o.DelayedExpectedEndDate != nil,
		IsPaused:         o.IsPaused,
		IsUrgent:         o.IsUrgent,
	}

	colors := PriorityColors()
	switch {
	case o.IsPaused:
		info.BaseColor = "bg-orange-400"
	case o.IsUrgent:
		info.BaseColor = "bg-red-600"
	default:
		idx := (o.Priority - 1) % len(colors)
		if idx < 0 {
			idx += len(colors)
		}
		info.BaseColor = colors[idx]
	}
	if o.ActualEndDate != nil {
		info.BaseColor = "bg-gray-400"
	}

	if o.ActualEndDate != nil && o.ExpectedEndDate != nil && Day(*o.ActualEndDate).After(Day(*o.ExpectedEndDate)) {
		info.IsDelayed = true
		info.DelayedDays = DaysBetween(*o.ExpectedEndDate, *o.ActualEndDate)
	}
	return info
}

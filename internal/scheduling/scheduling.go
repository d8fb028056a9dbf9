// Package scheduling 实现排产核心逻辑：工单状态推导、完工级联顺延、
// 甘特图单元格归属与日期范围。所有函数均为纯函数，不做任何I/O，
// “今天”由调用方注入。
package scheduling

import (
	"errors"
	"time"

	"github.com/heixs21/production-management-system/internal/entity"
)

// ErrNotFinished 级联顺延的前置条件不满足：工单没有实际结束日期
var ErrNotFinished = errors.New("工单尚未完工，无法顺延后续工单")

// Day 截断到日历日，消除时间部分对日期比较的影响。
// 统一归一到UTC，不同时区来源的日期才能落在同一条日期轴上。
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween 两个日历日之间的天数（b - a）
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// EffectiveEnd 工单的有效结束日期。
// 优先级：实际结束日期 > 延期预计结束日期 > 预计结束日期 > 开始日期。
func EffectiveEnd(o *entity.WorkOrder) time.Time {
	if o.ActualEndDate != nil {
		return Day(*o.ActualEndDate)
	}
	if o.DelayedExpectedEndDate != nil {
		return Day(*o.DelayedExpectedEndDate)
	}
	if o.ExpectedEndDate != nil {
		return Day(*o.ExpectedEndDate)
	}
	return Day(o.StartDate)
}

// PlannedDurationDays 计划时长（天数差）。没有预计结束日期视为单日工单，返回0。
func PlannedDurationDays(o *entity.WorkOrder) int {
	if o.ExpectedEndDate == nil {
		return 0
	}
	d := DaysBetween(o.StartDate, *o.ExpectedEndDate)
	if d < 0 {
		return 0
	}
	return d
}

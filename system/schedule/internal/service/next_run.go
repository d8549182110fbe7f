package service

import (
	"fmt"
	"strings"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/system/schedule/internal/model"

	"github.com/robfig/cron/v3"
)

var nextRunErr = errorc.NewErrorBuilder("NextRun")

// Validate 检查调度配置，不合法时返回 Config 错误
func Validate(taskType string, cfg model.ScheduleConfig) error {
	invalid := func(msg string) error {
		return nextRunErr.New(msg, nil).Config()
	}
	checkClock := func() error {
		if cfg.Hour < 0 || cfg.Hour > 23 {
			return invalid("小时必须在0-23之间")
		}
		if cfg.Minute < 0 || cfg.Minute > 59 {
			return invalid("分钟必须在0-59之间")
		}
		return nil
	}

	switch taskType {
	case model.TaskDaily:
		return checkClock()
	case model.TaskWeekly:
		if cfg.DayOfWeek < 0 || cfg.DayOfWeek > 6 {
			return invalid("星期必须在0-6之间（0为周一）")
		}
		return checkClock()
	case model.TaskMonthly:
		if cfg.Day < 1 || cfg.Day > 31 {
			return invalid("日期必须在1-31之间")
		}
		return checkClock()
	case model.TaskInterval:
		if _, err := intervalUnit(cfg.IntervalType); err != nil {
			return err
		}
		if cfg.IntervalValue <= 0 {
			return invalid("间隔必须大于0")
		}
		return nil
	case model.TaskCron:
		if len(strings.Fields(cfg.CronExpression)) != 5 {
			return invalid("Cron表达式必须为5段：分 时 日 月 周")
		}
		if _, err := cron.ParseStandard(cfg.CronExpression); err != nil {
			return nextRunErr.New("Cron表达式无效: "+err.Error(), err).Config()
		}
		return nil
	default:
		return invalid(fmt.Sprintf("不支持的任务类型: %s", taskType))
	}
}

func intervalUnit(t string) (time.Duration, error) {
	switch t {
	case model.IntervalMinutes:
		return time.Minute, nil
	case model.IntervalHours:
		return time.Hour, nil
	case model.IntervalDays:
		return 24 * time.Hour, nil
	default:
		return 0, nextRunErr.New("间隔单位必须为 minutes、hours 或 days", nil).Config()
	}
}

// NextRun 计算严格晚于 now 的下一次触发时间。
// 每月任务的日期超过当月天数时取当月最后一天。
func NextRun(taskType string, cfg model.ScheduleConfig, now time.Time) (time.Time, error) {
	if err := Validate(taskType, cfg); err != nil {
		return time.Time{}, err
	}
	loc := now.Location()
	y, m, d := now.Date()

	switch taskType {
	case model.TaskDaily:
		next := time.Date(y, m, d, cfg.Hour, cfg.Minute, 0, 0, loc)
		if !next.After(now) {
			next = time.Date(y, m, d+1, cfg.Hour, cfg.Minute, 0, 0, loc)
		}
		return next, nil

	case model.TaskWeekly:
		// time.Weekday 以周日为 0
		target := time.Weekday((cfg.DayOfWeek + 1) % 7)
		ahead := (int(target) - int(now.Weekday()) + 7) % 7
		next := time.Date(y, m, d+ahead, cfg.Hour, cfg.Minute, 0, 0, loc)
		if !next.After(now) {
			next = time.Date(y, m, d+ahead+7, cfg.Hour, cfg.Minute, 0, 0, loc)
		}
		return next, nil

	case model.TaskMonthly:
		next := monthDay(y, m, cfg, loc)
		if !next.After(now) {
			next = monthDay(y, m+1, cfg, loc)
		}
		return next, nil

	case model.TaskInterval:
		unit, _ := intervalUnit(cfg.IntervalType)
		return now.Add(time.Duration(cfg.IntervalValue) * unit), nil

	default:
		sched, _ := cron.ParseStandard(cfg.CronExpression)
		return sched.Next(now), nil
	}
}

// monthDay 指定月份的触发时间，日期按当月天数截断
func monthDay(y int, m time.Month, cfg model.ScheduleConfig, loc *time.Location) time.Time {
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1).Day()
	day := cfg.Day
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, cfg.Hour, cfg.Minute, 0, 0, loc)
}

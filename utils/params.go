package utils

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ParamID 读取路径中的正整数 ID
func ParamID(ctx *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// DateRange 解析 YYYY-MM-DD 日期区间，结束日期取次日零点（不含）
func DateRange(start, end string, loc *time.Location) (*time.Time, *time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	var from, to *time.Time
	if start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, loc)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, loc)
		if err != nil {
			return nil, nil, err
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	return from, to, nil
}

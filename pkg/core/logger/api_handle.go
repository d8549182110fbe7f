package logger

import (
	"strings"
	"time"

	"hostpatrol/pkg/core/consts"
	errorc "hostpatrol/pkg/core/err"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	Logger *Log
}

// NewApiLogger 记录每个请求的耗时与状态，出错时输出错误链
func NewApiLogger(config Config) fiber.Handler {
	log := config.Logger.WithEntryName("API")

	return func(c *fiber.Ctx) (err error) {
		url := strings.SplitN(c.OriginalURL(), "?", 2)[0]
		start := time.Now()

		err = c.Next()

		entry := log.WithField("latency", time.Since(start).Round(time.Millisecond)).
			WithField("method", c.Method()).
			WithField("path", url).
			WithField("TraceId", c.Locals(consts.TraceKey)).
			WithField("admin", c.Locals("account"))

		if err != nil {
			errc := errorc.ParseError(err)
			errc.ToLog(entry.GetLogger(), "请求处理失败")
			return err
		}

		entry.WithField("status", c.Response().StatusCode()).Debug("请求处理完毕")
		return nil
	}
}

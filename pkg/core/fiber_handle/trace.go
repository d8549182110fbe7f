package fiber_handle

import (
	"context"

	"hostpatrol/pkg/core/consts"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
)

// NewTrace 为每个请求分配链路 ID，优先沿用请求头中的值
func NewTrace() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(consts.TraceHeaderName)
		if traceID == "" {
			traceID = uuid.NewV4().String()
		}

		ctx := context.WithValue(c.UserContext(), consts.TraceKey, traceID)
		c.SetUserContext(ctx)
		c.Locals(consts.TraceKey, traceID)
		c.Set(consts.TraceHeaderName, traceID)
		return c.Next()
	}
}

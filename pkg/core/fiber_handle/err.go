package fiber_handle

import (
	"errors"

	"hostpatrol/pkg/core/consts"
	errorc "hostpatrol/pkg/core/err"

	"github.com/gofiber/fiber/v2"
)

// ErrHandler 将错误统一转换为 {"success":false,...} 信封
func ErrHandler(ctx *fiber.Ctx, err error) error {
	var e *fiber.Error
	if errors.As(err, &e) {
		return ctx.Status(e.Code).JSON(fiber.Map{
			"success": false,
			"status":  e.Code,
			"message": e.Message,
		})
	}

	cError := errorc.ParseError(err)
	body := fiber.Map{
		"success": false,
		"status":  cError.Code,
		"message": cError.Message(),
	}
	if traceID, ok := ctx.Locals(consts.TraceKey).(string); ok && traceID != "" {
		body[consts.TraceKey] = traceID
	}

	status := cError.ErrorCode.HTTPStatus()
	if cError.ErrorCode == errorc.ErrorCodeNoAuth {
		body["need_login"] = true
	}
	return ctx.Status(status).JSON(body)
}

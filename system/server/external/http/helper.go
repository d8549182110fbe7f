package http

import (
	"fmt"

	"hostpatrol/pkg/core/result"
	"hostpatrol/system/server/internal/model/dto"

	"github.com/gofiber/fiber/v2"
)

func bulkMessage(success, failed int) string {
	if failed == 0 {
		return fmt.Sprintf("成功删除 %d 条", success)
	}
	return fmt.Sprintf("成功删除 %d 条，失败 %d 条", success, failed)
}

func sendCSV(ctx *fiber.Ctx, filename string, data []byte) error {
	ctx.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(data)
}

// importResponse 全部失败时返回失败信封，明细放在 data 中
func importResponse(ctx *fiber.Ctx, kind string, res *dto.ImportResult) error {
	if res.Success == 0 {
		return result.Fail(ctx, fiber.StatusBadRequest, fmt.Sprintf("导入失败，共 %d 个%s导入失败", res.Failed, kind), res)
	}
	return result.OKWithMessage(ctx, fmt.Sprintf("成功导入 %d 个%s，失败 %d 个", res.Success, kind, res.Failed), res)
}

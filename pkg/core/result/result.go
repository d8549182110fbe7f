package result

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

// OK 成功信封
func OK(c *fiber.Ctx, v interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "status": fiber.StatusOK, "data": v})
}

// OKWithMessage 带提示信息的成功信封
func OKWithMessage(c *fiber.Ctx, message string, v interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"status":  fiber.StatusOK,
		"message": message,
		"data":    v,
	})
}

// Once 有错误交给 ErrHandler，否则返回成功信封
func Once(c *fiber.Ctx, v interface{}, err error) error {
	if err != nil {
		return err
	}
	return OK(c, v)
}

// Pagination 分页元信息
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// NewPagination page 从 1 开始
func NewPagination(page, perPage int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	pages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page < pages,
	}
}

// Page 分页列表信封，items 与 pagination 并列放在 data 中
func Page(c *fiber.Ctx, items interface{}, p Pagination) error {
	return OK(c, fiber.Map{"items": items, "pagination": p})
}

// Fail 失败信封，data 可携带失败明细
func Fail(c *fiber.Ctx, status int, message string, v interface{}) error {
	body := fiber.Map{"success": false, "status": status, "message": message}
	if v != nil {
		body["data"] = v
	}
	return c.Status(status).JSON(body)
}

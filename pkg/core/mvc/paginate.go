package mvc

import (
	"gorm.io/gorm"
)

// Page 分页参数，PageNum 从 1 开始
type Page struct {
	PageNum int    `json:"page" query:"page"`
	Size    int    `json:"per_page" query:"per_page"`
	Sort    string `json:"sort,omitempty" query:"-"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// Normalize 修正非法的页码与页大小
func (page *Page) Normalize() *Page {
	if page.PageNum <= 0 {
		page.PageNum = 1
	}
	if page.Size <= 0 {
		page.Size = DefaultPageSize
	}
	if page.Size > MaxPageSize {
		page.Size = MaxPageSize
	}
	return page
}

func (page *Page) Offset() int {
	page.Normalize()
	return (page.PageNum - 1) * page.Size
}

func Paginate(page *Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := page.Offset()
		return db.Offset(offset).Limit(page.Size)
	}
}

package mvc

import "context"

// IBaseDao 单表通用访问，各模块的 dao 嵌入后补充自己的查询
type IBaseDao[T any] interface {
	Create(ctx context.Context, entity *T) error
	// DeleteById 记录不存在时返回 NotFound
	DeleteById(ctx context.Context, id interface{}) error
	// DeleteByColumn 返回删除条数，没有匹配不算错误
	DeleteByColumn(ctx context.Context, column string, value interface{}) (int64, error)
	// UpdateById 零值字段不写入
	UpdateById(ctx context.Context, id interface{}, entity *T) (int64, error)
	// UpdateColumnsById 按列写入，可以写零值
	UpdateColumnsById(ctx context.Context, id interface{}, columns map[string]interface{}) (int64, error)
	FindById(ctx context.Context, id interface{}) (*T, error)
	FindByIds(ctx context.Context, ids []int64) ([]*T, error)
	FindByColumn(ctx context.Context, column string, value interface{}) ([]*T, error)
	FindAll(ctx context.Context) ([]*T, error)
	// FindPage 默认按 id 倒序
	FindPage(ctx context.Context, page *Page, condition map[string]interface{}) ([]*T, int64, error)
	CountByMap(ctx context.Context, conditions map[string]interface{}) (int64, error)
	// WithTx tx 不是 *gorm.DB 时返回自身
	WithTx(tx interface{}) IBaseDao[T]
}

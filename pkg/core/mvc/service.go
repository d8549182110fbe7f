package mvc

import (
	"context"
)

// IBaseService 模块 service 嵌入 BaseService 获得单表 CRUD
type IBaseService[T any] interface {
	Create(ctx context.Context, entity *T) error
	DeleteById(ctx context.Context, id interface{}) error
	UpdateById(ctx context.Context, id interface{}, entity *T) (int64, error)
	FindById(ctx context.Context, id interface{}) (*T, error)
	FindAll(ctx context.Context) ([]*T, error)
	FindPage(ctx context.Context, page *Page, condition map[string]interface{}) ([]*T, int64, error)
	WithTx(tx interface{}) IBaseService[T]
}

type BaseService[T any] struct {
	Dao IBaseDao[T]
}

func NewBaseService[T any](dao IBaseDao[T]) *BaseService[T] {
	return &BaseService[T]{Dao: dao}
}

func (s *BaseService[T]) WithTx(tx interface{}) IBaseService[T] {
	return NewBaseService[T](s.Dao.WithTx(tx))
}

func (s *BaseService[T]) Create(ctx context.Context, entity *T) error {
	return s.Dao.Create(ctx, entity)
}

func (s *BaseService[T]) DeleteById(ctx context.Context, id interface{}) error {
	return s.Dao.DeleteById(ctx, id)
}

func (s *BaseService[T]) UpdateById(ctx context.Context, id interface{}, entity *T) (int64, error) {
	return s.Dao.UpdateById(ctx, id, entity)
}

func (s *BaseService[T]) FindById(ctx context.Context, id interface{}) (*T, error) {
	return s.Dao.FindById(ctx, id)
}

func (s *BaseService[T]) FindAll(ctx context.Context) ([]*T, error) {
	return s.Dao.FindAll(ctx)
}

func (s *BaseService[T]) FindPage(ctx context.Context, page *Page, condition map[string]interface{}) ([]*T, int64, error) {
	return s.Dao.FindPage(ctx, page, condition)
}

package mvc

import (
	"context"
	"errors"

	errorc "hostpatrol/pkg/core/err"

	"gorm.io/gorm"
)

type GormDaoImpl[T any] struct {
	db *gorm.DB
}

func NewGormDao[T any](db *gorm.DB) IBaseDao[T] {
	return &GormDaoImpl[T]{db: db}
}

func (d *GormDaoImpl[T]) WithTx(tx interface{}) IBaseDao[T] {
	if gormDB, ok := tx.(*gorm.DB); ok {
		return &GormDaoImpl[T]{db: gormDB}
	}
	return d
}

// queryErr 区分记录不存在与数据库故障
func queryErr(msg string, err error) *errorc.Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorc.New("记录不存在", err).NotFound()
	}
	return errorc.New(msg, err).DB()
}

func (d *GormDaoImpl[T]) Create(ctx context.Context, entity *T) error {
	if err := d.db.WithContext(ctx).Create(entity).Error; err != nil {
		return errorc.New("写入记录失败", err).DB()
	}
	return nil
}


func (d *GormDaoImpl[T]) DeleteById(ctx context.Context, id interface{}) error {
	result := d.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return errorc.New("删除记录失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return errorc.New("要删除的记录不存在", nil).NotFound()
	}
	return nil
}

func (d *GormDaoImpl[T]) DeleteByColumn(ctx context.Context, column string, value interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Where(column+" = ?", value).Delete(new(T))
	if result.Error != nil {
		return 0, errorc.New("批量删除记录失败", result.Error).DB()
	}
	return result.RowsAffected, nil
}

func (d *GormDaoImpl[T]) UpdateById(ctx context.Context, id interface{}, entity *T) (int64, error) {
	return d.update(ctx, id, entity)
}

func (d *GormDaoImpl[T]) UpdateColumnsById(ctx context.Context, id interface{}, columns map[string]interface{}) (int64, error) {
	return d.update(ctx, id, columns)
}

// update values 为结构体指针或列映射
func (d *GormDaoImpl[T]) update(ctx context.Context, id interface{}, values interface{}) (int64, error) {
	result := d.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return 0, errorc.New("更新记录失败", result.Error).DB()
	}
	if result.RowsAffected == 0 {
		return 0, errorc.New("要更新的记录不存在", nil).NotFound()
	}
	return result.RowsAffected, nil
}

func (d *GormDaoImpl[T]) FindById(ctx context.Context, id interface{}) (*T, error) {
	var entity T
	err := d.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		return nil, queryErr("查询记录失败", err)
	}
	return &entity, nil
}

func (d *GormDaoImpl[T]) FindByIds(ctx context.Context, ids []int64) ([]*T, error) {
	var entities []*T
	if len(ids) == 0 {
		return entities, nil
	}
	err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&entities).Error
	if err != nil {
		return nil, errorc.New("批量查询记录失败", err).DB()
	}
	return entities, nil
}

func (d *GormDaoImpl[T]) FindByColumn(ctx context.Context, column string, value interface{}) ([]*T, error) {
	var entities []*T
	err := d.db.WithContext(ctx).Where(column+" = ?", value).Order("id ASC").Find(&entities).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return entities, nil
}



func (d *GormDaoImpl[T]) FindAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := d.db.WithContext(ctx).Order("id ASC").Find(&entities).Error
	if err != nil {
		return nil, errorc.New("查询记录失败", err).DB()
	}
	return entities, nil
}

func (d *GormDaoImpl[T]) FindPage(ctx context.Context, page *Page, condition map[string]interface{}) ([]*T, int64, error) {
	var entities []*T
	var total int64

	db := d.db.WithContext(ctx).Model(new(T))
	if len(condition) > 0 {
		db = db.Where(condition)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errorc.New("查询记录失败", err).DB()
	}

	db = db.Scopes(Paginate(page))
	if page.Sort != "" {
		db = db.Order(page.Sort)
	} else {
		db = db.Order("id DESC")
	}

	if err := db.Find(&entities).Error; err != nil {
		return nil, 0, errorc.New("查询记录失败", err).DB()
	}

	return entities, total, nil
}

func (d *GormDaoImpl[T]) CountByMap(ctx context.Context, conditions map[string]interface{}) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(new(T)).Where(conditions).Count(&count).Error
	if err != nil {
		return 0, errorc.New("查询记录失败", err).DB()
	}
	return count, nil
}


package dao

import (
	"context"
	"errors"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/system/server/internal/model"

	"gorm.io/gorm"
)

// ServerDao 服务器数据访问层
type ServerDao struct {
	mvc.IBaseDao[model.ServerModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

// NewServerDao 创建服务器 DAO 实例
func NewServerDao(db *gorm.DB, log *logger.Log) *ServerDao {
	return &ServerDao{
		IBaseDao: mvc.NewGormDao[model.ServerModel](db),
		log:      log.WithEntryName("ServerDao"),
		err:      errorc.NewErrorBuilder("ServerDao"),
		db:       db,
	}
}

// Tx 返回绑定到事务的 DAO
func (d *ServerDao) Tx(tx *gorm.DB) *ServerDao {
	return &ServerDao{
		IBaseDao: d.IBaseDao.WithTx(tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}

// FindByName 根据名称查询服务器
func (d *ServerDao) FindByName(ctx context.Context, name string) (*model.ServerModel, error) {
	var server model.ServerModel
	err := d.db.WithContext(ctx).Where("name = ?", name).First(&server).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.err.New("服务器不存在", err).NotFound()
		}
		return nil, d.err.New("查询服务器失败", err).DB()
	}
	return &server, nil
}

// ExistsName 名称是否被其他服务器占用，excludeID 为 0 时不排除
func (d *ServerDao) ExistsName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	query := d.db.WithContext(ctx).Model(&model.ServerModel{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, d.err.New("查询服务器失败", err).DB()
	}
	return count > 0, nil
}

// ExistsAddr 主机地址与端口组合是否被其他服务器占用
func (d *ServerDao) ExistsAddr(ctx context.Context, host string, port int, excludeID int64) (bool, error) {
	var count int64
	query := d.db.WithContext(ctx).Model(&model.ServerModel{}).Where("host = ? AND port = ?", host, port)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, d.err.New("查询服务器失败", err).DB()
	}
	return count > 0, nil
}

// ListActive 查询所有启用的服务器
func (d *ServerDao) ListActive(ctx context.Context) ([]*model.ServerModel, error) {
	var servers []*model.ServerModel
	err := d.db.WithContext(ctx).Where("status = ?", model.StatusActive).Order("id ASC").Find(&servers).Error
	if err != nil {
		return nil, d.err.New("查询服务器列表失败", err).DB()
	}
	return servers, nil
}

// CountActive 启用的服务器数量
func (d *ServerDao) CountActive(ctx context.Context) (int64, error) {
	return d.CountByMap(ctx, map[string]interface{}{"status": model.StatusActive})
}

// QueryWithPage 分页查询服务器
func (d *ServerDao) QueryWithPage(ctx context.Context, keyword, status string, page *mvc.Page) ([]*model.ServerModel, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.ServerModel{})

	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR host LIKE ?", like, like)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计服务器数量失败", err).DB()
	}

	var servers []*model.ServerModel
	err := query.Scopes(mvc.Paginate(page)).Order("id ASC").Find(&servers).Error
	if err != nil {
		return nil, 0, d.err.New("分页查询服务器失败", err).DB()
	}

	return servers, total, nil
}

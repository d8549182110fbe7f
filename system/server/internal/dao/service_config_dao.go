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

// ServiceConfigDao 服务配置数据访问层
type ServiceConfigDao struct {
	mvc.IBaseDao[model.ServiceConfigModel]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

func NewServiceConfigDao(db *gorm.DB, log *logger.Log) *ServiceConfigDao {
	return &ServiceConfigDao{
		IBaseDao: mvc.NewGormDao[model.ServiceConfigModel](db),
		log:      log.WithEntryName("ServiceConfigDao"),
		err:      errorc.NewErrorBuilder("ServiceConfigDao"),
		db:       db,
	}
}

func (d *ServiceConfigDao) Tx(tx *gorm.DB) *ServiceConfigDao {
	return &ServiceConfigDao{
		IBaseDao: d.IBaseDao.WithTx(tx),
		log:      d.log,
		err:      d.err,
		db:       tx,
	}
}

// FindByServerAndName 同一服务器下按服务名查询
func (d *ServiceConfigDao) FindByServerAndName(ctx context.Context, serverID int64, name string) (*model.ServiceConfigModel, error) {
	var svc model.ServiceConfigModel
	err := d.db.WithContext(ctx).Where("server_id = ? AND service_name = ?", serverID, name).First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.err.New("服务配置不存在", err).NotFound()
		}
		return nil, d.err.New("查询服务配置失败", err).DB()
	}
	return &svc, nil
}

// ListByServerIDs 查询多台服务器下的服务，按 server_id、id 排序
func (d *ServiceConfigDao) ListByServerIDs(ctx context.Context, serverIDs []int64) ([]*model.ServiceConfigModel, error) {
	var services []*model.ServiceConfigModel
	if len(serverIDs) == 0 {
		return services, nil
	}
	err := d.db.WithContext(ctx).Where("server_id IN ?", serverIDs).Order("server_id ASC, id ASC").Find(&services).Error
	if err != nil {
		return nil, d.err.New("查询服务配置失败", err).DB()
	}
	return services, nil
}

// QueryWithPage 分页查询服务配置
func (d *ServiceConfigDao) QueryWithPage(ctx context.Context, serverID int64, keyword string, page *mvc.Page) ([]*model.ServiceConfigModel, int64, error) {
	query := d.db.WithContext(ctx).Model(&model.ServiceConfigModel{})
	if serverID > 0 {
		query = query.Where("server_id = ?", serverID)
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("service_name LIKE ? OR process_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, d.err.New("统计服务配置数量失败", err).DB()
	}

	var services []*model.ServiceConfigModel
	err := query.Scopes(mvc.Paginate(page)).Order("server_id ASC, id ASC").Find(&services).Error
	if err != nil {
		return nil, 0, d.err.New("分页查询服务配置失败", err).DB()
	}
	return services, total, nil
}

// UpdateStatus 写回巡检得到的状态字段，first_error_time 允许写入 NULL
func (d *ServiceConfigDao) UpdateStatus(ctx context.Context, id int64, columns map[string]interface{}) error {
	result := d.db.WithContext(ctx).Model(&model.ServiceConfigModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return d.err.New("更新服务状态失败", result.Error).DB()
	}
	return nil
}

// StatusCount 按状态分组的计数
type StatusCount struct {
	LatestStatus string
	IsMonitoring bool
	Count        int64
}

// CountByStatus 全部服务按监控开关与最近状态分组计数
func (d *ServiceConfigDao) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := d.db.WithContext(ctx).Model(&model.ServiceConfigModel{}).
		Select("latest_status, is_monitoring, COUNT(*) AS count").
		Group("latest_status, is_monitoring").
		Scan(&rows).Error
	if err != nil {
		return nil, d.err.New("统计服务状态失败", err).DB()
	}
	return rows, nil
}

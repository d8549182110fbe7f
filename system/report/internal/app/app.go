package app

import (
	"context"
	"fmt"
	"os"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/model/common"
	"hostpatrol/pkg/core/mvc"
	"hostpatrol/pkg/patrol"
	"hostpatrol/pkg/report"
	"hostpatrol/system/report/internal/dao"
	"hostpatrol/system/report/internal/model"
	"hostpatrol/system/report/internal/model/dto"
	"hostpatrol/system/report/internal/service"
	"hostpatrol/utils"

	"gorm.io/gorm"
)

// App 报告组件应用层
type App struct {
	ReportService *service.ReportService

	generator *report.Generator
	now       func() time.Time
	log       *logger.Log
	err       *errorc.ErrorBuilder
}

func NewApp(db *gorm.DB, generator *report.Generator) *App {
	log := logger.GetLogger().WithEntryName("ReportApp")
	return &App{
		ReportService: service.NewReportService(db, log),
		generator:     generator,
		now:           time.Now,
		log:           log,
		err:           errorc.NewErrorBuilder("ReportApp"),
	}
}

// Generate 生成报告文件并登记。文件写入成功后才插入记录，插入失败时删除文件
func (a *App) Generate(ctx context.Context, summary *patrol.Summary, reportType string) (*patrol.ReportRef, error) {
	if reportType != patrol.ReportScheduled {
		reportType = patrol.ReportManual
	}
	name := fmt.Sprintf("%s_report_%s", reportType, a.now().Format("20060102_150405"))

	path, err := a.generator.Generate(summary, name)
	if err != nil {
		return nil, err
	}

	m := &model.ReportModel{
		ReportName:   name,
		ReportType:   reportType,
		ServerCount:  summary.Total,
		SuccessCount: summary.SuccessCount,
		WarningCount: summary.WarningCount,
		FailedCount:  summary.FailedCount,
		ReportPath:   path,
	}
	if err := a.ReportService.Create(ctx, m); err != nil {
		if rmErr := a.generator.Remove(path); rmErr != nil {
			a.log.WithErr(rmErr).Warn("清理未登记的报告文件失败")
		}
		return nil, err
	}
	a.log.WithField("report", name).WithField("type", reportType).Info("巡检报告已生成")
	return &patrol.ReportRef{ID: m.ID, Name: name, Path: path}, nil
}

// AttachURL 记录报告的 OSS 下载链接
func (a *App) AttachURL(ctx context.Context, id int64, url string) error {
	return a.ReportService.SetOSSURL(ctx, id, url)
}

func (a *App) QueryReports(ctx context.Context, req *dto.QueryReportRequest) ([]*model.ReportModel, int64, error) {
	from, to, err := utils.DateRange(req.StartDate, req.EndDate, nil)
	if err != nil {
		return nil, 0, a.err.New("日期格式应为 YYYY-MM-DD", err).ValidWithCtx()
	}
	return a.ReportService.QueryWithPage(ctx, dao.ReportFilter{
		ReportType: req.ReportType,
		From:       from,
		To:         to,
	}, &req.Page)
}

func (a *App) GetReport(ctx context.Context, id int64) (*model.ReportModel, error) {
	r, err := a.ReportService.FindById(ctx, id)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, a.err.New("报告不存在", err).NotFound()
		}
		return nil, err
	}
	return r, nil
}

// DownloadPath 报告文件路径，文件已被移除时返回 NotFound
func (a *App) DownloadPath(ctx context.Context, id int64) (*model.ReportModel, error) {
	r, err := a.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(r.ReportPath); err != nil {
		return nil, a.err.New("报告文件不存在", err).NotFound()
	}
	return r, nil
}

// DeleteReport 删除记录与报告文件
func (a *App) DeleteReport(ctx context.Context, id int64) error {
	r, err := a.GetReport(ctx, id)
	if err != nil {
		return err
	}
	if err := a.ReportService.DeleteById(ctx, id); err != nil {
		return err
	}
	if err := a.generator.Remove(r.ReportPath); err != nil {
		a.log.WithErr(err).WithField("path", r.ReportPath).Warn("报告记录已删除，文件删除失败")
	}
	return nil
}

func (a *App) BulkDeleteReports(ctx context.Context, ids []int64) *common.BulkResult {
	return mvc.BulkDelete(ctx, ids, a.DeleteReport)
}


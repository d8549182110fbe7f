package app

import (
	"context"
	"fmt"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/notifier"
	"hostpatrol/pkg/patrol"
	"hostpatrol/system/notification/internal/model/dto"
	"hostpatrol/system/notification/internal/service"

	"gorm.io/gorm"
)

// SummarySource 测试通道时使用的最近一次巡检汇总
type SummarySource interface {
	LatestSummary(ctx context.Context) (*patrol.Summary, error)
}

// Deliverer 向通道投递，默认实现为 notifier.Dispatcher
type Deliverer interface {
	Dispatch(ctx context.Context, channels []notifier.Channel, msg notifier.Message) *patrol.Dispatch
}

// App 通知组件应用层
type App struct {
	ChannelService *service.ChannelService

	deliverer Deliverer
	summaries SummarySource
	now       func() time.Time

	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewApp(db *gorm.DB, box *util.SecretBox, d Deliverer, summaries SummarySource) *App {
	log := logger.GetLogger().WithEntryName("NotificationApp")
	return &App{
		ChannelService: service.NewChannelService(db, box, log),
		deliverer:      d,
		summaries:      summaries,
		now:            time.Now,
		log:            log,
		err:            errorc.NewErrorBuilder("NotificationApp"),
	}
}

func (a *App) ListChannels(ctx context.Context) ([]*dto.ChannelView, error) {
	channels, err := a.ChannelService.Dao().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]*dto.ChannelView, 0, len(channels))
	for _, c := range channels {
		views = append(views, dto.NewChannelView(c))
	}
	return views, nil
}

func (a *App) GetChannel(ctx context.Context, id int64) (*dto.ChannelView, error) {
	c, err := a.ChannelService.FindById(ctx, id)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, a.err.New("通知通道不存在", err).NotFound()
		}
		return nil, err
	}
	return dto.NewChannelView(c), nil
}

func (a *App) CreateChannel(ctx context.Context, req *dto.CreateChannelRequest) (*dto.ChannelView, error) {
	c, err := a.ChannelService.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return dto.NewChannelView(c), nil
}

func (a *App) UpdateChannel(ctx context.Context, id int64, req *dto.UpdateChannelRequest) (*dto.ChannelView, error) {
	c, err := a.ChannelService.Update(ctx, id, req)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, a.err.New("通知通道不存在", err).NotFound()
		}
		return nil, err
	}
	return dto.NewChannelView(c), nil
}

func (a *App) DeleteChannel(ctx context.Context, id int64) error {
	if err := a.ChannelService.DeleteById(ctx, id); err != nil {
		if errorc.IsNotFound(err) {
			return a.err.New("通知通道不存在", err).NotFound()
		}
		return err
	}
	a.log.WithField("id", id).Info("通知通道已删除")
	return nil
}

// enabled 已启用且能解出凭证的通道，解密失败的通道记为投递失败
func (a *App) enabled(ctx context.Context) ([]notifier.Channel, []patrol.ChannelResult, error) {
	models, err := a.ChannelService.Dao().ListEnabled(ctx)
	if err != nil {
		return nil, nil, err
	}
	channels := make([]notifier.Channel, 0, len(models))
	var broken []patrol.ChannelResult
	for _, m := range models {
		ch, err := a.ChannelService.ToChannel(m)
		if err != nil {
			broken = append(broken, patrol.ChannelResult{ChannelID: m.ID, ChannelName: m.Name, Message: errorc.ParseError(err).Message()})
			continue
		}
		channels = append(channels, ch)
	}
	return channels, broken, nil
}

func (a *App) dispatch(ctx context.Context, msg notifier.Message) (*patrol.Dispatch, error) {
	channels, broken, err := a.enabled(ctx)
	if err != nil {
		return nil, err
	}
	d := &patrol.Dispatch{}
	if len(channels) > 0 {
		d = a.deliverer.Dispatch(ctx, channels, msg)
	}
	for _, r := range broken {
		d.Add(r)
	}
	a.log.WithField("sent", d.Sent).WithField("failed", d.Failed).Info(notifier.DispatchMessage(d))
	return d, nil
}

// Notify 巡检完成后的通知，报告存在时交给启用了 OSS 的通道上传
func (a *App) Notify(ctx context.Context, summary *patrol.Summary, report *patrol.ReportRef) (*patrol.Dispatch, error) {
	msg := notifier.Message{Content: notifier.BuildContent(summary)}
	if report != nil {
		msg.ReportPath = report.Path
	}
	return a.dispatch(ctx, msg)
}

// SendText 发送自定义文本，用于服务监控告警
func (a *App) SendText(ctx context.Context, content string) (*patrol.Dispatch, error) {
	return a.dispatch(ctx, notifier.Message{Content: content})
}

// TestChannel 用最近一次巡检结果（没有时用测试文本）向单个通道发送，未启用的通道也可测试
func (a *App) TestChannel(ctx context.Context, id int64) (*dto.TestResult, error) {
	m, err := a.ChannelService.FindById(ctx, id)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, a.err.New("通知通道不存在", err).NotFound()
		}
		return nil, err
	}
	ch, err := a.ChannelService.ToChannel(m)
	if err != nil {
		return nil, err
	}

	content := a.testContent(ctx)
	d := a.deliverer.Dispatch(ctx, []notifier.Channel{ch}, notifier.Message{Content: content})
	res := &dto.TestResult{Content: content}
	if len(d.Results) > 0 {
		res.ChannelResult = d.Results[0]
	}
	return res, nil
}

func (a *App) testContent(ctx context.Context) string {
	if a.summaries != nil {
		summary, err := a.summaries.LatestSummary(ctx)
		if err == nil && summary != nil && summary.Total > 0 {
			return "【测试】" + notifier.BuildContent(summary)
		}
		if err != nil {
			a.log.WithErr(err).Warn("读取最近巡检结果失败，使用测试文本")
		}
	}
	return fmt.Sprintf("【测试】通知通道测试\n时间: %s\n这是一条测试消息，收到即表示通道配置正确。", a.now().Format(time.DateTime))
}

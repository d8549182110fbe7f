package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"hostpatrol/pkg/core/config"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/util"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/notifier"
	"hostpatrol/pkg/patrol"
	"hostpatrol/system/notification/internal/model"
	"hostpatrol/system/notification/internal/model/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeliverer struct {
	mu       sync.Mutex
	channels []notifier.Channel
	messages []notifier.Message
}

func (r *recordingDeliverer) Dispatch(_ context.Context, channels []notifier.Channel, msg notifier.Message) *patrol.Dispatch {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &patrol.Dispatch{}
	for _, ch := range channels {
		r.channels = append(r.channels, ch)
		r.messages = append(r.messages, msg)
		d.Add(patrol.ChannelResult{ChannelID: ch.ID, ChannelName: ch.Name, Success: true, Message: "发送成功"})
	}
	return d
}

type staticSummaries struct {
	summary *patrol.Summary
}

func (s staticSummaries) LatestSummary(context.Context) (*patrol.Summary, error) {
	if s.summary == nil {
		return &patrol.Summary{}, nil
	}
	return s.summary, nil
}

func newTestApp(t *testing.T, summaries SummarySource) (*App, *recordingDeliverer) {
	t.Helper()
	db, err := config.InitSqlite(config.Database{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.NotificationChannelModel{}))
	d := &recordingDeliverer{}
	return NewApp(db, util.NewSecretBox("test-salt"), d, summaries), d
}

func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string { return &v }

func TestCreateChannel_OSSRequiresAllFields(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()

	_, err := a.CreateChannel(ctx, &dto.CreateChannelRequest{
		Name:        "oss",
		WebhookURL:  "https://hook.example.com/x",
		OSSEnabled:  true,
		OSSEndpoint: "oss-cn-hangzhou.aliyuncs.com",
		OSSBucket:   "patrol",
	})
	require.Error(t, err)
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))
	assert.Contains(t, errorc.ParseError(err).Message(), "AccessKey ID")

	views, err := a.ListChannels(ctx)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCreateChannel_SecretEncrypted(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()

	view, err := a.CreateChannel(ctx, &dto.CreateChannelRequest{
		Name:               "oss",
		WebhookURL:         "https://hook.example.com/x",
		Method:             "get",
		OSSEnabled:         true,
		OSSEndpoint:        "oss-cn-hangzhou.aliyuncs.com",
		OSSBucket:          "patrol",
		OSSAccessKeyID:     "AKID",
		OSSAccessKeySecret: "plain-secret",
	})
	require.NoError(t, err)
	assert.True(t, view.HasOSSSecret)
	assert.Equal(t, model.MethodGet, view.Method)
	assert.Equal(t, model.DefaultTimeout, view.Timeout)
	assert.Equal(t, model.DefaultFolderPath, view.OSSFolderPath)
	assert.Equal(t, model.DefaultExpiresHours, view.OSSExpiresHours)
	assert.True(t, view.IsEnabled)

	stored, err := a.ChannelService.FindById(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.OSSAccessKeySecret, util.EncryptedPrefix))

	ch, err := a.ChannelService.ToChannel(stored)
	require.NoError(t, err)
	assert.Equal(t, "plain-secret", ch.OSS.AccessKeySecret)
	assert.Equal(t, 30*time.Second, ch.Timeout)
}

func TestUpdateChannel(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()

	view, err := a.CreateChannel(ctx, &dto.CreateChannelRequest{Name: "hook", WebhookURL: "https://hook.example.com/x"})
	require.NoError(t, err)

	// 启用 OSS 但缺少字段
	_, err = a.UpdateChannel(ctx, view.ID, &dto.UpdateChannelRequest{OSSEnabled: boolPtr(true)})
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConfig))

	updated, err := a.UpdateChannel(ctx, view.ID, &dto.UpdateChannelRequest{
		OSSEnabled:         boolPtr(true),
		OSSEndpoint:        strPtr("oss-cn-hangzhou.aliyuncs.com"),
		OSSBucket:          strPtr("patrol"),
		OSSAccessKeyID:     strPtr("AKID"),
		OSSAccessKeySecret: strPtr("s1"),
	})
	require.NoError(t, err)
	assert.True(t, updated.OSSEnabled)

	// 空密钥不修改
	updated, err = a.UpdateChannel(ctx, view.ID, &dto.UpdateChannelRequest{Name: strPtr("renamed"), OSSAccessKeySecret: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	stored, err := a.ChannelService.FindById(ctx, view.ID)
	require.NoError(t, err)
	ch, err := a.ChannelService.ToChannel(stored)
	require.NoError(t, err)
	assert.Equal(t, "s1", ch.OSS.AccessKeySecret)

	_, err = a.UpdateChannel(ctx, 999, &dto.UpdateChannelRequest{Name: strPtr("x")})
	assert.True(t, errorc.IsNotFound(err))
}

func TestNotify_OnlyEnabledChannels(t *testing.T) {
	a, d := newTestApp(t, nil)
	ctx := context.Background()

	_, err := a.CreateChannel(ctx, &dto.CreateChannelRequest{Name: "on", WebhookURL: "https://hook.example.com/on"})
	require.NoError(t, err)
	_, err = a.CreateChannel(ctx, &dto.CreateChannelRequest{Name: "off", WebhookURL: "https://hook.example.com/off", IsEnabled: boolPtr(false)})
	require.NoError(t, err)

	summary := &patrol.Summary{Results: []patrol.HostResult{{ServerName: "web", Status: evaluator.StatusSuccess}}}
	summary.Tally()
	res, err := a.Notify(ctx, summary, &patrol.ReportRef{ID: 1, Path: "/data/reports/manual_report.html"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	require.Len(t, d.channels, 1)
	assert.Equal(t, "on", d.channels[0].Name)
	assert.Equal(t, "/data/reports/manual_report.html", d.messages[0].ReportPath)
	assert.Contains(t, d.messages[0].Content, "结果: 无异常")

	_, err = a.SendText(ctx, "服务监控告警")
	require.NoError(t, err)
	assert.Equal(t, "服务监控告警", d.messages[1].Content)
	assert.Empty(t, d.messages[1].ReportPath)
}

func TestNotify_NoChannels(t *testing.T) {
	a, _ := newTestApp(t, nil)
	res, err := a.SendText(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, "没有启用的通知通道", notifier.DispatchMessage(res))
}

func TestTestChannel(t *testing.T) {
	ctx := context.Background()

	a, d := newTestApp(t, nil)
	view, err := a.CreateChannel(ctx, &dto.CreateChannelRequest{Name: "off", WebhookURL: "https://hook.example.com/off", IsEnabled: boolPtr(false)})
	require.NoError(t, err)
	res, err := a.TestChannel(ctx, view.ID)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Content, "通知通道测试")
	require.Len(t, d.channels, 1)

	summary := &patrol.Summary{Results: []patrol.HostResult{{ServerName: "db", Status: evaluator.StatusFailed, ErrorMessage: "timeout"}}}
	summary.Tally()
	a2, _ := newTestApp(t, staticSummaries{summary: summary})
	view, err = a2.CreateChannel(ctx, &dto.CreateChannelRequest{Name: "on", WebhookURL: "https://hook.example.com/on"})
	require.NoError(t, err)
	res, err = a2.TestChannel(ctx, view.ID)
	require.NoError(t, err)
	assert.Contains(t, res.Content, "结果: 异常")

	_, err = a2.TestChannel(ctx, 404)
	assert.True(t, errorc.IsNotFound(err))
}

func TestDeleteChannel(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()
	view, err := a.CreateChannel(ctx, &dto.CreateChannelRequest{Name: "x", WebhookURL: "https://hook.example.com/x"})
	require.NoError(t, err)

	require.NoError(t, a.DeleteChannel(ctx, view.ID))
	err = a.DeleteChannel(ctx, view.ID)
	assert.True(t, errorc.IsNotFound(err))
	assert.Equal(t, "通知通道不存在", errorc.ParseError(err).Message())
}

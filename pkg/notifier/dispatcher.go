package notifier

import (
	"context"
	"fmt"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/oss"
	"hostpatrol/pkg/patrol"

	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/fasthttp"
)

// Dispatcher 并发向多个通道投递，通道之间互不影响
type Dispatcher struct {
	client  *fasthttp.Client
	archive ArchiveFunc
	workers int
	log     *logger.Log
}

// NewDispatcher archive 为空时使用阿里云 OSS 上传
func NewDispatcher(archive ArchiveFunc, workers int) *Dispatcher {
	if archive == nil {
		archive = oss.Archive
	}
	if workers <= 0 {
		workers = 5
	}
	return &Dispatcher{
		client: &fasthttp.Client{
			Name:                     "hostpatrol-notifier",
			NoDefaultUserAgentHeader: true,
		},
		archive: archive,
		workers: workers,
		log:     logger.GetLogger().WithEntryName("NotifyDispatcher"),
	}
}

// Dispatch 投递到全部通道，结果顺序与 channels 一致
func (d *Dispatcher) Dispatch(ctx context.Context, channels []Channel, msg Message) *patrol.Dispatch {
	results := make([]patrol.ChannelResult, len(channels))
	p := pool.New().WithMaxGoroutines(d.workers)
	for i, ch := range channels {
		i, ch := i, ch
		p.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					results[i] = patrol.ChannelResult{ChannelID: ch.ID, ChannelName: ch.Name, Message: fmt.Sprintf("通知发送异常: %v", r)}
				}
			}()
			results[i] = d.Deliver(ctx, ch, msg)
		})
	}
	p.Wait()

	out := &patrol.Dispatch{Results: make([]patrol.ChannelResult, 0, len(results))}
	for _, r := range results {
		out.Add(r)
	}
	return out
}

// Deliver 投递到单个通道。OSS 上传失败时仍发送通知，#url# 置空并在结果中注明
func (d *Dispatcher) Deliver(ctx context.Context, ch Channel, msg Message) patrol.ChannelResult {
	res := patrol.ChannelResult{ChannelID: ch.ID, ChannelName: ch.Name}
	log := d.log.WithField("channel", ch.Name)

	var uploadErr error
	if ch.OSSEnabled && msg.ReportPath != "" {
		res.URL, uploadErr = d.archive(ctx, ch.OSS, msg.ReportPath)
		if uploadErr != nil {
			log.WithErr(uploadErr).Warn("上传报告到OSS失败")
		}
	}

	if err := Send(ctx, d.client, ch, msg.Content, res.URL); err != nil {
		res.Message = errorc.ParseError(err).Message()
		log.WithErr(err).Warn("通知发送失败")
		return res
	}

	res.Success = true
	res.Message = "发送成功"
	if uploadErr != nil {
		res.Message = "发送成功，报告上传失败: " + errorc.ParseError(uploadErr).Message()
	}
	log.Info("通知发送成功")
	return res
}

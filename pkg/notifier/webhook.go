package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/util"

	"github.com/valyala/fasthttp"
)

var webhookErr = errorc.NewErrorBuilder("Webhook")

// Send 按通道配置投递一次，不重试。
// GET 以 message 查询参数携带内容；POST 发送渲染后的请求体。
// 非 2xx、传输失败或 JSON 响应中 errcode 非 0 都视为失败。
func Send(ctx context.Context, client *fasthttp.Client, ch Channel, content, url string) error {
	timeout := ch.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return webhookErr.New("通知发送已超时", ctx.Err()).Third()
	}

	req := &util.Http{
		Url:     ch.WebhookURL,
		Method:  strings.ToUpper(ch.Method),
		Timeout: timeout,
		Client:  client,
		Headers: []util.Header{{Key: "User-Agent", Value: "hostpatrol-notifier/1.0"}},
	}
	if req.Method == MethodGet {
		req.Query = map[string]string{"message": queryMessage(content, url)}
	} else {
		req.Method = MethodPost
		body, isJSON := RenderBody(ch.RequestBody, content, url)
		req.Body = []byte(body)
		if !isJSON {
			req.ContentType = "text/plain; charset=utf-8"
		}
	}

	res, err := req.Do()
	if err != nil {
		return webhookErr.New("发送通知请求失败", err).Third()
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return webhookErr.New(fmt.Sprintf("HTTP响应状态异常: %d", res.StatusCode), nil).Third()
	}
	if doc, ok := res.JSON(); ok {
		if code := doc.Get("errcode"); code.Exists() && code.Int() != 0 {
			return webhookErr.New(fmt.Sprintf("通知接口返回错误: errcode=%d, errmsg=%s", code.Int(), doc.Get("errmsg").String()), nil).Third()
		}
	}
	return nil
}

// queryMessage GET 请求不使用请求体模板，链接附在内容末尾
func queryMessage(content, url string) string {
	if url == "" {
		return content
	}
	return content + "\n报告链接: " + url
}

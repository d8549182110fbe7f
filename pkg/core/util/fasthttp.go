package util

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
)

type Header struct {
	Key   string
	Value string
}

// Http 一次出站 HTTP 请求
type Http struct {
	Url         string
	Method      string
	Query       map[string]string
	Body        []byte
	ContentType string
	Headers     []Header
	Timeout     time.Duration
	// Client 为空时使用 fasthttp 默认客户端
	Client *fasthttp.Client
}

// HttpResult 请求结果，Body 已从 fasthttp 的缓冲区拷贝出来
type HttpResult struct {
	StatusCode int
	Body       []byte
	Latency    time.Duration
}

// JSON 响应体为 JSON 时返回解析结果
func (r *HttpResult) JSON() (gjson.Result, bool) {
	if !gjson.ValidBytes(r.Body) {
		return gjson.Result{}, false
	}
	return gjson.ParseBytes(r.Body), true
}

func (h *Http) uri() string {
	if len(h.Query) == 0 {
		return h.Url
	}
	values := url.Values{}
	for k, v := range h.Query {
		values.Set(k, v)
	}
	sep := "?"
	if strings.Contains(h.Url, "?") {
		sep = "&"
	}
	return h.Url + sep + values.Encode()
}

// Do 发送请求，只有传输层失败才返回 error，状态码由调用方判断
func (h *Http) Do() (*HttpResult, error) {
	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(response)

	method := strings.ToUpper(h.Method)
	if method == "" {
		method = fasthttp.MethodGet
	}
	request.Header.SetMethod(method)
	request.SetRequestURI(h.uri())
	if len(h.Body) > 0 {
		contentType := h.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		request.Header.SetContentType(contentType)
		request.SetBody(h.Body)
	}
	for _, header := range h.Headers {
		request.Header.Set(header.Key, header.Value)
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	start := time.Now()
	var err error
	if h.Client != nil {
		err = h.Client.DoTimeout(request, response, timeout)
	} else {
		err = fasthttp.DoTimeout(request, response, timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, h.Url, err)
	}

	body := make([]byte, len(response.Body()))
	copy(body, response.Body())
	return &HttpResult{
		StatusCode: response.StatusCode(),
		Body:       body,
		Latency:    time.Since(start),
	}, nil
}

package notifier

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"hostpatrol/pkg/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type captured struct {
	mu     sync.Mutex
	bodies []string
	query  []string
}

func webhook(t *testing.T, c *captured, status int, reply string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, string(body))
		c.query = append(c.query, r.URL.Query().Get("message"))
		c.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDispatch_IndependentChannels(t *testing.T) {
	var okHits, badHits, codeHits captured
	ok := webhook(t, &okHits, http.StatusOK, `{"errcode":0}`)
	bad := webhook(t, &badHits, http.StatusInternalServerError, "boom")
	code := webhook(t, &codeHits, http.StatusOK, `{"errcode":310000,"errmsg":"keywords not in content"}`)

	d := NewDispatcher(nil, 2)
	res := d.Dispatch(context.Background(), []Channel{
		{ID: 1, Name: "ok", WebhookURL: ok.URL, Method: MethodPost, RequestBody: `{"text":"#context#"}`},
		{ID: 2, Name: "bad", WebhookURL: bad.URL, Method: MethodPost},
		{ID: 3, Name: "code", WebhookURL: code.URL, Method: MethodPost},
		{ID: 4, Name: "down", WebhookURL: "http://127.0.0.1:1/hook", Method: MethodPost, Timeout: time.Second},
	}, Message{Content: "巡检完成"})

	require.Len(t, res.Results, 4)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 3, res.Failed)
	assert.True(t, res.Results[0].Success)
	assert.Contains(t, res.Results[1].Message, "500")
	assert.Contains(t, res.Results[2].Message, "310000")
	assert.False(t, res.Results[3].Success)

	require.Len(t, okHits.bodies, 1)
	assert.Equal(t, "巡检完成", gjson.Get(okHits.bodies[0], "text").String())
	require.Len(t, badHits.bodies, 1)
	assert.Equal(t, "巡检完成", gjson.Get(badHits.bodies[0], "message").String())
}

func TestDispatch_GetQuery(t *testing.T) {
	var hits captured
	srv := webhook(t, &hits, http.StatusOK, "ok")

	res := NewDispatcher(nil, 1).Dispatch(context.Background(), []Channel{
		{ID: 1, Name: "get", WebhookURL: srv.URL + "/send?token=abc", Method: MethodGet},
	}, Message{Content: "a&b=c 中文"})

	assert.True(t, res.OK())
	require.Len(t, hits.query, 1)
	assert.Equal(t, "a&b=c 中文", hits.query[0])
}

func TestDispatch_OSSArchive(t *testing.T) {
	var hits captured
	srv := webhook(t, &hits, http.StatusOK, "{}")

	var uploaded []string
	archive := func(_ context.Context, cfg config.OssConfig, path string) (string, error) {
		if cfg.Bucket == "broken" {
			return "", errors.New("AccessDenied")
		}
		uploaded = append(uploaded, path)
		return "https://patrol.oss/r.html?sig=1", nil
	}
	d := NewDispatcher(archive, 1)

	res := d.Dispatch(context.Background(), []Channel{
		{ID: 1, Name: "oss", WebhookURL: srv.URL, Method: MethodPost, RequestBody: `{"text":"#context# #url#"}`, OSSEnabled: true, OSS: config.OssConfig{Bucket: "patrol"}},
		{ID: 2, Name: "broken", WebhookURL: srv.URL, Method: MethodPost, RequestBody: `{"text":"#context# #url#"}`, OSSEnabled: true, OSS: config.OssConfig{Bucket: "broken"}},
		{ID: 3, Name: "plain", WebhookURL: srv.URL, Method: MethodPost, RequestBody: `{"text":"#context# #url#"}`},
	}, Message{Content: "c", ReportPath: "/tmp/r.html"})

	assert.Equal(t, []string{"/tmp/r.html"}, uploaded)
	assert.Equal(t, 3, res.Sent)
	assert.Equal(t, "https://patrol.oss/r.html?sig=1", res.Results[0].URL)
	assert.Contains(t, res.Results[1].Message, "报告上传失败")
	assert.Empty(t, res.Results[2].URL)
	assert.Contains(t, hits.bodies, `{"text":"c https://patrol.oss/r.html?sig=1"}`)
}

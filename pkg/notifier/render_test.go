package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestRenderBody_Default(t *testing.T) {
	body, isJSON := RenderBody("", "line1\nline2", "")
	assert.True(t, isJSON)
	assert.Equal(t, "line1\nline2", gjson.Get(body, "message").String())
}

func TestRenderBody_JSONEscapesContent(t *testing.T) {
	tpl := `{"msgtype":"text","text":{"content":"巡检 #context# 详情 #url#"}}`
	content := "结果: \"异常\"\n- web(10.0.0.1): 连接超时"

	body, isJSON := RenderBody(tpl, content, "https://oss.example.com/r.html?x=1&y=2")
	assert.True(t, isJSON)
	assert.True(t, gjson.Valid(body))
	assert.Equal(t, "巡检 "+content+" 详情 https://oss.example.com/r.html?x=1&y=2", gjson.Get(body, "text.content").String())
}

func TestRenderBody_PlainText(t *testing.T) {
	body, isJSON := RenderBody("### 巡检通知 #context#", "ok", "")
	assert.False(t, isJSON)
	assert.Equal(t, "### 巡检通知 ok", body)
}

func TestRenderBody_UnknownHashKept(t *testing.T) {
	body, _ := RenderBody(`{"text":"#tag# #context# #url#"}`, "c", "")
	assert.Equal(t, `{"text":"#tag# c "}`, body)
}

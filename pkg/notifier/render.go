package notifier

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"github.com/valyala/fasttemplate"
)

var jsonAPI = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// 模板里常见 markdown 标题等 # 字符，先把已知占位符换成专用分隔符再交给 fasttemplate
var tagMarker = strings.NewReplacer(
	PlaceholderContext, "\x02context\x03",
	PlaceholderURL, "\x02url\x03",
)

// RenderBody 渲染请求体。
// 模板为空时发送 {"message": content}；模板是合法 JSON 时按 JSON 字符串转义后替换，
// 保证结果仍是合法 JSON；否则按纯文本替换。
func RenderBody(tpl, content, url string) (body string, isJSON bool) {
	if strings.TrimSpace(tpl) == "" {
		b, _ := jsonAPI.Marshal(map[string]string{"message": content})
		return string(b), true
	}
	if gjson.Valid(tpl) {
		return render(tpl, escapeJSON(content), escapeJSON(url)), true
	}
	return render(tpl, content, url), false
}

func render(tpl, content, url string) string {
	return fasttemplate.ExecuteStringStd(tagMarker.Replace(tpl), "\x02", "\x03", map[string]interface{}{
		"context": content,
		"url":     url,
	})
}

func escapeJSON(s string) string {
	b, _ := jsonAPI.Marshal(s)
	return string(b[1 : len(b)-1])
}

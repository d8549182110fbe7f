// Package report 把一次巡检汇总渲染为独立的 HTML 报告文件。
package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/evaluator"
	"hostpatrol/pkg/patrol"
)

//go:embed templates/*.html
var templateFS embed.FS

const DefaultDir = "reports"

// Generator 报告生成器，文件写入 dir
type Generator struct {
	dir string
	tpl *template.Template
	log *logger.Log
	err *errorc.ErrorBuilder
}

type view struct {
	Summary       *patrol.Summary
	MonitorTime   string
	AlertServers  []patrol.HostResult
	FailedServers []patrol.HostResult
}

func NewGenerator(dir string) *Generator {
	if dir == "" {
		dir = DefaultDir
	}
	tpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"pct": func(v *float64) string {
			if v == nil {
				return "N/A"
			}
			return fmt.Sprintf("%.2f%%", *v)
		},
		"over": func(v *float64, limit float64) bool {
			return v != nil && *v > limit
		},
		"upper": func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
		"diskAlerts": func(alerts []evaluator.Alert) int {
			n := 0
			for _, a := range alerts {
				if a.Type == evaluator.AlertDisk {
					n++
				}
			}
			return n
		},
	}).ParseFS(templateFS, "templates/report.html"))

	return &Generator{
		dir: dir,
		tpl: tpl,
		log: logger.GetLogger().WithEntryName("ReportGenerator"),
		err: errorc.NewErrorBuilder("ReportGenerator"),
	}
}

// Dir 报告目录
func (g *Generator) Dir() string {
	return g.dir
}

// Path 报告名对应的文件路径
func (g *Generator) Path(name string) string {
	return filepath.Join(g.dir, name+".html")
}

// Generate 渲染报告并写入 <dir>/<name>.html，返回文件路径。
// 先写临时文件再改名，失败时不会留下半个报告。
func (g *Generator) Generate(summary *patrol.Summary, name string) (string, error) {
	if summary == nil || len(summary.Results) == 0 {
		return "", g.err.New("没有可用的巡检数据，无法生成报告", nil).ValidWithCtx()
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", g.err.New("报告名称无效", nil).ValidWithCtx()
	}
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", g.err.New("创建报告目录失败", err)
	}

	tmp, err := os.CreateTemp(g.dir, "."+name+"-*.tmp")
	if err != nil {
		return "", g.err.New("创建报告文件失败", err)
	}
	defer os.Remove(tmp.Name())

	if err := g.tpl.ExecuteTemplate(tmp, "report.html", newView(summary)); err != nil {
		tmp.Close()
		return "", g.err.New("渲染报告失败", err)
	}
	if err := tmp.Close(); err != nil {
		return "", g.err.New("写入报告文件失败", err)
	}

	path := g.Path(name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", g.err.New("保存报告文件失败", err)
	}
	g.log.WithField("path", path).Info("HTML报告生成成功")
	return path, nil
}

// Remove 删除报告文件，文件不存在视为成功
func (g *Generator) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return g.err.New("删除报告文件失败", err)
	}
	return nil
}

func newView(s *patrol.Summary) view {
	v := view{Summary: s, MonitorTime: s.MonitorTime.Format(time.DateTime)}
	for _, r := range s.Results {
		if len(r.Alerts) > 0 {
			v.AlertServers = append(v.AlertServers, r)
		}
		if r.ErrorMessage != "" {
			v.FailedServers = append(v.FailedServers, r)
		}
	}
	return v
}

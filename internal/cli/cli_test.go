package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hostpatrol/pkg/patrol"
	monitordto "hostpatrol/system/monitor/api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestConfigPath(t *testing.T) {
	p, err := configPath("prod", "/etc/hostpatrol.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/hostpatrol.yaml", p)

	wd, _ := os.Getwd()
	p, err = configPath("dev", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "resources", "dev.yaml"), p)
}

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"hash-password", "s3cret"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	printResult(&out, &monitordto.ExecuteResult{
		TotalServers:        3,
		SuccessCount:        1,
		WarningCount:        1,
		FailedCount:         1,
		ExecutionTime:       1.5,
		ReportPath:          "reports/manual_report_20240101_000000.html",
		NotificationMessage: "通知发送成功 1 个",
	})
	s := out.String()
	assert.Contains(t, s, "共 3 台，正常 1，警告 1，失败 1，耗时 1.50 秒")
	assert.Contains(t, s, "manual_report_20240101_000000.html")
	assert.Contains(t, s, "通知发送成功 1 个")

	out.Reset()
	printResult(&out, &monitordto.ExecuteResult{ReportError: "磁盘已满"})
	assert.Contains(t, out.String(), "报告生成失败：磁盘已满")
}

func TestPrintServices(t *testing.T) {
	var out bytes.Buffer
	printServices(&out, &patrol.Summary{Services: patrol.ServiceStats{Total: 4, Normal: 3, Error: 1}})
	assert.Equal(t, "服务监控完成：共 4 个服务，正常 3，异常 1\n", out.String())
}

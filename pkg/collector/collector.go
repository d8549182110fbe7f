// Package collector 通过一次 SSH 会话对单台主机执行固定顺序的探测命令。
package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hostpatrol/pkg/collector/parser"
	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/core/logger"
	"hostpatrol/pkg/sshx"
)

// 探测项名称，用于记录单项失败
const (
	ProbeSystem  = "system"
	ProbeCPU     = "cpu"
	ProbeMemory  = "memory"
	ProbeDisk    = "disk"
	ProbeProcess = "process"
)

const (
	cmdCPUTop    = "top -bn1 | grep 'Cpu(s)'"
	cmdCPUVmstat = "vmstat 1 2"
	cmdMemory    = "free -b"
	cmdDisk      = "df -hP"
	cmdEcho      = `echo "connection test"`

	pathOSRelease = "/etc/os-release"
	pathLoadAvg   = "/proc/loadavg"
)

var errBuilder = errorc.NewErrorBuilder("Collector")

// Session 一台主机上已建立的远程会话
type Session interface {
	Run(ctx context.Context, cmd string) (*sshx.Result, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Close() error
}

// Dialer 为目标主机建立会话
type Dialer interface {
	Dial(ctx context.Context, target sshx.Target) (Session, error)
}

// SSHDialer 基于 sshx 的默认实现
type SSHDialer struct {
	Options sshx.Options
}

func (d SSHDialer) Dial(ctx context.Context, target sshx.Target) (Session, error) {
	client, err := sshx.Dial(ctx, target, d.Options)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Host 被巡检的主机
type Host struct {
	ServerID int64
	Name     string
	Target   sshx.Target
}

// ProcessProbe 一个需要检查进程是否存在的服务
type ProcessProbe struct {
	ServiceID   int64
	ServiceName string
	ProcessName string
}

type CollectOptions struct {
	// IncludeHost 为 false 时只执行进程探测
	IncludeHost bool
}

// ProbeError 单个探测项的失败，不影响其他探测项
type ProbeError struct {
	Probe   string `json:"probe"`
	Message string `json:"message"`
}

// ProcessResult 一个服务的进程探测结果，Err 非空表示无法判断进程状态
type ProcessResult struct {
	Probe     ProcessProbe
	Processes []parser.Process
	Err       error
}

// Report 一台主机一次采集的全部结果，无法解析的字段为 nil
type Report struct {
	System      *parser.SystemInfo
	CPU         *float64
	Memory      *parser.MemoryInfo
	Disks       []parser.DiskRow
	Processes   []ProcessResult
	ProbeErrors []ProbeError
}

type Collector struct {
	dialer Dialer
	log    *logger.Log
}

func New(dialer Dialer) *Collector {
	return &Collector{
		dialer: dialer,
		log:    logger.GetLogger().WithEntryName("Collector"),
	}
}

// Collect 建立一次会话并依次执行：系统信息、CPU、内存、磁盘、各服务进程。
// 只有连接失败会返回错误（Connection 类），单项探测失败记录在 Report.ProbeErrors 中。
func (c *Collector) Collect(ctx context.Context, host Host, probes []ProcessProbe, opts CollectOptions) (*Report, error) {
	session, err := c.dialer.Dial(ctx, host.Target)
	if err != nil {
		return nil, connectionErr(host, err)
	}
	defer session.Close()

	report := &Report{}
	if opts.IncludeHost {
		c.collectSystem(ctx, session, report)
		c.collectCPU(ctx, session, report)
		c.collectMemory(ctx, session, report)
		c.collectDisk(ctx, session, report)
	}
	for _, probe := range probes {
		report.Processes = append(report.Processes, c.collectProcess(ctx, session, probe))
	}
	return report, nil
}

// TestConnection 建立会话并执行一条 echo，返回往返耗时
func (c *Collector) TestConnection(ctx context.Context, target sshx.Target) (time.Duration, error) {
	start := time.Now()
	session, err := c.dialer.Dial(ctx, target)
	if err != nil {
		return 0, connectionErr(Host{Name: target.Host, Target: target}, err)
	}
	defer session.Close()

	res, err := session.Run(ctx, cmdEcho)
	if err != nil {
		return 0, errBuilder.New("测试命令执行失败", err).Connection()
	}
	if !strings.Contains(res.Stdout, "connection test") {
		return 0, errBuilder.New(fmt.Sprintf("测试命令输出异常: %s", strings.TrimSpace(res.Stdout+res.Stderr)), nil).Connection()
	}
	return time.Since(start), nil
}

func connectionErr(host Host, err error) *errorc.Error {
	ce, ok := sshx.AsConnectionError(err)
	if !ok {
		ce = sshx.Classify(host.Target.Addr(), err)
	}
	return errBuilder.New(ce.Message(), ce).Connection()
}

// run 执行命令，非零退出且没有输出视为失败
func (c *Collector) run(ctx context.Context, s Session, cmd string) (string, error) {
	res, err := s.Run(ctx, cmd)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 && strings.TrimSpace(res.Stdout) == "" {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = fmt.Sprintf("exit code %d", res.ExitCode)
		}
		return "", fmt.Errorf("%s: %s", cmd, msg)
	}
	return res.Stdout, nil
}

// readFile 优先通过 SFTP 读取，SFTP 不可用时退回 cat
func (c *Collector) readFile(ctx context.Context, s Session, path, fallback string) (string, error) {
	data, err := s.ReadFile(ctx, path)
	if err == nil {
		return string(data), nil
	}
	c.log.WithErr(err).Debugf("SFTP 读取 %s 失败，改用 shell", path)
	return c.run(ctx, s, fallback)
}

func (r *Report) fail(probe string, err error) {
	r.ProbeErrors = append(r.ProbeErrors, ProbeError{Probe: probe, Message: err.Error()})
}

func (c *Collector) collectSystem(ctx context.Context, s Session, report *Report) {
	var raw parser.SystemRaw
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	var err error
	raw.Hostname, err = c.run(ctx, s, "hostname")
	record(err)
	raw.Uptime, err = c.run(ctx, s, "uptime")
	record(err)
	raw.OSRelease, err = c.readFile(ctx, s, pathOSRelease, "cat /etc/os-release 2>/dev/null || uname -a")
	record(err)
	raw.Kernel, err = c.run(ctx, s, "uname -r")
	record(err)
	raw.Architecture, err = c.run(ctx, s, "uname -m")
	record(err)
	raw.LoadAvg, err = c.readFile(ctx, s, pathLoadAvg, "cat /proc/loadavg")
	record(err)
	raw.Users, err = c.run(ctx, s, "who | wc -l")
	record(err)

	info, err := parser.ParseSystemInfo(raw)
	record(err)
	report.System = &info
	if firstErr != nil {
		report.fail(ProbeSystem, firstErr)
	}
}

func (c *Collector) collectCPU(ctx context.Context, s Session, report *Report) {
	out, err := c.run(ctx, s, cmdCPUTop)
	if err == nil {
		var usage float64
		if usage, err = parser.ParseCPU(out); err == nil {
			report.CPU = &usage
			return
		}
	}
	c.log.WithErr(err).Debug("top 获取 CPU 失败，改用 vmstat")

	out, err = c.run(ctx, s, cmdCPUVmstat)
	if err != nil {
		report.fail(ProbeCPU, err)
		return
	}
	usage, err := parser.ParseCPUFromVmstat(out)
	if err != nil {
		report.fail(ProbeCPU, err)
		return
	}
	report.CPU = &usage
}

func (c *Collector) collectMemory(ctx context.Context, s Session, report *Report) {
	out, err := c.run(ctx, s, cmdMemory)
	if err != nil {
		report.fail(ProbeMemory, err)
		return
	}
	info, err := parser.ParseMemory(out)
	if err != nil {
		report.fail(ProbeMemory, err)
		return
	}
	report.Memory = info
}

func (c *Collector) collectDisk(ctx context.Context, s Session, report *Report) {
	out, err := c.run(ctx, s, cmdDisk)
	if err != nil {
		report.Disks = []parser.DiskRow{}
		report.fail(ProbeDisk, err)
		return
	}
	rows, err := parser.ParseDisk(out)
	report.Disks = rows
	if err != nil {
		report.fail(ProbeDisk, err)
	}
}

func (c *Collector) collectProcess(ctx context.Context, s Session, probe ProcessProbe) ProcessResult {
	result := ProcessResult{Probe: probe, Processes: []parser.Process{}}
	res, err := s.Run(ctx, ProcessCommand(probe.ProcessName))
	if err != nil {
		result.Err = err
		return result
	}
	// grep 无匹配时退出码为 1，属于正常的"进程不存在"
	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		result.Err = fmt.Errorf("%s", stderr)
		return result
	}
	result.Processes = parser.ParseProcesses(res.Stdout)
	return result
}

// ProcessCommand 生成按进程名子串匹配的 ps 命令
func ProcessCommand(processName string) string {
	return fmt.Sprintf("ps aux | grep %s | grep -v grep", shellQuote(processName))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

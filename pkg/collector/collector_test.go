package collector

import (
	"context"
	"errors"
	"sync"
	"testing"

	errorc "hostpatrol/pkg/core/err"
	"hostpatrol/pkg/sshx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu       sync.Mutex
	outputs  map[string]*sshx.Result
	errs     map[string]error
	files    map[string]string
	commands []string
	closed   bool
}

func (s *fakeSession) Run(_ context.Context, cmd string) (*sshx.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
	if err, ok := s.errs[cmd]; ok {
		return nil, err
	}
	if res, ok := s.outputs[cmd]; ok {
		return res, nil
	}
	return &sshx.Result{ExitCode: 127, Stderr: "command not found"}, nil
}

func (s *fakeSession) ReadFile(_ context.Context, path string) ([]byte, error) {
	if content, ok := s.files[path]; ok {
		return []byte(content), nil
	}
	return nil, errors.New("sftp: subsystem request failed")
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeDialer struct {
	session *fakeSession
	err     error
}

func (d *fakeDialer) Dial(context.Context, sshx.Target) (Session, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.session, nil
}

func healthyOutputs() map[string]*sshx.Result {
	return map[string]*sshx.Result{
		"hostname":    {Stdout: "web-01\n"},
		"uptime":      {Stdout: " 10:00:01 up 3 days\n"},
		"uname -r":    {Stdout: "5.15.0\n"},
		"uname -m":    {Stdout: "x86_64\n"},
		"who | wc -l": {Stdout: "1\n"},
		cmdCPUTop:     {Stdout: "%Cpu(s): 10.0 us,  5.0 sy,  0.0 ni, 85.0 id,  0.0 wa\n"},
		cmdMemory: {Stdout: `               total        used        free      shared  buff/cache   available
Mem:      8589934592  2147483648  1073741824    10485760  5368709120  5368709120
`},
		cmdDisk: {Stdout: `Filesystem      Size  Used Avail Use% Mounted on
/dev/sda1        50G   45G  5.0G  90% /
`},
		ProcessCommand("nginx"): {Stdout: "root 812 0.0 0.1 55280 5400 ? Ss Oct01 0:00 nginx: master process\n"},
		ProcessCommand("redis"): {ExitCode: 1},
	}
}

func TestCollect(t *testing.T) {
	session := &fakeSession{
		outputs: healthyOutputs(),
		files: map[string]string{
			pathOSRelease: "PRETTY_NAME=\"Debian GNU/Linux 12\"\n",
			pathLoadAvg:   "0.10 0.20 0.30 1/100 999\n",
		},
	}
	c := New(&fakeDialer{session: session})

	report, err := c.Collect(context.Background(), Host{ServerID: 1, Name: "web-01"}, []ProcessProbe{
		{ServiceID: 1, ServiceName: "web", ProcessName: "nginx"},
		{ServiceID: 2, ServiceName: "cache", ProcessName: "redis"},
	}, CollectOptions{IncludeHost: true})
	require.NoError(t, err)
	assert.True(t, session.closed)

	require.NotNil(t, report.System)
	assert.Equal(t, "web-01", report.System.Hostname)
	assert.Equal(t, "Debian GNU/Linux 12", report.System.OS)
	assert.Equal(t, [3]float64{0.1, 0.2, 0.3}, report.System.LoadAverage)

	require.NotNil(t, report.CPU)
	assert.Equal(t, 15.0, *report.CPU)
	require.NotNil(t, report.Memory)
	assert.Equal(t, 25.0, report.Memory.UsagePercent)
	require.Len(t, report.Disks, 1)
	assert.Equal(t, 90.0, report.Disks[0].UsePercent)
	assert.Empty(t, report.ProbeErrors)

	require.Len(t, report.Processes, 2)
	assert.NoError(t, report.Processes[0].Err)
	assert.Len(t, report.Processes[0].Processes, 1)
	assert.NoError(t, report.Processes[1].Err)
	assert.Empty(t, report.Processes[1].Processes)
}

func TestCollect_ProbeOrder(t *testing.T) {
	session := &fakeSession{outputs: healthyOutputs()}
	c := New(&fakeDialer{session: session})

	_, err := c.Collect(context.Background(), Host{}, []ProcessProbe{{ProcessName: "nginx"}}, CollectOptions{IncludeHost: true})
	require.NoError(t, err)

	indexOf := func(cmd string) int {
		for i, c := range session.commands {
			if c == cmd {
				return i
			}
		}
		return -1
	}
	assert.Less(t, indexOf("hostname"), indexOf(cmdCPUTop))
	assert.Less(t, indexOf(cmdCPUTop), indexOf(cmdMemory))
	assert.Less(t, indexOf(cmdMemory), indexOf(cmdDisk))
	assert.Less(t, indexOf(cmdDisk), indexOf(ProcessCommand("nginx")))
	// SFTP 不可用时退回 cat
	assert.GreaterOrEqual(t, indexOf("cat /proc/loadavg"), 0)
}

func TestCollect_PartialFailures(t *testing.T) {
	outputs := healthyOutputs()
	outputs[cmdCPUTop] = &sshx.Result{Stdout: "garbage\n"}
	outputs[cmdCPUVmstat] = &sshx.Result{Stdout: ` r  b us sy id
 1  0 20 10 70
`}
	outputs[cmdMemory] = &sshx.Result{Stdout: "nothing useful\n"}
	session := &fakeSession{
		outputs: outputs,
		errs:    map[string]error{ProcessCommand("nginx"): errors.New("session closed")},
	}
	c := New(&fakeDialer{session: session})

	report, err := c.Collect(context.Background(), Host{}, []ProcessProbe{{ProcessName: "nginx"}}, CollectOptions{IncludeHost: true})
	require.NoError(t, err)

	require.NotNil(t, report.CPU)
	assert.Equal(t, 30.0, *report.CPU)
	assert.Nil(t, report.Memory)
	require.Len(t, report.Disks, 1)

	var probes []string
	for _, pe := range report.ProbeErrors {
		probes = append(probes, pe.Probe)
	}
	assert.Contains(t, probes, ProbeMemory)
	assert.NotContains(t, probes, ProbeCPU)

	require.Len(t, report.Processes, 1)
	assert.Error(t, report.Processes[0].Err)
}

func TestCollect_ServicesOnly(t *testing.T) {
	session := &fakeSession{outputs: healthyOutputs()}
	c := New(&fakeDialer{session: session})

	report, err := c.Collect(context.Background(), Host{}, []ProcessProbe{{ProcessName: "nginx"}}, CollectOptions{})
	require.NoError(t, err)
	assert.Nil(t, report.CPU)
	assert.Nil(t, report.System)
	assert.Equal(t, []string{ProcessCommand("nginx")}, session.commands)
}

func TestCollect_DialFailure(t *testing.T) {
	c := New(&fakeDialer{err: &sshx.ConnectionError{Kind: sshx.KindAuth, Addr: "10.0.0.1:22"}})

	report, err := c.Collect(context.Background(), Host{Target: sshx.Target{Host: "10.0.0.1"}}, nil, CollectOptions{IncludeHost: true})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errorc.IsCode(err, errorc.ErrorCodeConnection))

	ce, ok := sshx.AsConnectionError(err)
	require.True(t, ok)
	assert.Equal(t, sshx.KindAuth, ce.Kind)
}

func TestTestConnection(t *testing.T) {
	session := &fakeSession{outputs: map[string]*sshx.Result{cmdEcho: {Stdout: "connection test\n"}}}
	c := New(&fakeDialer{session: session})

	latency, err := c.TestConnection(context.Background(), sshx.Target{Host: "10.0.0.1"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, int64(latency), int64(0))
	assert.True(t, session.closed)

	session = &fakeSession{outputs: map[string]*sshx.Result{cmdEcho: {Stdout: "nope"}}}
	_, err = New(&fakeDialer{session: session}).TestConnection(context.Background(), sshx.Target{})
	assert.Error(t, err)
}

func TestProcessCommand(t *testing.T) {
	assert.Equal(t, `ps aux | grep 'nginx' | grep -v grep`, ProcessCommand("nginx"))
	assert.Equal(t, `ps aux | grep 'it'\''s' | grep -v grep`, ProcessCommand("it's"))
}

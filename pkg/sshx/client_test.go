package sshx

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

type execHandler func(cmd string) (stdout, stderr string, code int)

// startServer 启动一个只支持 exec 的本地 SSH 服务
func startServer(t *testing.T, password string, handler execHandler) Target {
	t.Helper()
	return listen(t, password, handler, false)
}

// startSilentSftpServer 接受 sftp 子系统请求但从不回应协议数据
func startSilentSftpServer(t *testing.T, password string) Target {
	t.Helper()
	return listen(t, password, func(string) (string, string, int) { return "", "", 0 }, true)
}

func listen(t *testing.T, password string, handler execHandler, silentSubsystem bool) Target {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(_ ssh.ConnMetadata, p []byte) (*ssh.Permissions, error) {
			if string(p) == password {
				return nil, nil
			}
			return nil, errors.New("denied")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			nc, err := ln.Accept()
			if err != nil {
				return
			}
			go serveConn(nc, cfg, handler, silentSubsystem)
		}
	}()

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return Target{Host: host, Port: p, Username: "root", Password: password}
}

func serveConn(nc net.Conn, cfg *ssh.ServerConfig, handler execHandler, silentSubsystem bool) {
	_, chans, reqs, err := ssh.NewServerConn(nc, cfg)
	if err != nil {
		_ = nc.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			continue
		}
		go func() {
			defer ch.Close()
			for req := range requests {
				if req.Type == "subsystem" && silentSubsystem {
					_ = req.Reply(true, nil)
					continue
				}
				if req.Type != "exec" {
					if req.WantReply {
						_ = req.Reply(false, nil)
					}
					continue
				}
				var payload struct{ Command string }
				_ = ssh.Unmarshal(req.Payload, &payload)
				_ = req.Reply(true, nil)

				out, errOut, code := handler(payload.Command)
				_, _ = io.WriteString(ch, out)
				_, _ = io.WriteString(ch.Stderr(), errOut)
				status := struct{ Status uint32 }{uint32(code)}
				_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(&status))
				return
			}
		}()
	}
}

func TestDialAndRun(t *testing.T) {
	target := startServer(t, "secret", func(cmd string) (string, string, int) {
		switch cmd {
		case `echo "connection test"`:
			return "connection test\n", "", 0
		case "false":
			return "", "boom", 1
		case "sleep":
			time.Sleep(2 * time.Second)
			return "", "", 0
		}
		return "", "unknown", 127
	})

	ctx := context.Background()
	client, err := Dial(ctx, target, Options{CommandTimeout: 500 * time.Millisecond})
	require.NoError(t, err)
	defer client.Close()

	res, err := client.Run(ctx, `echo "connection test"`)
	require.NoError(t, err)
	assert.Equal(t, "connection test\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)

	res, err = client.Run(ctx, "false")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "boom", res.Stderr)

	_, err = client.Run(ctx, "sleep")
	assert.Error(t, err)

	// 服务端不支持 sftp 子系统
	_, err = client.ReadFile(ctx, "/etc/os-release")
	assert.Error(t, err)
}

func TestCloseWhileSftpHandshakeStuck(t *testing.T) {
	target := startSilentSftpServer(t, "secret")

	client, err := Dial(context.Background(), target, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = client.ReadFile(ctx, "/etc/os-release")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	closed := make(chan struct{})
	go func() {
		_ = client.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(3 * time.Second):
		t.Fatal("Close 在 SFTP 握手卡住时没有返回")
	}
}

func TestDialWrongPassword(t *testing.T) {
	target := startServer(t, "secret", func(string) (string, string, int) { return "", "", 0 })
	target.Password = "wrong"

	_, err := Dial(context.Background(), target, Options{})
	ce, ok := AsConnectionError(err)
	require.True(t, ok)
	assert.Equal(t, KindAuth, ce.Kind)
	assert.Equal(t, "认证失败，请检查用户名和密码！", ce.Message())
}

func TestDialRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	require.NoError(t, ln.Close())

	_, err = Dial(context.Background(), Target{Host: "127.0.0.1", Port: addr.Port, Username: "u", Password: "p"}, Options{})
	ce, ok := AsConnectionError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnreachable, ce.Kind)
}

func TestDialMissingKeyFile(t *testing.T) {
	_, err := Dial(context.Background(), Target{Host: "127.0.0.1", Username: "u", PrivateKeyPath: "/nonexistent/id_rsa"}, Options{})
	ce, ok := AsConnectionError(err)
	require.True(t, ok)
	assert.Equal(t, KindKey, ce.Kind)
}

func TestDialTimeout(t *testing.T) {
	blocking := func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	_, err := Dial(context.Background(), Target{Host: "10.0.0.1", Username: "u", Password: "p"},
		Options{ConnectTimeout: 50 * time.Millisecond, Dial: blocking})
	ce, ok := AsConnectionError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, ce.Kind)
}

func TestSimplifyText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "ssh连接失败，请检查！"},
		{"ssh: unable to authenticate, attempted methods [none password]", "认证失败，请检查用户名和密码！"},
		{"dial tcp 10.0.0.1:22: i/o timeout", "连接超时，请检查网络！"},
		{"dial tcp: connection refused", "网络连接失败，请检查！"},
		{"无法加载私钥文件: bad pem", "私钥文件错误，请检查！"},
		{"ssh: handshake failed: EOF", "ssh连接失败，请检查！"},
		{"磁盘只读", "磁盘只读"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, SimplifyText(c.in), c.in)
	}
}

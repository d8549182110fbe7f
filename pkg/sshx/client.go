package sshx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultCommandTimeout = 30 * time.Second
)

// Target 一台主机的连接参数，密码为明文
type Target struct {
	Host           string
	Port           int
	Username       string
	Password       string
	PrivateKeyPath string
}

func (t Target) Addr() string {
	port := t.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(port))
}

// DialFunc 建立 TCP 连接，可替换为代理拨号
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type Options struct {
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
	Dial           DialFunc
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.CommandTimeout <= 0 {
		o.CommandTimeout = DefaultCommandTimeout
	}
	if o.Dial == nil {
		d := &net.Dialer{}
		o.Dial = d.DialContext
	}
	return o
}

// Result 一条命令的输出
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Client 一个已认证的 SSH 连接，命令各自使用独立 session
type Client struct {
	addr    string
	conn    *ssh.Client
	opts    Options
	sftpMu  sync.Mutex
	sftp    *sftp.Client
	sftpErr error
}

func authMethods(t Target) ([]ssh.AuthMethod, error) {
	if t.PrivateKeyPath != "" {
		pem, err := os.ReadFile(t.PrivateKeyPath)
		if err != nil {
			return nil, &ConnectionError{Kind: KindKey, Addr: t.Addr(), Err: fmt.Errorf("读取私钥文件失败: %w", err)}
		}
		// RSA / Ed25519 / ECDSA 均可解析
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, &ConnectionError{Kind: KindKey, Addr: t.Addr(), Err: fmt.Errorf("无法加载私钥文件: %w", err)}
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}
	if t.Password != "" {
		return []ssh.AuthMethod{
			ssh.Password(t.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = t.Password
				}
				return answers, nil
			}),
		}, nil
	}
	return nil, &ConnectionError{Kind: KindAuth, Addr: t.Addr(), Err: errors.New("必须提供密码或私钥文件")}
}

// Dial 在 ConnectTimeout 内完成 TCP 连接与 SSH 握手
func Dial(ctx context.Context, t Target, opts Options) (*Client, error) {
	opts = opts.withDefaults()
	addr := t.Addr()

	auths, err := authMethods(t)
	if err != nil {
		return nil, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	conn, err := opts.Dial(dialCtx, "tcp", addr)
	if err != nil {
		return nil, Classify(addr, err)
	}

	// 握手同样受连接超时约束
	deadline, _ := dialCtx.Deadline()
	_ = conn.SetDeadline(deadline)

	config := &ssh.ClientConfig{
		User:            t.Username,
		Auth:            auths,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         opts.ConnectTimeout,
	}

	type handshake struct {
		c     ssh.Conn
		chans <-chan ssh.NewChannel
		reqs  <-chan *ssh.Request
		err   error
	}
	done := make(chan handshake, 1)
	go func() {
		c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
		done <- handshake{c, chans, reqs, err}
	}()

	select {
	case <-dialCtx.Done():
		_ = conn.Close()
		return nil, Classify(addr, dialCtx.Err())
	case h := <-done:
		if h.err != nil {
			_ = conn.Close()
			return nil, Classify(addr, h.err)
		}
		_ = conn.SetDeadline(time.Time{})
		return &Client{
			addr: addr,
			conn: ssh.NewClient(h.c, h.chans, h.reqs),
			opts: opts,
		}, nil
	}
}

func (c *Client) Addr() string {
	return c.addr
}

// Run 在独立 session 中执行命令，超时或 ctx 取消时发送 SIGTERM 并关闭 session
func (c *Client) Run(ctx context.Context, cmd string) (*Result, error) {
	return c.RunWithTimeout(ctx, cmd, c.opts.CommandTimeout)
}

func (c *Client) RunWithTimeout(ctx context.Context, cmd string, timeout time.Duration) (*Result, error) {
	session, err := c.conn.NewSession()
	if err != nil {
		return nil, fmt.Errorf("创建会话失败: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Start(cmd); err != nil {
		return nil, fmt.Errorf("启动命令失败: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		res := &Result{Stdout: stdout.String(), Stderr: stderr.String()}
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				res.ExitCode = exitErr.ExitStatus()
				return res, nil
			}
			return res, fmt.Errorf("命令执行失败: %w", err)
		}
		return res, nil
	case <-timer.C:
		_ = session.Signal(ssh.SIGTERM)
		return nil, fmt.Errorf("命令执行超时(%s): %s", timeout, cmd)
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGTERM)
		return nil, ctx.Err()
	}
}

// ReadFile 通过 SFTP 读取远程文件，SFTP 子系统不可用时返回错误由调用方降级
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	type read struct {
		data []byte
		err  error
	}
	done := make(chan read, 1)
	go func() {
		client, err := c.sftpClient()
		if err != nil {
			done <- read{err: err}
			return
		}
		f, err := client.Open(path)
		if err != nil {
			done <- read{err: err}
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, 1<<20))
		done <- read{data: data, err: err}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) sftpClient() (*sftp.Client, error) {
	c.sftpMu.Lock()
	defer c.sftpMu.Unlock()
	if c.sftp == nil && c.sftpErr == nil {
		c.sftp, c.sftpErr = sftp.NewClient(c.conn)
	}
	return c.sftp, c.sftpErr
}

// Close 先断开连接，使卡在 SFTP 握手中的 sftpClient 返回并释放锁
func (c *Client) Close() error {
	err := c.conn.Close()
	c.sftpMu.Lock()
	if c.sftp != nil {
		_ = c.sftp.Close()
		c.sftp = nil
	}
	c.sftpMu.Unlock()
	return err
}

package sshx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// Kind 连接失败的分类
type Kind string

const (
	KindAuth        Kind = "auth"
	KindTimeout     Kind = "timeout"
	KindUnreachable Kind = "unreachable"
	KindKey         Kind = "key"
	KindSSH         Kind = "ssh"
)

// 面向用户的简短提示
var kindMessages = map[Kind]string{
	KindAuth:        "认证失败，请检查用户名和密码！",
	KindTimeout:     "连接超时，请检查网络！",
	KindUnreachable: "网络连接失败，请检查！",
	KindKey:         "私钥文件错误，请检查！",
	KindSSH:         "ssh连接失败，请检查！",
}

// ConnectionError 主机无法建立会话，只影响该主机本轮巡检
type ConnectionError struct {
	Kind Kind
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Addr, e.Message())
	}
	return fmt.Sprintf("%s: %s (%v)", e.Addr, e.Message(), e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Message 面向用户的提示
func (e *ConnectionError) Message() string {
	if msg, ok := kindMessages[e.Kind]; ok {
		return msg
	}
	return kindMessages[KindSSH]
}

// AsConnectionError 从错误链中取出 ConnectionError
func AsConnectionError(err error) (*ConnectionError, bool) {
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Classify 把拨号/握手阶段的错误归类
func Classify(addr string, err error) *ConnectionError {
	if err == nil {
		return nil
	}
	if ce, ok := AsConnectionError(err); ok {
		return ce
	}
	return &ConnectionError{Kind: classifyKind(err), Addr: addr, Err: err}
}

func classifyKind(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unable to authenticate"),
		strings.Contains(msg, "no supported methods remain"),
		strings.Contains(msg, "permission denied"):
		return KindAuth
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return KindTimeout
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no route to host"),
		strings.Contains(msg, "network is unreachable"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "connection reset"):
		return KindUnreachable
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindUnreachable
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindUnreachable
	}
	return KindSSH
}

// SimplifyMessage 把任意错误文本收敛为简短提示，用于通知内容
func SimplifyMessage(err error) string {
	if err == nil {
		return kindMessages[KindSSH]
	}
	if ce, ok := AsConnectionError(err); ok {
		return ce.Message()
	}
	return SimplifyText(err.Error())
}

// SimplifyText 同 SimplifyMessage，输入为已落库的错误文本
func SimplifyText(text string) string {
	if text == "" {
		return kindMessages[KindSSH]
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(text, "认证失败"), strings.Contains(lower, "authenticat"):
		return kindMessages[KindAuth]
	case strings.Contains(text, "连接超时"), strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"):
		return kindMessages[KindTimeout]
	case strings.Contains(text, "私钥"), strings.Contains(lower, "private key"):
		return kindMessages[KindKey]
	case strings.Contains(text, "网络连接"), strings.Contains(lower, "network"), strings.Contains(lower, "connection"):
		return kindMessages[KindUnreachable]
	case strings.Contains(lower, "ssh"):
		return kindMessages[KindSSH]
	}
	if len([]rune(text)) > 50 {
		return kindMessages[KindSSH]
	}
	return text
}

package errorc

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrorBuilder 为某个组件创建带调用位置的错误
type ErrorBuilder struct {
	entryName string
}

func NewErrorBuilder(entryName string) *ErrorBuilder {
	return &ErrorBuilder{entryName: entryName}
}

func (b *ErrorBuilder) New(msg string, err error) *Error {
	e := newAt(1, msg, err)
	e.Entry = b.entryName
	return e
}

// New msg 与 err 都可以为空
func New(msg string, err error) *Error {
	return newAt(1, msg, err)
}

// newAt skip 为调用链中 newAt 之上需要跳过的层数
func newAt(skip int, msg string, cause error) *Error {
	e := &Error{Msg: msg, Cause: cause, ErrorCode: codeOf(cause), FileName: "<unknown>", FuncName: "<unknown>"}
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return e
	}
	e.FileName, e.Line = file, line
	if fn := runtime.FuncForPC(pc); fn != nil {
		e.FuncName = fn.Name()
	}
	return e
}

func (e *Error) WithEntry(entry string) *Error {
	e.Entry = entry
	return e
}

func (e *Error) WithCode(code *ErrorCode) *Error {
	e.ErrorCode = code
	return e
}

// DB 数据库错误，记录不存在时保留 404
func (e *Error) DB() *Error {
	if e.ErrorCode == ErrorCodeNotFound {
		return e
	}
	return e.WithCode(ErrorCodeDB)
}

// Third OSS、钉钉、邮件等外部服务失败
func (e *Error) Third() *Error        { return e.WithCode(ErrorCodeThird) }
func (e *Error) ValidWithCtx() *Error { return e.WithCode(ErrorCodeValid) }

// Config 阈值、调度、通知渠道等配置非法，写入前拒绝
func (e *Error) Config() *Error { return e.WithCode(ErrorCodeConfig) }

// Connection 远程主机连接失败
func (e *Error) Connection() *Error { return e.WithCode(ErrorCodeConnection) }

// Parse 探测输出无法解析
func (e *Error) Parse() *Error    { return e.WithCode(ErrorCodeParse) }
func (e *Error) NoAuth() *Error   { return e.WithCode(ErrorCodeNoAuth) }
func (e *Error) NotFound() *Error { return e.WithCode(ErrorCodeNotFound) }

// chain 由外到内的 *Error 链，root 为最内层节点，origin 为其包装的原始错误
func (e *Error) chain() (links []*Error, root *Error, origin error) {
	for cur := e; cur != nil; {
		links = append(links, cur)
		next, ok := cur.Cause.(*Error)
		if !ok {
			break
		}
		cur = next
	}
	root = links[len(links)-1]
	return links, root, root.Cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	links, _, origin := e.chain()

	var sb strings.Builder
	for i, l := range links {
		if i > 0 {
			sb.WriteString(" <- ")
		}
		if l.ErrorCode != nil {
			fmt.Fprintf(&sb, "[%s] ", l.ErrorCode.Name)
		}
		sb.WriteString(l.Msg)
		if l.FileName != "" && l.FileName != "<unknown>" {
			fmt.Fprintf(&sb, " (%s:%d)", l.FileName, l.Line)
		}
	}
	if origin != nil {
		fmt.Fprintf(&sb, ": %v", origin)
	}
	return sb.String()
}

// Message 面向用户的简短描述：最外层 Msg，缺省时退回根因
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	_, root, origin := e.chain()
	if root.Msg != "" {
		return root.Msg
	}
	if origin != nil {
		return origin.Error()
	}
	return ""
}

// ToLog 以结构化字段输出整条错误链，最外层附带堆栈
func (e *Error) ToLog(log *logrus.Entry, msgs ...string) *Error {
	if e == nil {
		return nil
	}
	links, root, origin := e.chain()

	trace := make([]string, 0, len(links))
	for _, l := range links {
		code := ""
		if l.ErrorCode != nil {
			code = l.ErrorCode.Name
		}
		trace = append(trace, fmt.Sprintf("%s[%s] %s %s:%d", l.Entry, code, l.Msg, l.FuncName, l.Line))
	}

	fields := logrus.Fields{
		"root_file": fmt.Sprintf("%s:%d", root.FileName, root.Line),
		"root_msg":  root.Msg,
		"chain":     trace,
		"stack":     e.stack(),
	}
	if origin != nil {
		fields["root_error"] = origin.Error()
	}
	if e.ErrorCode != nil {
		fields["code"] = e.ErrorCode.String()
	}

	msg := strings.Join(msgs, ", ")
	if msg == "" {
		msg = e.Message()
	}
	log.WithFields(fields).Error(msg)
	return e
}

func (e *Error) stack() string {
	if e.Stack == "" {
		buf := make([]byte, 4096)
		e.Stack = string(buf[:runtime.Stack(buf, false)])
	}
	return e.Stack
}

var notFoundErrs = []error{gorm.ErrRecordNotFound, redis.Nil}

func codeOf(err error) *ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}
	var inner *Error
	if errors.As(err, &inner) && inner.ErrorCode != nil {
		return inner.ErrorCode
	}
	for _, target := range notFoundErrs {
		if errors.Is(err, target) {
			return ErrorCodeNotFound
		}
	}
	return ErrorCodeUnknown
}

// ParseError 非 *Error 的错误包装为 Unknown
func ParseError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Cause: err, ErrorCode: codeOf(err)}
}

func IsNotFound(err error) bool {
	return err != nil && codeOf(err) == ErrorCodeNotFound
}

// IsCode 判断错误链最外层的 *Error 是否为指定错误码
func IsCode(err error, code *ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.ErrorCode == code
}

package util

import (
	"context"

	"hostpatrol/pkg/core/consts"

	uuid "github.com/satori/go.uuid"
)

// NewTraceContext 后台任务使用的带链路 ID 的上下文
func NewTraceContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if parent.Value(consts.TraceKey) != nil {
		return parent
	}
	return context.WithValue(parent, consts.TraceKey, uuid.NewV4().String())
}

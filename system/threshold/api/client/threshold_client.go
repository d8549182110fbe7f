package client

import (
	"context"

	"hostpatrol/pkg/evaluator"
	"hostpatrol/system/threshold/internal/app"
)

// ThresholdClient 阈值组件对外客户端
type ThresholdClient struct {
	app *app.App
}

func NewThresholdClient(app *app.App) *ThresholdClient {
	return &ThresholdClient{app: app}
}

// Snapshot 巡检开始时取一次阈值快照
func (c *ThresholdClient) Snapshot(ctx context.Context) (evaluator.Thresholds, error) {
	return c.app.Snapshot(ctx)
}

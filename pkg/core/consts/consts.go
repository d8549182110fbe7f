package consts

// TraceKey 请求上下文中的链路 ID 键
const TraceKey = "traceId"

// TraceHeaderName 透传链路 ID 的请求头
const TraceHeaderName = "X-Trace-Id"

// 运行环境
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"
)

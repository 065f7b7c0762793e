package clock

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	clockv1 "git.fiblab.net/sim/protos/v2/go/city/clock/v1"
	"git.fiblab.net/sim/protos/v2/go/city/clock/v1/clockv1connect"
	"git.fiblab.net/sim/syncer/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler 创建ClockService的HTTP处理器，外层包装otelhttp以记录请求追踪
func (c *Clock) Handler(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
	pattern, handler = clockv1connect.NewClockServiceHandler(c, opts...)
	return pattern, otelhttp.NewHandler(handler, clockv1connect.ClockServiceName)
}

// Register 将ClockService注册到sidecar
// 说明：注册的服务在syncer的步间锁保护下访问，读取到的时间总是某一步结束时的值
func (c *Clock) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(clockv1connect.ClockServiceName, c.Handler)
}

// Now 获取当前仿真时间
func (c *Clock) Now(ctx context.Context, in *connect.Request[clockv1.NowRequest]) (*connect.Response[clockv1.NowResponse], error) {
	return connect.NewResponse(&clockv1.NowResponse{
		T: c.T,
	}), nil
}

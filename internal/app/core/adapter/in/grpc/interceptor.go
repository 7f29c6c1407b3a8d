package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-savings-ledger/internal/appcontext"
)

// LoggingInterceptor 將 logger 放入 context 並記錄每個 RPC 的結果與耗時
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		reqLogger := logger.With("method", info.FullMethod)
		ctx = appcontext.WithLogger(ctx, reqLogger)

		resp, err := handler(ctx, req)

		reqLogger.DebugContext(ctx, "rpc finished",
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

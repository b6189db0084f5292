// Package logctx logs through the root logger, tagging every entry with the
// request id carried by the context.
package logctx

import (
	"context"

	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/product-gateway/pkg/logger"
)

const RequestIDKey = "request_id"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func sugar(ctx context.Context) *zap.SugaredLogger {
	l := logger.L().WithOptions(zap.AddCallerSkip(1)).Sugar()
	if id := RequestID(ctx); id != "" {
		return l.With(RequestIDKey, id)
	}
	return l
}

func Debugw(ctx context.Context, msg string, keysAndValues ...any) {
	sugar(ctx).Debugw(msg, keysAndValues...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...any) {
	sugar(ctx).Infow(msg, keysAndValues...)
}

func Warnw(ctx context.Context, msg string, keysAndValues ...any) {
	sugar(ctx).Warnw(msg, keysAndValues...)
}

func Errorw(ctx context.Context, msg string, keysAndValues ...any) {
	sugar(ctx).Errorw(msg, keysAndValues...)
}

func Infof(ctx context.Context, template string, args ...any) {
	sugar(ctx).Infof(template, args...)
}

func Errorf(ctx context.Context, template string, args ...any) {
	sugar(ctx).Errorf(template, args...)
}

package hostfuncs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultMaxRequestSize is the default request size limit: 1 MiB.
const DefaultMaxRequestSize uint32 = 1 << 20

// Middleware wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next ByteHandler) ByteHandler

// PanicRecoveryMiddleware returns a middleware that catches panics and converts
// them to structured ErrorResponse JSON instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil // JSON error, not Go error
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware returns a middleware that logs each invocation at debug
// level and each failure at error level.
func LoggingMiddleware(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName := "unknown"
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.FunctionName()
			}
			fields := []zap.Field{zap.String("function", funcName), zap.Int("request_bytes", len(payload))}

			start := time.Now()
			resp, err := next(ctx, payload)
			fields = append(fields, zap.Duration("duration", time.Since(start)))
			if err != nil {
				logger.Error("host function failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			logger.Debug("host function completed", append(fields, zap.Int("response_bytes", len(resp)))...)
			return resp, nil
		}
	}
}

// MaxPayloadMiddleware rejects requests larger than limit bytes with a
// VALIDATION_ERROR response. A zero limit means DefaultMaxRequestSize.
func MaxPayloadMiddleware(limit uint32) Middleware {
	if limit == 0 {
		limit = DefaultMaxRequestSize
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			if uint64(len(payload)) > uint64(limit) {
				return NewValidationError(fmt.Sprintf("request size %d exceeds maximum %d bytes", len(payload), limit)).ToJSON(), nil
			}
			return next(ctx, payload)
		}
	}
}

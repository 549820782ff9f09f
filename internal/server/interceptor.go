package server

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

type validator interface {
	Validate() error
}

type normalizer interface {
	Normalize()
}

// ValidationInterceptor normalizes each request message that supports it and
// rejects those failing their own Validate method.
func ValidationInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if msg, ok := req.Any().(normalizer); ok {
				msg.Normalize()
			}
			if msg, ok := req.Any().(validator); ok {
				if err := msg.Validate(); err != nil {
					return nil, connect.NewError(connect.CodeInvalidArgument, err)
				}
			}
			return next(ctx, req)
		}
	}
}

// LoggingInterceptor logs every call with its procedure, duration and
// outcome, tagging it with a request id that is echoed in the response.
func LoggingInterceptor(log *zap.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			id := req.Header().Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			start := time.Now()
			resp, err := next(ctx, req)

			fields := []zap.Field{
				zap.String("request_id", id),
				zap.String("procedure", req.Spec().Procedure),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				code := connect.CodeOf(err)
				fields = append(fields, zap.String("code", code.String()), zap.Error(err))
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					log.Error("rpc failed", fields...)
				} else {
					log.Warn("rpc rejected", fields...)
				}
				var cerr *connect.Error
				if errors.As(err, &cerr) {
					cerr.Meta().Set(RequestIDHeader, id)
				}
				return nil, err
			}
			log.Info("rpc", fields...)
			resp.Header().Set(RequestIDHeader, id)
			return resp, nil
		}
	}
}

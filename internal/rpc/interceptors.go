package rpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/agenticai/patterns/internal/model"
	"github.com/bufbuild/connect-go"
)

// NewLoggingInterceptor logs every unary call with its duration and
// resulting code.
func NewLoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			res, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"peer", req.Peer().Addr,
				"duration", time.Since(start).String(),
			}

			if err != nil {
				slog.Error("rpc call failed", append(attrs, "code", connect.CodeOf(err).String(), "error", err)...)
			} else {
				slog.Info("rpc call handled", attrs...)
			}

			return res, err
		}
	}
}

// NewValidationInterceptor rejects unary requests whose message fails
// validation with CodeInvalidArgument.
func NewValidationInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}

			if err := model.Validate(req.Any()); err != nil {
				return nil, connect.NewError(connect.CodeInvalidArgument, err)
			}

			return next(ctx, req)
		}
	}
}

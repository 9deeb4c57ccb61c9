package async

import (
	"context"
	"errors"

	"github.com/agenticai/patterns/internal/rpc"
	"github.com/bufbuild/connect-go"
)

func (svc *Service) Run(ctx context.Context, req *connect.Request[rpc.RunRequest]) (*connect.Response[rpc.RunResponse], error) {
	result, err := svc.runAgent(ctx, req.Msg)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return nil, connect.NewError(connect.CodeCanceled, err)
		case errors.Is(err, context.DeadlineExceeded):
			return nil, connect.NewError(connect.CodeDeadlineExceeded, err)
		}

		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&rpc.RunResponse{Result: result}), nil
}

func (svc *Service) Stream(ctx context.Context, req *connect.Request[rpc.StreamRequest], stream *connect.ServerStream[rpc.Chunk]) error {
	return svc.chunks(ctx, func(c rpc.Chunk) error {
		return stream.Send(&c)
	})
}

var _ rpc.AgentServiceHandler = (*Service)(nil)

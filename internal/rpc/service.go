package rpc

import (
	"context"
	"net/http"

	"github.com/agenticai/patterns/internal/model"
	"github.com/bufbuild/connect-go"
)

const (
	AgentServiceName = "patterns.agent.v1.AgentService"

	RunProcedure    = "/" + AgentServiceName + "/Run"
	StreamProcedure = "/" + AgentServiceName + "/Stream"
)

type (
	RunRequest  = model.AgentRequest
	RunResponse = model.AgentResponse
)

type StreamRequest struct{}

type Chunk struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

type AgentServiceHandler interface {
	Run(context.Context, *connect.Request[RunRequest]) (*connect.Response[RunResponse], error)
	Stream(context.Context, *connect.Request[StreamRequest], *connect.ServerStream[Chunk]) error
}

// NewAgentServiceHandler returns the path prefix and handler serving svc.
func NewAgentServiceHandler(svc AgentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(RunProcedure, connect.NewUnaryHandler(RunProcedure, svc.Run, opts...))
	mux.Handle(StreamProcedure, connect.NewServerStreamHandler(StreamProcedure, svc.Stream, opts...))

	return "/" + AgentServiceName + "/", mux
}

type AgentServiceClient interface {
	Run(context.Context, *connect.Request[RunRequest]) (*connect.Response[RunResponse], error)
	Stream(context.Context, *connect.Request[StreamRequest]) (*connect.ServerStreamForClient[Chunk], error)
}

type agentServiceClient struct {
	run    *connect.Client[RunRequest, RunResponse]
	stream *connect.Client[StreamRequest, Chunk]
}

func NewAgentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AgentServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &agentServiceClient{
		run:    connect.NewClient[RunRequest, RunResponse](httpClient, baseURL+RunProcedure, opts...),
		stream: connect.NewClient[StreamRequest, Chunk](httpClient, baseURL+StreamProcedure, opts...),
	}
}

func (c *agentServiceClient) Run(ctx context.Context, req *connect.Request[RunRequest]) (*connect.Response[RunResponse], error) {
	return c.run.CallUnary(ctx, req)
}

func (c *agentServiceClient) Stream(ctx context.Context, req *connect.Request[StreamRequest]) (*connect.ServerStreamForClient[Chunk], error) {
	return c.stream.CallServerStream(ctx, req)
}

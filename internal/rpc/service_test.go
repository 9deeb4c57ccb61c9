package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bufbuild/connect-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type echoAgent struct{}

func (echoAgent) Run(_ context.Context, req *connect.Request[RunRequest]) (*connect.Response[RunResponse], error) {
	return connect.NewResponse(&RunResponse{Result: "echo: " + *req.Msg.Prompt}), nil
}

func (echoAgent) Stream(_ context.Context, _ *connect.Request[StreamRequest], stream *connect.ServerStream[Chunk]) error {
	for i := 0; i < 2; i++ {
		if err := stream.Send(&Chunk{Index: i, Message: "chunk"}); err != nil {
			return err
		}
	}

	return nil
}

func newTestClient(t *testing.T) AgentServiceClient {
	t.Helper()

	path, handler := NewAgentServiceHandler(echoAgent{}, connect.WithInterceptors(
		NewLoggingInterceptor(),
		NewValidationInterceptor(),
	))
	assert.Equal(t, "/"+AgentServiceName+"/", path)

	mux := http.NewServeMux()
	mux.Handle(path, handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewAgentServiceClient(srv.Client(), srv.URL)
}

func TestRun(t *testing.T) {
	client := newTestClient(t)

	prompt := "hi"
	res, err := client.Run(context.Background(), connect.NewRequest(&RunRequest{Prompt: &prompt}))
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", res.Msg.Result)
}

func TestRunValidation(t *testing.T) {
	client := newTestClient(t)

	_, err := client.Run(context.Background(), connect.NewRequest(&RunRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	prompt := "hi"
	_, err = client.Run(context.Background(), connect.NewRequest(&RunRequest{
		Prompt:        &prompt,
		MaxIterations: ldvalue.NewOptionalInt(0),
	}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Contains(t, err.Error(), "max_iterations")
}

func TestStream(t *testing.T) {
	client := newTestClient(t)

	stream, err := client.Stream(context.Background(), connect.NewRequest(&StreamRequest{}))
	require.NoError(t, err)
	defer stream.Close()

	var chunks []Chunk
	for stream.Receive() {
		chunks = append(chunks, *stream.Msg())
	}
	require.NoError(t, stream.Err())

	assert.Equal(t, []Chunk{{Index: 0, Message: "chunk"}, {Index: 1, Message: "chunk"}}, chunks)
}

func TestCodecIgnoresEmptyBodies(t *testing.T) {
	var req StreamRequest
	assert.NoError(t, Codec{}.Unmarshal(nil, &req))

	var chunk Chunk
	assert.Error(t, Codec{}.Unmarshal([]byte("{"), &chunk))
}

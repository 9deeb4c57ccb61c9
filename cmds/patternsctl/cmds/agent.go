package cmds

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/agenticai/patterns/internal/model"
	"github.com/agenticai/patterns/internal/rpc"
	"github.com/bufbuild/connect-go"
	"github.com/spf13/cobra"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func AgentCommand(root *Root) *cobra.Command {
	var (
		agentModel    string
		maxIterations int
		useHTTP       bool
	)

	cmd := &cobra.Command{
		Use:   "agent prompt...",
		Short: "Ask the agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")

			req := model.AgentRequest{
				Prompt: &prompt,
				Model:  agentModel,
			}

			if cmd.Flags().Changed("max-iterations") {
				req.MaxIterations = ldvalue.NewOptionalInt(maxIterations)
			}

			if useHTTP {
				var res model.AgentResponse
				if err := root.Do(cmd, http.MethodPost, root.AsyncURL, "/agent", nil, req, &res); err != nil {
					return err
				}

				return root.Print(cmd, res)
			}

			res, err := root.Agent().Run(cmd.Context(), connect.NewRequest(&req))
			if err != nil {
				return err
			}

			return root.Print(cmd, res.Msg)
		},
	}

	f := cmd.Flags()
	{
		f.StringVar(&agentModel, "model", "", "The model to use, defaults to the server setting")
		f.IntVar(&maxIterations, "max-iterations", 0, "Run the iterative agent with at most this many iterations")
		f.BoolVar(&useHTTP, "http", false, "Use the plain HTTP endpoint instead of the RPC service")
	}

	return cmd
}

func StreamCommand(root *Root) *cobra.Command {
	var useRPC bool

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Print the chunks of the streaming endpoint as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useRPC {
				stream, err := root.Agent().Stream(cmd.Context(), connect.NewRequest(&rpc.StreamRequest{}))
				if err != nil {
					return err
				}
				defer stream.Close()

				for stream.Receive() {
					if err := root.Print(cmd, stream.Msg()); err != nil {
						return err
					}
				}

				return stream.Err()
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, strings.TrimSuffix(root.AsyncURL, "/")+"/stream", nil)
			if err != nil {
				return err
			}

			res, err := root.HTTPClient.Do(req)
			if err != nil {
				return fmt.Errorf("failed to perform request: %w", err)
			}
			defer res.Body.Close()

			root.printStatus(cmd.ErrOrStderr(), res)

			if res.StatusCode != http.StatusOK {
				return &StatusError{Method: req.Method, URL: req.URL.String(), Status: res.StatusCode}
			}

			scanner := bufio.NewScanner(res.Body)
			for scanner.Scan() {
				var chunk rpc.Chunk
				if err := json.Unmarshal(scanner.Bytes(), &chunk); err != nil {
					return fmt.Errorf("failed to decode chunk: %w", err)
				}

				if err := root.Print(cmd, chunk); err != nil {
					return err
				}
			}

			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&useRPC, "rpc", false, "Use the RPC server stream instead of the HTTP endpoint")

	return cmd
}

func JobsCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs id",
		Short: "Show the status of a background job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var job map[string]any
			if err := root.Do(cmd, http.MethodGet, root.AsyncURL, "/jobs/"+args[0], nil, nil, &job); err != nil {
				return err
			}

			return root.Print(cmd, job)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "submit",
		Short: "Queue the demo background task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var res map[string]any
			if err := root.Do(cmd, http.MethodPost, root.AsyncURL, "/task", nil, nil, &res); err != nil {
				return err
			}

			return root.Print(cmd, res)
		},
	})

	return cmd
}

func HealthCommand(root *Root) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the basic app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var res map[string]any
			if err := root.Do(cmd, http.MethodGet, root.BasicURL, "/health", nil, nil, &res); err != nil {
				return err
			}

			return root.Print(cmd, res)
		},
	}
}

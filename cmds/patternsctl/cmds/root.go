package cmds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/agenticai/patterns/internal/rpc"
	"github.com/alessio/shellescape"
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Root is the top level command. It carries the connection settings shared
// by all sub-commands.
type Root struct {
	cobra.Command

	BasicURL string
	TasksURL string
	AsyncURL string
	ItemsURL string

	Token        string
	OutputFormat string
	PrintCurl    bool

	HTTPClient *http.Client
}

// StatusError is returned for responses with a status code of 400 or above.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Status, http.StatusText(e.Status), strings.TrimSpace(e.Body))
}

func New(name string) *Root {
	root := &Root{
		Command: cobra.Command{
			Use:           name,
			SilenceUsage:  true,
			SilenceErrors: true,
		},
		HTTPClient: http.DefaultClient,
	}

	f := root.PersistentFlags()
	{
		f.StringVar(&root.BasicURL, "basic-url", "http://localhost:8000", "Base URL of the basic app")
		f.StringVar(&root.TasksURL, "tasks-url", "http://localhost:8001", "Base URL of the tasks app")
		f.StringVar(&root.AsyncURL, "async-url", "http://localhost:8002", "Base URL of the async app")
		f.StringVar(&root.ItemsURL, "items-url", "http://localhost:8003", "Base URL of the items app")
		f.StringVar(&root.Token, "token", "", "Bearer token sent in the Authorization header")
		f.StringVarP(&root.OutputFormat, "output", "o", "json", "Output format: json, dump or pretty")
		f.BoolVar(&root.PrintCurl, "print-curl", false, "Print an equivalent curl command for every request")
	}

	root.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		switch root.OutputFormat {
		case "json", "dump", "pretty":
			return nil
		default:
			return fmt.Errorf("unsupported output format %q", root.OutputFormat)
		}
	}

	return root
}

// Do sends a JSON request to base+path and decodes the response into out if
// out is not nil.
func (root *Root) Do(cmd *cobra.Command, method, base, path string, query url.Values, body, out any) error {
	return root.do(cmd.Context(), cmd.ErrOrStderr(), method, base, path, query, body, out)
}

func (root *Root) do(ctx context.Context, log io.Writer, method, base, path string, query url.Values, body, out any) error {
	target := strings.TrimSuffix(base, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if root.Token != "" {
		req.Header.Set("Authorization", "Bearer "+root.Token)
	}

	if root.PrintCurl {
		fmt.Fprintln(log, curlCommand(req, payload))
	}

	res, err := root.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %w", err)
	}
	defer res.Body.Close()

	root.printStatus(log, res)

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode >= 400 {
		return &StatusError{Method: method, URL: target, Status: res.StatusCode, Body: string(data)}
	}

	switch v := out.(type) {
	case nil:
	case *[]byte:
		*v = data
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Print writes v to the command output using the selected format.
func (root *Root) Print(cmd *cobra.Command, v any) error {
	w := cmd.OutOrStdout()

	switch root.OutputFormat {
	case "dump":
		spew.Fdump(w, v)

		return nil

	case "pretty":
		if out, ok := renderPretty(v); ok {
			_, err := fmt.Fprintln(w, out)

			return err
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func (root *Root) Agent() rpc.AgentServiceClient {
	return rpc.NewAgentServiceClient(root.HTTPClient, strings.TrimSuffix(root.AsyncURL, "/"))
}

func (root *Root) printStatus(w io.Writer, res *http.Response) {
	c := color.New(color.FgGreen)
	switch {
	case res.StatusCode >= 500:
		c = color.New(color.FgRed, color.Bold)
	case res.StatusCode >= 400:
		c = color.New(color.FgYellow)
	}

	c.Fprintf(w, "%s %s\n", res.Proto, res.Status)
}

func curlCommand(req *http.Request, payload []byte) string {
	args := []string{"curl", "-X", req.Method}

	for _, key := range []string{"Authorization", "Content-Type"} {
		if v := req.Header.Get(key); v != "" {
			args = append(args, "-H", key+": "+v)
		}
	}

	if payload != nil {
		args = append(args, "-d", string(payload))
	}

	args = append(args, req.URL.String())

	return shellescape.QuoteCommand(args)
}

package cmds

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/agenticai/patterns/internal/model"
	"github.com/spf13/cobra"
)

func TasksCommand(root *Root) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "tasks [id]",
		Short: "List tasks or show a single task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var task model.Task
				if err := root.Do(cmd, http.MethodGet, root.TasksURL, "/tasks/"+args[0], nil, nil, &task); err != nil {
					return err
				}

				return root.Print(cmd, task)
			}

			var query url.Values
			if filter != "" {
				query = url.Values{"filter": []string{filter}}
			}

			var tasks []model.Task
			if err := root.Do(cmd, http.MethodGet, root.TasksURL, "/tasks", query, nil, &tasks); err != nil {
				return err
			}

			return root.Print(cmd, tasks)
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "A taskql filter, e.g. 'completed:false created_after:startOfWeek'")

	cmd.AddCommand(
		CreateTaskCommand(root),
		UpdateTaskCommand(root),
		CompleteTaskCommand(root),
		DeleteTaskCommand(root),
		RenderTaskCommand(root),
		BrowseTasksCommand(root),
	)

	return cmd
}

func CreateTaskCommand(root *Root) *cobra.Command {
	var (
		req         model.TaskCreate
		description string
	)

	cmd := &cobra.Command{
		Use:  "create",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			var task model.Task
			if err := root.Do(cmd, http.MethodPost, root.TasksURL, "/tasks", nil, req, &task); err != nil {
				return err
			}

			return root.Print(cmd, task)
		},
	}

	f := cmd.Flags()
	{
		f.StringVar(&req.Title, "title", "", "The task title")
		f.StringVar(&description, "description", "", "An optional task description (Markdown)")
	}

	return cmd
}

func UpdateTaskCommand(root *Root) *cobra.Command {
	var (
		title       string
		description string
		completed   bool
	)

	cmd := &cobra.Command{
		Use:  "update id",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update model.TaskUpdate

			f := cmd.Flags()
			if f.Changed("title") {
				update.Title = &title
			}
			if f.Changed("description") {
				update.Description = &description
			}
			if f.Changed("completed") {
				update.Completed = &completed
			}

			if update.IsEmpty() {
				return fmt.Errorf("nothing to update, use --title, --description or --completed")
			}

			var task model.Task
			if err := root.Do(cmd, http.MethodPut, root.TasksURL, "/tasks/"+args[0], nil, update, &task); err != nil {
				return err
			}

			return root.Print(cmd, task)
		},
	}

	f := cmd.Flags()
	{
		f.StringVar(&title, "title", "", "")
		f.StringVar(&description, "description", "", "")
		f.BoolVar(&completed, "completed", false, "")
	}

	return cmd
}

func CompleteTaskCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "complete id",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done := true

			var task model.Task
			if err := root.Do(cmd, http.MethodPut, root.TasksURL, "/tasks/"+args[0], nil, model.TaskUpdate{Completed: &done}, &task); err != nil {
				return err
			}

			return root.Print(cmd, task)
		},
	}

	return cmd
}

func DeleteTaskCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:  "delete id",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res map[string]any
			if err := root.Do(cmd, http.MethodDelete, root.TasksURL, "/tasks/"+args[0], nil, nil, &res); err != nil {
				return err
			}

			return root.Print(cmd, res)
		},
	}

	return cmd
}

func RenderTaskCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render id",
		Short: "Print the task description rendered as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var html []byte
			if err := root.Do(cmd, http.MethodGet, root.TasksURL, "/tasks/"+args[0]+"/description", nil, nil, &html); err != nil {
				return err
			}

			_, err := cmd.OutOrStdout().Write(html)

			return err
		},
	}

	return cmd
}

package cmds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/agenticai/patterns/internal/model"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type taskItem struct {
	task model.Task
}

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return "" }
func (i taskItem) FilterValue() string { return i.task.Title }

type taskDelegate struct{}

func (taskDelegate) Height() int                             { return 1 }
func (taskDelegate) Spacing() int                            { return 0 }
func (taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(taskItem)

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}

	fmt.Fprintln(w, prefix+taskLine(it.task))
}

type (
	taskChangedMsg struct {
		index int
		task  model.Task
	}

	taskDeletedMsg struct {
		index int
	}

	errMsg struct {
		err error
	}
)

// browser is an interactive task list. Every change is sent to the tasks
// app right away.
type browser struct {
	root *Root
	ctx  context.Context

	list list.Model
	err  error
}

func newBrowser(ctx context.Context, root *Root, tasks []model.Task) browser {
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t})
	}

	l := list.New(items, taskDelegate{}, 80, 20)
	l.Title = tasksHeader(tasks)
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.SetStatusBarItemName("task", "tasks")

	toggle := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	remove := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggle, remove} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{toggle, remove} }

	return browser{root: root, ctx: ctx, list: l}
}

func (m browser) Init() tea.Cmd { return nil }

func (m browser) selected() (int, taskItem, bool) {
	it, ok := m.list.SelectedItem().(taskItem)

	return m.list.Index(), it, ok
}

func (m browser) toggle(index int, t model.Task) tea.Cmd {
	return func() tea.Msg {
		done := !t.Completed

		var updated model.Task
		err := m.root.do(m.ctx, io.Discard, http.MethodPut, m.root.TasksURL, "/tasks/"+strconv.Itoa(t.ID), nil, model.TaskUpdate{Completed: &done}, &updated)
		if err != nil {
			return errMsg{err}
		}

		return taskChangedMsg{index: index, task: updated}
	}
}

func (m browser) remove(index int, t model.Task) tea.Cmd {
	return func() tea.Msg {
		err := m.root.do(m.ctx, io.Discard, http.MethodDelete, m.root.TasksURL, "/tasks/"+strconv.Itoa(t.ID), nil, nil, nil)
		if err != nil {
			return errMsg{err}
		}

		return taskDeletedMsg{index: index}
	}
}

func (m browser) tasks() []model.Task {
	var tasks []model.Task
	for _, it := range m.list.Items() {
		if t, ok := it.(taskItem); ok {
			tasks = append(tasks, t.task)
		}
	}

	return tasks
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)

		return m, nil

	case taskChangedMsg:
		m.err = nil
		m.list.SetItem(msg.index, taskItem{task: msg.task})
		m.list.Title = tasksHeader(m.tasks())

		return m, nil

	case taskDeletedMsg:
		m.err = nil
		m.list.RemoveItem(msg.index)
		m.list.Title = tasksHeader(m.tasks())

		return m, nil

	case errMsg:
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit

		case " ":
			if i, it, ok := m.selected(); ok {
				return m, m.toggle(i, it.task)
			}

			return m, nil

		case "d":
			if i, it, ok := m.selected(); ok {
				return m, m.remove(i, it.task)
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m browser) View() string {
	content := m.list.View()
	if m.err != nil {
		content += "\n" + errorStyle.Render("✖ "+m.err.Error())
	}

	return panel(content)
}

func BrowseTasksCommand(root *Root) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively toggle and delete tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var tasks []model.Task
			if err := root.Do(cmd, http.MethodGet, root.TasksURL, "/tasks", nil, nil, &tasks); err != nil {
				return err
			}

			p := tea.NewProgram(
				newBrowser(cmd.Context(), root, tasks),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)

			_, err := p.Run()

			return err
		},
	}

	return cmd
}

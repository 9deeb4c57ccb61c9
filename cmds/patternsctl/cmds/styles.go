package cmds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agenticai/patterns/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

func panel(inner string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(inner)
}

func taskLine(t model.Task) string {
	id := mutedStyle.Render(fmt.Sprintf("#%-3d", t.ID))

	if t.Completed {
		return fmt.Sprintf("%s %s %s", id, successStyle.Render(boxChecked), doneStyle.Render(t.Title))
	}

	return fmt.Sprintf("%s %s %s", id, mutedStyle.Render(boxUnchecked), t.Title)
}

func taskStats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}

	return done, pending
}

func tasksHeader(tasks []model.Task) string {
	done, pending := taskStats(tasks)

	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Tasks"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(tasks),
	)
}

// renderPretty renders the lists the CLI knows about. Other values are
// reported as not renderable.
func renderPretty(v any) (string, bool) {
	switch v := v.(type) {
	case []model.Task:
		lines := []string{tasksHeader(v), ""}
		for _, t := range v {
			lines = append(lines, taskLine(t))
		}

		return panel(strings.Join(lines, "\n")), true

	case []model.Item:
		lines := []string{titleStyle.Render("Items"), ""}
		for _, it := range v {
			lines = append(lines, fmt.Sprintf("%s %s %s",
				mutedStyle.Render(fmt.Sprintf("#%-3d", it.ID)),
				it.Name,
				accentStyle.Render(strconv.FormatFloat(it.Price, 'f', 2, 64)),
			))
		}

		return panel(strings.Join(lines, "\n")), true
	}

	return "", false
}

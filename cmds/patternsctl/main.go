package main

import (
	"github.com/agenticai/patterns/cmds/patternsctl/cmds"
	"github.com/sirupsen/logrus"
)

func main() {
	root := cmds.New("patternsctl")

	root.AddCommand(
		cmds.HealthCommand(root),
		cmds.TasksCommand(root),
		cmds.ItemsCommand(root),
		cmds.AgentCommand(root),
		cmds.StreamCommand(root),
		cmds.JobsCommand(root),
	)

	if err := root.Execute(); err != nil {
		logrus.Fatal(err.Error())
	}
}

package main

import "fmt"

// VersionCommand prints build information.
type VersionCommand struct {
	Meta
}

func (c *VersionCommand) Run(_ []string) int {
	c.Ui.Output(fmt.Sprintf("flowsave %s (commit: %s, built: %s)", Version, Commit, BuildTime))
	return 0
}

func (c *VersionCommand) Help() string {
	return "Usage: flowsave version\n\n  Prints the flowsave version."
}

func (c *VersionCommand) Synopsis() string {
	return "Print the flowsave version"
}

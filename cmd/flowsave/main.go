// Package main provides the flowsave CLI: inspect, list, import and restore
// flowchart save points.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/cli"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	meta := Meta{
		Ui: &cli.BasicUi{Reader: os.Stdin, Writer: stdout, ErrorWriter: stderr},
	}

	c := cli.NewCLI("flowsave", Version)
	c.Args = args
	c.Commands = commands(meta)
	c.HelpWriter = stdout

	code, err := c.Run()
	if err != nil {
		fmt.Fprintf(stderr, "Error executing CLI: %s\n", err)
		return 1
	}
	return code
}

func commands(meta Meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"version": func() (cli.Command, error) {
			return &VersionCommand{Meta: meta}, nil
		},
		"inspect": func() (cli.Command, error) {
			return &InspectCommand{Meta: meta}, nil
		},
		"list": func() (cli.Command, error) {
			return &ListCommand{Meta: meta}, nil
		},
		"import": func() (cli.Command, error) {
			return &ImportCommand{Meta: meta}, nil
		},
		"restore": func() (cli.Command, error) {
			return &RestoreCommand{Meta: meta}, nil
		},
	}
}

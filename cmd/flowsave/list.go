package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/flowgraph/flowsave/internal/core/savepoint"
)

// ListCommand lists stored save points, newest first.
type ListCommand struct {
	Meta
}

func (c *ListCommand) Run(args []string) int {
	var filter savepoint.Filter
	fs := c.flagSet("list", c.Help)
	fs.IntVar(&filter.Limit, "limit", 0, "maximum number of save points")
	fs.IntVar(&filter.Offset, "offset", 0, "number of save points to skip")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		filter.Slot = rest[0]
	default:
		c.Ui.Error(c.Help())
		return 1
	}

	ctx := context.Background()
	_, st, err := c.setup(ctx)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	defer st.close()

	points, err := st.List(ctx, filter)
	if err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	if len(points) == 0 {
		c.Ui.Output("No save points found.")
		return 0
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLOT\tSAVED\tITEMS\tDESCRIPTION")
	for _, sp := range points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			sp.ID, sp.Slot, sp.Timestamp.UTC().Format(time.RFC3339), len(sp.Items), sp.Description)
	}
	_ = tw.Flush()
	c.Ui.Output(strings.TrimRight(buf.String(), "\n"))
	return 0
}

func (c *ListCommand) Help() string {
	return strings.TrimSpace(`
Usage: flowsave list [options] [slot]

  Lists stored save points, newest first, optionally limited to one slot.

Options:

  -config=path   YAML config file.
  -limit=n       Show at most n save points.
  -offset=n      Skip the first n save points.
`)
}

func (c *ListCommand) Synopsis() string {
	return "List stored save points"
}

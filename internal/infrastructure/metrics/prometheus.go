package metrics

import (
	"expvar"
	"fmt"
	"io"
	"sort"
	"strings"
)

type promMeta struct {
	typ, help string
	label     string // set for expvar.Map metrics
}

var promMetas = map[string]promMeta{
	"flowsave_restores_total":                 {typ: "counter", help: "Flowchart restores attempted"},
	"flowsave_restores_failed_total":          {typ: "counter", help: "Flowchart restores aborted"},
	"flowsave_blocks_resumed_total":           {typ: "counter", help: "Blocks resumed from a snapshot"},
	"flowsave_blocks_missing_total":           {typ: "counter", help: "Saved blocks not found in the live flowchart"},
	"flowsave_startup_handlers_cleared_total": {typ: "counter", help: "Startup trigger handlers cleared before restore"},
	"flowsave_variables_written_total":        {typ: "counter", help: "Variables written back", label: "kind"},
	"flowsave_savepoints_saved_total":         {typ: "counter", help: "Save points stored", label: "driver"},
}

// WritePrometheus renders the flowsave counters in Prometheus text format.
func WritePrometheus(w io.Writer) error {
	names := make([]string, 0, len(promMetas))
	for name := range promMetas {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		m := promMetas[name]
		v := expvar.Get(name)
		if v == nil {
			continue
		}
		fmt.Fprintf(&b, "# HELP %s %s\n", name, m.help)
		fmt.Fprintf(&b, "# TYPE %s %s\n", name, m.typ)

		mp, isMap := v.(*expvar.Map)
		if m.label == "" || !isMap {
			fmt.Fprintf(&b, "%s %s\n", name, v.String())
			continue
		}
		sub := make([]expvar.KeyValue, 0, 8)
		mp.Do(func(kv expvar.KeyValue) { sub = append(sub, kv) })
		sort.Slice(sub, func(i, j int) bool { return sub[i].Key < sub[j].Key })
		for _, kv := range sub {
			fmt.Fprintf(&b, "%s{%s=\"%s\"} %s\n", name, m.label, escapeLabel(kv.Key), kv.Value.String())
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

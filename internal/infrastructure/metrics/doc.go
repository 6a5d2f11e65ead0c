// Package metrics exposes expvar-published counters for save and restore
// activity. Values appear under /debug/vars in any process that serves the
// default expvar handler.
package metrics

package metrics

import (
	"expvar"
)

// Restore counters.
var (
	restoresTotal    = new(expvar.Int)
	restoresFailed   = new(expvar.Int)
	varsWritten      = expvar.NewMap("flowsave_variables_written_total")
	blocksResumed    = new(expvar.Int)
	blocksMissing    = new(expvar.Int)
	handlersCleared  = new(expvar.Int)
	savePointsStored = expvar.NewMap("flowsave_savepoints_saved_total")
)

func init() {
	expvar.Publish("flowsave_restores_total", restoresTotal)
	expvar.Publish("flowsave_restores_failed_total", restoresFailed)
	expvar.Publish("flowsave_blocks_resumed_total", blocksResumed)
	expvar.Publish("flowsave_blocks_missing_total", blocksMissing)
	expvar.Publish("flowsave_startup_handlers_cleared_total", handlersCleared)
}

func IncRestores()             { restoresTotal.Add(1) }
func IncRestoresFailed()       { restoresFailed.Add(1) }
func AddBlocksResumed(n int)   { blocksResumed.Add(int64(n)) }
func AddBlocksMissing(n int)   { blocksMissing.Add(int64(n)) }
func AddHandlersCleared(n int) { handlersCleared.Add(int64(n)) }

// AddVariablesWritten counts writes per variable kind.
func AddVariablesWritten(kind string, n int) {
	if n > 0 {
		varsWritten.Add(kind, int64(n))
	}
}

// IncSavePoints counts stored save points per store driver.
func IncSavePoints(driver string) { savePointsStored.Add(driver, 1) }

// Snapshot returns current counter values, keyed by published name.
func Snapshot() map[string]int64 {
	return map[string]int64{
		"restores":         restoresTotal.Value(),
		"restores_failed":  restoresFailed.Value(),
		"blocks_resumed":   blocksResumed.Value(),
		"blocks_missing":   blocksMissing.Value(),
		"handlers_cleared": handlersCleared.Value(),
	}
}

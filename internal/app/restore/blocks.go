package restore

import (
	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

// resumeBlocks stops everything running in fc, then restarts each block that
// was executing at save time from its saved command. Blocks that no longer
// exist are logged and skipped.
func (e *Engine) resumeBlocks(fc scene.Flowchart, records []snapshot.BlockRecord, report *Report) {
	fc.StopAllBlocks()

	for _, rec := range records {
		if !rec.WasExecuting {
			continue
		}

		block, ok := fc.FindBlock(rec.BlockName)
		if !ok || isNil(block) {
			e.log.Warn().
				Err(ErrMissingBlock).
				Str("block", rec.BlockName).
				Str("flowchart", fc.Name()).
				Msg("could not load block state; the block is not in the flowchart")
			report.BlocksMissing = append(report.BlocksMissing, rec.BlockName)
			continue
		}

		if !fc.ExecuteBlock(block, rec.CommandIndex) {
			e.log.Warn().
				Str("block", rec.BlockName).
				Str("flowchart", fc.Name()).
				Int("command_index", rec.CommandIndex).
				Msg("flowchart refused to resume block")
			continue
		}
		report.BlocksResumed = append(report.BlocksResumed, rec.BlockName)
	}
}

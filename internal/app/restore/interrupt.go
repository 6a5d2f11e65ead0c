package restore

import "github.com/flowgraph/flowsave/internal/core/scene"

// preventInterruptions clears every startup-only event handler so a
// restored flowchart does not rerun its opening logic. It returns how many
// handlers were cleared.
func preventInterruptions(fc scene.Flowchart) int {
	cleared := 0
	for _, block := range fc.Blocks() {
		if isNil(block) {
			continue
		}
		h := block.EventHandler()
		if !isNil(h) && h.IsStartupTrigger() {
			block.ClearEventHandler()
			cleared++
		}
	}
	return cleared
}

// Package flowsave provides a small public facade for saving flowchart state
// and restoring it into a live scene without importing internal packages. It
// re-exports the snapshot types and exposes a Runtime with Save, Restore and
// Subscribe.
package flowsave

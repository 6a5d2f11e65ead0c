package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowgraph/flowsave/internal/app/restore"
	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
	"github.com/flowgraph/flowsave/pkg/validation"
)

// FailedFlowchart is a snapshot whose target flowchart was not in the scene.
type FailedFlowchart struct {
	Name string
	Err  error
}

// RestoreResult describes one save point restore.
type RestoreResult struct {
	SavePointID string
	Slot        string
	MarkerKey   string
	Reports     []*restore.Report
	Failed      []FailedFlowchart
	// Skipped holds data type tags that decoded to something other than a
	// flowchart snapshot.
	Skipped []string
}

// OK reports whether every flowchart in the save point was applied.
func (r *RestoreResult) OK() bool {
	return len(r.Failed) == 0
}

// Restore loads save point id and applies its flowchart snapshots in item
// order. When marker is nil the marker recorded at save time is used.
//
// Decode and validation errors abort before anything is applied. A missing
// target flowchart only fails that item; the rest still load.
func (s *SaveService) Restore(ctx context.Context, id string, marker scene.ProgressMarker) (*RestoreResult, error) {
	sp, err := s.saver.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load save point: %w", err)
	}

	result := &RestoreResult{SavePointID: sp.ID, Slot: sp.Slot}

	snaps := make([]*snapshot.Flowchart, 0, len(sp.Items))
	for _, item := range sp.Items {
		v, err := s.registry.Decode(item)
		if err != nil {
			return nil, fmt.Errorf("save point %s: %w", sp.ID, err)
		}
		snap, ok := v.(*snapshot.Flowchart)
		if !ok {
			result.Skipped = append(result.Skipped, item.DataType)
			continue
		}
		if err := validation.ValidateSnapshot(snap); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		snaps = append(snaps, snap)
	}

	if marker == nil && sp.ProgressMarkerKey != "" {
		marker = scene.MarkerKey(sp.ProgressMarkerKey)
	}
	if marker != nil {
		result.MarkerKey = marker.Key()
	}

	for _, snap := range snaps {
		report, err := s.engine.Restore(snap, marker)
		if err != nil {
			if !errors.Is(err, restore.ErrTargetNotFound) {
				return result, err
			}
			result.Failed = append(result.Failed, FailedFlowchart{Name: snap.FlowchartName, Err: err})
			continue
		}
		result.Reports = append(result.Reports, report)
	}

	s.log.Info().
		Str("id", sp.ID).
		Int("restored", len(result.Reports)).
		Int("failed", len(result.Failed)).
		Msg("save point restored")
	return result, nil
}

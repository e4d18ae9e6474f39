package domain

import (
	"fmt"
	"time"
)

// ActivityDraft describes an activity the caller must append as part of a
// state change. Drafts carry no identity; the repository assigns it.
type ActivityDraft struct {
	Type      ActivityType
	Direction ActivityDirection
	Note      string
	OldValue  *string
	NewValue  *string
}

// StageChange is the atomically-paired outcome of a funnel transition: the
// lead field updates and the status-change activity that must be persisted
// together.
type StageChange struct {
	From      FunnelStage
	To        FunnelStage
	ChangedAt time.Time
	Activity  ActivityDraft
}

// TransitionStage computes the paired (stage update, activity) for moving a
// lead to a new funnel stage. Any stage is reachable from any other,
// including out of terminal stages; that exclusion is a view-layer
// convention. Moving to the current stage or to an unknown stage is
// rejected.
func TransitionStage(lead Lead, to FunnelStage, now time.Time) (StageChange, error) {
	if !IsKnownFunnelStage(to) {
		return StageChange{}, fmt.Errorf("unknown funnel stage %q", to)
	}
	if lead.FunnelStage == to {
		return StageChange{}, fmt.Errorf("lead already in stage %q", to)
	}

	oldValue := string(lead.FunnelStage)
	newValue := string(to)

	return StageChange{
		From:      lead.FunnelStage,
		To:        to,
		ChangedAt: now,
		Activity: ActivityDraft{
			Type:      ActivityStatusChange,
			Direction: DirectionSystem,
			Note:      fmt.Sprintf("Stage changed from %s to %s", oldValue, newValue),
			OldValue:  &oldValue,
			NewValue:  &newValue,
		},
	}, nil
}

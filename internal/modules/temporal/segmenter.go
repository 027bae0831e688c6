package temporal

import "github.com/feltlab/timepatterns/internal/modules/actions"

// minActionsForSegmentation is the floor below which a player's stream has
// too little signal to segment at all.
const minActionsForSegmentation = 10

// SegmentSessions partitions a chronologically ordered action stream into
// contiguous, non-overlapping windows separated by inactivity gaps longer
// than cfg.SessionGap. The windows cover the entire stream; no action is
// dropped by segmentation itself.
//
// Windows with fewer than cfg.SessionMinActions actions are discarded here
// as a cheap pre-filter; the duration minimum is enforced later by
// AnalyzeSession, which sees the surviving windows.
//
// Streams with fewer than 10 actions are not segmented at all (nil result).
func SegmentSessions(stream []actions.Action, cfg Config) [][]actions.Action {
	if len(stream) < minActionsForSegmentation {
		return nil
	}

	var windows [][]actions.Action
	start := 0
	for i := 1; i <= len(stream); i++ {
		atEnd := i == len(stream)
		if !atEnd && stream[i].PlayedAt.Sub(stream[i-1].PlayedAt) <= cfg.SessionGap {
			continue
		}
		window := stream[start:i]
		if len(window) >= cfg.SessionMinActions {
			windows = append(windows, window)
		}
		start = i
	}

	return windows
}

package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentSessions_SingleWindow(t *testing.T) {
	cfg := DefaultConfig()
	stream := streamEvery(testBase, 10, minutes(2))

	windows := SegmentSessions(stream, cfg)

	require.Len(t, windows, 1)
	assert.Len(t, windows[0], 10)
}

func TestSegmentSessions_SplitsOnGap(t *testing.T) {
	cfg := DefaultConfig()

	// Two bursts of 5, separated by a 60-minute gap
	stream := streamEvery(testBase, 5, minutes(2))
	stream = append(stream, streamEvery(testBase.Add(minutes(68)), 5, minutes(2))...)

	windows := SegmentSessions(stream, cfg)

	require.Len(t, windows, 2)
	assert.Len(t, windows[0], 5)
	assert.Len(t, windows[1], 5)
	assert.Equal(t, testBase, windows[0][0].PlayedAt)
	assert.Equal(t, testBase.Add(minutes(68)), windows[1][0].PlayedAt)
}

func TestSegmentSessions_GapEqualToThresholdDoesNotSplit(t *testing.T) {
	cfg := DefaultConfig()

	// One inter-action gap of exactly 30 minutes; only strictly greater cuts
	stream := streamEvery(testBase, 9, minutes(2))
	stream = append(stream, callAt(stream[8].PlayedAt.Add(cfg.SessionGap), 0))

	windows := SegmentSessions(stream, cfg)

	require.Len(t, windows, 1)
	assert.Len(t, windows[0], 10)
}

func TestSegmentSessions_TooFewActionsReturnsNil(t *testing.T) {
	cfg := DefaultConfig()
	stream := streamEvery(testBase, 9, minutes(2))

	assert.Nil(t, SegmentSessions(stream, cfg))
}

func TestSegmentSessions_DiscardsWindowsBelowMinActions(t *testing.T) {
	cfg := DefaultConfig() // SessionMinActions = 5

	// A burst of 3 followed by a burst of 7
	stream := streamEvery(testBase, 3, minutes(2))
	stream = append(stream, streamEvery(testBase.Add(minutes(120)), 7, minutes(2))...)

	windows := SegmentSessions(stream, cfg)

	require.Len(t, windows, 1)
	assert.Len(t, windows[0], 7)
	assert.Equal(t, testBase.Add(minutes(120)), windows[0][0].PlayedAt)
}

func TestSegmentSessions_WindowsCoverWholeStream(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SessionMinActions = 1

	// Irregular gaps, some above and some below the threshold
	stream := streamEvery(testBase, 4, minutes(5))
	stream = append(stream, streamEvery(testBase.Add(minutes(90)), 3, minutes(1))...)
	stream = append(stream, streamEvery(testBase.Add(minutes(300)), 5, minutes(10))...)

	windows := SegmentSessions(stream, cfg)

	total := 0
	for _, w := range windows {
		total += len(w)
	}
	assert.Equal(t, len(stream), total)

	// Windows are contiguous and non-overlapping in stream order
	idx := 0
	for _, w := range windows {
		for _, a := range w {
			assert.Equal(t, stream[idx].PlayedAt, a.PlayedAt)
			idx++
		}
	}
}

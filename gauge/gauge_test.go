package gauge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	s := defaultScale(t)
	g := New(s, defaultRanges(t, s), nil)
	g.Unit = "km/h"

	snap := g.Snapshot()
	assert.False(t, snap.Visible)
	assert.Equal(t, "0", snap.Text)
	assert.Equal(t, 240.0, snap.Angle)
	assert.Equal(t, Color(2), snap.Color)

	require.NoError(t, g.SetTargetValue(42))
	g.Needle.Restore(State{Initialized: true, LastMovedAt: Idle, Current: 42.9, Target: 42})
	snap = g.Snapshot()
	assert.True(t, snap.Visible)
	assert.Equal(t, "42", snap.Text)
	assert.Equal(t, "km/h", snap.Unit)
	assert.Equal(t, 3, snap.Bucket)
	assert.Equal(t, Color(1), snap.Color)
	assert.InDelta(t, s.AngleForValue(42.9), snap.Angle, 1e-9)
}

func TestSnapshotTextOverride(t *testing.T) {
	s := defaultScale(t)
	g := New(s, nil, nil)
	g.Text = "RPM"
	assert.Equal(t, "RPM", g.Snapshot().Text)
}

func TestSnapshotClampsRestoredValue(t *testing.T) {
	s := defaultScale(t)
	g := New(s, defaultRanges(t, s), nil)
	g.Needle.Restore(State{Initialized: true, LastMovedAt: Idle, Current: 180, Target: 180})
	snap := g.Snapshot()
	assert.Equal(t, 3, snap.Bucket)
	assert.InDelta(t, s.AngleForValue(100), snap.Angle, 1e-9)
	assert.Equal(t, 180.0, snap.Value)
}

func TestGaugeTicks(t *testing.T) {
	s := defaultScale(t)
	g := New(s, defaultRanges(t, s), nil)
	ticks := g.Ticks()
	require.Len(t, ticks, 26)
	assert.True(t, ticks[0].Major)
	assert.False(t, ticks[1].Major)
	assert.Equal(t, Color(2), ticks[0].Color)
	assert.Equal(t, Color(3), ticks[4].Color)
	assert.Equal(t, Color(208), ticks[7].Color)
	assert.Equal(t, Color(1), ticks[25].Color)
}

func TestGaugeDrivesNeedle(t *testing.T) {
	s := defaultScale(t)
	redraws := 0
	g := New(s, nil, RedrawFunc(func() { redraws++ }))
	require.NoError(t, g.SetTargetValue(33))
	now := time.UnixMilli(0)
	for i := 0; i < 200 && !g.Needle.Settled(); i++ {
		g.Advance(now)
		now = now.Add(frame)
	}
	assert.InDelta(t, 33.0, g.Snapshot().Value, Settle)
	assert.Greater(t, redraws, 1)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "12", ValueString(12.99))
	assert.Equal(t, "0", ValueString(0.4))
	assert.Equal(t, "-3", ValueString(-3.7))
}

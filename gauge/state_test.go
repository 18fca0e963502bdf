package gauge

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePersistenceRoundTrip(t *testing.T) {
	a := NewNeedle(defaultScale(t), nil)
	require.NoError(t, a.SetTarget(64))
	now := epoch
	for i := 0; i < 12; i++ {
		a.Advance(now)
		now = now.Add(frame)
	}

	var buf bytes.Buffer
	require.NoError(t, SaveState(&buf, a.State()))
	assert.Contains(t, buf.String(), "lastmoved:")

	restored, err := LoadState(&buf)
	require.NoError(t, err)
	assert.Equal(t, a.State(), restored)

	b := NewNeedle(defaultScale(t), nil)
	b.Restore(restored)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Advance(now), b.Advance(now))
		now = now.Add(frame)
	}
}

func TestLoadStateDefaults(t *testing.T) {
	s, err := LoadState(strings.NewReader("current: 12\ntarget: 12\n"))
	require.NoError(t, err)
	assert.Equal(t, Idle, s.LastMovedAt)
	assert.False(t, s.Initialized)
	assert.Equal(t, 12.0, s.Current)
}

func TestLoadStateRejectsGarbage(t *testing.T) {
	_, err := LoadState(strings.NewReader("current: [1, 2"))
	assert.Error(t, err)

	_, err = LoadState(strings.NewReader("current: .nan\n"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateWriter(t *testing.T) {
	fn := filepath.Join(t.TempDir(), LOGFILE)
	w, err := newRotateWriter(fn, 64)
	require.NoError(t, err)

	line := strings.Repeat("x", 39) + "\n"
	_, err = w.Write([]byte(line))
	require.NoError(t, err)
	_, err = w.Write([]byte(line))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	cur, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, line, string(cur))
	old, err := os.ReadFile(fn + ".1")
	require.NoError(t, err)
	assert.Equal(t, line, string(old))
}

func TestRotateWriterUnlimited(t *testing.T) {
	fn := filepath.Join(t.TempDir(), LOGFILE)
	w, err := newRotateWriter(fn, 0)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err = w.Write([]byte("0123456789\n"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	_, err = os.Stat(fn + ".1")
	assert.True(t, os.IsNotExist(err))
}

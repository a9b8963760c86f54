package log

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCustomLogHook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, configureSubLogger("CLI", "INFO", &buf))

	var got []Entry
	SetCustomLogHook(func(e *Entry) bool {
		got = append(got, *e)
		return true
	})
	t.Cleanup(func() { SetCustomLogHook(nil) })

	before := time.Now()
	Infof(CLI, "hello %s", "hook")
	Debug(CLI, "filtered")
	require.Len(t, got, 1, "disabled levels should not reach the hook")
	assert.Equal(t, "[INFO]", got[0].Header)
	assert.Equal(t, "CLI", got[0].SubLogger)
	assert.Equal(t, "hello hook", got[0].Message)
	assert.False(t, got[0].Time.Before(before), "entry should carry the event time")
	assert.Zero(t, buf.Len(), "handled entries should skip the sub logger output")

	SetCustomLogHook(func(*Entry) bool { return false })
	Info(CLI, "passthrough")
	assert.Contains(t, buf.String(), "passthrough", "unhandled entries should still be written")

	SetCustomLogHook(nil)
	buf.Reset()
	Info(CLI, "no hook")
	assert.Contains(t, buf.String(), "no hook")
}

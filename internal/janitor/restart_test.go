package janitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestart_SchedulesSweepOnce(t *testing.T) {
	j := New("@every 1h", nil, Task{Name: "noop", Run: func() int { return 0 }})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, j.Start())
	first := j.cron
	require.NoError(t, j.Stop(ctx))

	require.NoError(t, j.Start())
	defer j.Stop(ctx)

	assert.True(t, j.IsRunning())
	assert.NotSame(t, first, j.cron)
	assert.Len(t, j.cron.Entries(), 1)
}

func TestStop_BeforeStart(t *testing.T) {
	j := New("", nil)
	assert.NoError(t, j.Stop(context.Background()))
}

package core

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, task *SeedTask) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("seed task did not finish")
	}
}

func TestScheduleSeedApplies(t *testing.T) {
	l := NewList(ListOptions{})
	var reported []SeedOutcome
	done := make(chan struct{})

	task := ScheduleSeed(l, SeedOptions{
		Delay:    10 * time.Millisecond,
		Generate: func() []Record { return testGenerator(1).Generate(12) },
		OnDone: func(o SeedOutcome) {
			reported = append(reported, o)
			close(done)
		},
	})
	waitDone(t, task)
	<-done

	assert.Equal(t, SeedApplied, task.Outcome())
	assert.Equal(t, []SeedOutcome{SeedApplied}, reported)
	assert.False(t, l.Loading())
	assert.Len(t, l.Dataset(), 12)
	assert.False(t, task.Cancel(), "cancel after apply is a no-op")
	runtime.KeepAlive(l)
}

func TestScheduleSeedCancel(t *testing.T) {
	l := NewList(ListOptions{})
	var generated atomic.Bool

	task := ScheduleSeed(l, SeedOptions{
		Delay:    time.Hour,
		Generate: func() []Record { generated.Store(true); return Generate(5) },
	})
	require.True(t, task.Cancel())
	waitDone(t, task)

	assert.Equal(t, SeedCancelled, task.Outcome())
	assert.False(t, task.Cancel())
	assert.False(t, generated.Load())
	assert.True(t, l.Loading())
	assert.Empty(t, l.Dataset())
	runtime.KeepAlive(l)
}

func TestScheduleSeedClosedList(t *testing.T) {
	l := NewList(ListOptions{})
	l.Close()

	task := ScheduleSeed(l, SeedOptions{Delay: time.Millisecond})
	waitDone(t, task)

	assert.Equal(t, SeedAbandoned, task.Outcome())
	assert.Empty(t, l.Dataset())
	runtime.KeepAlive(l)
}

func TestScheduleSeedNegativeDelay(t *testing.T) {
	l := NewList(ListOptions{})
	task := ScheduleSeed(l, SeedOptions{Delay: -time.Second, Generate: func() []Record { return Generate(2) }})
	waitDone(t, task)

	assert.Equal(t, SeedApplied, task.Outcome())
	runtime.KeepAlive(l)
}

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameQueueTickRunsInRequestOrder(t *testing.T) {
	q := NewFrameQueue()
	var got []int
	q.RequestFrame(func(time.Time) { got = append(got, 1) })
	q.RequestFrame(func(time.Time) { got = append(got, 2) })

	assert.Equal(t, 2, q.Pending())
	assert.Equal(t, 2, q.Tick(time.Now()))
	assert.Equal(t, []int{1, 2}, got)
	assert.Zero(t, q.Pending())
}

func TestFrameQueueDefersRequestsMadeDuringTick(t *testing.T) {
	q := NewFrameQueue()
	runs := 0
	var frame func(time.Time)
	frame = func(time.Time) {
		runs++
		q.RequestFrame(frame)
	}
	q.RequestFrame(frame)

	require.Equal(t, 1, q.Tick(time.Now()))
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, q.Pending())

	require.Equal(t, 1, q.Tick(time.Now()))
	assert.Equal(t, 2, runs)
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()
	ran := false
	h := q.RequestFrame(func(time.Time) { ran = true })
	q.CancelFrame(h)
	q.CancelFrame(h)
	q.CancelFrame(FrameHandle(999))

	assert.Zero(t, q.Tick(time.Now()))
	assert.False(t, ran)
}

func TestFrameQueueCancelWithinTick(t *testing.T) {
	q := NewFrameQueue()
	var second FrameHandle
	secondRan := false
	q.RequestFrame(func(time.Time) { q.CancelFrame(second) })
	second = q.RequestFrame(func(time.Time) { secondRan = true })

	assert.Equal(t, 1, q.Tick(time.Now()))
	assert.False(t, secondRan)
}

func TestFrameQueuePassesTickTime(t *testing.T) {
	q := NewFrameQueue()
	now := time.Unix(1700000000, 0)
	var seen time.Time
	q.RequestFrame(func(t time.Time) { seen = t })
	q.Tick(now)
	assert.True(t, seen.Equal(now))
}

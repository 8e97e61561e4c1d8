package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTriggerCoalesces(t *testing.T) {
	var calls atomic.Int32
	d := New(30*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestFlushRunsSynchronously(t *testing.T) {
	var calls atomic.Int32
	d := New(time.Hour, func() { calls.Add(1) })

	assert.False(t, d.Flush(), "nothing pending yet")

	d.Trigger()
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
	assert.False(t, d.Flush())
}

func TestCancel(t *testing.T) {
	var calls atomic.Int32
	d := New(10*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	assert.True(t, d.Cancel())
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, d.Cancel())
}

func TestIndependentInstances(t *testing.T) {
	var a, b atomic.Int32
	da := New(time.Hour, func() { a.Add(1) })
	db := New(time.Hour, func() { b.Add(1) })

	da.Trigger()
	db.Trigger()
	da.Flush()

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(0), b.Load())
	assert.True(t, db.Pending())
	db.Cancel()
}

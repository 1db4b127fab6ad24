package services_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskboard/core/internal/application/services"
)

func TestRefresher_InvokesCallback(t *testing.T) {
	var ticks int64

	r := services.NewRefresher(5*time.Millisecond, func(now time.Time) {
		atomic.AddInt64(&ticks, 1)
	})
	defer r.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&ticks) >= 2
	}, time.Second, time.Millisecond)
}

func TestRefresher_StopTerminatesTick(t *testing.T) {
	var ticks int64

	r := services.NewRefresher(5*time.Millisecond, func(now time.Time) {
		atomic.AddInt64(&ticks, 1)
	})

	r.Stop()
	seen := atomic.LoadInt64(&ticks)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, seen, atomic.LoadInt64(&ticks))
}

func TestRefresher_StopIsIdempotent(t *testing.T) {
	r := services.NewRefresher(time.Hour, func(now time.Time) {})

	r.Stop()
	assert.NotPanics(t, r.Stop)
}

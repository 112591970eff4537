package projector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherPreservesPerKeyOrder(t *testing.T) {
	d := newDispatcher()
	ctx := context.Background()

	var mu sync.Mutex
	var seen []int
	for i := 0; i < 50; i++ {
		i := i
		d.submit(ctx, "same-key", func(context.Context) {
			mu.Lock()
			seen = append(seen, i)
			mu.Unlock()
		})
	}
	d.wait()

	for i, value := range seen {
		assert.Equal(t, i, value)
	}
}

func TestDispatcherRunsDistinctKeysConcurrently(t *testing.T) {
	d := newDispatcher()
	ctx := context.Background()

	release := make(chan struct{})
	firstRunning := make(chan struct{})
	d.submit(ctx, "a", func(context.Context) {
		close(firstRunning)
		<-release
	})

	secondDone := make(chan struct{})
	d.submit(ctx, "b", func(context.Context) {
		close(secondDone)
	})

	<-firstRunning
	select {
	case <-secondDone:
	case <-time.After(time.Second):
		t.Fatal("task on distinct key blocked behind busy key")
	}
	close(release)
	d.wait()
}

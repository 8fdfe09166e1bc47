package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"listgrip/internal/domain"
)

func TestPublishReachesSubscriber(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var received []DomainEvent
	bus.Subscribe(EventBatchLoaded, func(e DomainEvent) {
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})

	bus.Publish(domain.BatchLoadedEvent{Query: "cats", Page: 2, Count: 7})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 5*time.Millisecond, "subscriber should receive the published event")

	mu.Lock()
	defer mu.Unlock()
	event, ok := received[0].(domain.BatchLoadedEvent)
	require.True(t, ok)
	require.Equal(t, "cats", event.Query)
	require.Equal(t, 2, event.Page)
	require.Equal(t, 7, event.Count)
}

func TestSubscriberOnlySeesItsEventType(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var count int
	bus.Subscribe(EventSearchStarted, func(e DomainEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(domain.SearchStartedEvent{Query: "a"})
	bus.Publish(domain.BatchLoadedEvent{Query: "a", Page: 1, Count: 1})
	bus.Publish(domain.SearchStartedEvent{Query: "b"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 2
	}, time.Second, 5*time.Millisecond)

	// Give the dispatcher a moment to deliver anything unexpected
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 2, count)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()

	var mu sync.Mutex
	var count int
	unsubscribe := bus.Subscribe(EventSearchStarted, func(e DomainEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(domain.SearchStartedEvent{Query: "before"})
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 5*time.Millisecond)

	unsubscribe()
	bus.Publish(domain.SearchStartedEvent{Query: "after"})

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, count, "unsubscribed handler should not be called")
}

func TestHandlerPanicDoesNotKillDispatcher(t *testing.T) {
	bus := New()

	bus.Subscribe(EventError, func(e DomainEvent) {
		panic("handler exploded")
	})

	var mu sync.Mutex
	var count int
	bus.Subscribe(EventError, func(e DomainEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(domain.ErrorEvent{Message: "first"})
	bus.Publish(domain.ErrorEvent{Message: "second"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 2
	}, time.Second, 5*time.Millisecond, "dispatcher should survive a panicking handler")
}

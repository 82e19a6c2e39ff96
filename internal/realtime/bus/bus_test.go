package bus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardhq/internal/realtime/models"
	id "guardhq/pkg/domain"
)

func event(eventType string) models.RealtimeEvent {
	return models.RealtimeEvent{ID: id.NewEventID(), Type: eventType}
}

func TestExactAndWildcardDelivery(t *testing.T) {
	b := New()
	var panicCount, anyCount int
	b.Subscribe(models.EventPanicAlert, func(models.RealtimeEvent) { panicCount++ })
	b.Subscribe(models.EventAny, func(models.RealtimeEvent) { anyCount++ })

	b.Emit(event(models.EventPanicAlert))
	b.Emit(event(models.EventGeofenceBreach))
	b.Emit(event(models.EventPanicAlert))

	assert.Equal(t, 2, panicCount, "exact subscriber sees only its type")
	assert.Equal(t, 3, anyCount, "wildcard subscriber sees everything")
}

func TestExactSubscribersRunBeforeWildcard(t *testing.T) {
	b := New()
	var order []string
	b.Subscribe(models.EventAny, func(models.RealtimeEvent) { order = append(order, "wildcard") })
	b.Subscribe(models.EventPanicAlert, func(models.RealtimeEvent) { order = append(order, "exact") })

	b.Emit(event(models.EventPanicAlert))

	require.Equal(t, []string{"exact", "wildcard"}, order)
}

func TestMultipleSubscribersPerType(t *testing.T) {
	b := New()
	var first, second int
	b.Subscribe(models.EventActivity, func(models.RealtimeEvent) { first++ })
	b.Subscribe(models.EventActivity, func(models.RealtimeEvent) { second++ })

	b.Emit(event(models.EventActivity))

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	b := New()
	var kept, removed int
	b.Subscribe(models.EventActivity, func(models.RealtimeEvent) { kept++ })
	unsubscribe := b.Subscribe(models.EventActivity, func(models.RealtimeEvent) { removed++ })

	b.Emit(event(models.EventActivity))
	unsubscribe()
	unsubscribe() // second call is a no-op
	b.Emit(event(models.EventActivity))

	assert.Equal(t, 2, kept)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, b.SubscriberCount(models.EventActivity))
}

func TestEmitOrderPreservedPerSubscriber(t *testing.T) {
	b := New()
	var seen []string
	b.Subscribe(models.EventAny, func(e models.RealtimeEvent) { seen = append(seen, e.Type) })

	b.Emit(event(models.EventPanicAlert))
	b.Emit(event(models.EventLocationUpdate))
	b.Emit(event(models.EventActivity))

	require.Equal(t, []string{models.EventPanicAlert, models.EventLocationUpdate, models.EventActivity}, seen)
}

func TestConcurrentEmitAndSubscribe(t *testing.T) {
	b := New()
	var mu sync.Mutex
	total := 0
	b.Subscribe(models.EventAny, func(models.RealtimeEvent) {
		mu.Lock()
		total++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Emit(event(models.EventActivity))
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 500, total)
}

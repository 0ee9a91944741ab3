package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test codes live in the application range so they never collide with the
// engine codes or with each other.
const (
	testCodeFire EventCode = 0x100 + iota
	testCodeUnregister
	testCodeOrder
	testCodePost
	testCodeGoroutine
)

func TestEventRegisterAndFire(t *testing.T) {
	require.NoError(t, EventInitialize())

	var received []EventContext
	id := EventRegister(testCodeFire, func(context EventContext) {
		received = append(received, context)
	})
	require.NotZero(t, id)
	defer EventUnregister(testCodeFire, id)

	EventFire(EventContext{Type: testCodeFire, Data: "hello"})

	require.Len(t, received, 1)
	assert.Equal(t, testCodeFire, received[0].Type)
	assert.Equal(t, "hello", received[0].Data)
}

func TestEventRegisterNilCallback(t *testing.T) {
	require.NoError(t, EventInitialize())
	assert.Zero(t, EventRegister(testCodeFire, nil))
}

func TestEventUnregisterStopsDelivery(t *testing.T) {
	require.NoError(t, EventInitialize())

	calls := 0
	id := EventRegister(testCodeUnregister, func(EventContext) { calls++ })
	EventFire(EventContext{Type: testCodeUnregister})
	assert.Equal(t, 1, calls)

	assert.True(t, EventUnregister(testCodeUnregister, id))
	EventFire(EventContext{Type: testCodeUnregister})
	assert.Equal(t, 1, calls)

	// A second unregister finds nothing.
	assert.False(t, EventUnregister(testCodeUnregister, id))
}

func TestEventListenersFireInRegistrationOrder(t *testing.T) {
	require.NoError(t, EventInitialize())

	var order []int
	first := EventRegister(testCodeOrder, func(EventContext) { order = append(order, 1) })
	second := EventRegister(testCodeOrder, func(EventContext) { order = append(order, 2) })
	defer EventUnregister(testCodeOrder, first)
	defer EventUnregister(testCodeOrder, second)

	EventFire(EventContext{Type: testCodeOrder})
	assert.Equal(t, []int{1, 2}, order)
}

func TestEventPostDeliversOnPump(t *testing.T) {
	require.NoError(t, EventInitialize())

	var received []string
	id := EventRegister(testCodePost, func(context EventContext) {
		received = append(received, context.Data.(string))
	})
	defer EventUnregister(testCodePost, id)

	require.NoError(t, EventPost(EventContext{Type: testCodePost, Data: "a"}))
	require.NoError(t, EventPost(EventContext{Type: testCodePost, Data: "b"}))

	// Nothing arrives until the frame thread pumps.
	assert.Empty(t, received)

	EventPump()
	assert.Equal(t, []string{"a", "b"}, received)

	// The queue is drained, a second pump delivers nothing new.
	EventPump()
	assert.Equal(t, []string{"a", "b"}, received)
}

func TestEventPostFromOtherGoroutines(t *testing.T) {
	require.NoError(t, EventInitialize())

	received := 0
	id := EventRegister(testCodeGoroutine, func(EventContext) { received++ })
	defer EventUnregister(testCodeGoroutine, id)

	const posters = 8
	var wg sync.WaitGroup
	wg.Add(posters)
	for i := 0; i < posters; i++ {
		go func() {
			defer wg.Done()
			EventPost(EventContext{Type: testCodeGoroutine})
		}()
	}
	wg.Wait()

	EventPump()
	assert.Equal(t, posters, received)
}

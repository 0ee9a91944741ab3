package core

import (
	"sync"

	"github.com/spaghettifunk/helios/engine/containers"
)

// System internal event codes. Application should use codes beyond 255.
type EventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Data is a *KeyEvent.
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Data is a *KeyEvent.
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released. Data is a *MouseEvent.
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// Mouse wheel scrolled. Data is a *MouseEvent.
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07

	// Resized/resolution changed from the OS. Data is a *SystemEvent.
	EVENT_CODE_RESIZED EventCode = 0x08

	// A watched asset file changed on disk. Data is an *AssetEvent.
	EVENT_CODE_ASSET_CHANGED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// Maximum number of events that can sit in the posted queue between pumps.
const MAX_PENDING_EVENTS = 512

// EventContext carries the fired code together with its payload.
type EventContext struct {
	Type EventCode
	Data interface{}
}

// KeyEvent is the payload of key pressed/released events.
type KeyEvent struct {
	KeyCode KeyCode
}

// MouseEvent is the payload of mouse button, move and wheel events.
type MouseEvent struct {
	Button Button
	PosX   int32
	PosY   int32
	Scroll float64
}

// SystemEvent is the payload of window system events.
type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

// AssetEvent is the payload of asset change notifications.
type AssetEvent struct {
	Path string
}

// Callback invoked for every event fired with the registered code.
type FnOnEvent func(context EventContext)

type registeredEvent struct {
	id       uint32
	callback FnOnEvent
}

type eventCodeEntry struct {
	events []*registeredEvent
}

// State structure.
type eventSystemState struct {
	// Lookup table for event codes.
	registered [MAX_MESSAGE_CODES]eventCodeEntry
	nextID     uint32

	// Events posted from other goroutines, drained by EventPump.
	pending   *containers.RingQueue[EventContext]
	pendingMu sync.Mutex
}

var onceEvent sync.Once
var isInitialized bool = false
var eventState *eventSystemState = nil

func EventInitialize() error {
	onceEvent.Do(func() {
		eventState = &eventSystemState{
			pending: containers.NewRingQueue[EventContext](MAX_PENDING_EVENTS),
		}
	})
	isInitialized = true
	return nil
}

func EventShutdown() error {
	if eventState == nil {
		return nil
	}
	// Free the events arrays. Any objects pointed to should be destroyed on their own.
	for i := 0; i < MAX_MESSAGE_CODES; i++ {
		if len(eventState.registered[i].events) != 0 {
			eventState.registered[i].events = nil
		}
	}
	isInitialized = false
	return nil
}

// EventRegister subscribes the callback to the provided code and returns a
// subscription id that can later be passed to EventUnregister.
func EventRegister(code EventCode, onEvent FnOnEvent) uint32 {
	if !isInitialized || onEvent == nil {
		return 0
	}
	eventState.nextID++
	event := &registeredEvent{
		id:       eventState.nextID,
		callback: onEvent,
	}
	eventState.registered[code].events = append(eventState.registered[code].events, event)
	return event.id
}

// EventUnregister drops the subscription with the given id from the provided
// code. Returns false when no matching registration is found.
func EventUnregister(code EventCode, id uint32) bool {
	if !isInitialized {
		return false
	}

	events := eventState.registered[code].events
	for i := 0; i < len(events); i++ {
		if events[i].id == id {
			eventState.registered[code].events = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

// EventFire dispatches the event to every listener of its code, on the
// calling goroutine. Use EventPost from other goroutines.
func EventFire(context EventContext) {
	if !isInitialized {
		return
	}
	events := eventState.registered[context.Type].events
	for i := 0; i < len(events); i++ {
		events[i].callback(context)
	}
}

// EventPost queues the event for dispatch on the next EventPump. Safe to call
// from any goroutine. Posting to a full queue drops the event.
func EventPost(context EventContext) error {
	if !isInitialized {
		return nil
	}
	eventState.pendingMu.Lock()
	defer eventState.pendingMu.Unlock()
	if err := eventState.pending.Enqueue(context); err != nil {
		LogWarn("event queue full, dropping event with code `%d`", context.Type)
		return err
	}
	return nil
}

// EventPump fires all posted events on the calling goroutine. The engine runs
// this once per frame on the main thread.
func EventPump() {
	if !isInitialized {
		return
	}
	for {
		eventState.pendingMu.Lock()
		context, err := eventState.pending.Dequeue()
		eventState.pendingMu.Unlock()
		if err != nil {
			return
		}
		EventFire(context)
	}
}

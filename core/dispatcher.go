// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/dispatcher.go
// Summary: Typed event broadcast between widgets and engine services.

package core

import "sync"

// EventType defines the type of an event.
type EventType int

const (
	// EventTextChanged fires after a user edit mutates a text widget's
	// content. Programmatic SetText installs do not fire it.
	EventTextChanged EventType = iota
	// EventLayoutChanged fires when a widget's geometry changes
	// (resize, reflow), invalidating previously computed char rects.
	EventLayoutChanged
)

// Event represents a message passed through the system. It has a type
// and can carry an arbitrary payload (usually the source widget).
type Event struct {
	Type    EventType
	Payload interface{}
}

// Listener is implemented by any component that wants events.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(ev Event) { f(ev) }

// Subscription identifies one registration so it can be removed or
// replaced later. The zero value is never issued.
type Subscription int

// EventDispatcher manages listeners and broadcasts events to them.
type EventDispatcher struct {
	mu        sync.RWMutex
	nextID    Subscription
	listeners map[Subscription]Listener
	order     []Subscription
}

// NewEventDispatcher creates a new dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{listeners: make(map[Subscription]Listener)}
}

// Subscribe adds a listener and returns a handle for Unsubscribe.
func (d *EventDispatcher) Subscribe(l Listener) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[id] = l
	d.order = append(d.order, id)
	return id
}

// Unsubscribe removes a previous registration. Unknown handles are
// ignored, so replacing a subscription is always safe.
func (d *EventDispatcher) Unsubscribe(id Subscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.listeners[id]; !ok {
		return
	}
	delete(d.listeners, id)
	for i, o := range d.order {
		if o == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Broadcast sends an event to all subscribed listeners in
// subscription order.
func (d *EventDispatcher) Broadcast(event Event) {
	d.mu.RLock()
	ls := make([]Listener, 0, len(d.order))
	for _, id := range d.order {
		ls = append(ls, d.listeners[id])
	}
	d.mu.RUnlock()
	for _, l := range ls {
		l.OnEvent(event)
	}
}

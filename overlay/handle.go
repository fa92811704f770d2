// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/handle.go
// Summary: Shared image slot bound by any number of overlay views.

package overlay

import (
	"image"
	"sync"
)

// Handle is a shared, reusable image slot. It is created empty when a
// render cache reserves an entry, populated once by whichever loader
// wins the fetch, and observed by every overlay view bound to it.
// A handle that never gets populated (load failure) simply stays
// empty; views bound to it keep showing their blank placeholder.
type Handle struct {
	mu     sync.Mutex
	key    string
	id     uint32
	img    image.Image
	loaded bool
	subs   []func()
}

// NewHandle creates an empty handle for the given cache key.
func NewHandle(key string) *Handle {
	return &Handle{key: key, id: NextImageID()}
}

// Key returns the cache key the handle was reserved under.
func (h *Handle) Key() string { return h.key }

// ImageID returns the graphics id the handle's pixels transmit under.
// Stable for the handle's lifetime, so every view bound to it shares
// one transmission.
func (h *Handle) ImageID() uint32 { return h.id }

// Loaded reports whether an image has been populated.
func (h *Handle) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// Image returns the populated image, or nil while loading.
func (h *Handle) Image() image.Image {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.img
}

// OnLoad registers fn to run once the handle is populated. If the
// image is already there, fn runs immediately. Callbacks fire on
// whatever goroutine calls Populate; loaders deliver Populate on the
// UI loop so subscribers may touch widgets.
func (h *Handle) OnLoad(fn func()) {
	h.mu.Lock()
	if h.loaded {
		h.mu.Unlock()
		fn()
		return
	}
	h.subs = append(h.subs, fn)
	h.mu.Unlock()
}

// Populate installs the loaded image and notifies subscribers. Only
// the first call wins; later calls are ignored.
func (h *Handle) Populate(img image.Image) {
	h.mu.Lock()
	if h.loaded || img == nil {
		h.mu.Unlock()
		return
	}
	h.img = img
	h.loaded = true
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

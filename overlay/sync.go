// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/sync.go
// Summary: Render-pass orchestration keeping overlays in sync with text.

package overlay

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texemoji/core"
	"github.com/framegrace/texemoji/emoji"
	"github.com/framegrace/texemoji/richtext"
)

// Host is the editable text widget a Synchronizer drives. All methods
// are called from the UI loop.
type Host interface {
	Geometry

	// Text returns the current attributed content.
	Text() richtext.Text
	// SetText installs new content without firing the text-changed
	// event; only user edits fire it.
	SetText(t richtext.Text)

	// Selection and SetSelection expose the caret as a (location,
	// length) range over the character sequence.
	Selection() (loc, length int)
	SetSelection(loc, length int)

	// AddOverlay places a view into the host's overlay container;
	// ClearOverlays tears the container down.
	AddOverlay(v *View)
	ClearOverlays()

	// Events is the host's notification dispatcher. The synchronizer
	// listens for EventTextChanged and EventLayoutChanged.
	Events() *core.EventDispatcher

	// BackgroundStyle is used to background-match overlay views.
	BackgroundStyle() tcell.Style
}

// Runtime bundles the shared services a synchronizer needs. One
// Runtime is typically built at application start and handed to every
// host widget, which is what makes the render cache process-wide.
type Runtime struct {
	Cache     *Cache
	Loader    *Loader
	Scheduler core.Scheduler
	Placer    GraphicsPlacer
}

// Synchronizer re-renders one host's overlay layer after every text
// mutation: rewrite shortcodes to attachments, restore the selection,
// tear down stale overlays and rebuild them from a fresh attachment
// scan. There is exactly one internal render entry point; the public
// configuration call and the change listener both funnel into it, so
// re-entrancy is explicit rather than an accident of notification
// delivery.
type Synchronizer struct {
	mu   sync.Mutex
	host Host
	rt   Runtime

	catalog emoji.Catalog
	opts    emoji.RenderOptions
	delay   time.Duration

	sub        core.Subscription
	subscribed bool
	cancel     func()
	generation uint64
}

// NewSynchronizer builds a synchronizer for host. Call Attach to
// configure it and start syncing.
func NewSynchronizer(host Host, rt Runtime) *Synchronizer {
	return &Synchronizer{host: host, rt: rt}
}

// Attach configures the synchronizer, runs an initial render pass and
// subscribes to the host's change events. Calling Attach again is
// safe: the previous subscription is replaced, never doubled.
func (s *Synchronizer) Attach(cat emoji.Catalog, opts emoji.RenderOptions, delay time.Duration) {
	s.mu.Lock()
	s.catalog = cat
	s.opts = opts
	s.delay = delay
	if s.subscribed {
		s.host.Events().Unsubscribe(s.sub)
	}
	s.sub = s.host.Events().Subscribe(core.ListenerFunc(s.onEvent))
	s.subscribed = true
	s.mu.Unlock()

	s.RenderPass(cat, opts, delay)
}

// Detach unsubscribes from the host and cancels any pending pass.
func (s *Synchronizer) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribed {
		s.host.Events().Unsubscribe(s.sub)
		s.subscribed = false
	}
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Synchronizer) onEvent(ev core.Event) {
	switch ev.Type {
	case core.EventTextChanged, core.EventLayoutChanged:
		s.mu.Lock()
		cat, opts, delay := s.catalog, s.opts, s.delay
		s.mu.Unlock()
		s.RenderPass(cat, opts, delay)
	}
}

// RenderPass runs one full sync cycle. The text rewrite, selection
// restore and overlay teardown happen immediately; the attachment
// scan and overlay rebuild are deferred through the scheduler (by
// delay, or to the next loop tick) so the host's layout settles
// first. A pass scheduled but not yet run is superseded by the next
// one, so rapid edits collapse into a single rebuild against the
// final text.
func (s *Synchronizer) RenderPass(cat emoji.Catalog, opts emoji.RenderOptions, delay time.Duration) {
	loc, length := s.host.Selection()
	old := s.host.Text()
	oldCount := old.CharCount()

	next := richtext.InsertEmojis(old, cat, opts)
	s.host.SetText(next)

	newCount := next.CharCount()
	delta := oldCount - newCount
	loc, length = richtext.ClampSelection(loc-delta, length, newCount)
	s.host.SetSelection(loc, length)

	s.host.ClearOverlays()

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = s.rt.Scheduler.Schedule(func() { s.place(gen, opts) }, delay)
	s.mu.Unlock()
}

// place scans the host's current text and builds one overlay view per
// attachment. It runs on the UI loop; a stale generation means a newer
// pass superseded this one and already tore the overlays down again.
func (s *Synchronizer) place(gen uint64, opts emoji.RenderOptions) {
	s.mu.Lock()
	stale := gen != s.generation
	s.mu.Unlock()
	if stale {
		return
	}

	bg := s.host.BackgroundStyle()
	Scan(s.host.Text(), s.host, func(pl Placement) {
		v := NewView(pl.Rect, bg)
		switch pl.Source.Kind() {
		case emoji.KindCharacter:
			// Glyph text straight into the view; no cache involved.
			v.SetText(pl.Source.Value())
		case emoji.KindImageURL, emoji.KindImageAsset:
			h, reserved := s.rt.Cache.LookupOrReserve(pl.Source)
			if reserved {
				s.rt.Loader.Load(h, pl.Source, opts)
			}
			v.BindHandle(h, s.rt.Placer)
		case emoji.KindAlias:
			// Aliases should have been resolved upstream; an alias
			// surviving to render time draws nothing.
			return
		}
		s.host.AddOverlay(v)
	})
}

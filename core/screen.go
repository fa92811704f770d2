// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/screen.go
// Summary: tcell-backed run loop driving a UIManager and scheduler.

package core

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Screen owns the terminal, the widget tree and the UI loop. All
// widget mutation and scheduled work runs on the goroutine inside Run;
// that goroutine is the "UI-owning thread" the rest of the engine
// assumes.
type Screen struct {
	tcellScreen tcell.Screen
	ui          *UIManager
	sched       *LoopScheduler
	quit        chan struct{}
	refreshChan chan bool
	closeOnce   sync.Once

	// AfterFrame, if set, runs after each Show. Graphics placers use
	// it to emit image escape sequences over the finished frame.
	AfterFrame func()
}

// NewScreen initializes the terminal with tcell.
func NewScreen(ui *UIManager) (*Screen, error) {
	ts, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := ts.Init(); err != nil {
		return nil, err
	}
	ts.SetStyle(tcell.StyleDefault)
	ts.EnableMouse()
	ts.HideCursor()
	return newScreenWith(ts, ui), nil
}

// NewSimulationScreen builds a Screen over a tcell simulation backend
// for tests and headless runs.
func NewSimulationScreen(ui *UIManager, w, h int) (*Screen, error) {
	ts := tcell.NewSimulationScreen("UTF-8")
	if err := ts.Init(); err != nil {
		return nil, err
	}
	ts.SetSize(w, h)
	return newScreenWith(ts, ui), nil
}

func newScreenWith(ts tcell.Screen, ui *UIManager) *Screen {
	s := &Screen{
		tcellScreen: ts,
		ui:          ui,
		sched:       NewLoopScheduler(),
		quit:        make(chan struct{}),
		refreshChan: make(chan bool, 1),
	}
	ui.SetRefreshNotifier(s.refreshChan)
	s.sched.SetWakeNotifier(s.refreshChan)
	return s
}

// Scheduler returns the loop-bound scheduler. Work scheduled through
// it executes on the Run goroutine.
func (s *Screen) Scheduler() *LoopScheduler { return s.sched }

// UI returns the widget manager.
func (s *Screen) UI() *UIManager { return s.ui }

// Run starts the main event and rendering loop.
func (s *Screen) Run() error {
	eventChan := make(chan tcell.Event, 10)
	go func() {
		for {
			select {
			case <-s.quit:
				return
			default:
				ev := s.tcellScreen.PollEvent()
				if ev == nil {
					return
				}
				eventChan <- ev
			}
		}
	}()

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	w, h := s.tcellScreen.Size()
	s.ui.Resize(w, h)

	dirty := true
	for {
		select {
		case ev := <-eventChan:
			s.handleEvent(ev)
			dirty = true
		case <-s.refreshChan:
			dirty = true
		case <-ticker.C:
			if s.sched.RunPending() > 0 {
				dirty = true
			}
			if dirty {
				s.draw()
				dirty = false
			}
		case <-s.quit:
			return nil
		}
	}
}

func (s *Screen) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlQ {
			s.Close()
			return
		}
		s.ui.HandleKey(ev)
	case *tcell.EventMouse:
		s.ui.HandleMouse(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		s.ui.Resize(w, h)
		s.tcellScreen.Sync()
	}
}

// draw executes the final screen update.
func (s *Screen) draw() {
	buf := s.ui.Render()
	for y, row := range buf {
		for x, cell := range row {
			s.tcellScreen.SetContent(x, y, cell.Ch, nil, cell.Style)
		}
	}
	s.tcellScreen.Show()
	if s.AfterFrame != nil {
		s.AfterFrame()
	}
}

// Close shuts down tcell and stops the loop.
func (s *Screen) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.tcellScreen.Fini()
	})
}

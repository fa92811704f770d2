// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/loader.go
// Summary: Fetches and decodes emoji images into shared handles.

package overlay

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	lru "github.com/hashicorp/golang-lru/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"

	"github.com/framegrace/texemoji/core"
	"github.com/framegrace/texemoji/emoji"
)

const defaultFrameCacheSize = 128

// LoaderConfig holds configuration for the image loader.
type LoaderConfig struct {
	// Client performs remote fetches. Defaults to a client with
	// Timeout applied.
	Client *http.Client

	// Timeout bounds one remote fetch. Default: 15s.
	Timeout time.Duration

	// Assets resolves ImageAsset sources. A nil FS makes every asset
	// load fail (silently, per the engine's degrade policy).
	Assets fs.FS

	// Store, when non-nil, is consulted before the network and
	// written through after a successful remote fetch.
	Store *Store

	// CellWidth/CellHeight are the pixel dimensions of one terminal
	// cell; decoded images are scaled to fit. Defaults: 10x20.
	CellWidth  int
	CellHeight int

	// FrameCacheSize bounds the LRU of decoded, scaled frames.
	// Default: 128.
	FrameCacheSize int

	// Scheduler, when non-nil, delivers handle population onto the
	// UI loop. A nil scheduler populates from the fetch goroutine;
	// only tests should run that way.
	Scheduler core.Scheduler
}

// DefaultLoaderConfig returns sensible defaults.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Timeout:        15 * time.Second,
		CellWidth:      10,
		CellHeight:     20,
		FrameCacheSize: defaultFrameCacheSize,
	}
}

// Loader resolves ImageURL and ImageAsset sources into pixels. Fetches
// for the same source are deduplicated with singleflight; decoded and
// scaled frames are kept in a bounded LRU so a cleared render cache
// does not mean re-decoding everything. Load failures are terminal for
// the handle: it stays unpopulated and no retry is attempted.
type Loader struct {
	cfg    LoaderConfig
	client *http.Client
	group  singleflight.Group
	frames *lru.Cache[string, image.Image]
}

// NewLoader builds a loader from cfg, filling zero fields with
// defaults.
func NewLoader(cfg LoaderConfig) *Loader {
	def := DefaultLoaderConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = def.CellWidth
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = def.CellHeight
	}
	if cfg.FrameCacheSize <= 0 {
		cfg.FrameCacheSize = def.FrameCacheSize
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}
	frames, err := lru.New[string, image.Image](cfg.FrameCacheSize)
	if err != nil {
		// Only reachable with a non-positive size, which we fixed up.
		panic(err)
	}
	return &Loader{cfg: cfg, client: cfg.Client, frames: frames}
}

// CellSize returns the pixel size overlays should assume per cell.
func (l *Loader) CellSize() (int, int) { return l.cfg.CellWidth, l.cfg.CellHeight }

// Load asynchronously populates h from src. Fire and forget: errors
// are logged and swallowed, leaving the handle empty.
func (l *Loader) Load(h *Handle, src emoji.Source, opts emoji.RenderOptions) {
	go func() {
		img, err := l.frame(src, opts)
		if err != nil {
			log.Printf("texemoji: load %s: %v", src.Key(), err)
			return
		}
		if l.cfg.Scheduler != nil {
			l.cfg.Scheduler.Schedule(func() { h.Populate(img) }, 0)
			return
		}
		h.Populate(img)
	}()
}

// frame returns the decoded, cell-scaled image for src, via the frame
// LRU and a singleflight group keyed by source identity and quality.
func (l *Loader) frame(src emoji.Source, opts emoji.RenderOptions) (image.Image, error) {
	key := src.Key() + "|" + opts.String()
	if img, ok := l.frames.Get(key); ok {
		return img, nil
	}
	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		raw, err := l.fetch(src)
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		scaled := scaleToCell(img, l.cfg.CellWidth, l.cfg.CellHeight, opts)
		l.frames.Add(key, scaled)
		return scaled, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (l *Loader) fetch(src emoji.Source) ([]byte, error) {
	switch src.Kind() {
	case emoji.KindImageURL:
		return l.fetchURL(src.Value())
	case emoji.KindImageAsset:
		return l.fetchAsset(src.Value())
	}
	return nil, fmt.Errorf("unloadable source kind %s", src.Kind())
}

func (l *Loader) fetchURL(url string) ([]byte, error) {
	if l.cfg.Store != nil {
		if data, ok := l.cfg.Store.Get(url); ok {
			return data, nil
		}
	}
	resp, err := l.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if l.cfg.Store != nil {
		if err := l.cfg.Store.Put(url, data); err != nil {
			log.Printf("texemoji: store %s: %v", url, err)
		}
	}
	return data, nil
}

func (l *Loader) fetchAsset(name string) ([]byte, error) {
	if l.cfg.Assets == nil {
		return nil, fmt.Errorf("asset %s: no asset bundle configured", name)
	}
	data, err := fs.ReadFile(l.cfg.Assets, name)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", name, err)
	}
	return data, nil
}

// scaleToCell fits img into a w x h pixel box, preserving aspect.
func scaleToCell(img image.Image, w, h int, opts emoji.RenderOptions) image.Image {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return img
	}
	dw, dh := w, h
	if b.Dx()*h > b.Dy()*w {
		dh = b.Dy() * w / b.Dx()
	} else {
		dw = b.Dx() * h / b.Dy()
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	var scaler xdraw.Scaler = xdraw.CatmullRom
	if opts == emoji.LowQuality {
		scaler = xdraw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/kitty.go
// Summary: Kitty graphics protocol placement for image overlays.

package overlay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// GraphicsPlacer draws a pixel image over the text grid at a cell
// position and clears it again. Image ids identify pixel data (one per
// shared handle, so the same emoji transmits once per session);
// placement ids identify one on-screen occurrence of it. Production
// use goes through KittyPlacer; tests substitute a recording fake.
type GraphicsPlacer interface {
	Place(img, placement uint32, i image.Image, x, y int)
	Clear(img, placement uint32)
}

var nextGraphicsID uint32

// NextImageID allocates a process-unique graphics id. Handles use it
// for image ids and views for placement ids; the namespaces never
// collide because the counter is shared.
func NextImageID() uint32 { return atomic.AddUint32(&nextGraphicsID, 1) }

// KittyPlacer emits Kitty graphics protocol escape sequences. Pixel
// data is transmitted once per image id and every placement afterwards
// just references it, so rebuilding overlays each render pass does not
// re-send the image.
type KittyPlacer struct {
	mu          sync.Mutex
	out         io.Writer
	transmitted map[uint32]bool
}

// NewKittyPlacer writes to out; NewStdoutKittyPlacer targets the
// terminal the application runs in.
func NewKittyPlacer(out io.Writer) *KittyPlacer {
	return &KittyPlacer{out: out, transmitted: make(map[uint32]bool)}
}

func NewStdoutKittyPlacer() *KittyPlacer { return NewKittyPlacer(os.Stdout) }

// Place positions img's pixels at cell (x, y), transmitting them first
// if this image id has not been sent yet.
func (k *KittyPlacer) Place(img, placement uint32, i image.Image, x, y int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	var sb bytes.Buffer
	if !k.transmitted[img] {
		seq, err := imageToKittySequence(i, img)
		if err != nil {
			log.Printf("texemoji: kitty encode %d: %v", img, err)
			return
		}
		sb.WriteString(seq)
		k.transmitted[img] = true
	}
	sb.WriteString("\x1b[s") // save cursor
	fmt.Fprintf(&sb, "\x1b[%d;%dH", y+1, x+1)
	fmt.Fprintf(&sb, "\x1b_Ga=p,i=%d,p=%d,C=1\x1b\\", img, placement)
	sb.WriteString("\x1b[u") // restore cursor
	k.out.Write(sb.Bytes())
}

// Clear deletes one placement. The transmitted pixel data stays on the
// terminal so the next render pass can re-place it by reference.
func (k *KittyPlacer) Clear(img, placement uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	fmt.Fprintf(k.out, "\x1b_Ga=d,d=i,i=%d,p=%d\x1b\\", img, placement)
}

// imageToKittySequence converts an image to a Kitty transmit-only
// sequence (PNG payload; placement happens separately).
func imageToKittySequence(i image.Image, id uint32) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, i); err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("\x1b_Gi=%d,a=t,f=100;%s\x1b\\", id, encoded), nil
}

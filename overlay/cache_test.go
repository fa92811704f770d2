package overlay

import (
	"sync"
	"testing"

	"github.com/framegrace/texemoji/emoji"
)

func TestCacheLookupOrReserve(t *testing.T) {
	c := NewCache()
	src := emoji.ImageURL("https://e/x.png")

	h1, reserved := c.LookupOrReserve(src)
	if !reserved {
		t.Fatal("first lookup did not reserve")
	}
	if h1 == nil {
		t.Fatal("nil handle on reserve")
	}

	h2, reserved := c.LookupOrReserve(src)
	if reserved {
		t.Fatal("second lookup reserved again")
	}
	if h2 != h1 {
		t.Fatal("same source produced different handles")
	}
	if c.Len() != 1 {
		t.Fatalf("cache len %d", c.Len())
	}
}

func TestCacheVariantsDoNotCollide(t *testing.T) {
	c := NewCache()
	c.LookupOrReserve(emoji.ImageURL("x"))
	_, reserved := c.LookupOrReserve(emoji.ImageAsset("x"))
	if !reserved {
		t.Fatal("asset collided with url of same value")
	}
}

func TestCacheReserveIsAtomic(t *testing.T) {
	c := NewCache()
	src := emoji.ImageURL("https://e/y.png")

	const n = 32
	var wg sync.WaitGroup
	reservations := make(chan bool, n)
	handles := make(chan *Handle, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, r := c.LookupOrReserve(src)
			reservations <- r
			handles <- h
		}()
	}
	wg.Wait()
	close(reservations)
	close(handles)

	won := 0
	for r := range reservations {
		if r {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("%d goroutines won the reservation", won)
	}
	var first *Handle
	for h := range handles {
		if first == nil {
			first = h
		} else if h != first {
			t.Fatal("handles diverged under contention")
		}
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	src := emoji.ImageAsset("a.png")
	h1, _ := c.LookupOrReserve(src)
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("len %d after clear", c.Len())
	}
	h2, reserved := c.LookupOrReserve(src)
	if !reserved || h2 == h1 {
		t.Fatal("clear did not drop the entry")
	}
}

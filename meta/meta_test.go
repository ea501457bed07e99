/*
NAME
  meta_test.go

DESCRIPTION
  meta_test.go provides testing of the stream metadata cache.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package meta

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// tstContext is a minimal klv.Context for cache testing.
type tstContext struct {
	sum uint16
}

func (c tstContext) Checksum() (uint16, bool) { return c.sum, true }

// tstClock is a manually advanced clock standing in for time.Now.
type tstClock struct {
	t time.Time
}

func (c *tstClock) now() time.Time { return c.t }

func (c *tstClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestCache returns a cache on a manual clock.
func newTestCache() (*Cache, *tstClock) {
	clk := &tstClock{t: time.Unix(1700000000, 0)}
	c := NewCache()
	c.now = clk.now
	return c, clk
}

// TestPostAndGet checks that a posted entry can be read back with its
// properties, including the stream ID property set by the cache.
func TestPostAndGet(t *testing.T) {
	c, _ := newTestCache()
	c.Post("A", map[string]string{"sensor": "imx477"}, tstContext{sum: 1})

	e, ok := c.GetByStreamID("A")
	if !ok {
		t.Fatal("could not get entry for stream A")
	}
	want := map[string]string{"sensor": "imx477", StreamIDKey: "A"}
	if !cmp.Equal(e.Properties, want) {
		t.Errorf("unexpected properties: %v", cmp.Diff(e.Properties, want))
	}
	if e.Context != (tstContext{sum: 1}) {
		t.Errorf("unexpected context: %v", e.Context)
	}
}

// TestGetIdempotent checks that repeated reads before expiry return an
// unchanged result.
func TestGetIdempotent(t *testing.T) {
	c, clk := newTestCache()
	c.Post("A", nil, tstContext{sum: 7})

	first, ok := c.GetByStreamID("A")
	if !ok {
		t.Fatal("could not get entry for stream A")
	}
	clk.advance(Expiry / 2)
	second, ok := c.GetByStreamID("A")
	if !ok {
		t.Fatal("entry expired early")
	}
	if !cmp.Equal(first.Properties, second.Properties) || first.Context != second.Context {
		t.Error("repeated reads returned differing entries")
	}
}

// TestReplaceWholesale checks that a second post for the same stream fully
// replaces the entry, leaving no property of the first visible.
func TestReplaceWholesale(t *testing.T) {
	c, _ := newTestCache()
	c.Post("A", map[string]string{"old": "1"}, tstContext{sum: 1})
	c.Post("A", map[string]string{"new": "2"}, tstContext{sum: 2})

	e, ok := c.GetByStreamID("A")
	if !ok {
		t.Fatal("could not get entry for stream A")
	}
	if _, ok := e.Properties["old"]; ok {
		t.Error("property of replaced entry still visible")
	}
	if e.Context != (tstContext{sum: 2}) {
		t.Errorf("got context %v, want replacement context", e.Context)
	}
}

// TestExpiry checks that an entry not refreshed within Expiry is invisible
// to every read operation.
func TestExpiry(t *testing.T) {
	c, clk := newTestCache()
	c.Post("A", map[string]string{"k": "v"}, tstContext{})

	clk.advance(Expiry + time.Millisecond)

	if _, ok := c.GetByStreamID("A"); ok {
		t.Error("expired entry returned by GetByStreamID")
	}
	if got := c.All(); len(got) != 0 {
		t.Errorf("expired entry returned by All: %v", got)
	}
	if got := c.WithProperty("k"); len(got) != 0 {
		t.Errorf("expired entry returned by WithProperty: %v", got)
	}
	if got := c.WithPropertyEqual("k", "v"); len(got) != 0 {
		t.Errorf("expired entry returned by WithPropertyEqual: %v", got)
	}
}

// TestRefreshSequence reproduces two writes for one stream 2.5 s apart: a
// read between the writes sees the first entry, and a read after the second
// write sees only the second entry.
func TestRefreshSequence(t *testing.T) {
	c, clk := newTestCache()
	c.Post("A", map[string]string{"n": "1"}, tstContext{sum: 1})

	clk.advance(time.Second)
	e, ok := c.GetByStreamID("A")
	if !ok {
		t.Fatal("entry absent 1s after first write")
	}
	if e.Properties["n"] != "1" {
		t.Errorf("got entry %v, want first write", e.Properties)
	}

	clk.advance(1500 * time.Millisecond)
	c.Post("A", map[string]string{"n": "2"}, tstContext{sum: 2})

	e, ok = c.GetByStreamID("A")
	if !ok {
		t.Fatal("entry absent immediately after second write")
	}
	if e.Properties["n"] != "2" {
		t.Errorf("got entry %v, want second write", e.Properties)
	}
}

// TestQueries checks the property query operations over multiple live
// entries, and that results come back in stream ID order.
func TestQueries(t *testing.T) {
	c, _ := newTestCache()
	c.Post("B", map[string]string{"sensor": "imx477"}, tstContext{})
	c.Post("A", map[string]string{"sensor": "imx219", "gps": "locked"}, tstContext{})
	c.Post("C", nil, tstContext{})

	ids := func(es []Entry) []string {
		var r []string
		for _, e := range es {
			r = append(r, e.StreamID)
		}
		return r
	}

	if got, want := ids(c.All()), []string{"A", "B", "C"}; !cmp.Equal(got, want) {
		t.Errorf("All: got %v, want %v", got, want)
	}
	if got, want := ids(c.WithProperty("sensor")), []string{"A", "B"}; !cmp.Equal(got, want) {
		t.Errorf("WithProperty: got %v, want %v", got, want)
	}
	if got, want := ids(c.WithPropertyEqual("sensor", "imx477")), []string{"B"}; !cmp.Equal(got, want) {
		t.Errorf("WithPropertyEqual: got %v, want %v", got, want)
	}
	if got := c.WithPropertyEqual("gps", ""); len(got) != 0 {
		t.Errorf("WithPropertyEqual matched on value absence: %v", got)
	}
}

// TestConcurrentAccess exercises simultaneous writers and readers; the race
// detector will flag any unguarded access.
func TestConcurrentAccess(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Post(id, map[string]string{"n": id}, tstContext{})
			}
		}(string(rune('A' + i)))
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.GetByStreamID(id)
				c.All()
			}
		}(string(rune('A' + i)))
	}
	wg.Wait()
}

package cache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sandrolain/lispc/pkg/cache"
	"github.com/sandrolain/lispc/pkg/types"
)

func TestCacheNew(t *testing.T) {
	c := cache.New(10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if got := c.Capacity(); got != cache.DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", cache.DefaultCapacity, got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	c.Set("(+ 1 2)", types.Success("program"))
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, ok := c.Get("(+ 1 2)")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Output != "program" {
		t.Fatalf("expected cached output, got %q", got.Output)
	}
}

func TestCacheStoresFailures(t *testing.T) {
	c := cache.New(4)
	fail := types.Failure(types.NewError(types.ErrArity, "Subtract expects 2 operands, got 1", 1))
	c.Set("(- 1)", fail)
	got, ok := c.Get("(- 1)")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.OK() || got.Err.Code != types.ErrArity {
		t.Fatalf("expected cached arity failure, got %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := cache.New(4)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c", "d"} {
		c.Set(k, types.Success(k))
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal(`expected "a" to be evicted (LRU)`)
	}
	if _, ok := c.Get("d"); !ok {
		t.Fatal(`expected most-recently-inserted "d" to survive`)
	}
}

func TestCacheGetPromotes(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, types.Success(k))
	}
	c.Get("a")
	c.Set("d", types.Success("d"))
	if _, ok := c.Get("a"); !ok {
		t.Fatal(`expected recently read "a" to survive`)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal(`expected "b" to be evicted`)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := cache.New(4)
	c.Set("k", types.Success("x"))
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Invalidate")
	}
}

func TestCacheClear(t *testing.T) {
	c := cache.New(4)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, types.Success(k))
	}
	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected 0 after Clear, got %d", got)
	}
}

func TestCacheGetOrCompute(t *testing.T) {
	c := cache.New(4)
	callCount := 0
	compute := func() types.Outcome {
		callCount++
		return types.Success("program")
	}

	out1 := c.GetOrCompute("(+ 1 2)", compute)
	if callCount != 1 {
		t.Fatalf("expected 1 compute call, got %d", callCount)
	}
	out2 := c.GetOrCompute("(+ 1 2)", compute)
	if callCount != 1 {
		t.Fatalf("expected still 1 call (cached), got %d", callCount)
	}
	if out1.Output != out2.Output {
		t.Fatal("expected same output from cache")
	}
}

func TestCacheSetUpdate(t *testing.T) {
	c := cache.New(4)
	c.Set("k", types.Success("first"))
	c.Set("k", types.Success("second")) // overwrite
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit after overwrite")
	}
	if got.Output != "second" {
		t.Fatalf("expected updated output, got %q", got.Output)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", c.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := cache.New(16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("(+ %d %d)", g, i%32)
				out := c.GetOrCompute(key, func() types.Outcome { return types.Success(key) })
				if out.Output != key {
					t.Errorf("key %q: got %q", key, out.Output)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > c.Capacity() {
		t.Fatalf("Len %d exceeds capacity %d", c.Len(), c.Capacity())
	}
}

package resource

import (
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	handle, err := b.Create(1, "test value")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	typeID, ok := b.TypeID(handle)
	if !ok || typeID != 1 {
		t.Fatalf("TypeID = %d, %v; want 1, true", typeID, ok)
	}

	val, ok = b.Drop(handle)
	if !ok {
		t.Fatal("Drop failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	if _, ok = b.Get(handle); ok {
		t.Fatal("Expected Get to fail after Drop")
	}
	if _, ok = b.Drop(handle); ok {
		t.Fatal("Expected second Drop to fail")
	}
}

func TestLocalBackend_Borrow(t *testing.T) {
	b := NewLocalBackend()

	handle, _ := b.Create(1, "v")

	if !b.Borrow(handle) {
		t.Fatal("Borrow failed")
	}
	if !b.Borrowed(handle) {
		t.Fatal("Borrowed should report true")
	}

	if _, ok := b.Drop(handle); ok {
		t.Fatal("Drop should fail with outstanding borrow")
	}

	if !b.ReturnBorrow(handle) {
		t.Fatal("ReturnBorrow failed")
	}
	if b.ReturnBorrow(handle) {
		t.Fatal("ReturnBorrow without borrow should fail")
	}

	if _, ok := b.Drop(handle); !ok {
		t.Fatal("Drop should succeed after borrow returned")
	}
	if b.Borrow(handle) {
		t.Fatal("Borrow of dropped handle should fail")
	}
}

func TestLocalBackend_MultipleBorrows(t *testing.T) {
	b := NewLocalBackend()
	handle, _ := b.Create(1, "v")

	b.Borrow(handle)
	b.Borrow(handle)
	b.ReturnBorrow(handle)

	if _, ok := b.Drop(handle); ok {
		t.Fatal("Drop should fail with one borrow still outstanding")
	}

	b.ReturnBorrow(handle)
	if _, ok := b.Drop(handle); !ok {
		t.Fatal("Drop should succeed")
	}
}

func TestLocalBackend_StaleHandleAfterReuse(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create(1, "first")
	b.Drop(h1)

	h2, _ := b.Create(1, "second")
	if h2 == h1 {
		t.Fatal("Reused slot must produce a different handle")
	}
	if h1.slot() != h2.slot() {
		t.Fatalf("Expected slot reuse, got %d and %d", h1.slot(), h2.slot())
	}

	if _, ok := b.Get(h1); ok {
		t.Fatal("Stale handle must not resolve to the new resource")
	}
	if _, ok := b.Drop(h1); ok {
		t.Fatal("Stale handle must not drop the new resource")
	}

	val, ok := b.Get(h2)
	if !ok || val != "second" {
		t.Fatalf("Get(h2) = %v, %v", val, ok)
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h, err := b.Create(1, i*1000+j)
				if err != nil {
					t.Errorf("Create failed: %v", err)
					return
				}
				if v, ok := b.Get(h); !ok || v != i*1000+j {
					t.Errorf("Get(%d) = %v, %v", h, v, ok)
					return
				}
				b.Drop(h)
			}
		}(i)
	}
	wg.Wait()

	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend()

	h1, _ := b.Create(1, "a")
	b.Create(1, "b")
	b.Create(2, "c")

	if b.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", b.Len())
	}

	b.Drop(h1)
	if b.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", b.Len())
	}
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend()
	b.Create(1, "a")
	h, _ := b.Create(1, "b")
	b.Create(1, "c")
	b.Drop(h)

	var seen []any
	b.Each(func(h Handle, typeID uint32, v any) bool {
		seen = append(seen, v)
		return true
	})
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "c" {
		t.Fatalf("Each saw %v", seen)
	}

	count := 0
	b.Each(func(Handle, uint32, any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Each should stop early, visited %d", count)
	}
}

func TestLocalBackend_InvalidHandle(t *testing.T) {
	b := NewLocalBackend()

	for _, h := range []Handle{0, 1, 999, makeHandle(5, 3)} {
		if _, ok := b.Get(h); ok {
			t.Errorf("Get(%d) should fail", h)
		}
		if _, ok := b.Drop(h); ok {
			t.Errorf("Drop(%d) should fail", h)
		}
		if b.Borrow(h) {
			t.Errorf("Borrow(%d) should fail", h)
		}
	}
}

package malloc

import "testing"
import "unsafe"

func chainlength(head unsafe.Pointer) (n int64) {
	for blk := head; blk != nil; blk = nextblock(blk) {
		n++
	}
	return n
}

func TestCentralFetchrange(t *testing.T) {
	cc := newCentralcache(newPagecache(&sysmapper{}), Spanpages)

	// reject bad arguments.
	if head := cc.fetchrange(Freelistsize, 1); head != nil {
		t.Errorf("expected nil for out of range index")
	}
	if head := cc.fetchrange(0, 0); head != nil {
		t.Errorf("expected nil for zero batch")
	}

	// empty list carves a span and hands out exactly the batch.
	head := cc.fetchrange(0, 64) // 8-byte blocks
	if head == nil {
		t.Fatalf("unexpected nil chain")
	}
	if n := chainlength(head); n != 64 {
		t.Errorf("expected %v blocks, got %v", 64, n)
	}
	// blocks are carved contiguously from the span base.
	second := nextblock(head)
	if x := uintptr(second) - uintptr(head); x != 8 {
		t.Errorf("expected %v stride, got %v", 8, x)
	}
	if _, _, mapped := cc.pages.Info(); mapped != Spanpages {
		t.Errorf("expected %v mapped pages, got %v", Spanpages, mapped)
	}

	// the remainder of the span services the next fetch without a
	// new mapping.
	head = cc.fetchrange(0, 64)
	if n := chainlength(head); n != 64 {
		t.Errorf("expected %v blocks, got %v", 64, n)
	}
	if _, _, mapped := cc.pages.Info(); mapped != Spanpages {
		t.Errorf("expected %v mapped pages, got %v", Spanpages, mapped)
	}
	cc.pages.release()
}

func TestCentralShortlist(t *testing.T) {
	cc := newCentralcache(newPagecache(&sysmapper{}), Spanpages)

	index := Blockindex(4096) // 8 blocks per span
	if head := cc.fetchrange(index, 1); chainlength(head) != 1 {
		t.Fatalf("unexpected chain")
	}
	// seven blocks remain, a larger batch drains them all.
	head := cc.fetchrange(index, 100)
	if n := chainlength(head); n != 7 {
		t.Errorf("expected %v blocks, got %v", 7, n)
	}
	// list is dry now, next fetch maps a fresh span.
	if head := cc.fetchrange(index, 1); chainlength(head) != 1 {
		t.Errorf("unexpected chain")
	}
	if _, _, mapped := cc.pages.Info(); mapped != 2*Spanpages {
		t.Errorf("expected %v mapped pages, got %v", 2*Spanpages, mapped)
	}
	cc.pages.release()
}

func TestCentralReturnrange(t *testing.T) {
	cc := newCentralcache(newPagecache(&sysmapper{}), Spanpages)

	head := cc.fetchrange(1, 4) // 16-byte blocks
	if n := chainlength(head); n != 4 {
		t.Fatalf("expected %v blocks, got %v", 4, n)
	}
	cc.returnrange(head, 4, 1)

	// LIFO, the returned head comes back first.
	again := cc.fetchrange(1, 2)
	if uintptr(again) != uintptr(head) {
		t.Errorf("expected %x, got %x", uintptr(head), uintptr(again))
	}
	if n := chainlength(again); n != 2 {
		t.Errorf("expected %v blocks, got %v", 2, n)
	}

	// nil head and out of range index are ignored.
	cc.returnrange(nil, 1, 1)
	cc.returnrange(again, 2, Freelistsize)
	cc.pages.release()
}

func TestCentralLargeclass(t *testing.T) {
	cc := newCentralcache(newPagecache(&sysmapper{}), Spanpages)

	// block larger than a default span maps just enough pages for
	// one block.
	index := Blockindex(Maxbytes)
	head := cc.fetchrange(index, 1)
	if head == nil {
		t.Fatalf("unexpected nil chain")
	}
	if n := chainlength(head); n != 1 {
		t.Errorf("expected %v block, got %v", 1, n)
	}
	refpages := Maxbytes / Pagesize
	if _, _, mapped := cc.pages.Info(); mapped != refpages {
		t.Errorf("expected %v mapped pages, got %v", refpages, mapped)
	}
	cc.pages.release()
}

func TestCentralDenied(t *testing.T) {
	cc := newCentralcache(newPagecache(&failmapper{}), Spanpages)
	if head := cc.fetchrange(0, 8); head != nil {
		t.Errorf("expected nil when the OS denies memory")
	}
	// the size-class lock is free again after the failure.
	if head := cc.fetchrange(0, 8); head != nil {
		t.Errorf("expected nil when the OS denies memory")
	}
}

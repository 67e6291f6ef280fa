// Package arena provides the linear allocator that owns every AST node and
// string produced by a parse.
//
// Memory is handed out from large pages with a bump cursor and is never freed
// per object. The only teardown operation is Release, which drops every page at
// once; nothing allocated from an Allocator may be used after that.
package arena

import (
	"fmt"
	"reflect"
	"unsafe"
)

// DefaultPageSize is the size of a byte page when no pool is configured.
const DefaultPageSize = 64 * 1024

// slabLen is the number of objects per typed slab page.
const slabLen = 64

// Allocator is a page-based bump allocator.
type Allocator struct {
	pageSize int
	pool     *PagePool

	pages [][]byte
	cur   []byte
	off   int

	// pooled are the pages taken from pool, owed back on Release.
	pooled [][]byte

	slabs    map[reflect.Type]slabber
	used     int
	released bool
}

// slabber is implemented by every typed slab so Release and Stats can
// reach them without knowing T.
type slabber interface {
	objects() int
	drop()
}

type slab[T any] struct {
	pages [][]T
	n     int
	count int
}

func (s *slab[T]) objects() int { return s.count }

func (s *slab[T]) drop() {
	s.pages = nil
	s.n = 0
	s.count = 0
}

// Stats describes the memory held by an allocator.
type Stats struct {
	Pages     int
	BytesUsed int
	Objects   int
}

// NewAllocator creates an allocator with private pages of DefaultPageSize.
func NewAllocator() *Allocator {
	return &Allocator{
		pageSize: DefaultPageSize,
		slabs:    make(map[reflect.Type]slabber),
	}
}

// NewAllocatorWithPool creates an allocator whose byte pages come from pool.
// Pages go back to the pool on Release.
func NewAllocatorWithPool(pool *PagePool) *Allocator {
	a := NewAllocator()
	a.pool = pool
	a.pageSize = pool.PageSize()
	return a
}

// Alloc returns size bytes aligned to align. It never fails; running out of
// memory is fatal in the Go runtime.
func (a *Allocator) Alloc(size, align int) []byte {
	a.mustBeLive()
	if align <= 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}
	if size < 0 {
		panic(fmt.Sprintf("arena: negative allocation size %d", size))
	}

	if size > a.pageSize {
		return a.dedicated(size, align)
	}

	start := alignUp(a.cursorAddr(), align) - a.baseAddr()
	if a.cur == nil || start+size > len(a.cur) {
		a.newPage()
		start = alignUp(a.cursorAddr(), align) - a.baseAddr()
		if start+size > len(a.cur) {
			return a.dedicated(size, align)
		}
	}
	a.off = start + size
	a.used += size
	return a.cur[start:a.off:a.off]
}

// Strdup copies text into arena memory. The returned string shares the
// allocator's lifetime.
func (a *Allocator) Strdup(text string) string {
	if text == "" {
		return ""
	}
	buf := a.Alloc(len(text), 1)
	copy(buf, text)
	return unsafe.String(&buf[0], len(buf))
}

// New returns a pointer to a zeroed T owned by a.
func New[T any](a *Allocator) *T {
	a.mustBeLive()
	key := reflect.TypeFor[T]()
	s, ok := a.slabs[key].(*slab[T])
	if !ok {
		s = &slab[T]{}
		a.slabs[key] = s
	}
	if len(s.pages) == 0 || s.n == slabLen {
		s.pages = append(s.pages, make([]T, slabLen))
		s.n = 0
	}
	obj := &s.pages[len(s.pages)-1][s.n]
	s.n++
	s.count++
	return obj
}

// Release drops every page. Pages obtained from a pool are returned to it.
func (a *Allocator) Release() {
	if a.released {
		return
	}
	for _, page := range a.pooled {
		a.pool.put(page)
	}
	for _, s := range a.slabs {
		s.drop()
	}
	a.pages = nil
	a.pooled = nil
	a.cur = nil
	a.off = 0
	a.slabs = nil
	a.used = 0
	a.released = true
}

// Stats reports the current usage of the allocator.
func (a *Allocator) Stats() Stats {
	st := Stats{Pages: len(a.pages), BytesUsed: a.used}
	for _, s := range a.slabs {
		st.Objects += s.objects()
	}
	return st
}

func (a *Allocator) newPage() {
	var page []byte
	if a.pool != nil {
		page = a.pool.get()
		a.pooled = append(a.pooled, page)
	} else {
		page = make([]byte, a.pageSize)
	}
	a.pages = append(a.pages, page)
	a.cur = page
	a.off = 0
}

// dedicated serves a request from its own page so the current page keeps
// its cursor.
func (a *Allocator) dedicated(size, align int) []byte {
	page := make([]byte, size+align-1)
	a.pages = append(a.pages, page)
	a.used += size
	if size == 0 {
		return page[:0:0]
	}
	base := int(uintptr(unsafe.Pointer(&page[0])))
	start := alignUp(base, align) - base
	return page[start : start+size : start+size]
}

func (a *Allocator) baseAddr() int {
	if len(a.cur) == 0 {
		return 0
	}
	return int(uintptr(unsafe.Pointer(&a.cur[0])))
}

func (a *Allocator) cursorAddr() int {
	return a.baseAddr() + a.off
}

func (a *Allocator) mustBeLive() {
	if a.released {
		panic("arena: allocator used after Release")
	}
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}

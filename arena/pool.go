package arena

import "sync"

// PagePool shares byte pages between allocators that may live on different
// goroutines. It is the only locked structure in the compiler; allocators
// built with NewAllocator never touch it.
type PagePool struct {
	mu       sync.Mutex
	pageSize int
	free     [][]byte
	inUse    int
}

// NewPagePool creates a pool of pages of pageSize bytes. A non-positive
// size selects DefaultPageSize.
func NewPagePool(pageSize int) *PagePool {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &PagePool{pageSize: pageSize}
}

// PageSize returns the size of the pages handed out by the pool.
func (p *PagePool) PageSize() int {
	return p.pageSize
}

// InUse returns the number of pages currently held by allocators.
func (p *PagePool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// Free returns the number of pages waiting for reuse.
func (p *PagePool) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

func (p *PagePool) get() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse++
	if n := len(p.free); n > 0 {
		page := p.free[n-1]
		p.free = p.free[:n-1]
		clear(page)
		return page
	}
	return make([]byte, p.pageSize)
}

// put takes back a page handed out by get.
func (p *PagePool) put(page []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inUse--
	p.free = append(p.free, page)
}

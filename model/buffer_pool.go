package model

import "sync"

// bufferToPool returns a retired generation buffer to the pool for reuse
func bufferToPool(buf []Cell, pool *BufferPool) {
	if pool == nil {
		return
	}

	pool.Put(buf)
}

// BufferPool recycles generation buffers between ticks
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new([]Cell)
			},
		},
	}
}

// Get retrieves a buffer of exactly size cells. Contents are unspecified.
func (p *BufferPool) Get(size int) []Cell {
	buf := p.pool.Get().(*[]Cell)
	if cap(*buf) < size {
		return make([]Cell, size)
	}
	return (*buf)[:size]
}

// Put returns a buffer to the pool
func (p *BufferPool) Put(buf []Cell) {
	p.pool.Put(&buf)
}

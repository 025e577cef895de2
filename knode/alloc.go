package knode

// DataAllocator hands out node data instances. Alloc returns a pointer to a
// zeroed value.
type DataAllocator interface {
	Alloc() any
	Free(p any)
	Live() int
}

const slabSize = 64

type slabAllocator[T any] struct {
	slabs [][]T
	next  int
	free  []*T
	live  int
}

func (a *slabAllocator[T]) Alloc() any {
	a.live++
	if n := len(a.free); n > 0 {
		p := a.free[n-1]
		a.free = a.free[:n-1]
		return p
	}
	if len(a.slabs) == 0 || a.next == slabSize {
		a.slabs = append(a.slabs, make([]T, slabSize))
		a.next = 0
	}
	p := &a.slabs[len(a.slabs)-1][a.next]
	a.next++
	return p
}

func (a *slabAllocator[T]) Free(p any) {
	t := p.(*T)
	var zero T
	*t = zero
	a.free = append(a.free, t)
	a.live--
}

func (a *slabAllocator[T]) Live() int { return a.live }

type managedAllocator[T any] struct {
	live int
}

func (a *managedAllocator[T]) Alloc() any {
	a.live++
	return new(T)
}

func (a *managedAllocator[T]) Free(any) { a.live-- }

func (a *managedAllocator[T]) Live() int { return a.live }

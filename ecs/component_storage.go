package ecs

import (
	"iter"
	"math/bits"
)

const (
	genericBlockSize = 64
)

// componentBlock is a fixed run of slots plus an occupancy bitmap.
// Blocks are heap allocated individually so pointers handed out by Get
// stay valid when the column grows.
type componentBlock[T any] struct {
	items  [genericBlockSize]T
	filled uint64
}

// genericComponentStorage is the column implementation for kind T.
type genericComponentStorage[T any] struct {
	blocks []*componentBlock[T]
	count  int
}

func (cs *genericComponentStorage[T]) block(index int, grow bool) *componentBlock[T] {
	if index < 0 {
		return nil
	}
	blockIdx := index / genericBlockSize
	for grow && blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, nil)
	}
	if blockIdx >= len(cs.blocks) {
		return nil
	}
	if cs.blocks[blockIdx] == nil && grow {
		cs.blocks[blockIdx] = &componentBlock[T]{}
	}
	return cs.blocks[blockIdx]
}

// Set stores item at index, overwriting any previous value.
// Returns false when item is neither a T nor a *T.
func (cs *genericComponentStorage[T]) Set(index int, item any) bool {
	var concreteItem T
	if ptr, ok := item.(*T); ok && ptr != nil {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		return false
	}

	b := cs.block(index, true)
	if b == nil {
		return false
	}
	slotIdx := index % genericBlockSize
	bit := uint64(1) << slotIdx
	if b.filled&bit == 0 {
		cs.count++
	}
	b.items[slotIdx] = concreteItem
	b.filled |= bit
	return true
}

// Get returns a pointer to the component at index, or nil.
func (cs *genericComponentStorage[T]) Get(index int) any {
	b := cs.block(index, false)
	if b == nil {
		return nil
	}
	slotIdx := index % genericBlockSize
	if b.filled&(uint64(1)<<slotIdx) == 0 {
		return nil
	}
	return &b.items[slotIdx]
}

// Delete clears the slot at index.
func (cs *genericComponentStorage[T]) Delete(index int) {
	b := cs.block(index, false)
	if b == nil {
		return
	}
	slotIdx := index % genericBlockSize
	bit := uint64(1) << slotIdx
	if b.filled&bit != 0 {
		var zero T
		b.items[slotIdx] = zero
		b.filled &^= bit
		cs.count--
	}
}

// Has checks if a component exists at the given index.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	b := cs.block(index, false)
	if b == nil {
		return false
	}
	return b.filled&(uint64(1)<<(index%genericBlockSize)) != 0
}

// Len returns the number of occupied slots.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}

// Iter yields occupied slot indices in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for blockIdx, b := range cs.blocks {
			if b == nil {
				continue
			}
			filled := b.filled
			for filled != 0 {
				slotIdx := bits.TrailingZeros64(filled)
				if !yield(blockIdx*genericBlockSize + slotIdx) {
					return
				}
				filled &= filled - 1
			}
		}
	}
}

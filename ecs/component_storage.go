package ecs

import (
	"iter"
	"reflect"
)

// componentStorage is a type-erased column of one component type.
type componentStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to storage factories. Each Storage
// owns one, so independent worlds never share registrations.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStorage
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStorage),
	}
}

// RegisterComponent registers T. Spawning an unregistered type panics.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() componentStorage {
		return &blockStorage[T]{}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStorage {
	return r.factories[t]
}

const blockSize = 64

// blockStorage keeps components in fixed-size heap blocks so that pointers
// handed out by Get stay valid when the column grows.
type blockStorage[T any] struct {
	blocks    []*[blockSize]T
	filled    []*[blockSize]bool
	freeSlots []int
	nextIndex int
}

func (bs *blockStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(bs.freeSlots); n > 0 {
		index = bs.freeSlots[n-1]
		bs.freeSlots = bs.freeSlots[:n-1]
	} else {
		index = bs.nextIndex
		bs.nextIndex++
		if index/blockSize >= len(bs.blocks) {
			bs.blocks = append(bs.blocks, new([blockSize]T))
			bs.filled = append(bs.filled, new([blockSize]bool))
		}
	}

	bs.blocks[index/blockSize][index%blockSize] = value
	bs.filled[index/blockSize][index%blockSize] = true
	return index
}

func (bs *blockStorage[T]) Get(index int) any {
	if !bs.Has(index) {
		return nil
	}
	return &bs.blocks[index/blockSize][index%blockSize]
}

func (bs *blockStorage[T]) Delete(index int) {
	if !bs.Has(index) {
		return
	}
	var zero T
	bs.blocks[index/blockSize][index%blockSize] = zero
	bs.filled[index/blockSize][index%blockSize] = false
	bs.freeSlots = append(bs.freeSlots, index)
}

func (bs *blockStorage[T]) Has(index int) bool {
	if index < 0 || index/blockSize >= len(bs.filled) {
		return false
	}
	return bs.filled[index/blockSize][index%blockSize]
}

func (bs *blockStorage[T]) Len() int {
	return bs.nextIndex - len(bs.freeSlots)
}

func (bs *blockStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < bs.nextIndex; i++ {
			if bs.filled[i/blockSize][i%blockSize] && !yield(i) {
				return
			}
		}
	}
}
